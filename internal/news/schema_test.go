package news

import (
	"testing"

	"github.com/hillview-school/school-cms/pkg/db/models"
)

func TestSchemaDefaults(t *testing.T) {
	schema := Schema()
	if err := schema.Validate(); err != nil {
		t.Fatalf("schema invalid: %v", err)
	}

	var n models.News
	for _, f := range schema.Fields {
		if f.Default == "" {
			continue
		}
		if err := f.Assign(&n, f.Default); err != nil {
			t.Fatalf("default for %s rejected: %v", f.Key, err)
		}
	}
	if n.Author != DefaultAuthor || n.Category != "general" {
		t.Fatalf("unexpected defaults %+v", n)
	}
}
