package staff

import (
	"testing"

	"github.com/hillview-school/school-cms/pkg/db/models"
)

func TestSchemaOrdersByDisplayOrder(t *testing.T) {
	schema := Schema()
	if err := schema.Validate(); err != nil {
		t.Fatalf("schema invalid: %v", err)
	}
	if schema.Order != "display_order ASC, name ASC, id ASC" {
		t.Fatalf("unexpected order %q", schema.Order)
	}
	if got := schema.Title(&models.StaffMember{Name: "Jane Wanjiru"}); got != "Jane Wanjiru" {
		t.Fatalf("expected name as title, got %q", got)
	}
}
