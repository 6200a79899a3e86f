package documents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hillview-school/school-cms/internal/assets"
	"github.com/hillview-school/school-cms/internal/content"
	"github.com/hillview-school/school-cms/internal/content/contenttest"
	pkgerrors "github.com/hillview-school/school-cms/pkg/errors"
)

func TestSchemaIsServable(t *testing.T) {
	schema := Schema()
	require.NoError(t, schema.Validate())
	form := schema.Form()
	assert.Equal(t, []string{"files"}, form.Attachments)
	assert.ElementsMatch(t, []string{"category", "year"}, form.Filters)
}

func feeStructure() map[string]string {
	return map[string]string{"title": "2025 fee structure", "category": "fees", "year": "2025"}
}

func TestCreateValidation(t *testing.T) {
	env := contenttest.New(t, Schema())
	pdf := map[string][]assets.FileUpload{"files": {contenttest.Upload("fees.pdf", contenttest.PDF)}}

	tests := []struct {
		name   string
		values map[string]string
		files  map[string][]assets.FileUpload
	}{
		{name: "missing category", values: map[string]string{"title": "2025 fee structure"}, files: pdf},
		{name: "unknown category", values: map[string]string{"title": "2025 fee structure", "category": "menus"}, files: pdf},
		{name: "no files", values: feeStructure()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.Service.Create(context.Background(), content.Submission{Values: tc.values, Files: tc.files})
			require.Error(t, err)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), err.Error())
		})
	}
	assert.Zero(t, env.Count(t))
	assert.Zero(t, env.Files.Len())
}

func TestCreateAndFilterByYear(t *testing.T) {
	env := contenttest.New(t, Schema())
	ctx := context.Background()

	for _, year := range []string{"2024", "2025"} {
		values := feeStructure()
		values["year"] = year
		_, err := env.Service.Create(ctx, content.Submission{
			Values: values,
			Files:  map[string][]assets.FileUpload{"files": {contenttest.Upload("fees.pdf", contenttest.PDF)}},
		})
		require.NoError(t, err)
	}

	page, err := env.Service.List(ctx, content.ListParams{Filters: map[string]string{"year": "2025"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 2025, page.Items[0].Year)
	require.Len(t, page.Items[0].FileMetadata, 1)
	assert.Equal(t, "PDF Document", page.Items[0].FileMetadata[0].FileType)
}
