package events

import (
	"context"
	"testing"
	"time"

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
	assert.Equal(t, []string{"image"}, form.Attachments)
	assert.Equal(t, []string{"category"}, form.Filters)
}

func sportsDay() map[string]string {
	return map[string]string{
		"title":       "Sports day",
		"description": "Inter-house athletics",
		"date":        "2025-03-14",
		"location":    "Main field",
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	env := contenttest.New(t, Schema())

	out, err := env.Service.Create(context.Background(), content.Submission{
		Values: sportsDay(),
		Files:  map[string][]assets.FileUpload{"image": {contenttest.Upload("track.png", contenttest.PNG)}},
	})
	require.NoError(t, err)

	rec := out.Record
	assert.Equal(t, "academic", rec.Category)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), rec.Date.UTC())
	assert.NotEmpty(t, rec.Image)
	assert.Equal(t, 1, out.FileCounts["image"])
	assert.Equal(t, 1, env.Images.Len())
	assert.Zero(t, env.Files.Len())
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	env := contenttest.New(t, Schema())
	values := sportsDay()
	values["category"] = "party"

	_, err := env.Service.Create(context.Background(), content.Submission{Values: values})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), err.Error())
	assert.Zero(t, env.Count(t))
}

func TestListNewestDateFirst(t *testing.T) {
	env := contenttest.New(t, Schema())
	ctx := context.Background()

	for _, date := range []string{"2025-01-20", "2025-05-02", "2025-03-14"} {
		values := sportsDay()
		values["date"] = date
		_, err := env.Service.Create(ctx, content.Submission{Values: values})
		require.NoError(t, err)
	}

	page, err := env.Service.List(ctx, content.ListParams{})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	for i, want := range []time.Month{time.May, time.March, time.January} {
		assert.Equal(t, want, page.Items[i].Date.Month())
	}
}
