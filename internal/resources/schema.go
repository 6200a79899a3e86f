package resources

import (
	"time"

	"gorm.io/datatypes"

	"github.com/hillview-school/school-cms/internal/assets"
	"github.com/hillview-school/school-cms/internal/content"
	"github.com/hillview-school/school-cms/pkg/db/models"
)

const Path = "resources"

var Categories = []string{"notes", "past_papers", "revision", "syllabus", "assignment", "other"}

type rec = models.Resource

// Schema requires at least one file per resource and keeps the original
// name and size of each upload next to its URL.
func Schema() content.Schema[rec] {
	return content.Schema[rec]{
		Entity:   Path,
		Singular: "Resource",
		Fields: []content.Field[rec]{
			content.Text("title", "title", "Title", func(r *rec) *string { return &r.Title }, content.Required(), content.Searchable(), content.MaxLen(200)),
			content.Text("subject", "subject", "Subject", func(r *rec) *string { return &r.Subject }, content.Required(), content.Filterable()),
			content.Text("className", "class_name", "Class", func(r *rec) *string { return &r.ClassName }, content.Required(), content.Filterable()),
			content.Enum("category", "category", "Category", Categories, func(r *rec) *string { return &r.Category }, content.Default("notes"), content.Filterable()),
			content.Text("teacher", "teacher", "Teacher", func(r *rec) *string { return &r.Teacher }, content.Searchable()),
			content.Text("description", "description", "Description", func(r *rec) *string { return &r.Description }, content.Searchable()),
		},
		Attachments: []content.Attachment[rec]{
			content.Files("files", "files", "Files", assets.StoreFiles, Path,
				func(r *rec) *datatypes.JSONSlice[string] { return &r.Files }, content.MinFiles(1)).
				WithMetadata(func(r *rec) *datatypes.JSONSlice[models.FileMeta] { return &r.FileMetadata }),
		},
		Order:     "created_at DESC, id DESC",
		ID:        func(r *rec) uint { return r.ID },
		Title:     func(r *rec) string { return r.Title },
		UpdatedAt: func(r *rec) time.Time { return r.UpdatedAt },
	}
}
