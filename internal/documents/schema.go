package documents

import (
	"time"

	"gorm.io/datatypes"

	"github.com/hillview-school/school-cms/internal/assets"
	"github.com/hillview-school/school-cms/internal/content"
	"github.com/hillview-school/school-cms/pkg/db/models"
)

const Path = "documents"

var Categories = []string{"fees", "admission", "policy", "calendar", "results", "newsletter", "other"}

type rec = models.Document

func Schema() content.Schema[rec] {
	return content.Schema[rec]{
		Entity:   Path,
		Singular: "Document",
		Fields: []content.Field[rec]{
			content.Text("title", "title", "Title", func(d *rec) *string { return &d.Title }, content.Required(), content.Searchable(), content.MaxLen(200)),
			content.Enum("category", "category", "Category", Categories, func(d *rec) *string { return &d.Category }, content.Required(), content.Filterable()),
			content.Int("year", "year", "Year", func(d *rec) *int { return &d.Year }, content.Filterable()),
			content.Text("description", "description", "Description", func(d *rec) *string { return &d.Description }, content.Searchable()),
		},
		Attachments: []content.Attachment[rec]{
			content.Files("files", "files", "Files", assets.StoreFiles, Path,
				func(d *rec) *datatypes.JSONSlice[string] { return &d.Files },
				content.MinFiles(1), content.AcceptTypes(assets.MimePDFs, assets.MimeDocuments, assets.MimeImages)).
				WithMetadata(func(d *rec) *datatypes.JSONSlice[models.FileMeta] { return &d.FileMetadata }),
		},
		Order:     "created_at DESC, id DESC",
		ID:        func(d *rec) uint { return d.ID },
		Title:     func(d *rec) string { return d.Title },
		UpdatedAt: func(d *rec) time.Time { return d.UpdatedAt },
	}
}
