package galleries

import (
	"time"

	"gorm.io/datatypes"

	"github.com/hillview-school/school-cms/internal/assets"
	"github.com/hillview-school/school-cms/internal/content"
	"github.com/hillview-school/school-cms/pkg/db/models"
)

const Path = "galleries"

var Categories = []string{"events", "sports", "academics", "facilities", "clubs", "other"}

type rec = models.Gallery

func Schema() content.Schema[rec] {
	return content.Schema[rec]{
		Entity:   Path,
		Singular: "Gallery",
		Fields: []content.Field[rec]{
			content.Text("title", "title", "Title", func(g *rec) *string { return &g.Title }, content.Required(), content.Searchable(), content.MaxLen(200)),
			content.Text("description", "description", "Description", func(g *rec) *string { return &g.Description }, content.Searchable()),
			content.Enum("category", "category", "Category", Categories, func(g *rec) *string { return &g.Category }, content.Default("events"), content.Filterable()),
			content.OptionalDate("date", "date", "Date", func(g *rec) **time.Time { return &g.Date }),
		},
		Attachments: []content.Attachment[rec]{
			content.Files("images", "images", "Images", assets.StoreImages, Path,
				func(g *rec) *datatypes.JSONSlice[string] { return &g.Images }, content.MinFiles(1)),
		},
		Order:     "created_at DESC, id DESC",
		ID:        func(g *rec) uint { return g.ID },
		Title:     func(g *rec) string { return g.Title },
		UpdatedAt: func(g *rec) time.Time { return g.UpdatedAt },
	}
}
