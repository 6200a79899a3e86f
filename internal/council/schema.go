// Package council declares student council members.
package council

import (
	"time"

	"github.com/hillview-school/school-cms/internal/assets"
	"github.com/hillview-school/school-cms/internal/content"
	"github.com/hillview-school/school-cms/pkg/db/models"
)

const Path = "council"

type rec = models.CouncilMember

func Schema() content.Schema[rec] {
	return content.Schema[rec]{
		Entity:   Path,
		Singular: "Council member",
		Fields: []content.Field[rec]{
			content.Text("name", "name", "Name", func(c *rec) *string { return &c.Name }, content.Required(), content.Searchable(), content.MaxLen(120)),
			content.Text("position", "position", "Position", func(c *rec) *string { return &c.Position }, content.Required(), content.Filterable(), content.Searchable()),
			content.Text("className", "class_name", "Class", func(c *rec) *string { return &c.ClassName }, content.Required()),
			content.Text("term", "term", "Term", func(c *rec) *string { return &c.Term }, content.Filterable()),
			content.Text("bio", "bio", "Bio", func(c *rec) *string { return &c.Bio }),
			content.Int("displayOrder", "display_order", "Display order", func(c *rec) *int { return &c.DisplayOrder }, content.Default("0")),
		},
		Attachments: []content.Attachment[rec]{
			content.SingleFile("image", "image", "Photo", assets.StoreImages, "student-council", func(c *rec) *string { return &c.Image }),
		},
		Order:     "display_order ASC, name ASC, id ASC",
		ID:        func(c *rec) uint { return c.ID },
		Title:     func(c *rec) string { return c.Name },
		UpdatedAt: func(c *rec) time.Time { return c.UpdatedAt },
	}
}
