// Package staff declares the teaching and support staff directory.
package staff

import (
	"time"

	"github.com/hillview-school/school-cms/internal/assets"
	"github.com/hillview-school/school-cms/internal/content"
	"github.com/hillview-school/school-cms/pkg/db/models"
)

const Path = "staff"

type rec = models.StaffMember

func Schema() content.Schema[rec] {
	return content.Schema[rec]{
		Entity:   Path,
		Singular: "Staff member",
		Fields: []content.Field[rec]{
			content.Text("name", "name", "Name", func(s *rec) *string { return &s.Name }, content.Required(), content.Searchable(), content.MaxLen(120)),
			content.Text("role", "role", "Role", func(s *rec) *string { return &s.Role }, content.Required(), content.Filterable(), content.Searchable()),
			content.Text("department", "department", "Department", func(s *rec) *string { return &s.Department }, content.Required(), content.Filterable()),
			content.Email("email", "email", "Email", func(s *rec) **string { return &s.Email }),
			content.Text("phone", "phone", "Phone", func(s *rec) *string { return &s.Phone }, content.MaxLen(40)),
			content.Text("bio", "bio", "Bio", func(s *rec) *string { return &s.Bio }),
			content.Text("qualifications", "qualifications", "Qualifications", func(s *rec) *string { return &s.Qualifications }),
			content.Int("displayOrder", "display_order", "Display order", func(s *rec) *int { return &s.DisplayOrder }, content.Default("0")),
		},
		Attachments: []content.Attachment[rec]{
			content.SingleFile("image", "image", "Photo", assets.StoreImages, Path, func(s *rec) *string { return &s.Image }),
		},
		Order:     "display_order ASC, name ASC, id ASC",
		ID:        func(s *rec) uint { return s.ID },
		Title:     func(s *rec) string { return s.Name },
		UpdatedAt: func(s *rec) time.Time { return s.UpdatedAt },
	}
}
