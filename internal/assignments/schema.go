// Package assignments declares homework and coursework posted for classes.
package assignments

import (
	"time"

	"gorm.io/datatypes"

	"github.com/hillview-school/school-cms/internal/assets"
	"github.com/hillview-school/school-cms/internal/content"
	"github.com/hillview-school/school-cms/pkg/db/models"
)

const Path = "assignments"

var Statuses = []string{"active", "closed"}

type rec = models.Assignment

func Schema() content.Schema[rec] {
	return content.Schema[rec]{
		Entity:   Path,
		Singular: "Assignment",
		Fields: []content.Field[rec]{
			content.Text("title", "title", "Title", func(a *rec) *string { return &a.Title }, content.Required(), content.Searchable(), content.MaxLen(200)),
			content.Text("subject", "subject", "Subject", func(a *rec) *string { return &a.Subject }, content.Required(), content.Filterable()),
			content.Text("className", "class_name", "Class", func(a *rec) *string { return &a.ClassName }, content.Required(), content.Filterable()),
			content.Text("teacher", "teacher", "Teacher", func(a *rec) *string { return &a.Teacher }, content.Required(), content.Searchable()),
			content.Date("dueDate", "due_date", "Due date", func(a *rec) *time.Time { return &a.DueDate }, content.Required()),
			content.Text("description", "description", "Description", func(a *rec) *string { return &a.Description }, content.Searchable()),
			content.Text("instructions", "instructions", "Instructions", func(a *rec) *string { return &a.Instructions }),
			content.Enum("status", "status", "Status", Statuses, func(a *rec) *string { return &a.Status }, content.Default("active"), content.Filterable()),
		},
		Attachments: []content.Attachment[rec]{
			content.Files("assignmentFiles", "assignment_files", "Assignment files", assets.StoreFiles, Path,
				func(a *rec) *datatypes.JSONSlice[string] { return &a.AssignmentFiles }),
			content.Files("attachments", "attachments", "Attachments", assets.StoreFiles, Path+"/attachments",
				func(a *rec) *datatypes.JSONSlice[string] { return &a.Attachments }),
		},
		Order:     "created_at DESC, id DESC",
		ID:        func(a *rec) uint { return a.ID },
		Title:     func(a *rec) string { return a.Title },
		UpdatedAt: func(a *rec) time.Time { return a.UpdatedAt },
	}
}
