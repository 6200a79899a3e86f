package events

import (
	"time"

	"github.com/hillview-school/school-cms/internal/assets"
	"github.com/hillview-school/school-cms/internal/content"
	"github.com/hillview-school/school-cms/pkg/db/models"
)

const Path = "events"

var Categories = []string{"academic", "sports", "cultural", "meeting", "holiday", "other"}

type rec = models.Event

// Schema lists events newest date first. The time of day is free text
// ("2:00 PM - 4:00 PM") and is not parsed.
func Schema() content.Schema[rec] {
	return content.Schema[rec]{
		Entity:   Path,
		Singular: "Event",
		Fields: []content.Field[rec]{
			content.Text("title", "title", "Title", func(e *rec) *string { return &e.Title }, content.Required(), content.Searchable(), content.MaxLen(200)),
			content.Text("description", "description", "Description", func(e *rec) *string { return &e.Description }, content.Required(), content.Searchable()),
			content.Date("date", "date", "Date", func(e *rec) *time.Time { return &e.Date }, content.Required()),
			content.Text("time", "time", "Time", func(e *rec) *string { return &e.Time }, content.MaxLen(50)),
			content.Text("location", "location", "Location", func(e *rec) *string { return &e.Location }, content.Required(), content.Searchable()),
			content.Enum("category", "category", "Category", Categories, func(e *rec) *string { return &e.Category }, content.Default("academic"), content.Filterable()),
			content.Text("organizer", "organizer", "Organizer", func(e *rec) *string { return &e.Organizer }),
		},
		Attachments: []content.Attachment[rec]{
			content.SingleFile("image", "image", "Image", assets.StoreImages, Path, func(e *rec) *string { return &e.Image }),
		},
		Order:     "date DESC, id DESC",
		ID:        func(e *rec) uint { return e.ID },
		Title:     func(e *rec) string { return e.Title },
		UpdatedAt: func(e *rec) time.Time { return e.UpdatedAt },
	}
}
