package news

import (
	"time"

	"github.com/hillview-school/school-cms/internal/assets"
	"github.com/hillview-school/school-cms/internal/content"
	"github.com/hillview-school/school-cms/pkg/db/models"
)

const Path = "news"

const DefaultAuthor = "School Administration"

var Categories = []string{"general", "academics", "sports", "announcements", "achievements", "events"}

type rec = models.News

func Schema() content.Schema[rec] {
	return content.Schema[rec]{
		Entity:   Path,
		Singular: "News article",
		Fields: []content.Field[rec]{
			content.Text("title", "title", "Title", func(n *rec) *string { return &n.Title }, content.Required(), content.Searchable(), content.MaxLen(200)),
			content.Text("excerpt", "excerpt", "Excerpt", func(n *rec) *string { return &n.Excerpt }, content.Searchable(), content.MaxLen(500)),
			content.Text("content", "content", "Content", func(n *rec) *string { return &n.Content }, content.Required(), content.Searchable()),
			content.Date("date", "date", "Date", func(n *rec) *time.Time { return &n.Date }, content.Required()),
			content.Enum("category", "category", "Category", Categories, func(n *rec) *string { return &n.Category }, content.Default("general"), content.Filterable()),
			content.Text("author", "author", "Author", func(n *rec) *string { return &n.Author }, content.Default(DefaultAuthor)),
			content.Bool("featured", "featured", "Featured", func(n *rec) *bool { return &n.Featured }, content.Filterable()),
		},
		Attachments: []content.Attachment[rec]{
			content.SingleFile("image", "image", "Image", assets.StoreImages, Path, func(n *rec) *string { return &n.Image }),
		},
		Order:     "date DESC, id DESC",
		ID:        func(n *rec) uint { return n.ID },
		Title:     func(n *rec) string { return n.Title },
		UpdatedAt: func(n *rec) time.Time { return n.UpdatedAt },
	}
}
