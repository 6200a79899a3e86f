package content

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Schema describes one content collection: its scalar fields, its file
// slots, and how records are ordered in lists.
type Schema[T any] struct {
	// Entity is the collection name used in routes and logs ("news").
	Entity string
	// Singular labels messages ("News article").
	Singular    string
	Fields      []Field[T]
	Attachments []Attachment[T]
	Order       string

	// Check, when set, validates the assembled record before any upload.
	Check func(*T) error

	ID        func(*T) uint
	Title     func(*T) string
	UpdatedAt func(*T) time.Time
}

// Form lists the request keys a collection understands.
type Form struct {
	Fields      []string
	Attachments []string
	Filters     []string
}

// RemovalKey is the request key carrying URLs to drop from an attachment,
// e.g. "images" -> "removedImages".
func RemovalKey(attachmentKey string) string {
	if attachmentKey == "" {
		return ""
	}
	return "removed" + strings.ToUpper(attachmentKey[:1]) + attachmentKey[1:]
}

func (s Schema[T]) Form() Form {
	form := Form{}
	for _, f := range s.Fields {
		form.Fields = append(form.Fields, f.Key)
		if f.Filter {
			form.Filters = append(form.Filters, f.Key)
		}
	}
	for _, a := range s.Attachments {
		form.Attachments = append(form.Attachments, a.Key)
	}
	return form
}

func (s Schema[T]) searchColumns() []string {
	var cols []string
	for _, f := range s.Fields {
		if f.Search {
			cols = append(cols, f.Column)
		}
	}
	return cols
}

func (s Schema[T]) field(key string) (Field[T], bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field[T]{}, false
}

// Validate reports schema declarations that cannot be served.
func (s Schema[T]) Validate() error {
	if s.Entity == "" {
		return errors.New("schema entity required")
	}
	if s.Singular == "" {
		return fmt.Errorf("%s: singular label required", s.Entity)
	}
	if s.ID == nil || s.Title == nil || s.UpdatedAt == nil {
		return fmt.Errorf("%s: id, title, and updatedAt accessors required", s.Entity)
	}
	seen := map[string]bool{}
	for _, f := range s.Fields {
		if f.Key == "" || f.Column == "" || f.assign == nil {
			return fmt.Errorf("%s: incomplete field %q", s.Entity, f.Key)
		}
		if seen[f.Key] {
			return fmt.Errorf("%s: duplicate key %q", s.Entity, f.Key)
		}
		seen[f.Key] = true
	}
	for _, a := range s.Attachments {
		if a.Key == "" || a.get == nil || a.set == nil {
			return fmt.Errorf("%s: incomplete attachment %q", s.Entity, a.Key)
		}
		if seen[a.Key] || seen[RemovalKey(a.Key)] {
			return fmt.Errorf("%s: duplicate key %q", s.Entity, a.Key)
		}
		seen[a.Key] = true
		seen[RemovalKey(a.Key)] = true
	}
	return nil
}
