package content

import (
	"gorm.io/datatypes"

	"github.com/hillview-school/school-cms/internal/assets"
	"github.com/hillview-school/school-cms/pkg/db/models"
)

// AttachmentSpec is the type-independent description of a file slot.
type AttachmentSpec struct {
	Key      string
	Column   string
	Label    string
	Store    assets.Store
	Folder   string
	Multiple bool
	// MinFiles > 0 makes the attachment mandatory.
	MinFiles    int
	Constraints assets.Constraints
	groups      []assets.MimeGroup
}

type AttachmentOption func(*AttachmentSpec)

func MinFiles(n int) AttachmentOption { return func(s *AttachmentSpec) { s.MinFiles = n } }

// MaxBytes overrides the configured per-store size limit.
func MaxBytes(n int64) AttachmentOption {
	return func(s *AttachmentSpec) { s.Constraints.MaxBytes = n }
}

// AcceptTypes overrides the per-store default allow-list.
func AcceptTypes(groups ...assets.MimeGroup) AttachmentOption {
	return func(s *AttachmentSpec) { s.groups = groups }
}

// Attachment binds an AttachmentSpec to URL (and optional metadata) slots on T.
type Attachment[T any] struct {
	AttachmentSpec
	get     func(*T) []string
	set     func(*T, []string)
	getMeta func(*T) []models.FileMeta
	setMeta func(*T, []models.FileMeta)
}

func buildAttachmentSpec(key, column, label string, store assets.Store, folder string, multiple bool, opts []AttachmentOption) AttachmentSpec {
	spec := AttachmentSpec{Key: key, Column: column, Label: label, Store: store, Folder: folder, Multiple: multiple}
	for _, opt := range opts {
		opt(&spec)
	}
	if len(spec.groups) == 0 {
		spec.groups = defaultGroups(store)
	}
	spec.Constraints.Accept = assets.AcceptOf(spec.groups...)
	return spec
}

func defaultGroups(store assets.Store) []assets.MimeGroup {
	if store == assets.StoreImages {
		return []assets.MimeGroup{assets.MimeImages}
	}
	return []assets.MimeGroup{assets.MimePDFs, assets.MimeDocuments, assets.MimeImages, assets.MimeArchives}
}

// Files is an ordered list of URLs stored as a JSON array column.
func Files[T any](key, column, label string, store assets.Store, folder string, ptr func(*T) *datatypes.JSONSlice[string], opts ...AttachmentOption) Attachment[T] {
	return Attachment[T]{
		AttachmentSpec: buildAttachmentSpec(key, column, label, store, folder, true, opts),
		get: func(rec *T) []string {
			return append([]string(nil), (*ptr(rec))...)
		},
		set: func(rec *T, urls []string) {
			*ptr(rec) = datatypes.JSONSlice[string](urls)
		},
	}
}

// SingleFile is one URL stored as text; an empty string means no file.
func SingleFile[T any](key, column, label string, store assets.Store, folder string, ptr func(*T) *string, opts ...AttachmentOption) Attachment[T] {
	return Attachment[T]{
		AttachmentSpec: buildAttachmentSpec(key, column, label, store, folder, false, opts),
		get: func(rec *T) []string {
			if v := *ptr(rec); v != "" {
				return []string{v}
			}
			return nil
		},
		set: func(rec *T, urls []string) {
			if len(urls) == 0 {
				*ptr(rec) = ""
				return
			}
			*ptr(rec) = urls[0]
		},
	}
}

// WithMetadata keeps a parallel list of name/size/type entries per URL.
func (a Attachment[T]) WithMetadata(ptr func(*T) *datatypes.JSONSlice[models.FileMeta]) Attachment[T] {
	a.getMeta = func(rec *T) []models.FileMeta {
		return append([]models.FileMeta(nil), (*ptr(rec))...)
	}
	a.setMeta = func(rec *T, meta []models.FileMeta) {
		*ptr(rec) = datatypes.JSONSlice[models.FileMeta](meta)
	}
	return a
}

// URLs returns the stored URLs of rec.
func (a Attachment[T]) URLs(rec *T) []string {
	return a.get(rec)
}
