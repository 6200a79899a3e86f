package content

import (
	"strings"
	"time"

	"github.com/hillview-school/school-cms/internal/assets"
	"github.com/hillview-school/school-cms/pkg/pagination"
)

// Submission is a decoded create or update request.
type Submission struct {
	// Values holds scalar fields by request key, as sent.
	Values map[string]string
	// Files holds new uploads by attachment key.
	Files map[string][]assets.FileUpload
	// Removals holds URLs to drop by attachment key. Only used on update.
	Removals map[string][]string
	// ExpectedUpdatedAt, when set, must match the stored updated_at.
	ExpectedUpdatedAt *time.Time
	// UnmodifiedSince, when set, fails the update if the record changed after
	// it. HTTP dates have second precision.
	UnmodifiedSince *time.Time
}

// value returns the trimmed value for key and whether it is non-blank.
func (s Submission) value(key string) (string, bool) {
	v := strings.TrimSpace(s.Values[key])
	return v, v != ""
}

func (s Submission) fileCount() int {
	n := 0
	for _, files := range s.Files {
		n += len(files)
	}
	return n
}

// ListParams are the decoded query parameters of a list request.
type ListParams struct {
	pagination.Params
	// Filters holds exact-match values by field key.
	Filters map[string]string
	Search  string
}
