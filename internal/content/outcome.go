package content

import (
	"time"

	"github.com/hillview-school/school-cms/pkg/fileinfo"
	"github.com/hillview-school/school-cms/pkg/pagination"
)

// Outcome is a single record plus display data for its files.
type Outcome[T any] struct {
	Record     *T
	Files      map[string][]fileinfo.Info
	FileCounts map[string]int
	Warnings   []string
}

// Page is one page of a list.
type Page[T any] struct {
	Items      []T
	Pagination pagination.Meta
}

// DeleteOutcome reports what a delete removed from remote storage.
type DeleteOutcome struct {
	ID           uint     `json:"id"`
	DeletedFiles int      `json:"deletedFiles"`
	FailedFiles  []string `json:"failedFiles,omitempty"`
	Warnings     []string `json:"-"`
}

// Summary is the cross-collection view used by search.
type Summary struct {
	Entity    string    `json:"entity"`
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updatedAt"`
}
