package types

import "github.com/hillview-school/school-cms/pkg/pagination"

// SuccessEnvelope is the body of every 2xx response.
type SuccessEnvelope struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message,omitempty"`
	Data       any              `json:"data"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`
	Files      any              `json:"files,omitempty"`
	FileCounts map[string]int   `json:"fileCounts,omitempty"`
	Warnings   []string         `json:"warnings,omitempty"`
}

// ErrorEnvelope is the body of every non-2xx response.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}
