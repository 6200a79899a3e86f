// Package careers declares job vacancies. Salaries are optional decimals and
// the reference code, when given, is unique across vacancies.
package careers

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hillview-school/school-cms/internal/assets"
	"github.com/hillview-school/school-cms/internal/content"
	"github.com/hillview-school/school-cms/pkg/db/models"
)

const Path = "careers"

const DefaultLocation = "Main Campus"

var (
	EmploymentTypes = []string{"full_time", "part_time", "contract", "internship"}
	Statuses        = []string{"open", "closed"}
)

type rec = models.Career

func Schema() content.Schema[rec] {
	return content.Schema[rec]{
		Entity:   Path,
		Singular: "Vacancy",
		Fields: []content.Field[rec]{
			content.Text("title", "title", "Title", func(c *rec) *string { return &c.Title }, content.Required(), content.Searchable(), content.MaxLen(200)),
			content.Text("department", "department", "Department", func(c *rec) *string { return &c.Department }, content.Required(), content.Filterable()),
			content.Enum("employmentType", "employment_type", "Employment type", EmploymentTypes, func(c *rec) *string { return &c.EmploymentType }, content.Default("full_time"), content.Filterable()),
			content.Text("location", "location", "Location", func(c *rec) *string { return &c.Location }, content.Default(DefaultLocation)),
			content.Text("description", "description", "Description", func(c *rec) *string { return &c.Description }, content.Required(), content.Searchable()),
			content.Text("requirements", "requirements", "Requirements", func(c *rec) *string { return &c.Requirements }),
			content.Date("deadline", "deadline", "Application deadline", func(c *rec) *time.Time { return &c.Deadline }, content.Required()),
			content.Decimal("salaryMin", "salary_min", "Minimum salary", func(c *rec) *decimal.NullDecimal { return &c.SalaryMin }),
			content.Decimal("salaryMax", "salary_max", "Maximum salary", func(c *rec) *decimal.NullDecimal { return &c.SalaryMax }),
			content.Enum("status", "status", "Status", Statuses, func(c *rec) *string { return &c.Status }, content.Default("open"), content.Filterable()),
			content.NullableText("referenceCode", "reference_code", "Reference code", func(c *rec) **string { return &c.ReferenceCode }, content.MaxLen(40)),
		},
		Attachments: []content.Attachment[rec]{
			content.SingleFile("jobDescription", "job_description", "Job description", assets.StoreFiles, Path,
				func(c *rec) *string { return &c.JobDescription },
				content.AcceptTypes(assets.MimePDFs, assets.MimeDocuments)),
		},
		Check:     checkSalaryRange,
		Order:     "created_at DESC, id DESC",
		ID:        func(c *rec) uint { return c.ID },
		Title:     func(c *rec) string { return c.Title },
		UpdatedAt: func(c *rec) time.Time { return c.UpdatedAt },
	}
}

func checkSalaryRange(c *rec) error {
	if c.SalaryMin.Valid && c.SalaryMax.Valid && c.SalaryMin.Decimal.GreaterThan(c.SalaryMax.Decimal) {
		return errors.New("Minimum salary must not exceed maximum salary")
	}
	return nil
}
