package content

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldKind selects how a raw form value is parsed.
type FieldKind string

const (
	KindText    FieldKind = "text"
	KindEmail   FieldKind = "email"
	KindDate    FieldKind = "date"
	KindEnum    FieldKind = "enum"
	KindInt     FieldKind = "int"
	KindBool    FieldKind = "bool"
	KindDecimal FieldKind = "decimal"
)

var validate = validator.New()

var errInvalidDate = errors.New("must be a date such as 2025-03-14")

// FieldSpec is the type-independent description of a scalar field.
type FieldSpec struct {
	Key      string
	Column   string
	Label    string
	Kind     FieldKind
	Required bool
	Default  string
	Options  []string
	Filter   bool
	Search   bool
	MaxLen   int
}

type FieldOption func(*FieldSpec)

// Required rejects creates where the field is absent or blank.
func Required() FieldOption { return func(s *FieldSpec) { s.Required = true } }

// Default is applied on create when the field is absent or blank.
func Default(value string) FieldOption { return func(s *FieldSpec) { s.Default = value } }

// Filterable exposes the field as an exact-match list filter.
func Filterable() FieldOption { return func(s *FieldSpec) { s.Filter = true } }

// Searchable includes the column in case-insensitive list search.
func Searchable() FieldOption { return func(s *FieldSpec) { s.Search = true } }

func MaxLen(n int) FieldOption { return func(s *FieldSpec) { s.MaxLen = n } }

// Field binds a FieldSpec to a typed slot on T.
type Field[T any] struct {
	FieldSpec
	assign func(rec *T, raw string) error
}

// Assign parses raw and stores it on rec.
func (f Field[T]) Assign(rec *T, raw string) error {
	return f.assign(rec, raw)
}

func buildSpec(key, column, label string, kind FieldKind, opts []FieldOption) FieldSpec {
	spec := FieldSpec{Key: key, Column: column, Label: label, Kind: kind}
	for _, opt := range opts {
		opt(&spec)
	}
	return spec
}

func checkLength(spec FieldSpec, raw string) error {
	if spec.MaxLen <= 0 {
		return nil
	}
	if err := validate.Var(raw, "max="+strconv.Itoa(spec.MaxLen)); err != nil {
		return fmt.Errorf("must be at most %d characters", spec.MaxLen)
	}
	return nil
}

func Text[T any](key, column, label string, ptr func(*T) *string, opts ...FieldOption) Field[T] {
	spec := buildSpec(key, column, label, KindText, opts)
	return Field[T]{FieldSpec: spec, assign: func(rec *T, raw string) error {
		if err := checkLength(spec, raw); err != nil {
			return err
		}
		*ptr(rec) = raw
		return nil
	}}
}

// NullableText stores NULL instead of an empty string, for unique columns.
func NullableText[T any](key, column, label string, ptr func(*T) **string, opts ...FieldOption) Field[T] {
	spec := buildSpec(key, column, label, KindText, opts)
	return Field[T]{FieldSpec: spec, assign: func(rec *T, raw string) error {
		if err := checkLength(spec, raw); err != nil {
			return err
		}
		v := raw
		*ptr(rec) = &v
		return nil
	}}
}

func Email[T any](key, column, label string, ptr func(*T) **string, opts ...FieldOption) Field[T] {
	spec := buildSpec(key, column, label, KindEmail, opts)
	return Field[T]{FieldSpec: spec, assign: func(rec *T, raw string) error {
		v := strings.ToLower(raw)
		if err := validate.Var(v, "email"); err != nil {
			return errors.New("must be a valid email address")
		}
		*ptr(rec) = &v
		return nil
	}}
}

func Date[T any](key, column, label string, ptr func(*T) *time.Time, opts ...FieldOption) Field[T] {
	spec := buildSpec(key, column, label, KindDate, opts)
	return Field[T]{FieldSpec: spec, assign: func(rec *T, raw string) error {
		t, err := ParseDate(raw)
		if err != nil {
			return err
		}
		*ptr(rec) = t
		return nil
	}}
}

func OptionalDate[T any](key, column, label string, ptr func(*T) **time.Time, opts ...FieldOption) Field[T] {
	spec := buildSpec(key, column, label, KindDate, opts)
	return Field[T]{FieldSpec: spec, assign: func(rec *T, raw string) error {
		t, err := ParseDate(raw)
		if err != nil {
			return err
		}
		*ptr(rec) = &t
		return nil
	}}
}

// Enum accepts one of options, matched case-insensitively and stored in the
// option's spelling.
func Enum[T any](key, column, label string, options []string, ptr func(*T) *string, opts ...FieldOption) Field[T] {
	spec := buildSpec(key, column, label, KindEnum, opts)
	spec.Options = options
	return Field[T]{FieldSpec: spec, assign: func(rec *T, raw string) error {
		for _, option := range options {
			if strings.EqualFold(option, raw) {
				*ptr(rec) = option
				return nil
			}
		}
		return fmt.Errorf("must be one of: %s", strings.Join(options, ", "))
	}}
}

func Int[T any](key, column, label string, ptr func(*T) *int, opts ...FieldOption) Field[T] {
	spec := buildSpec(key, column, label, KindInt, opts)
	return Field[T]{FieldSpec: spec, assign: func(rec *T, raw string) error {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return errors.New("must be a whole number")
		}
		*ptr(rec) = n
		return nil
	}}
}

func Bool[T any](key, column, label string, ptr func(*T) *bool, opts ...FieldOption) Field[T] {
	spec := buildSpec(key, column, label, KindBool, opts)
	return Field[T]{FieldSpec: spec, assign: func(rec *T, raw string) error {
		switch strings.ToLower(raw) {
		case "1", "true", "yes", "on":
			*ptr(rec) = true
		case "0", "false", "no", "off":
			*ptr(rec) = false
		default:
			return errors.New("must be true or false")
		}
		return nil
	}}
}

// Decimal accepts non-negative amounts such as "45000" or "45000.50".
func Decimal[T any](key, column, label string, ptr func(*T) *decimal.NullDecimal, opts ...FieldOption) Field[T] {
	spec := buildSpec(key, column, label, KindDecimal, opts)
	return Field[T]{FieldSpec: spec, assign: func(rec *T, raw string) error {
		d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
		if err != nil {
			return errors.New("must be a number")
		}
		if d.IsNegative() {
			return errors.New("must not be negative")
		}
		*ptr(rec) = decimal.NewNullDecimal(d)
		return nil
	}}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDate accepts ISO dates and timestamps and returns them in UTC.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errInvalidDate
}
