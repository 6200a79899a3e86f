package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodePrecondition, status: http.StatusPreconditionFailed, publicMsg: "record was modified by another request", detailsOK: true},
		{code: CodeTooLarge, status: http.StatusRequestEntityTooLarge, publicMsg: "request body too large", detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeForbidden, "no entry")
	if got := As(err); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestInternalKeepsExistingCode(t *testing.T) {
	typed := New(CodeNotFound, "missing")
	if got := Internal(typed, "ignored"); got != typed {
		t.Fatalf("expected typed error to pass through, got %v", got)
	}

	raw := stdErrors.New("disk on fire")
	wrapped := As(Internal(raw, "saving record"))
	if wrapped == nil || wrapped.Code() != CodeInternal {
		t.Fatalf("expected internal code, got %v", wrapped)
	}
	if wrapped.Cause() != raw {
		t.Fatalf("expected cause to be preserved")
	}
	if Internal(nil, "x") != nil {
		t.Fatalf("Internal(nil) should be nil")
	}
}

func TestIsCodeAndNewf(t *testing.T) {
	err := fmt.Errorf("update news: %w", Newf(CodeNotFound, "%s not found", "News article"))
	if !IsCode(err, CodeNotFound) {
		t.Fatalf("expected NOT_FOUND in chain")
	}
	if IsCode(err, CodeConflict) || IsCode(nil, CodeNotFound) {
		t.Fatalf("unexpected code match")
	}
	if got := As(err).Message(); got != "News article not found" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestDumpExtractsPostgresDetails(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_staff_email", TableName: "staff", Message: "duplicate key value"}
	err := Wrap(CodeConflict, fmt.Errorf("insert staff: %w", pgErr), "email taken")

	d := Dump(err)
	if d.Code != CodeConflict {
		t.Fatalf("expected conflict code, got %s", d.Code)
	}
	if len(d.Chain) != 3 {
		t.Fatalf("expected 3 chain entries, got %d", len(d.Chain))
	}
	if d.Driver == nil || d.Driver.Source != "pgx" || d.Driver.Constraint != "idx_staff_email" {
		t.Fatalf("unexpected driver details %+v", d.Driver)
	}
	fields := d.Fields()
	if fields["db_table"] != "staff" || fields["db_code"] != "23505" {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestDumpParsesSQLiteUniqueFailure(t *testing.T) {
	d := Dump(stdErrors.New("constraint failed: UNIQUE constraint failed: careers.reference_code (2067)"))
	if d.Driver == nil {
		t.Fatalf("expected sqlite details")
	}
	if d.Driver.Table != "careers" || d.Driver.Column != "reference_code" {
		t.Fatalf("unexpected table/column %q %q", d.Driver.Table, d.Driver.Column)
	}
	if Dump(stdErrors.New("boom")).Driver != nil {
		t.Fatalf("plain errors carry no driver details")
	}
	if _, ok := Dump(stdErrors.New("boom")).Fields()["db_code"]; ok {
		t.Fatalf("db fields should be omitted without driver details")
	}
}
