package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrorDump flattens an error chain for structured logs.
type ErrorDump struct {
	TopMessage string
	Code       Code
	Chain      []string
	Driver     *DriverError
}

// DriverError carries the database diagnostics found in the chain.
type DriverError struct {
	Source     string
	Code       string
	Constraint string
	Table      string
	Column     string
	Detail     string
	Message    string
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}
	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	d.Driver = driverError(err)
	return d
}

// Fields renders the dump as logger fields.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{
		"error":       d.TopMessage,
		"error_code":  d.Code,
		"error_chain": d.Chain,
	}
	if dr := d.Driver; dr != nil {
		fields["db_source"] = dr.Source
		fields["db_code"] = dr.Code
		fields["db_message"] = dr.Message
		if dr.Detail != "" {
			fields["db_detail"] = dr.Detail
		}
		if dr.Table != "" {
			fields["db_table"] = dr.Table
		}
		if dr.Column != "" {
			fields["db_column"] = dr.Column
		}
		if dr.Constraint != "" {
			fields["db_constraint"] = dr.Constraint
		}
	}
	return fields
}

const sqliteUnique = "UNIQUE constraint failed: "

func driverError(err error) *DriverError {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return &DriverError{
			Source:     "pgx",
			Code:       pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &DriverError{
			Source:     "pq",
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}
	}

	// sqlite only reports "UNIQUE constraint failed: staff.email"
	msg := err.Error()
	idx := strings.Index(msg, sqliteUnique)
	if idx < 0 {
		return nil
	}
	target := strings.TrimSpace(msg[idx+len(sqliteUnique):])
	if end := strings.IndexAny(target, ", "); end >= 0 {
		target = target[:end]
	}
	out := &DriverError{Source: "sqlite", Code: "2067", Message: msg[idx:]}
	out.Table, out.Column, _ = strings.Cut(target, ".")
	return out
}
