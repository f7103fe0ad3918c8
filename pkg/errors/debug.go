package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const maxDumpChain = 8

// PGDetail is the Postgres side of a failure, from either pgx or lib/pq.
type PGDetail struct {
	Code       string `json:"code"`
	Kind       string `json:"kind,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Message    string `json:"message,omitempty"`
}

// ErrorDump is the log-only view of an error chain.
type ErrorDump struct {
	TopMessage string    `json:"top_message"`
	Code       Code      `json:"code,omitempty"`
	Chain      []string  `json:"chain,omitempty"`
	PG         *PGDetail `json:"pg,omitempty"`
}

// Dump walks err for logging. The chain is cut after a few links.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}
	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}
	for e := err; e != nil && len(d.Chain) < maxDumpChain; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	if pg, ok := PostgresDetail(err); ok {
		d.PG = pg
	}
	return d
}

// Fields flattens the dump into log fields, skipping empty Postgres parts.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{
		"error":       d.TopMessage,
		"error_chain": d.Chain,
	}
	if d.Code != "" {
		fields["error_code"] = d.Code
	}
	if d.PG != nil {
		fields["pg_code"] = d.PG.Code
		fields["pg_kind"] = d.PG.Kind
		for key, value := range map[string]string{
			"pg_constraint": d.PG.Constraint,
			"pg_table":      d.PG.Table,
			"pg_column":     d.PG.Column,
			"pg_detail":     d.PG.Detail,
			"pg_message":    d.PG.Message,
		} {
			if value != "" {
				fields[key] = value
			}
		}
	}
	return fields
}

// PostgresDetail extracts the server error from either driver.
func PostgresDetail(err error) (*PGDetail, bool) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return &PGDetail{
			Code:       pgxErr.Code,
			Kind:       pgKind(pgxErr.Code),
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		return &PGDetail{
			Code:       code,
			Kind:       pgKind(code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}, true
	}
	return nil, false
}

// SQLSTATE codes the storefront reacts to.
const (
	PGUniqueViolation     = "23505"
	PGForeignKeyViolation = "23503"
	PGCheckViolation      = "23514"
	PGNotNullViolation    = "23502"
	PGSerializationError  = "40001"
	PGQueryCanceled       = "57014"
)

func pgKind(code string) string {
	switch code {
	case PGUniqueViolation:
		return "unique_violation"
	case PGForeignKeyViolation:
		return "foreign_key_violation"
	case PGCheckViolation:
		return "check_violation"
	case PGNotNullViolation:
		return "not_null_violation"
	case PGSerializationError:
		return "serialization_failure"
	case PGQueryCanceled:
		return "query_canceled"
	}
	if len(code) == 5 && code[:2] == "23" {
		return "integrity_violation"
	}
	return ""
}
