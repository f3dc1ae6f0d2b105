// Package query holds the opaque statement descriptor executed through a session.
//
// A Statement is built once by the caller and never mutated afterwards: wrapping
// helpers and execution hints always return a new value sharing the original
// SQL text and arguments.
package query

import (
	"fmt"
	"strings"
)

// Statement is a fully-built SQL query with positional arguments.
type Statement struct {
	sql       string
	args      []any
	batchSize int
}

// New creates a statement from SQL text and its positional arguments.
func New(sql string, args ...any) *Statement {
	return &Statement{
		sql:  strings.TrimSpace(sql),
		args: args,
	}
}

func (s *Statement) SQL() string {
	return s.sql
}

func (s *Statement) Args() []any {
	return s.args
}

// BatchSize returns the streaming batch hint, 0 when unset.
func (s *Statement) BatchSize() int {
	return s.batchSize
}

// WithBatchSize attaches a streaming batch hint without touching the receiver.
func (s *Statement) WithBatchSize(n int) *Statement {
	out := *s
	out.batchSize = n
	return &out
}

// Exists wraps the statement as the sub-query of a boolean EXISTS probe,
// so the database never materializes the base rows.
func (s *Statement) Exists() *Statement {
	out := *s
	out.sql = fmt.Sprintf("SELECT EXISTS (%s)", s.sql)
	return &out
}

// CountOver wraps the statement as a sub-query of count(*), keeping any
// ordering or limit clauses on the original as a pre-filter.
func (s *Statement) CountOver() *Statement {
	out := *s
	out.sql = fmt.Sprintf("SELECT count(*) FROM (%s) AS q", s.sql)
	return &out
}

func (s *Statement) String() string {
	return fmt.Sprintf("%s [args=%d]", s.sql, len(s.args))
}
