// Package sessiontest provides an in-memory session fake for executor tests.
package sessiontest

import (
	"context"
	"fmt"
	"reflect"

	"github.com/querykit/querykit/query"
	"github.com/querykit/querykit/session"
)

// Call records a single statement dispatched to the fake.
type Call struct {
	SQL       string
	Args      []any
	BatchSize int
}

// Memory is a session.Session backed by seeded row slices. Row values are
// positional, matching the Scan destinations of the test's row mapper.
type Memory struct {
	seeded [][]any
	bySQL  map[string][][]any
	err    error

	Calls         []Call
	OpenCursors   int
	ClosedCursors int
}

func NewMemory(rows ...[]any) *Memory {
	return &Memory{
		seeded: rows,
		bySQL:  make(map[string][][]any),
	}
}

// On overrides the result set returned for an exact SQL text.
func (m *Memory) On(sql string, rows ...[]any) {
	m.bySQL[sql] = rows
}

// FailWith makes every subsequent call return err, simulating a session fault.
func (m *Memory) FailWith(err error) {
	m.err = err
}

// LastSQL returns the most recently executed statement text.
func (m *Memory) LastSQL() string {
	if len(m.Calls) == 0 {
		return ""
	}
	return m.Calls[len(m.Calls)-1].SQL
}

func (m *Memory) Execute(ctx context.Context, stmt *query.Statement) (session.Rows, error) {
	m.Calls = append(m.Calls, Call{SQL: stmt.SQL(), Args: stmt.Args()})
	if m.err != nil {
		return nil, m.err
	}
	return &memRows{rows: m.resultFor(stmt)}, nil
}

func (m *Memory) Stream(ctx context.Context, stmt *query.Statement, batchSize int) (session.Cursor, error) {
	m.Calls = append(m.Calls, Call{SQL: stmt.SQL(), Args: stmt.Args(), BatchSize: batchSize})
	if m.err != nil {
		return nil, m.err
	}
	m.OpenCursors++
	return &memCursor{mem: m, rows: m.resultFor(stmt), batchSize: batchSize}, nil
}

func (m *Memory) resultFor(stmt *query.Statement) [][]any {
	if rows, ok := m.bySQL[stmt.SQL()]; ok {
		return rows
	}
	return m.seeded
}

type memRows struct {
	rows [][]any
	idx  int
}

func (r *memRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *memRows) Scan(dest ...any) error {
	row := r.rows[r.idx-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan expected %d destinations, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d)
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return fmt.Errorf("scan destination %d is not a pointer", i)
		}
		elem := dv.Elem()
		if row[i] == nil {
			elem.Set(reflect.Zero(elem.Type()))
			continue
		}
		v := reflect.ValueOf(row[i])
		switch {
		case v.Type().AssignableTo(elem.Type()):
			elem.Set(v)
		case v.Type().ConvertibleTo(elem.Type()):
			elem.Set(v.Convert(elem.Type()))
		default:
			return fmt.Errorf("cannot scan %T into %s", row[i], elem.Type())
		}
	}
	return nil
}

func (r *memRows) Err() error { return nil }

func (r *memRows) Close() {}

type memCursor struct {
	mem       *Memory
	rows      [][]any
	batchSize int
	offset    int
	closed    bool
}

func (c *memCursor) Fetch(ctx context.Context) (session.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	end := c.offset + c.batchSize
	if end > len(c.rows) {
		end = len(c.rows)
	}
	batch := c.rows[c.offset:end]
	c.offset = end
	return &memRows{rows: batch}, nil
}

func (c *memCursor) Close(ctx context.Context) error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.mem.ClosedCursors++
	return nil
}

var _ session.Session = (*Memory)(nil)
