package querykit

import (
	"errors"
	"fmt"
)

// ErrQuery is the family sentinel for cardinality violations detected by the
// executor. Session-level faults never carry it, they pass through untouched.
var ErrQuery = errors.New("querykit: query error")

var (
	// ErrNoResult reports zero rows where exactly one was required.
	ErrNoResult = fmt.Errorf("%w: no result found", ErrQuery)
	// ErrMultipleResults reports more than one row where at most one was required.
	ErrMultipleResults = fmt.Errorf("%w: multiple results found", ErrQuery)
)
