package querykit

import (
	"context"
	"fmt"
	"reflect"

	"github.com/querykit/querykit/query"
)

// Choice is a (value, label) pair projected from a row, typically used to
// populate a selection-list widget.
type Choice struct {
	Value any
	Label any
}

// Selector picks a projected value out of a row, either by field name or
// through an arbitrary mapping function. The zero Selector means "use the
// default": field ID for values, the row's string representation for labels.
type Selector[T any] struct {
	field string
	fn    func(T) any
}

// ByField selects a struct field by its exported name.
func ByField[T any](name string) Selector[T] {
	return Selector[T]{field: name}
}

// ByFunc selects through an arbitrary row-to-value function.
func ByFunc[T any](fn func(T) any) Selector[T] {
	return Selector[T]{fn: fn}
}

type getter[T any] func(T) (any, error)

// resolve collapses the selector into a single callable before any row is
// visited.
func (s Selector[T]) resolve(fallback getter[T]) getter[T] {
	switch {
	case s.fn != nil:
		return func(item T) (any, error) {
			return s.fn(item), nil
		}
	case s.field != "":
		return fieldGetter[T](s.field)
	default:
		return fallback
	}
}

func fieldGetter[T any](name string) getter[T] {
	return func(item T) (any, error) {
		v := reflect.Indirect(reflect.ValueOf(item))
		if v.Kind() != reflect.Struct {
			return nil, fmt.Errorf("cannot select field %q from %T", name, item)
		}
		field := v.FieldByName(name)
		if !field.IsValid() {
			return nil, fmt.Errorf("invalid field path: %s", name)
		}
		return field.Interface(), nil
	}
}

func stringLabel[T any](item T) (any, error) {
	return fmt.Sprint(item), nil
}

// Choices materializes the result set and projects every row through the
// value and label selectors, in database row order. Selector failures (e.g.
// a missing field) are not recovered, they propagate to the caller.
func Choices[T any](ctx context.Context, e *Executor, stmt *query.Statement, scan RowMapper[T], valueSel, labelSel Selector[T]) ([]Choice, error) {
	getValue := valueSel.resolve(fieldGetter[T]("ID"))
	getLabel := labelSel.resolve(stringLabel[T])

	collection, err := All(ctx, e, stmt, scan)
	if err != nil {
		return nil, err
	}

	choices := make([]Choice, 0, collection.Len())
	for _, item := range collection.Items() {
		value, err := getValue(item)
		if err != nil {
			return nil, err
		}
		label, err := getLabel(item)
		if err != nil {
			return nil, err
		}
		choices = append(choices, Choice{Value: value, Label: label})
	}
	return choices, nil
}
