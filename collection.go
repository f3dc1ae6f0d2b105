package querykit

// Collection is an ordered, fully-materialized result set. Insertion order
// matches database row order and the contents never change after construction.
type Collection[T any] struct {
	items []T
}

func NewCollection[T any](items []T) *Collection[T] {
	return &Collection[T]{items: items}
}

func (c *Collection[T]) Len() int {
	return len(c.items)
}

func (c *Collection[T]) IsEmpty() bool {
	return len(c.items) == 0
}

// Items returns a copy of the underlying rows in database order.
func (c *Collection[T]) Items() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection[T]) First() (T, bool) {
	if len(c.items) == 0 {
		var zero T
		return zero, false
	}
	return c.items[0], true
}

func (c *Collection[T]) Last() (T, bool) {
	if len(c.items) == 0 {
		var zero T
		return zero, false
	}
	return c.items[len(c.items)-1], true
}

func (c *Collection[T]) Each(fn func(T)) {
	for _, item := range c.items {
		fn(item)
	}
}
