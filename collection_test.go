package querykit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollection_Empty(t *testing.T) {
	c := NewCollection[string](nil)

	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.Len())

	_, ok := c.First()
	assert.False(t, ok)
	_, ok = c.Last()
	assert.False(t, ok)
}

func TestCollection_Order(t *testing.T) {
	c := NewCollection([]string{"a", "b", "c"})

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"a", "b", "c"}, c.Items())

	first, ok := c.First()
	assert.True(t, ok)
	assert.Equal(t, "a", first)

	last, ok := c.Last()
	assert.True(t, ok)
	assert.Equal(t, "c", last)
}

func TestCollection_ItemsIsACopy(t *testing.T) {
	c := NewCollection([]int{1, 2, 3})

	items := c.Items()
	items[0] = 99

	fresh := c.Items()
	assert.Equal(t, 1, fresh[0], "mutating the returned slice must not touch the collection")
}

func TestCollection_Each(t *testing.T) {
	c := NewCollection([]int{1, 2, 3})

	var sum int
	c.Each(func(n int) { sum += n })

	assert.Equal(t, 6, sum)
}
