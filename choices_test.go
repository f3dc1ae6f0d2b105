package querykit

import (
	"context"
	"strings"
	"testing"

	"github.com/querykit/querykit/query"
	"github.com/querykit/querykit/session"
	"github.com/querykit/querykit/session/sessiontest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type country struct {
	ID   int64
	Name string
}

func (c country) String() string {
	return c.Name
}

func scanCountry(row session.Row) (country, error) {
	var c country
	err := row.Scan(&c.ID, &c.Name)
	return c, err
}

func TestChoices_FieldSelectors(t *testing.T) {
	mem := sessiontest.NewMemory([]any{int64(1), "a"}, []any{int64(2), "b"})
	e := New(mem)

	got, err := Choices(context.Background(), e, query.New("SELECT id, name FROM countries ORDER BY id"),
		scanCountry, ByField[country]("ID"), ByField[country]("Name"))

	require.NoError(t, err)
	assert.Equal(t, []Choice{
		{Value: int64(1), Label: "a"},
		{Value: int64(2), Label: "b"},
	}, got)
}

func TestChoices_FuncSelectors(t *testing.T) {
	mem := sessiontest.NewMemory([]any{int64(1), "a"}, []any{int64(2), "b"})
	e := New(mem)

	got, err := Choices(context.Background(), e, query.New("SELECT id, name FROM countries ORDER BY id"),
		scanCountry,
		ByFunc(func(c country) any { return c.ID * 10 }),
		ByFunc(func(c country) any { return strings.ToUpper(c.Name) }))

	require.NoError(t, err)
	assert.Equal(t, []Choice{
		{Value: int64(10), Label: "A"},
		{Value: int64(20), Label: "B"},
	}, got)
}

func TestChoices_Defaults(t *testing.T) {
	// Zero selectors fall back to the ID field and the string representation.
	mem := sessiontest.NewMemory([]any{int64(3), "serbia"})
	e := New(mem)

	got, err := Choices(context.Background(), e, query.New("SELECT id, name FROM countries"),
		scanCountry, Selector[country]{}, Selector[country]{})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].Value)
	assert.Equal(t, "serbia", got[0].Label, "default label uses the Stringer")
}

func TestChoices_MissingFieldPropagates(t *testing.T) {
	mem := sessiontest.NewMemory([]any{int64(1), "a"})
	e := New(mem)

	_, err := Choices(context.Background(), e, query.New("SELECT id, name FROM countries"),
		scanCountry, ByField[country]("Slug"), ByField[country]("Name"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid field path")
}

func TestChoices_Empty(t *testing.T) {
	mem := sessiontest.NewMemory()
	e := New(mem)

	got, err := Choices(context.Background(), e, query.New("SELECT id, name FROM countries"),
		scanCountry, ByField[country]("ID"), ByField[country]("Name"))

	require.NoError(t, err)
	assert.Empty(t, got)
}
