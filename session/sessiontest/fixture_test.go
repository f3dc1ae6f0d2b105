package sessiontest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFixture(t *testing.T) {
	rows, err := LoadFixture(strings.NewReader(`
rows:
  - [1, "alpha"]
  - [2, "beta"]
`))

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []any{1, "alpha"}, rows[0])
	assert.Equal(t, []any{2, "beta"}, rows[1])
}

func TestLoadFixture_BadDocument(t *testing.T) {
	_, err := LoadFixture(strings.NewReader(`rows: "not a list`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode fixture")
}
