package sessiontest

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type fixture struct {
	Rows [][]any `yaml:"rows"`
}

// LoadFixture reads positional row data from a YAML document of the form:
//
//	rows:
//	  - [1, "alpha"]
//	  - [2, "beta"]
func LoadFixture(r io.Reader) ([][]any, error) {
	decoder := yaml.NewDecoder(r)
	var f fixture
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}
	return f.Rows, nil
}
