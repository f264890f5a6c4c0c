package docs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/buildwithgo/apidef/schema"
)

// ErrInvalidData is returned by Load for documents that are not docs data.
var ErrInvalidData = errors.New("docs: invalid data")

// Load decodes docs data from YAML or JSON.
func Load(r io.Reader) (Data, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Data{}, fmt.Errorf("docs: read data: %w", err)
	}
	var data Data
	if err := yaml.Unmarshal(b, &data); err != nil {
		return Data{}, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	for i, s := range data.Schemas {
		if s == nil || s.Method == "" || s.Path == "" {
			return Data{}, fmt.Errorf("%w: schema %d needs a method and a path", ErrInvalidData, i)
		}
		s.Method = strings.ToUpper(s.Method)
		if s.Params == nil {
			s.Params = make(map[string]schema.Param)
		}
	}
	if data.Types == nil {
		data.Types = make(map[string]schema.Type)
	}
	for _, t := range schema.DefaultTypes {
		if _, ok := data.Types[t.Name]; !ok {
			data.Types[t.Name] = t
		}
	}
	return data, nil
}

// LoadFile is Load on the file at path.
func LoadFile(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, err
	}
	defer f.Close()
	return Load(f)
}
