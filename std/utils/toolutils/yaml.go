package toolutils

import (
	"os"

	"github.com/goccy/go-yaml"
)

// ReadYaml decodes the YAML file at path into out, which must be a pointer.
func ReadYaml(out any, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}
