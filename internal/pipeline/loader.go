package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/curator/internal/model"
)

// ErrEmptyCheck is returned for a check file without claims
var ErrEmptyCheck = errors.New("check input has no claims")

// LoadCheckFile reads a JSON or YAML check file. The extension picks the
// decoder; anything else is tried as JSON, then YAML.
func LoadCheckFile(path string) (*model.CheckInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read check file: %w", err)
	}

	var input *model.CheckInput
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		input, err = decodeJSON(data)
	case ".yaml", ".yml":
		input, err = decodeYAML(data)
	default:
		input, err = decodeJSON(data)
		if err != nil {
			input, err = decodeYAML(data)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := checkLoaded(input); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return input, nil
}

// LoadCheckInput decodes a JSON check from r
func LoadCheckInput(r io.Reader) (*model.CheckInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read check input: %w", err)
	}
	input, err := decodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parse check input: %w", err)
	}
	if err := checkLoaded(input); err != nil {
		return nil, err
	}
	return input, nil
}

func decodeJSON(data []byte) (*model.CheckInput, error) {
	var input model.CheckInput
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&input); err != nil {
		return nil, err
	}
	return &input, nil
}

func decodeYAML(data []byte) (*model.CheckInput, error) {
	var input model.CheckInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, err
	}
	return &input, nil
}

// checkLoaded rejects contract violations at load time
func checkLoaded(input *model.CheckInput) error {
	if len(input.Claims) == 0 {
		return ErrEmptyCheck
	}
	return input.Validate()
}
