package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/scenegen/pkg/errors"
	"github.com/matzehuels/scenegen/pkg/placement"
)

// ReadJSON decodes a placement set from r. Malformed JSON and unknown item
// kinds are INVALID_INPUT. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*placement.Set, error) {
	var set placement.Set
	if err := json.NewDecoder(r).Decode(&set); err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeInvalidInput, "empty set file")
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode set")
	}
	return &set, nil
}

// ImportJSON reads a placement set from the file at path, or from stdin
// when path is "-".
func ImportJSON(path string) (*placement.Set, error) {
	if path == "-" {
		return ReadJSON(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	set, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}
