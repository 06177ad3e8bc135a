package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/scenegen/pkg/placement"
)

// WriteJSON encodes set as indented JSON and writes it to w.
// The output can be re-read with [ReadJSON].
func WriteJSON(set *placement.Set, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes set to the file at path, creating parent directories,
// or to stdout when path is "-".
func ExportJSON(set *placement.Set, path string) error {
	if path == "-" {
		return WriteJSON(set, os.Stdout)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(set, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
