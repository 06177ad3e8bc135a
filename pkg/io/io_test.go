package io

import (
	"bytes"
	"context"
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/scenegen/pkg/errors"
	"github.com/matzehuels/scenegen/pkg/placement"
)

func generated(t *testing.T) *placement.Set {
	t.Helper()
	set, err := placement.Generate(context.Background(), placement.NewSampler(5), placement.Options{Count: 4})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	set.Seed = 5
	return set
}

func TestExportImport(t *testing.T) {
	set := generated(t)
	path := filepath.Join(t.TempDir(), "nested", "set.json")

	if err := ExportJSON(set, path); err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error: %v", err)
	}
	if diff := cmp.Diff(set, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if err := placement.Verify(got); err != nil {
		t.Errorf("Verify() after import: %v", err)
	}
}

func TestWriteJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(generated(t), &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`"items": [`, `"half_extents": {`, `"rejections": {`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s", want)
		}
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"malformed", `{"items": [`},
		{"unknown kind", `{"items": [{"kind": "cone"}]}`},
		{"wrong type", `{"items": 3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("ReadJSON() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestReadJSONIgnoresExtraFields(t *testing.T) {
	set, err := ReadJSON(strings.NewReader(`{"cache_hit": true, "items": [], "attempts": 2}`))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if set.Attempts != 2 || set.Len() != 0 {
		t.Errorf("got %+v", set)
	}
}

func TestImportJSONMissing(t *testing.T) {
	_, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json"))
	if !stderrors.Is(err, fs.ErrNotExist) {
		t.Errorf("ImportJSON() error = %v, want not-exist", err)
	}
}
