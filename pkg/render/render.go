package render

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scenegen/pkg/scene"
)

// Request is one view to render.
type Request struct {
	Scene *scene.Scene
	Paths scene.Paths
}

// Result reports the files a renderer produced.
type Result struct {
	// Outputs maps output names (scene.OutputImage, ...) to file paths.
	Outputs map[string]string `json:"outputs"`

	// DepthScale is the scale the engine applied when writing the depth
	// image, or zero when it did not report one.
	DepthScale float64 `json:"depth_scale,omitempty"`
}

// Renderer renders one view. Implementations must be safe for concurrent
// use on different requests.
type Renderer interface {
	Render(ctx context.Context, req Request) (Result, error)
}

// Func adapts a function to the Renderer interface.
type Func func(ctx context.Context, req Request) (Result, error)

// Render calls f.
func (f Func) Render(ctx context.Context, req Request) (Result, error) {
	return f(ctx, req)
}

// Describer writes the scene description and nothing else.
type Describer struct{}

// Render writes req.Scene to req.Paths.Scene().
func (Describer) Render(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	path, err := WriteScene(req)
	if err != nil {
		return Result{}, err
	}
	return Result{Outputs: map[string]string{scene.OutputScene: path}}, nil
}

// WriteScene writes the indented scene JSON, creating the output directory.
func WriteScene(req Request) (string, error) {
	if req.Scene == nil {
		return "", fmt.Errorf("render: nil scene")
	}
	data, err := json.MarshalIndent(req.Scene, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode scene: %w", err)
	}
	path := req.Paths.Scene()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write scene: %w", err)
	}
	return path, nil
}

// New returns a Command renderer for a non-empty engine command line and a
// Describer otherwise.
func New(engine string, logger *log.Logger) (Renderer, error) {
	if engine == "" {
		return Describer{}, nil
	}
	return NewCommand(engine, logger)
}
