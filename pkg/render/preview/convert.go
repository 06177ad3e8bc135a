package preview

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// ToPNG rasterises svg with rsvg-convert at the given zoom factor.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(ctx context.Context, svg []byte, zoom float64) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, fmt.Errorf("png export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin")
	}
	if zoom <= 0 {
		zoom = 1
	}

	cmd := exec.CommandContext(ctx, "rsvg-convert", "-f", "png", "-z", fmt.Sprintf("%.2f", zoom))
	cmd.Stdin = bytes.NewReader(svg)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
