package preview

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/scenegen/pkg/placement"
	"github.com/matzehuels/scenegen/pkg/scene"
)

// DefaultSize is the default footprint image width and height in pixels.
const DefaultSize = 512

// FootprintOptions configures Footprint.
type FootprintOptions struct {
	// Size is the image width and height in pixels.
	Size int

	// Palette colours the items in insertion order. Items beyond the
	// palette are drawn grey.
	Palette []scene.Color

	// Upto draws only the first Upto items when positive.
	Upto int

	// ShowSampled outlines each item's pre-shrink footprint.
	ShowSampled bool
}

const margin = 0.15

// Footprint renders the top-down view of set as SVG.
func Footprint(set *placement.Set, opts FootprintOptions) []byte {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	extent := set.Options.WithDefaults().Extent
	half := extent * (1 + margin)
	px := float64(opts.Size) / (2 * half)

	// Scene y grows upwards, SVG y downwards.
	tx := func(x float64) float64 { return (x + half) * px }
	ty := func(y float64) float64 { return (half - y) * px }

	items := set.Items
	if opts.Upto > 0 && opts.Upto < len(items) {
		items = items[:opts.Upto]
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		opts.Size, opts.Size, opts.Size, opts.Size)
	buf.WriteString(`  <rect width="100%" height="100%" fill="#fafafa"/>` + "\n")
	fmt.Fprintf(&buf, `  <rect class="bounds" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="#bbb" stroke-dasharray="4 4"/>`+"\n",
		tx(-extent), ty(extent), 2*extent*px, 2*extent*px)

	for n, it := range items {
		fill := "#999999"
		if n < len(opts.Palette) {
			fill = opts.Palette[n].Hex()
		}
		cx, cy := tx(it.Center.X), ty(it.Center.Y)
		if opts.ShowSampled && it.Scale < 1 {
			writeShape(&buf, it.Kind, cx, cy, it.Sampled.X*px, it.Sampled.Y*px,
				`fill="none" stroke="#666" stroke-dasharray="2 2"`)
		}
		writeShape(&buf, it.Kind, cx, cy, it.HalfExtents.X*px, it.HalfExtents.Y*px,
			fmt.Sprintf(`class="item %s" id="obj%d" fill="%s" fill-opacity="0.8" stroke="#333"`, it.Kind, n, fill))
		fmt.Fprintf(&buf, `  <text x="%.2f" y="%.2f" font-family="monospace" font-size="12" text-anchor="middle" dominant-baseline="middle">%d</text>`+"\n",
			cx, cy, n)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeShape(buf *bytes.Buffer, kind placement.Kind, cx, cy, rx, ry float64, attrs string) {
	if kind == placement.Sphere {
		fmt.Fprintf(buf, `  <ellipse cx="%.2f" cy="%.2f" rx="%.2f" ry="%.2f" %s/>`+"\n", cx, cy, rx, ry, attrs)
		return
	}
	fmt.Fprintf(buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" %s/>`+"\n", cx-rx, cy-ry, 2*rx, 2*ry, attrs)
}
