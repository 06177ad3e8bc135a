package preview

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/scenegen/pkg/placement"
)

// ToDOT returns the constraint graph of set in Graphviz DOT format. Each
// item is a node; an edge runs from the binding neighbour to every item it
// shrank, labelled with the imposed scale. Unconstrained items have no
// incoming edge.
func ToDOT(set *placement.Set) string {
	var buf bytes.Buffer
	buf.WriteString("digraph constraints {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=filled, fillcolor=white, fontname=monospace];\n")
	buf.WriteString("\n")

	for n, it := range set.Items {
		shape := "box"
		if it.Kind == placement.Sphere {
			shape = "ellipse"
		}
		label := fmt.Sprintf("obj%d\\n%s ×%.2f", n, it.Kind, it.Scale)
		fmt.Fprintf(&buf, "  obj%d [label=\"%s\", shape=%s];\n", n, label, shape)
	}

	buf.WriteString("\n")
	for _, c := range placement.Constraints(set) {
		if c.Binding < 0 {
			continue
		}
		fmt.Fprintf(&buf, "  obj%d -> obj%d [label=\"%.2f\"];\n", c.Binding, c.Item, c.Scale)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG lays out a DOT graph with Graphviz and returns SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized root element with a
// plain one whose width and height match the viewBox.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
