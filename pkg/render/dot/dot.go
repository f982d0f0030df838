package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/layerview/pkg/graph"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds the layer index and coordinates to node labels.
	Detailed bool

	// HideRelays draws relays as invisible points.
	HideRelays bool
}

// ToDOT converts a layout to Graphviz DOT source. Layers run left to right.
func ToDOT(l graph.Layout, opts Options) string {
	labels := make(map[string]string, len(l.Nodes))
	for _, n := range l.Nodes {
		labels[n.ID] = n.Label
	}

	var buf bytes.Buffer
	buf.WriteString("digraph layout {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.3;\n")

	relays := make(map[string]bool)
	for i, layer := range l.Layers {
		fmt.Fprintf(&buf, "\n  subgraph layer_%d {\n    rank=same;\n", i)
		for _, s := range layer {
			if s.Dummy {
				relays[s.ID] = true
			}
			fmt.Fprintf(&buf, "    %q [%s];\n", s.ID, strings.Join(slotAttrs(s, i, labels[s.ID], opts), ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		if relays[e.To] {
			fmt.Fprintf(&buf, "  %q -> %q [arrowhead=none];\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(s graph.Slot, layer int, label string, detailed bool) string {
	if label == "" {
		label = s.ID
	}
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\nlayer: %d\nx: %g  y: %g", label, layer, s.X, s.Y)
}

func slotAttrs(s graph.Slot, layer int, label string, opts Options) []string {
	if !s.Dummy {
		return []string{fmt.Sprintf("label=%q", fmtLabel(s, layer, label, opts.Detailed))}
	}
	attrs := []string{"label=\"\"", "shape=point", "width=0.08"}
	if opts.HideRelays {
		return append(attrs, "style=invis")
	}
	return append(attrs, "style=dashed", "color=grey50")
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
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

// normalizeViewBox rewrites the root element to a zero-origin viewBox with
// matching width and height.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
