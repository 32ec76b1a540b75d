package graph

import (
	"fmt"
	"sort"
	"strings"
)

// MermaidOptions controls Mermaid flowchart generation.
type MermaidOptions struct {
	IncludeInit bool // include %%{init:}%% directive (for standalone .mmd files)
}

// GenerateMermaid produces a Mermaid flowchart of the graph. Nodes and edges
// are sorted so the output is stable across builds.
func GenerateMermaid(g *Graph, opts MermaidOptions) string {
	var b strings.Builder

	nodes := g.Nodes()
	sort.Strings(nodes)

	edges := g.Edges()
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})

	if opts.IncludeInit {
		b.WriteString("%%{init: {'theme': 'base', 'themeVariables': {'primaryColor': '#ECF0F1', 'primaryBorderColor': '#2C3E50', 'primaryTextColor': '#2C3E50', 'lineColor': '#555555'}}%%\n")
	}
	b.WriteString("flowchart LR")
	if len(nodes) > 0 {
		b.WriteString("\n    classDef hubStyle fill:#2374ab,stroke:#1a5a8a,color:#fff,stroke-width:2px,font-weight:bold")
	}

	for _, n := range nodes {
		b.WriteString(fmt.Sprintf("\n    %s[\"@%s (%d)\"]", NodeID(n), escapeLabel(n), g.InDegree(n)))
	}

	if len(nodes) > 0 && len(edges) > 0 {
		b.WriteString("\n")
	}
	for _, e := range edges {
		b.WriteString(fmt.Sprintf("\n    %s --> %s", NodeID(e.From), NodeID(e.To)))
	}

	// Highlight the most mentioned handles.
	var hubs []string
	for _, r := range TopMentioned(g, 5) {
		if r.InDegree > 0 {
			hubs = append(hubs, NodeID(r.Handle))
		}
	}
	if len(hubs) > 0 {
		b.WriteString("\n")
		for _, id := range hubs {
			b.WriteString(fmt.Sprintf("\n    class %s hubStyle", id))
		}
	}

	return b.String()
}

// NodeID builds a Mermaid-safe identifier for a handle. The prefix keeps ids
// like "end" or "1abc" from clashing with Mermaid keywords and syntax. ASCII
// letters, digits and '_' are copied except 'x', which opens an escape: every
// other rune is written as its hex code point between two 'x' characters, so
// distinct handles always get distinct ids.
func NodeID(handle string) string {
	var b strings.Builder
	b.WriteString("u_")
	for _, r := range handle {
		if r != 'x' && (r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			b.WriteRune(r)
		} else {
			b.WriteString(fmt.Sprintf("x%xx", r))
		}
	}
	return b.String()
}

// escapeLabel removes characters that terminate a quoted Mermaid label.
func escapeLabel(s string) string {
	return strings.NewReplacer(`"`, "#quot;").Replace(s)
}
