package graph

import "strings"

// Source is one post as seen by the builder.
type Source interface {
	AuthorHandle() string
	MentionedHandles() []string
}

// Build constructs the mention graph: one edge author → mentioned for every
// pair observed in posts. Handles are lowercased. Posts with a blank author
// and blank mention entries are skipped.
func Build[S Source](posts []S) *Graph {
	g := New()
	for _, p := range posts {
		author := normalize(p.AuthorHandle())
		if author == "" {
			continue
		}
		for _, m := range p.MentionedHandles() {
			target := normalize(m)
			if target == "" {
				continue
			}
			g.AddEdge(author, target)
		}
	}
	return g
}

func normalize(handle string) string {
	return strings.ToLower(strings.TrimSpace(handle))
}
