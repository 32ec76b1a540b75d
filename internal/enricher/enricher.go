package enricher

import "github.com/olehluchkiv/brandgraph/internal/dataset"

// Enricher derives fields of loaded posts. Implementations return a new slice
// and leave the input untouched.
type Enricher interface {
	Enrich(posts []dataset.Post) []dataset.Post
}

// Default returns the standard pipeline: brand tagging, then mention
// extraction.
func Default(brands []string) []Enricher {
	return []Enricher{
		NewBrandTagger(brands),
		NewMentionExtractor(),
	}
}

// Run applies enrichers in order.
func Run(posts []dataset.Post, enrichers ...Enricher) []dataset.Post {
	for _, e := range enrichers {
		posts = e.Enrich(posts)
	}
	return posts
}

func clonePosts(posts []dataset.Post) []dataset.Post {
	out := make([]dataset.Post, len(posts))
	copy(out, posts)
	return out
}
