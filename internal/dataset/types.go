package dataset

import (
	"sort"
	"time"

	"github.com/olehluchkiv/brandgraph/internal/mention"
)

// OtherBrand tags posts that mention none of the configured brands.
const OtherBrand = "Other"

// NoTopic marks a post whose topic column was empty or unparseable.
const NoTopic = -1

// Post is one social-media message from the labelled dataset.
type Post struct {
	Author         string
	Content        string
	CleanText      string // preprocessed text used for brand detection
	PostedAt       time.Time
	AccountCreated time.Time // zero when the column is absent
	Brand          string
	Topic          int
	Community      *int // nil when no community was assigned upstream

	// Mentions is nil until either the precomputed mentions column is loaded
	// or the mention enricher extracts them from Content.
	Mentions mention.Mentions
}

// AuthorHandle implements graph.Source.
func (p Post) AuthorHandle() string { return p.Author }

// MentionedHandles implements graph.Source.
func (p Post) MentionedHandles() []string { return p.Mentions }

// Dataset holds the loaded posts.
type Dataset struct {
	Path    string
	Posts   []Post
	Skipped int // rows dropped because they could not be parsed
}

// Bounds returns the earliest and latest post timestamps. ok is false when
// there are no posts.
func (d *Dataset) Bounds() (first, last time.Time, ok bool) {
	return TimeBounds(d.Posts)
}

// Brands returns the sorted distinct brand tags.
func (d *Dataset) Brands() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range d.Posts {
		if p.Brand == "" || seen[p.Brand] {
			continue
		}
		seen[p.Brand] = true
		out = append(out, p.Brand)
	}
	sort.Strings(out)
	return out
}

// TimeBounds returns the earliest and latest PostedAt in posts.
func TimeBounds(posts []Post) (first, last time.Time, ok bool) {
	for i, p := range posts {
		if i == 0 || p.PostedAt.Before(first) {
			first = p.PostedAt
		}
		if i == 0 || p.PostedAt.After(last) {
			last = p.PostedAt
		}
	}
	return first, last, len(posts) > 0
}
