package enricher

import (
	"regexp"
	"sort"
	"strings"

	"github.com/olehluchkiv/brandgraph/internal/dataset"
)

// BrandTagger tags each post with the first brand named in its cleaned text.
// Posts naming no brand get dataset.OtherBrand.
type BrandTagger struct {
	pattern *regexp.Regexp
}

// NewBrandTagger builds a tagger for the given brand vocabulary. Matching is
// case-insensitive and substring based, so "zara" also matches "zaraofficial".
func NewBrandTagger(brands []string) *BrandTagger {
	quoted := make([]string, 0, len(brands))
	for _, b := range brands {
		b = strings.ToLower(strings.TrimSpace(b))
		if b == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(b))
	}
	if len(quoted) == 0 {
		return &BrandTagger{}
	}
	// Longer names first so an alternation never stops at a shorter prefix.
	sort.SliceStable(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })
	return &BrandTagger{pattern: regexp.MustCompile(`(?i)(` + strings.Join(quoted, "|") + `)`)}
}

// Tag returns the brand named first in text, lowercased.
func (t *BrandTagger) Tag(text string) string {
	if t.pattern == nil {
		return dataset.OtherBrand
	}
	m := t.pattern.FindString(text)
	if m == "" {
		return dataset.OtherBrand
	}
	return strings.ToLower(m)
}

// Enrich returns a copy of posts with Brand set from each post's CleanText.
func (t *BrandTagger) Enrich(posts []dataset.Post) []dataset.Post {
	out := clonePosts(posts)
	for i := range out {
		out[i].Brand = t.Tag(out[i].CleanText)
	}
	return out
}
