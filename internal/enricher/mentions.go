package enricher

import (
	"github.com/olehluchkiv/brandgraph/internal/dataset"
	"github.com/olehluchkiv/brandgraph/internal/mention"
)

// MentionExtractor fills Post.Mentions from the post content. Posts that
// already carry mentions (loaded from a precomputed column) are kept as is.
type MentionExtractor struct{}

// NewMentionExtractor returns an extractor for @-handles in post content.
func NewMentionExtractor() *MentionExtractor { return &MentionExtractor{} }

// Enrich returns a copy of posts with nil mentions extracted from Content.
func (m *MentionExtractor) Enrich(posts []dataset.Post) []dataset.Post {
	out := clonePosts(posts)
	for i := range out {
		if out[i].Mentions != nil {
			continue
		}
		out[i].Mentions = mention.Extract(out[i].Content)
	}
	return out
}
