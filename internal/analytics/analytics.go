// Package analytics computes the dashboard figures for a filtered post
// collection: headline metrics, daily volume, topic shares and community
// profiles. Topic display labels are passed in by the caller.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/olehluchkiv/brandgraph/internal/dataset"
	"github.com/olehluchkiv/brandgraph/internal/graph"
)

// TopActiveMembers is how many members a community profile lists.
const TopActiveMembers = 5

// Overview holds the headline metrics of the current selection.
type Overview struct {
	Posts        int     `json:"posts"`
	UniqueUsers  int     `json:"uniqueUsers"`
	Interactions int     `json:"interactions"`
	Density      float64 `json:"density"`
}

// Summarize computes the overview from the filtered posts and the graph built
// from them.
func Summarize(posts []dataset.Post, g *graph.Graph) Overview {
	o := Overview{
		Posts:       len(posts),
		UniqueUsers: len(uniqueAuthors(posts)),
	}
	if g != nil {
		o.Interactions = g.NumEdges()
		o.Density = graph.Density(g)
	}
	return o
}

// DayCount is the number of posts on one calendar day.
type DayCount struct {
	Day   string `json:"day"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// DailyVolume counts posts per UTC day from the first to the last day in
// posts. Days without posts are included with a zero count.
func DailyVolume(posts []dataset.Post) []DayCount {
	first, last, ok := dataset.TimeBounds(posts)
	if !ok {
		return nil
	}
	counts := make(map[string]int)
	for _, p := range posts {
		counts[p.PostedAt.UTC().Format(time.DateOnly)]++
	}

	start := truncateDay(first.UTC())
	end := truncateDay(last.UTC())
	var out []DayCount
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)
		out = append(out, DayCount{Day: key, Count: counts[key]})
	}
	return out
}

// LabelCount is a labelled count with its share of the total.
type LabelCount struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Share float64 `json:"share"`
}

// TopicLabel returns the display label for a topic id.
func TopicLabel(labels map[int]string, id int) string {
	if l, ok := labels[id]; ok {
		return l
	}
	return fmt.Sprintf("Topic #%d", id+1)
}

// TopicDistribution counts posts per topic, most frequent first. Posts without
// a topic are left out of both counts and shares.
func TopicDistribution(posts []dataset.Post, labels map[int]string) []LabelCount {
	counts := make(map[string]int)
	total := 0
	for _, p := range posts {
		if p.Topic == dataset.NoTopic {
			continue
		}
		counts[TopicLabel(labels, p.Topic)]++
		total++
	}
	return rank(counts, total)
}

// Communities returns the sorted distinct community ids present in posts.
func Communities(posts []dataset.Post) []int {
	seen := make(map[int]bool)
	var out []int
	for _, p := range posts {
		if p.Community == nil || seen[*p.Community] {
			continue
		}
		seen[*p.Community] = true
		out = append(out, *p.Community)
	}
	sort.Ints(out)
	return out
}

// MemberCount is a member handle with its number of posts.
type MemberCount struct {
	Handle string `json:"handle"`
	Posts  int    `json:"posts"`
}

// Profile describes one community within the current selection.
type Profile struct {
	Community   int           `json:"community"`
	Members     int           `json:"members"`
	Posts       int           `json:"posts"`
	MostActive  []MemberCount `json:"mostActive"`
	TopicShares []LabelCount  `json:"topicShares"`
}

// CommunityProfile summarizes the posts of one community. ok is false when
// the community has no posts in the selection.
func CommunityProfile(posts []dataset.Post, community int, labels map[int]string) (Profile, bool) {
	members := dataset.Apply(posts, dataset.Filter{Community: &community})
	if len(members) == 0 {
		return Profile{}, false
	}

	perAuthor := make(map[string]int)
	for _, p := range members {
		if p.Author == "" {
			continue
		}
		perAuthor[p.Author]++
	}
	active := make([]MemberCount, 0, len(perAuthor))
	for h, n := range perAuthor {
		active = append(active, MemberCount{Handle: h, Posts: n})
	}
	sort.Slice(active, func(i, j int) bool {
		if active[i].Posts != active[j].Posts {
			return active[i].Posts > active[j].Posts
		}
		return active[i].Handle < active[j].Handle
	})
	if len(active) > TopActiveMembers {
		active = active[:TopActiveMembers]
	}

	return Profile{
		Community:   community,
		Members:     len(perAuthor),
		Posts:       len(members),
		MostActive:  active,
		TopicShares: TopicDistribution(members, labels),
	}, true
}

func uniqueAuthors(posts []dataset.Post) map[string]bool {
	seen := make(map[string]bool)
	for _, p := range posts {
		if p.Author != "" {
			seen[p.Author] = true
		}
	}
	return seen
}

// rank orders counts descending, breaking ties by label.
func rank(counts map[string]int, total int) []LabelCount {
	out := make([]LabelCount, 0, len(counts))
	for label, n := range counts {
		lc := LabelCount{Label: label, Count: n}
		if total > 0 {
			lc.Share = float64(n) / float64(total)
		}
		out = append(out, lc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
