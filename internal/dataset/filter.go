package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AllBrands selects every brand.
const AllBrands = "ALL"

// Filter narrows the post collection in scope for one render pass.
type Filter struct {
	Brand     string    // "" or AllBrands selects every brand
	From      time.Time // zero means unbounded; compared by calendar day
	To        time.Time // zero means unbounded; compared by calendar day
	Community *int
}

// Key returns a canonical descriptor of the filter, suitable as a cache key.
func (f Filter) Key() string {
	var b strings.Builder
	b.WriteString("brand=")
	b.WriteString(f.brand())
	b.WriteString("|from=")
	if !f.From.IsZero() {
		b.WriteString(f.From.Format(time.DateOnly))
	}
	b.WriteString("|to=")
	if !f.To.IsZero() {
		b.WriteString(f.To.Format(time.DateOnly))
	}
	b.WriteString("|community=")
	if f.Community != nil {
		b.WriteString(strconv.Itoa(*f.Community))
	}
	return b.String()
}

// Validate rejects inverted date ranges.
func (f Filter) Validate() error {
	if !f.From.IsZero() && !f.To.IsZero() && dayOf(f.To).Before(dayOf(f.From)) {
		return fmt.Errorf("invalid date range: %s is after %s",
			f.From.Format(time.DateOnly), f.To.Format(time.DateOnly))
	}
	return nil
}

func (f Filter) brand() string {
	b := strings.TrimSpace(f.Brand)
	if b == "" || strings.EqualFold(b, AllBrands) {
		return AllBrands
	}
	if strings.EqualFold(b, OtherBrand) {
		return OtherBrand
	}
	return strings.ToLower(b)
}

// Match reports whether p passes the filter.
func (f Filter) Match(p Post) bool {
	if brand := f.brand(); brand != AllBrands && p.Brand != brand {
		return false
	}
	day := dayOf(p.PostedAt)
	if !f.From.IsZero() && day.Before(dayOf(f.From)) {
		return false
	}
	if !f.To.IsZero() && day.After(dayOf(f.To)) {
		return false
	}
	if f.Community != nil && (p.Community == nil || *p.Community != *f.Community) {
		return false
	}
	return true
}

// Apply returns the posts matching f in their original order. The input slice
// is not modified.
func Apply(posts []Post, f Filter) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// ParseDay parses a user-supplied date. Empty input yields the zero time.
func ParseDay(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	t, err := ParseTime(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return dayOf(t), nil
}

// dayOf truncates t to midnight of its calendar day, keeping the day as
// written in t's own zone.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
