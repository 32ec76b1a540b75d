// Package mention extracts @-handles from post text.
package mention

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Delimiter joins handles in the serialized form of Mentions.
const Delimiter = ","

// handlePattern matches an @ sigil followed by word characters. Letters and
// digits are matched in any script so non-ASCII handles are captured whole.
var handlePattern = regexp.MustCompile(`@([\p{L}\p{N}_]+)`)

var handleOnly = regexp.MustCompile(`^[\p{L}\p{N}_]+$`)

// ErrInvalidHandle is returned by Parse for a segment that is not a handle.
var ErrInvalidHandle = errors.New("invalid handle")

// Mentions is an ordered sequence of lowercase handles. Duplicates are kept.
type Mentions []string

// Extract returns the handles mentioned in text, lowercased, in order of
// appearance. Empty text yields an empty sequence.
func Extract(text string) Mentions {
	if text == "" {
		return Mentions{}
	}
	matches := handlePattern.FindAllStringSubmatch(text, -1)
	out := make(Mentions, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.ToLower(m[1]))
	}
	return out
}

// Parse reads the delimiter-joined form. Blank segments are dropped and
// handles are lowercased. Any other segment that is not made of word
// characters fails the whole value, so text serialized some other way (a
// bracketed list, say) is rejected rather than read as odd handles.
func Parse(s string) (Mentions, error) {
	out := Mentions{}
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	for _, part := range strings.Split(s, Delimiter) {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if !handleOnly.MatchString(part) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHandle, part)
		}
		out = append(out, part)
	}
	return out, nil
}

// String returns the delimiter-joined form.
func (m Mentions) String() string {
	return strings.Join(m, Delimiter)
}
