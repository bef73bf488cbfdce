package textspan

import (
	"fmt"
	"sort"
)

// Tagging schemes accepted by SpansToBIO.
const (
	SchemeBIO   = "bio"
	SchemeBIOES = "bioes"
)

// Span is a labeled character range, half-open, in rune offsets.
type Span struct {
	Start int
	End   int
	Label string
}

// SpansToBIO assigns one tag per token from character-offset spans.
//
// Spans are processed longest first (ties keep input order), so on overlap the
// longest span wins. A token joins a span when their overlap covers at least
// half the token and no longer span claimed it already. The first token of a
// span is tagged B-<label>, the rest I-<label>; under bioes, single-token
// spans become S-<label> and span-final tokens E-<label>. Unclaimed tokens
// are tagged O. An empty scheme selects bio.
func SpansToBIO(tokens []Token, spans []Span, scheme string) ([]string, error) {
	switch scheme {
	case "", SchemeBIO, SchemeBIOES:
	default:
		return nil, fmt.Errorf("unknown tagging scheme %q", scheme)
	}

	tags := make([]string, len(tokens))
	for i := range tags {
		tags[i] = "O"
	}
	claimed := make([]bool, len(tokens))

	ordered := make([]Span, len(spans))
	copy(ordered, spans)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].End-ordered[i].Start > ordered[j].End-ordered[j].Start
	})

	for _, span := range ordered {
		var members []int
		for i, tok := range tokens {
			if claimed[i] || tok.End <= tok.Start {
				continue
			}
			overlap := min(span.End, tok.End) - max(span.Start, tok.Start)
			if overlap <= 0 {
				continue
			}
			if 2*overlap >= tok.End-tok.Start {
				members = append(members, i)
			}
		}
		for n, i := range members {
			claimed[i] = true
			if n == 0 {
				tags[i] = "B-" + span.Label
			} else {
				tags[i] = "I-" + span.Label
			}
		}
		if scheme == SchemeBIOES && len(members) > 0 {
			if len(members) == 1 {
				tags[members[0]] = "S-" + span.Label
			} else {
				tags[members[len(members)-1]] = "E-" + span.Label
			}
		}
	}
	return tags, nil
}
