package textspan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustTokenize(t *testing.T, text string) []Token {
	t.Helper()
	tokens, err := Tokenize(text, MethodWhitespace)
	if err != nil {
		t.Fatal(err)
	}
	return tokens
}

func TestSpansToBIOLongestSpanWins(t *testing.T) {
	tokens := mustTokenize(t, "New York City is nice")
	spans := []Span{
		{Start: 0, End: 13, Label: "LOC"},
		{Start: 0, End: 8, Label: "CITY"},
	}
	tags, err := SpansToBIO(tokens, spans, SchemeBIO)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"B-LOC", "I-LOC", "I-LOC", "O", "O"}
	if diff := cmp.Diff(want, tags); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestSpansToBIOMajorityOverlap(t *testing.T) {
	tokens := mustTokenize(t, "overlap test")
	// Covers only 2 of the first token's 7 characters: below half, excluded.
	spans := []Span{{Start: 0, End: 2, Label: "X"}}
	tags, err := SpansToBIO(tokens, spans, SchemeBIO)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"O", "O"}
	if diff := cmp.Diff(want, tags); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}

	// Covers 4 of 7: majority, included.
	spans = []Span{{Start: 0, End: 4, Label: "X"}}
	tags, err = SpansToBIO(tokens, spans, SchemeBIO)
	if err != nil {
		t.Fatal(err)
	}
	want = []string{"B-X", "O"}
	if diff := cmp.Diff(want, tags); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestSpansToBIOES(t *testing.T) {
	tokens := mustTokenize(t, "Paris and New York")
	spans := []Span{
		{Start: 0, End: 5, Label: "LOC"},
		{Start: 10, End: 18, Label: "LOC"},
	}
	tags, err := SpansToBIO(tokens, spans, SchemeBIOES)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"S-LOC", "O", "B-LOC", "E-LOC"}
	if diff := cmp.Diff(want, tags); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestSpansToBIOTieKeepsInputOrder(t *testing.T) {
	tokens := mustTokenize(t, "token")
	spans := []Span{
		{Start: 0, End: 5, Label: "FIRST"},
		{Start: 0, End: 5, Label: "SECOND"},
	}
	tags, err := SpansToBIO(tokens, spans, SchemeBIO)
	if err != nil {
		t.Fatal(err)
	}
	if tags[0] != "B-FIRST" {
		t.Fatalf("tag = %q, want B-FIRST (equal-length ties keep input order)", tags[0])
	}
}

func TestSpansToBIOUnknownScheme(t *testing.T) {
	if _, err := SpansToBIO(nil, nil, "iob2"); err == nil {
		t.Fatal("expected error for unknown scheme")
	}
}
