package textspan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenizeWhitespace(t *testing.T) {
	text := "Hello, world!  Second sentence."
	tokens, err := Tokenize(text, MethodWhitespace)
	if err != nil {
		t.Fatal(err)
	}
	want := []Token{
		{"Hello,", 0, 6},
		{"world!", 7, 13},
		{"Second", 15, 21},
		{"sentence.", 22, 31},
	}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeWordPunct(t *testing.T) {
	tokens, err := Tokenize("Hello, world!", MethodWordPunct)
	if err != nil {
		t.Fatal(err)
	}
	want := []Token{
		{"Hello", 0, 5},
		{",", 5, 6},
		{"world", 7, 12},
		{"!", 12, 13},
	}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeOffsetsSliceBackToTokens(t *testing.T) {
	text := "naïve café-goers, 3.5% of them."
	for _, method := range []string{MethodWhitespace, MethodWordPunct} {
		tokens, err := Tokenize(text, method)
		if err != nil {
			t.Fatal(err)
		}
		runes := []rune(text)
		for _, tok := range tokens {
			if got := string(runes[tok.Start:tok.End]); got != tok.Text {
				t.Fatalf("%s: text[%d:%d] = %q, want %q", method, tok.Start, tok.End, got, tok.Text)
			}
		}
	}
}

func TestTokenizeUnknownMethod(t *testing.T) {
	if _, err := Tokenize("text", "bpe"); err == nil {
		t.Fatal("expected error for unknown method")
	}
}

func TestTokenizeEmptyDefaultsToWhitespace(t *testing.T) {
	tokens, err := Tokenize("one two", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 2 {
		t.Fatalf("token count = %d, want 2", len(tokens))
	}
}
