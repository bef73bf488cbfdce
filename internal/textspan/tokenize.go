// Package textspan holds the tokenizer and span-alignment helpers used by the
// text exporters.
//
// All offsets are rune offsets into the original item text, matching the
// character offsets the annotation tool records. For every produced token,
// string([]rune(text)[token.Start:token.End]) == token.Text.
package textspan

import (
	"fmt"
	"unicode"
)

// Tokenization methods accepted by Tokenize.
const (
	MethodWhitespace = "whitespace"
	MethodWordPunct  = "word_punct"
)

// Token is a tokenizer output carrying its rune offsets into the source text.
type Token struct {
	Text  string
	Start int
	End   int
}

// Tokenize splits text into offset-carrying tokens. The whitespace method
// keeps punctuation attached to its word; word_punct further splits each
// whitespace-delimited chunk into maximal word-character runs and individual
// punctuation characters. An empty method selects whitespace.
func Tokenize(text, method string) ([]Token, error) {
	switch method {
	case "", MethodWhitespace:
		return tokenizeWhitespace(text), nil
	case MethodWordPunct:
		return tokenizeWordPunct(text), nil
	default:
		return nil, fmt.Errorf("unknown tokenization method %q", method)
	}
}

func tokenizeWhitespace(text string) []Token {
	runes := []rune(text)
	var tokens []Token
	i := 0
	for i < len(runes) {
		if unicode.IsSpace(runes[i]) {
			i++
			continue
		}
		j := i
		for j < len(runes) && !unicode.IsSpace(runes[j]) {
			j++
		}
		tokens = append(tokens, Token{Text: string(runes[i:j]), Start: i, End: j})
		i = j
	}
	return tokens
}

func tokenizeWordPunct(text string) []Token {
	runes := []rune(text)
	var tokens []Token
	i := 0
	for i < len(runes) {
		switch {
		case unicode.IsSpace(runes[i]):
			i++
		case isWordRune(runes[i]):
			j := i
			for j < len(runes) && isWordRune(runes[j]) {
				j++
			}
			tokens = append(tokens, Token{Text: string(runes[i:j]), Start: i, End: j})
			i = j
		default:
			tokens = append(tokens, Token{Text: string(runes[i : i+1]), Start: i, End: i + 1})
			i++
		}
	}
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsNumber(r)
}
