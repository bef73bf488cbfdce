package textspan

import "unicode"

// Sentence-final punctuation. The full-width period covers CJK text.
var terminalRunes = map[rune]bool{'.': true, '!': true, '?': true, '。': true}

// GroupSentences partitions token indices into sentences with a greedy
// heuristic: a token closes a sentence when it ends with terminal punctuation
// and is either the last token or followed by a token starting with an
// uppercase character. Trailing tokens without terminal punctuation form a
// final sentence.
func GroupSentences(tokens []Token) [][]int {
	var sentences [][]int
	var current []int
	for i, tok := range tokens {
		current = append(current, i)
		if !endsWithTerminal(tok.Text) {
			continue
		}
		if i == len(tokens)-1 || startsUpper(tokens[i+1].Text) {
			sentences = append(sentences, current)
			current = nil
		}
	}
	if len(current) > 0 {
		sentences = append(sentences, current)
	}
	return sentences
}

func endsWithTerminal(s string) bool {
	runes := []rune(s)
	if len(runes) == 0 {
		return false
	}
	return terminalRunes[runes[len(runes)-1]]
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
