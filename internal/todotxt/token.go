package todotxt

import (
	"sort"
	"strings"
)

// Token is one element of a tokenized title: either a tag or a run of plain
// text (which may be whitespace-only).
type Token struct {
	tag  *Tag
	text string
}

func TagToken(t Tag) Token     { return Token{tag: &t} }
func TextToken(s string) Token { return Token{text: s} }

// Tag returns the token's tag, if it is a tag token.
func (t Token) Tag() (Tag, bool) {
	if t.tag == nil {
		return Tag{}, false
	}
	return *t.tag, true
}

// Raw returns the token's exact source text.
func (t Token) Raw() string {
	if t.tag != nil {
		return t.tag.raw
	}
	return t.text
}

func (t Token) whitespaceOnly() bool {
	return t.tag == nil && strings.TrimSpace(t.text) == ""
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' }

// Tokenize splits text into tag and plain-text tokens. A tag is recognized
// only as a whole whitespace-delimited word, so tags embedded mid-word stay
// plain text. Concatenating the raw text of the returned tokens reproduces
// the input exactly.
func Tokenize(text string) []Token {
	var tokens []Token
	var plain strings.Builder
	flush := func() {
		if plain.Len() > 0 {
			tokens = append(tokens, TextToken(plain.String()))
			plain.Reset()
		}
	}
	for i := 0; i < len(text); {
		if isSpace(text[i]) {
			plain.WriteByte(text[i])
			i++
			continue
		}
		end := i
		for end < len(text) && !isSpace(text[end]) {
			end++
		}
		word := text[i:end]
		if tag, ok := classifyTag(word); ok {
			flush()
			tokens = append(tokens, TagToken(tag))
		} else {
			plain.WriteString(word)
		}
		i = end
	}
	flush()
	return tokens
}

// Join reassembles tokens into a title. Whitespace at token boundaries is
// collapsed to a single space and the result is trimmed, so Join is
// idempotent over Tokenize. Whitespace inside a plain-text token is kept.
func Join(tokens []Token) string {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if s := strings.TrimSpace(tok.Raw()); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// SortEdgeTags canonicalizes the order of the tags at one edge of a token
// sequence. Scanning inward from the chosen edge, tags and whitespace-only
// fragments are consumed until the first real text fragment; the consumed
// tags are stable-sorted and reinserted at the edge. Whitespace fragments
// are dropped, Join reinserts separators.
func SortEdgeTags(tokens []Token, trailing bool) []Token {
	n := 0
	var edge []Tag
	for n < len(tokens) {
		tok := tokens[n]
		if trailing {
			tok = tokens[len(tokens)-1-n]
		}
		if tag, ok := tok.Tag(); ok {
			edge = append(edge, tag)
			n++
			continue
		}
		if tok.whitespaceOnly() {
			n++
			continue
		}
		break
	}
	if len(edge) == 0 {
		return tokens
	}
	if trailing {
		// Collected back to front; restore document order before sorting
		// so the sort stays stable with respect to the original text.
		for i, j := 0, len(edge)-1; i < j; i, j = i+1, j-1 {
			edge[i], edge[j] = edge[j], edge[i]
		}
	}
	sort.SliceStable(edge, func(i, j int) bool { return edge[i].Less(edge[j]) })

	sorted := make([]Token, 0, len(tokens))
	if trailing {
		sorted = append(sorted, tokens[:len(tokens)-n]...)
		for _, tag := range edge {
			sorted = append(sorted, TagToken(tag))
		}
	} else {
		for _, tag := range edge {
			sorted = append(sorted, TagToken(tag))
		}
		sorted = append(sorted, tokens[n:]...)
	}
	return sorted
}
