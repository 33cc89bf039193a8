package todotxt

import (
	"fmt"
	"strings"
)

// Kind classifies a tag by its surface form.
type Kind int

const (
	KindContext  Kind = iota // @name
	KindProject              // +name
	KindKeyValue             // key:value
)

// Tag is an immutable tagged fragment of a task title. Two tags are equal
// iff their raw text is identical.
type Tag struct {
	raw   string
	kind  Kind
	key   string // name for context/project tags, key for key-value tags
	value string // key-value tags only
}

func NewContext(name string) Tag {
	return Tag{raw: "@" + name, kind: KindContext, key: name}
}

func NewProject(name string) Tag {
	return Tag{raw: "+" + name, kind: KindProject, key: name}
}

func NewKeyValue(key, value string) Tag {
	return Tag{raw: key + ":" + value, kind: KindKeyValue, key: key, value: value}
}

// ParseTag parses a single whitespace-free word as a tag.
func ParseTag(word string) (Tag, error) {
	if strings.ContainsAny(word, " \t") {
		return Tag{}, fmt.Errorf("invalid tag %q: tags cannot contain whitespace", word)
	}
	tag, ok := classifyTag(word)
	if !ok {
		return Tag{}, fmt.Errorf("invalid tag %q: want @context, +project or key:value", word)
	}
	return tag, nil
}

// classifyTag reports whether a whitespace-delimited word is a tag. The
// surface forms are tried in fixed order so that a word like "@a:b" is a
// context tag, not a key-value tag. A key-value tag whose value starts with
// "//" is rejected so URLs stay plain text.
func classifyTag(word string) (Tag, bool) {
	switch {
	case len(word) > 1 && word[0] == '@':
		return Tag{raw: word, kind: KindContext, key: word[1:]}, true
	case len(word) > 1 && word[0] == '+':
		return Tag{raw: word, kind: KindProject, key: word[1:]}, true
	}
	i := strings.IndexByte(word, ':')
	if i <= 0 || i == len(word)-1 {
		return Tag{}, false
	}
	if strings.HasPrefix(word[i+1:], "//") {
		return Tag{}, false
	}
	return Tag{raw: word, kind: KindKeyValue, key: word[:i], value: word[i+1:]}, true
}

func (t Tag) Raw() string   { return t.raw }
func (t Tag) Kind() Kind    { return t.kind }
func (t Tag) Key() string   { return t.key }
func (t Tag) Value() string { return t.value }

func (t Tag) Equal(o Tag) bool { return t.raw == o.raw }

// Less orders tags by (kind, key, value): contexts before projects before
// key-value tags, then lexically within a kind.
func (t Tag) Less(o Tag) bool {
	if t.kind != o.kind {
		return t.kind < o.kind
	}
	if t.key != o.key {
		return t.key < o.key
	}
	return t.value < o.value
}
