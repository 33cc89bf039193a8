package todotxt

import (
	"strings"
	"time"

	"github.com/todoslice/todoslice/internal/diag"
)

const DateLayout = "2006-01-02"

// Task is a single todo.txt record. Title is free text and may embed tags;
// everything else a caller might want (tags, start date, due date) is
// derived from it. Mutators return a new value, the receiver is never
// changed.
//
// Parsing is total: any line yields a Task, and serializing it back
// reproduces the line up to whitespace collapsing. Components that fail to
// parse (for example a malformed date) simply become part of the title.
type Task struct {
	Title        string
	Priority     Priority
	CreateDate   time.Time // zero when absent
	CompleteDate time.Time // zero when not completed
}

// Parse reads a record line: [x <date> ][(<A-Z>) ][<date> ]title.
// Each optional component must be followed by whitespace to count.
func Parse(line string) Task {
	var t Task
	rest := line
	if r, d, ok := cutCompletion(rest); ok {
		t.CompleteDate, rest = d, r
	}
	if r, p, ok := cutPriority(rest); ok {
		t.Priority, rest = p, r
	}
	if r, d, ok := cutDate(rest); ok {
		t.CreateDate, rest = d, r
	}
	t.Title = strings.TrimRight(rest, " \t")
	return t
}

func cutCompletion(s string) (string, time.Time, bool) {
	if len(s) < 2 || s[0] != 'x' || !isSpace(s[1]) {
		return s, time.Time{}, false
	}
	rest, d, ok := cutDate(strings.TrimLeft(s[1:], " \t"))
	if !ok {
		return s, time.Time{}, false
	}
	return rest, d, true
}

func cutPriority(s string) (string, Priority, bool) {
	if len(s) < 4 || s[0] != '(' || s[2] != ')' || !isSpace(s[3]) {
		return s, Priority{}, false
	}
	c := s[1]
	if (c < 'A' || c > 'Z') && c != '_' {
		return s, Priority{}, false
	}
	p := Priority{Explicit: true}
	if c != '_' {
		p.Level = c
	}
	return strings.TrimLeft(s[4:], " \t"), p, true
}

func cutDate(s string) (string, time.Time, bool) {
	end := 0
	for end < len(s) && !isSpace(s[end]) {
		end++
	}
	if end == len(s) {
		return s, time.Time{}, false
	}
	d, ok := parseDate(s[:end])
	if !ok {
		return s, time.Time{}, false
	}
	return strings.TrimLeft(s[end:], " \t"), d, true
}

func parseDate(s string) (time.Time, bool) {
	if len(s) != len(DateLayout) {
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Line is the canonical serialized form of the task.
func (t Task) Line() string {
	parts := make([]string, 0, 4)
	if t.Completed() {
		parts = append(parts, "x "+t.CompleteDate.Format(DateLayout))
	}
	if s := t.Priority.String(); s != "" {
		parts = append(parts, s)
	}
	if !t.CreateDate.IsZero() {
		parts = append(parts, t.CreateDate.Format(DateLayout))
	}
	if t.Title != "" {
		parts = append(parts, t.Title)
	}
	return strings.Join(parts, " ")
}

func (t Task) Completed() bool { return !t.CompleteDate.IsZero() }

func (t Task) Tokens() []Token { return Tokenize(t.Title) }

// Tags returns the title's tags with duplicates collapsed, in scan order.
func (t Task) Tags() []Tag {
	var tags []Tag
	seen := make(map[string]bool)
	for _, tok := range t.Tokens() {
		if tag, ok := tok.Tag(); ok && !seen[tag.raw] {
			seen[tag.raw] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

func (t Task) HasTag(tag Tag) bool {
	for _, tok := range t.Tokens() {
		if got, ok := tok.Tag(); ok && got.Equal(tag) {
			return true
		}
	}
	return false
}

// KeyValueTags returns every key-value tag with the given key, in scan
// order, duplicates included.
func (t Task) KeyValueTags(key string) []Tag {
	var tags []Tag
	for _, tok := range t.Tokens() {
		if tag, ok := tok.Tag(); ok && tag.kind == KindKeyValue && tag.key == key {
			tags = append(tags, tag)
		}
	}
	return tags
}

// StartDate is the date value of the first well-formed t: tag.
func (t Task) StartDate() (time.Time, bool) { return t.keyDate("t") }

// DueDate is the date value of the first well-formed due: tag.
func (t Task) DueDate() (time.Time, bool) { return t.keyDate("due") }

func (t Task) keyDate(key string) (time.Time, bool) {
	for _, tag := range t.KeyValueTags(key) {
		if d, ok := parseDate(tag.value); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

// withTitle rebuilds the task around a new title. The full line is
// re-parsed so a title that now begins with a date or priority is folded
// into the matching field, exactly as if the line had been read from disk.
func (t Task) withTitle(title string) Task {
	u := t
	u.Title = title
	return Parse(u.Line())
}

func (t Task) WithPriority(p Priority) Task {
	u := t
	u.Priority = p
	return u
}

func (t Task) WithCreateDate(d time.Time) Task {
	u := t
	u.CreateDate = d
	return u
}

// WithStartDate replaces any t: tags with a single trailing t:<date> tag,
// or removes them all when d is the zero time.
func (t Task) WithStartDate(d time.Time) Task {
	u, _ := t.PopKeyValueTag("t")
	if d.IsZero() {
		return u
	}
	return u.AddTags([]Tag{NewKeyValue("t", d.Format(DateLayout))}, true)
}

// AddTags inserts tags at the chosen edge of the title. Existing copies of
// the tags being added are silently dropped first, so the new placement
// always wins over a stale one.
func (t Task) AddTags(tags []Tag, trailing bool) Task {
	var kept []Token
	for _, tok := range t.Tokens() {
		if got, ok := tok.Tag(); ok && containsTag(tags, got) {
			continue
		}
		kept = append(kept, tok)
	}
	added := make([]Token, len(tags))
	for i, tag := range tags {
		added[i] = TagToken(tag)
	}
	if trailing {
		kept = append(kept, added...)
	} else {
		kept = append(added, kept...)
	}
	return t.withTitle(Join(kept))
}

// RemoveTags drops every token equal to one of the given tags.
func (t Task) RemoveTags(tags []Tag) Task {
	var kept []Token
	for _, tok := range t.Tokens() {
		if got, ok := tok.Tag(); ok && containsTag(tags, got) {
			continue
		}
		kept = append(kept, tok)
	}
	return t.withTitle(Join(kept))
}

// RemoveDuplicateTags keeps the first occurrence of each tag and returns
// the later copies that were dropped.
func (t Task) RemoveDuplicateTags() (Task, []Tag) {
	var kept []Token
	var dropped []Tag
	seen := make(map[string]bool)
	for _, tok := range t.Tokens() {
		if tag, ok := tok.Tag(); ok {
			if seen[tag.raw] {
				dropped = append(dropped, tag)
				continue
			}
			seen[tag.raw] = true
		}
		kept = append(kept, tok)
	}
	if len(dropped) == 0 {
		return t, nil
	}
	return t.withTitle(Join(kept)), dropped
}

// PopKeyValueTag removes all key-value tags with the given key and returns
// them in scan order.
func (t Task) PopKeyValueTag(key string) (Task, []Tag) {
	removed := t.KeyValueTags(key)
	if len(removed) == 0 {
		return t, nil
	}
	return t.RemoveTags(removed), removed
}

// Normalize canonicalizes the task. The steps run in a fixed order:
// priority cleanup, duplicate tag removal, expired start date removal,
// then edge tag ordering. Applying Normalize twice is the same as once.
func (t Task) Normalize(today time.Time, d *diag.Diagnostics) Task {
	out := t
	if out.Completed() {
		out = out.WithPriority(Priority{})
	} else {
		out = out.WithPriority(Priority{Level: out.Priority.Level})
	}

	out, dropped := out.RemoveDuplicateTags()
	for _, tag := range dropped {
		d.Warnf("dropping duplicate tag %q from %q", tag.Raw(), t.Line())
	}

	out = out.normalizeStartDate(today, d)

	tokens := SortEdgeTags(out.Tokens(), false)
	tokens = SortEdgeTags(tokens, true)
	return out.withTitle(Join(tokens))
}

// normalizeStartDate keeps at most one dated t: tag, and only while its
// date is still in the future; a start date on or before today has served
// its purpose and is removed. Tags with malformed dates are left alone.
func (t Task) normalizeStartDate(today time.Time, d *diag.Diagnostics) Task {
	var start *Tag
	var startDate time.Time
	var extra []Tag
	for _, tag := range t.KeyValueTags("t") {
		date, ok := parseDate(tag.value)
		if !ok {
			continue
		}
		if start == nil {
			s := tag
			start, startDate = &s, date
			continue
		}
		extra = append(extra, tag)
	}
	if start == nil {
		return t
	}
	out := t
	if len(extra) > 0 {
		for _, tag := range extra {
			d.Warnf("dropping extra start date %q from %q", tag.Raw(), t.Line())
		}
		out = out.RemoveTags(extra)
	}
	if !startDate.After(today) {
		out = out.RemoveTags([]Tag{*start})
	}
	return out
}

func containsTag(tags []Tag, tag Tag) bool {
	for _, t := range tags {
		if t.Equal(tag) {
			return true
		}
	}
	return false
}
