package todotxt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todoslice/todoslice/internal/diag"
)

func date(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestParse_TitleOnly(t *testing.T) {
	task := Parse("buy milk @errand")
	assert.Equal(t, "buy milk @errand", task.Title)
	assert.False(t, task.Completed())
	assert.False(t, task.Priority.Explicit)
	assert.True(t, task.CreateDate.IsZero())
}

func TestParse_FullLine(t *testing.T) {
	task := Parse("x 2000-01-02 (A) 1999-12-31 write report +work")
	assert.Equal(t, date("2000-01-02"), task.CompleteDate)
	assert.Equal(t, byte('A'), task.Priority.Level)
	assert.True(t, task.Priority.Explicit)
	assert.Equal(t, date("1999-12-31"), task.CreateDate)
	assert.Equal(t, "write report +work", task.Title)
}

func TestParse_ExplicitNoPriority(t *testing.T) {
	task := Parse("(_) something")
	assert.True(t, task.Priority.Explicit)
	assert.Equal(t, byte(0), task.Priority.Level)
	assert.Equal(t, "something", task.Title)
}

func TestParse_ComponentsNeedTrailingWhitespace(t *testing.T) {
	// None of these prefixes bind without whitespace after them; the whole
	// line stays in the title.
	for _, line := range []string{"x", "(A)", "2000-01-01", "x 2000-01-01"} {
		task := Parse(line)
		assert.Equal(t, line, task.Title, "line %q", line)
		assert.False(t, task.Completed())
		assert.True(t, task.CreateDate.IsZero())
	}
}

func TestParse_MalformedComponentsFoldIntoTitle(t *testing.T) {
	task := Parse("(a) lower priority")
	assert.False(t, task.Priority.Explicit)
	assert.Equal(t, "(a) lower priority", task.Title)

	task = Parse("2000-13-01 bad date")
	assert.True(t, task.CreateDate.IsZero())
	assert.Equal(t, "2000-13-01 bad date", task.Title)

	task = Parse("x notadate done")
	assert.False(t, task.Completed())
	assert.Equal(t, "x notadate done", task.Title)
}

func TestParse_CompletionWithoutDateStaysInTitle(t *testing.T) {
	task := Parse("x (A) still open")
	assert.False(t, task.Completed())
	assert.Equal(t, "x (A) still open", task.Title)
}

func TestParse_TrailingWhitespaceStripped(t *testing.T) {
	assert.Equal(t, "a", Parse("a \t ").Title)
}

func TestLine_RoundTrip(t *testing.T) {
	lines := []string{
		"a",
		"(A) a",
		"(_) a",
		"2000-01-01 a",
		"(B) 2000-01-01 a @c +p k:v",
		"x 2000-01-02 a",
		"x 2000-01-02 (C) 1999-12-31 a",
	}
	for _, line := range lines {
		assert.Equal(t, line, Parse(line).Line())
	}
}

func TestLine_CollapsesWhitespaceBetweenComponents(t *testing.T) {
	assert.Equal(t, "x 2000-01-02 (A) 1999-12-31 a", Parse("x  2000-01-02   (A)  1999-12-31  a").Line())
}

func TestTags_CollapsesDuplicates(t *testing.T) {
	tags := Parse("a @c +p @c k:v").Tags()
	require.Len(t, tags, 3)
	assert.Equal(t, "@c", tags[0].Raw())
	assert.Equal(t, "+p", tags[1].Raw())
	assert.Equal(t, "k:v", tags[2].Raw())
}

func TestHasTag(t *testing.T) {
	task := Parse("a @c k:v")
	assert.True(t, task.HasTag(NewContext("c")))
	assert.True(t, task.HasTag(NewKeyValue("k", "v")))
	assert.False(t, task.HasTag(NewProject("c")))
}

func TestStartDate(t *testing.T) {
	d, ok := Parse("a t:2000-01-05").StartDate()
	require.True(t, ok)
	assert.Equal(t, date("2000-01-05"), d)

	_, ok = Parse("a").StartDate()
	assert.False(t, ok)

	// A malformed date is skipped in favor of a later well-formed one.
	d, ok = Parse("a t:soon t:2000-01-05").StartDate()
	require.True(t, ok)
	assert.Equal(t, date("2000-01-05"), d)
}

func TestDueDate(t *testing.T) {
	d, ok := Parse("a due:2000-02-01").DueDate()
	require.True(t, ok)
	assert.Equal(t, date("2000-02-01"), d)
}

func TestAddTags_Leading(t *testing.T) {
	task := Parse("(A) a @c").AddTags([]Tag{NewKeyValue("i", "01")}, false)
	assert.Equal(t, "(A) i:01 a @c", task.Line())
}

func TestAddTags_Trailing(t *testing.T) {
	task := Parse("a").AddTags([]Tag{NewContext("c"), NewProject("p")}, true)
	assert.Equal(t, "a @c +p", task.Line())
}

func TestAddTags_DropsStaleCopy(t *testing.T) {
	task := Parse("a @c b").AddTags([]Tag{NewContext("c")}, true)
	assert.Equal(t, "a b @c", task.Line())
}

func TestRemoveTags(t *testing.T) {
	task := Parse("a @c +p @c").RemoveTags([]Tag{NewContext("c")})
	assert.Equal(t, "a +p", task.Line())
}

func TestRemoveDuplicateTags(t *testing.T) {
	task, dropped := Parse("a @c +p @c +p @c").RemoveDuplicateTags()
	assert.Equal(t, "a @c +p", task.Line())
	require.Len(t, dropped, 3)
	assert.Equal(t, "@c", dropped[0].Raw())
	assert.Equal(t, "+p", dropped[1].Raw())
	assert.Equal(t, "@c", dropped[2].Raw())
}

func TestPopKeyValueTag(t *testing.T) {
	task, popped := Parse("(A) a t:2000-01-05 b t:2000-01-06").PopKeyValueTag("t")
	assert.Equal(t, "(A) a b", task.Line())
	require.Len(t, popped, 2)
	assert.Equal(t, "2000-01-05", popped[0].Value())
}

func TestWithStartDate_ReplacesExisting(t *testing.T) {
	task := Parse("a t:2000-01-05").WithStartDate(date("2000-02-01"))
	assert.Equal(t, "a t:2000-02-01", task.Line())
}

func TestWithStartDate_ZeroRemoves(t *testing.T) {
	task := Parse("a t:2000-01-05").WithStartDate(time.Time{})
	assert.Equal(t, "a", task.Line())
}

func TestWithTitle_RebindsLeadingDate(t *testing.T) {
	// Removing a leading tag can expose a date, which then becomes the
	// create date rather than title text.
	task := Parse("i:1 2000-01-01 a").RemoveTags([]Tag{NewKeyValue("i", "1")})
	assert.Equal(t, date("2000-01-01"), task.CreateDate)
	assert.Equal(t, "a", task.Title)
}

func TestNormalize_CompletedClearsPriority(t *testing.T) {
	var d diag.Diagnostics
	task := Parse("x 2000-01-02 (A) done").Normalize(date("2000-01-01"), &d)
	assert.Equal(t, "x 2000-01-02 done", task.Line())
}

func TestNormalize_ExplicitNoneBecomesImplicit(t *testing.T) {
	var d diag.Diagnostics
	task := Parse("(_) a").Normalize(date("2000-01-01"), &d)
	assert.Equal(t, "a", task.Line())
	assert.True(t, d.Empty())
}

func TestNormalize_DropsDuplicateTags(t *testing.T) {
	var d diag.Diagnostics
	task := Parse("a @c @c").Normalize(date("2000-01-01"), &d)
	assert.Equal(t, "a @c", task.Line())
	require.Len(t, d.Warnings(), 1)
	assert.Contains(t, d.Warnings()[0], "@c")
}

func TestNormalize_RemovesExpiredStartDate(t *testing.T) {
	var d diag.Diagnostics
	today := date("2000-01-01")

	task := Parse("a t:1999-12-31 b").Normalize(today, &d)
	assert.Equal(t, "a b", task.Line())

	task = Parse("a t:2000-01-01").Normalize(today, &d)
	assert.Equal(t, "a", task.Line())

	task = Parse("a t:2000-01-02").Normalize(today, &d)
	assert.Equal(t, "a t:2000-01-02", task.Line())
	assert.True(t, d.Empty())
}

func TestNormalize_KeepsFirstStartDate(t *testing.T) {
	var d diag.Diagnostics
	task := Parse("a t:2000-01-05 t:2000-01-06").Normalize(date("2000-01-01"), &d)
	assert.Equal(t, "a t:2000-01-05", task.Line())
	require.Len(t, d.Warnings(), 1)
	assert.Contains(t, d.Warnings()[0], "t:2000-01-06")
}

func TestNormalize_MalformedStartDateUntouched(t *testing.T) {
	var d diag.Diagnostics
	task := Parse("a t:someday").Normalize(date("2000-01-01"), &d)
	assert.Equal(t, "a t:someday", task.Line())
}

func TestNormalize_SortsEdgeTags(t *testing.T) {
	var d diag.Diagnostics
	task := Parse("x +p1 @c1 k2:v @c2 +p2 k1:v").Normalize(date("2000-01-01"), &d)
	assert.Equal(t, "x @c1 @c2 +p1 +p2 k1:v k2:v", task.Line())
}

func TestNormalize_Idempotent(t *testing.T) {
	today := date("2000-01-01")
	lines := []string{
		"x 2000-01-02 (A) a @c @c t:1999-12-31",
		"(_) b +p @c",
		"+p2 c text +p1 @z k:v",
		"plain",
	}
	for _, line := range lines {
		var d1, d2 diag.Diagnostics
		once := Parse(line).Normalize(today, &d1)
		twice := once.Normalize(today, &d2)
		assert.Equal(t, once.Line(), twice.Line(), "line %q", line)
		assert.True(t, d2.Empty(), "second pass warned for %q", line)
	}
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority("B")
	require.NoError(t, err)
	assert.Equal(t, byte('B'), p.Level)
	assert.True(t, p.Explicit)

	p, err = ParsePriority("_")
	require.NoError(t, err)
	assert.Equal(t, byte(0), p.Level)
	assert.True(t, p.Explicit)

	for _, s := range []string{"", "a", "AB", "1"} {
		_, err := ParsePriority(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestPriority_EqualComparesLevelOnly(t *testing.T) {
	assert.True(t, Priority{Level: 'A', Explicit: true}.Equal(Priority{Level: 'A'}))
	assert.True(t, Priority{Explicit: true}.Equal(Priority{}))
	assert.False(t, Priority{Level: 'A'}.Equal(Priority{Level: 'B'}))
}

func TestPriority_String(t *testing.T) {
	assert.Equal(t, "(A)", Priority{Level: 'A', Explicit: true}.String())
	assert.Equal(t, "(_)", Priority{Explicit: true}.String())
	assert.Equal(t, "", Priority{}.String())
	assert.Equal(t, "(A)", Priority{Level: 'A'}.String())
}
