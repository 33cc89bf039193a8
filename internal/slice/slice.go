// Package slice defines the filter+transform pairs that select which task
// records are editable and how they are reshaped for editing. The variant
// set is closed: behavior is switched on Kind rather than left open for
// override, so a missing case is a compile-time hole, not a runtime
// surprise.
package slice

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/todoslice/todoslice/internal/diag"
	"github.com/todoslice/todoslice/internal/todotxt"
)

type Kind int

const (
	All Kind = iota
	Future
	Terms
	Tags
	Review
)

// Options carries the configuration every variant needs: the pinned
// current date, the visibility kill switch, and the create date applied to
// records that have no original to restore one from.
type Options struct {
	Today             time.Time
	DisableFilter     bool
	DefaultCreateDate time.Time // zero unless date-on-add is configured
}

// Slice is one concrete filter+transform variant with its parameters.
type Slice struct {
	kind Kind
	opt  Options

	include, exclude []string          // Terms
	priority         *todotxt.Priority // Tags: optional priority filter
	required         []todotxt.Tag     // Tags: required tag set
	intervals        map[byte]int      // Review: priority level -> days
	intervalSpec     string            // Review: original spec, for comments
}

func NewAll(opt Options) Slice {
	return Slice{kind: All, opt: opt}
}

func NewFuture(opt Options) Slice {
	return Slice{kind: Future, opt: opt}
}

// NewTerms builds a text-match slice. Terms prefixed with "-" are
// exclusions; matching is case-insensitive over the serialized line.
func NewTerms(terms []string, opt Options) (Slice, error) {
	s := Slice{kind: Terms, opt: opt}
	for _, term := range terms {
		exclude := strings.HasPrefix(term, "-")
		term = strings.ToLower(strings.TrimPrefix(term, "-"))
		if term == "" {
			return Slice{}, fmt.Errorf("empty search term")
		}
		if exclude {
			s.exclude = append(s.exclude, term)
		} else {
			s.include = append(s.include, term)
		}
	}
	return s, nil
}

// NewTags builds a tag-match slice from command arguments: at most one
// priority (a letter or "_") plus any number of tags.
func NewTags(args []string, opt Options) (Slice, error) {
	s := Slice{kind: Tags, opt: opt}
	for _, arg := range args {
		if tag, err := todotxt.ParseTag(arg); err == nil {
			s.required = append(s.required, tag)
			continue
		}
		p, err := todotxt.ParsePriority(arg)
		if err != nil {
			return Slice{}, fmt.Errorf("invalid filter %q: not a tag or priority", arg)
		}
		if s.priority != nil {
			return Slice{}, fmt.Errorf("priority given twice: %q", arg)
		}
		s.priority = &p
	}
	return s, nil
}

// NewReview builds a review slice from an interval spec like "A:7,B:30,_:90"
// mapping priorities to the number of days after which a task is due for
// review again.
func NewReview(spec string, opt Options) (Slice, error) {
	s := Slice{kind: Review, opt: opt, intervals: make(map[byte]int), intervalSpec: spec}
	if strings.TrimSpace(spec) == "" {
		return s, nil
	}
	for _, pair := range strings.Split(spec, ",") {
		key, val, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			return Slice{}, fmt.Errorf("invalid review interval %q: want priority:days", pair)
		}
		p, err := todotxt.ParsePriority(key)
		if err != nil {
			return Slice{}, fmt.Errorf("invalid review interval %q: %w", pair, err)
		}
		days, err := strconv.Atoi(val)
		if err != nil || days < 0 {
			return Slice{}, fmt.Errorf("invalid review interval %q: bad day count %q", pair, val)
		}
		s.intervals[p.Level] = days
	}
	return s, nil
}

func (s Slice) Kind() Kind { return s.kind }

// Matches reports whether a record belongs to this slice at all, hidden or
// not.
func (s Slice) Matches(t todotxt.Task, d *diag.Diagnostics) bool {
	switch s.kind {
	case All:
		return true
	case Future:
		start, ok := t.StartDate()
		return ok && start.After(s.opt.Today)
	case Terms:
		line := strings.ToLower(t.Line())
		for _, term := range s.include {
			if !strings.Contains(line, term) {
				return false
			}
		}
		for _, term := range s.exclude {
			if strings.Contains(line, term) {
				return false
			}
		}
		return true
	case Tags:
		if s.priority != nil && !t.Priority.Equal(*s.priority) {
			return false
		}
		for _, tag := range s.required {
			if !t.HasTag(tag) {
				return false
			}
		}
		return true
	case Review:
		if t.CreateDate.IsZero() {
			return true
		}
		if start, ok := t.StartDate(); ok && !start.After(s.opt.Today) {
			return true
		}
		days, ok := s.intervals[t.Priority.Level]
		if !ok {
			label := "_"
			if !t.Priority.None() {
				label = string(t.Priority.Level)
			}
			d.Warnf("no review interval configured for priority %q, skipping %q",
				label, t.Line())
			return false
		}
		return !s.opt.Today.Before(t.CreateDate.AddDate(0, 0, days))
	}
	return false
}

// Hidden reports whether a matching record is withheld from editing. The
// default rule hides completed tasks and tasks that have not started yet;
// the future slice hides only completed ones, since future-ness is its
// selector. A set disable-filter flag hides nothing.
func (s Slice) Hidden(t todotxt.Task) bool {
	if s.opt.DisableFilter {
		return false
	}
	if s.kind == Future {
		return t.Completed()
	}
	return s.defaultHidden(t)
}

func (s Slice) defaultHidden(t todotxt.Task) bool {
	if s.opt.DisableFilter {
		return false
	}
	return hiddenToday(t, s.opt.Today)
}

// hiddenToday is the default visibility rule with no overrides: completed
// tasks and tasks whose start date is still ahead.
func hiddenToday(t todotxt.Task, today time.Time) bool {
	if t.Completed() {
		return true
	}
	start, ok := t.StartDate()
	return ok && start.After(today)
}

// Apply is the forward transform run on a record before it is handed to
// the editor, hiding the fields the slice manages itself.
func (s Slice) Apply(t todotxt.Task) todotxt.Task {
	out := t
	switch s.kind {
	case Tags:
		out = out.RemoveTags(s.required)
		if s.priority != nil {
			out = out.WithPriority(todotxt.Priority{})
		}
	case Review:
		out = out.WithPriority(todotxt.Priority{Explicit: true})
	}
	return out.WithCreateDate(time.Time{})
}

// Unapply reverses Apply on an edited record, consulting the original
// record where one exists.
func (s Slice) Unapply(edited todotxt.Task, original *todotxt.Task) todotxt.Task {
	switch s.kind {
	case Tags:
		out := s.restoreCreateDate(edited, original)
		if s.priority != nil && edited.Priority.None() {
			out = out.WithPriority(*s.priority)
		}
		return out.AddTags(s.required, true)
	case Review:
		return s.unapplyReview(edited, original)
	default:
		return s.restoreCreateDate(edited, original)
	}
}

func (s Slice) restoreCreateDate(edited todotxt.Task, original *todotxt.Task) todotxt.Task {
	if original != nil {
		return edited.WithCreateDate(original.CreateDate)
	}
	return edited.WithCreateDate(s.opt.DefaultCreateDate)
}

// unapplyReview decides whether the edit counts as a completed review. It
// does if the user committed to a priority, or if the record is hidden
// again under the plain visibility rule (completed, or pushed into the
// future): in that case the review clock restarts today. The disable-filter
// flag changes what is shown, not what counts as a review, so it is ignored
// here. Anything else is a no-op review and the original's fields are put
// back.
func (s Slice) unapplyReview(edited todotxt.Task, original *todotxt.Task) todotxt.Task {
	reviewed := !edited.Priority.None() || hiddenToday(edited, s.opt.Today)
	if !reviewed {
		if original == nil {
			return s.restoreCreateDate(edited, nil)
		}
		return edited.WithCreateDate(original.CreateDate).WithPriority(original.Priority)
	}

	out := edited
	if edited.Completed() {
		// Completing a task is not a fresh review; keep its age.
		out = s.restoreCreateDate(out, original)
	} else {
		out = out.WithCreateDate(s.opt.Today)
	}
	if edited.Priority.None() && original != nil {
		out = out.WithPriority(original.Priority)
	}
	return out
}

// SortKey orders the editable subset for presentation.
func (s Slice) SortKey(t todotxt.Task) string {
	if s.kind == Future {
		if start, ok := t.StartDate(); ok {
			return start.Format(todotxt.DateLayout)
		}
	}
	return t.Line()
}

// Comments describes the active filter; the lines are placed above the
// editable subset in the scratch file.
func (s Slice) Comments() []string {
	switch s.kind {
	case All:
		return []string{"all tasks"}
	case Future:
		return []string{"tasks that start after today"}
	case Terms:
		c := []string{"tasks matching: " + strings.Join(s.include, " ")}
		if len(s.include) == 0 {
			c[0] = "all tasks"
		}
		if len(s.exclude) > 0 {
			c = append(c, "excluding: "+strings.Join(s.exclude, " "))
		}
		return c
	case Tags:
		parts := make([]string, 0, len(s.required)+1)
		if s.priority != nil {
			parts = append(parts, s.priority.String())
		}
		for _, tag := range s.required {
			parts = append(parts, tag.Raw())
		}
		return []string{"tasks matching: " + strings.Join(parts, " ")}
	case Review:
		c := []string{"tasks due for review"}
		if len(s.intervals) > 0 {
			c = append(c, "review intervals: "+s.intervalsString())
		}
		return c
	}
	return nil
}

func (s Slice) intervalsString() string {
	pairs := make([]string, 0, len(s.intervals))
	for level, days := range s.intervals {
		p := todotxt.Priority{Level: level, Explicit: true}
		pairs = append(pairs, fmt.Sprintf("%s:%d", strings.Trim(p.String(), "()"), days))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}
