// Package engine drives one reconciliation pass: select the editable
// subset for a slice, hand it to the external editor, and merge the edited
// result back into the full record set with a change report.
package engine

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/todoslice/todoslice/internal/diag"
	"github.com/todoslice/todoslice/internal/slice"
	"github.com/todoslice/todoslice/internal/todofile"
	"github.com/todoslice/todoslice/internal/todotxt"
)

// Env is the engine's view of the outside world: line-based file access,
// a scratch directory for the edit artifact, the external editor, and the
// diff report sink. The CLI provides the real implementation; tests
// provide a fake.
type Env interface {
	ReadLines(path string) ([]string, error)
	WriteLines(path string, lines []string) error
	// ScratchDir creates a temporary directory and returns it with a
	// cleanup function that must run on every exit path.
	ScratchDir() (string, func(), error)
	LaunchEditor(path string) error
	PrintDiff(header, old, new string)
}

type Options struct {
	TodoFile            string
	Today               time.Time
	PreserveLineNumbers bool
}

const identityKey = "i"

type record struct {
	id   int
	task todotxt.Task
}

// Reconcile runs the full pipeline. The todo file is rewritten only when
// the merge produced at least one change; warnings are collected in the
// returned diagnostics either way.
func Reconcile(env Env, s slice.Slice, opt Options) (*diag.Diagnostics, error) {
	d := &diag.Diagnostics{}

	lines, err := env.ReadLines(opt.TodoFile)
	if err != nil {
		return d, fmt.Errorf("reading %s: %w", opt.TodoFile, err)
	}
	set, err := todofile.Load(lines, false)
	if err != nil {
		return d, fmt.Errorf("loading %s: %w", opt.TodoFile, err)
	}
	width := idWidth(set.MaxID())

	// Select the editable subset and decorate each record with an
	// identity tag at the leading edge of its title.
	var editable []record
	for _, id := range set.IDs() {
		t, _ := set.Task(id)
		if s.Hidden(t) || !s.Matches(t, d) {
			continue
		}
		idTag := todotxt.NewKeyValue(identityKey, fmt.Sprintf("%0*d", width, id))
		editable = append(editable, record{id, s.Apply(t).AddTags([]todotxt.Tag{idTag}, false)})
	}

	// The baseline is what identity recovery yields for an untouched
	// artifact. Comparing edited records against it instead of the
	// originals keeps normalization-only differences out of the report.
	baseline := make(map[int]string, len(editable))
	for _, rec := range editable {
		stripped, _, _ := popIdentity(rec.task, &diag.Diagnostics{})
		baseline[rec.id] = stripped.Line()
	}

	edited, err := runEditor(env, s, opt, editable)
	if err != nil {
		return d, err
	}

	recovered, err := recoverIdentities(edited, editable, set.MaxID(), d)
	if err != nil {
		return d, err
	}

	changed := merge(env, s, opt, set, editable, recovered, baseline, width, d)
	if !changed {
		return d, nil
	}
	if err := env.WriteLines(opt.TodoFile, set.Render(opt.PreserveLineNumbers)); err != nil {
		return d, fmt.Errorf("writing %s: %w", opt.TodoFile, err)
	}
	return d, nil
}

// runEditor writes the sorted, commented subset to a scratch file, blocks
// on the external editor, and returns the re-read task lines with comments
// and blanks dropped.
func runEditor(env Env, s slice.Slice, opt Options, editable []record) ([]string, error) {
	dir, cleanup, err := env.ScratchDir()
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	defer cleanup()

	present := make([]record, len(editable))
	copy(present, editable)
	sort.SliceStable(present, func(i, j int) bool {
		return s.SortKey(present[i].task) < s.SortKey(present[j].task)
	})

	var out []string
	for _, c := range s.Comments() {
		out = append(out, "# "+c)
	}
	for _, rec := range present {
		out = append(out, rec.task.Line())
	}

	scratch := filepath.Join(dir, filepath.Base(opt.TodoFile))
	if err := env.WriteLines(scratch, out); err != nil {
		return nil, fmt.Errorf("writing %s: %w", scratch, err)
	}
	if err := env.LaunchEditor(scratch); err != nil {
		return nil, err
	}
	lines, err := env.ReadLines(scratch)
	if err != nil {
		return nil, fmt.Errorf("re-reading %s: %w", scratch, err)
	}

	var tasks []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tasks = append(tasks, line)
	}
	return tasks, nil
}

// recoverIdentities maps each edited line back to its record id via the
// identity tag. A missing tag means a new record; an unparseable tag or an
// id that was never editable is warned about and also treated as new. Two
// lines claiming the same valid id is a conflict the user has to resolve.
func recoverIdentities(lines []string, editable []record, maxID int, d *diag.Diagnostics) ([]record, error) {
	wasEditable := make(map[int]bool, len(editable))
	for _, rec := range editable {
		wasEditable[rec.id] = true
	}

	var out []record
	claimed := make(map[int]bool)
	nextNew := maxID + 1
	for _, line := range lines {
		task := todotxt.Parse(line)
		task, value, found := popIdentity(task, d)
		var id int
		switch n, err := strconv.Atoi(value); {
		case !found:
			id = nextNew
			nextNew++
		case err != nil || !wasEditable[n]:
			d.Warnf("unknown identity tag %q on %q, treating as new task",
				identityKey+":"+value, line)
			id = nextNew
			nextNew++
		case claimed[n]:
			return nil, fmt.Errorf("identity tag %s:%d claimed by more than one line", identityKey, n)
		default:
			claimed[n] = true
			id = n
		}
		out = append(out, record{id, task})
	}
	return out, nil
}

// popIdentity strips every identity tag from the task. When several are
// present the last one wins, with a warning.
func popIdentity(t todotxt.Task, d *diag.Diagnostics) (todotxt.Task, string, bool) {
	stripped, tags := t.PopKeyValueTag(identityKey)
	if len(tags) == 0 {
		return t, "", false
	}
	if len(tags) > 1 {
		d.Warnf("multiple identity tags on %q, using %q", t.Line(), tags[len(tags)-1].Raw())
	}
	return stripped, tags[len(tags)-1].Value(), true
}

// merge folds the recovered records back into the full set and emits one
// diff per change. Records whose edited form matches the baseline are
// skipped outright, so normalization alone never causes a write.
func merge(env Env, s slice.Slice, opt Options, set *todofile.Set,
	editable, recovered []record, baseline map[int]string, width int, d *diag.Diagnostics) bool {

	seen := make(map[int]bool, len(recovered))
	for _, rec := range recovered {
		seen[rec.id] = true
	}

	changed := false
	for _, rec := range editable {
		if seen[rec.id] {
			continue
		}
		old, _ := set.Line(rec.id)
		env.PrintDiff(idHeader(rec.id, width), old, "")
		set.Delete(rec.id)
		changed = true
	}

	for _, rec := range recovered {
		base, existed := baseline[rec.id]
		if existed && rec.task.Line() == base {
			continue
		}
		var original *todotxt.Task
		if t, ok := set.Task(rec.id); ok {
			o := t
			original = &o
		}
		out := s.Unapply(rec.task, original).Normalize(opt.Today, d)
		if original != nil && out.Line() == original.Line() {
			continue
		}
		oldLine := ""
		if original != nil {
			oldLine, _ = set.Line(rec.id)
		}
		env.PrintDiff(idHeader(rec.id, width), oldLine, out.Line())
		set.Set(rec.id, out)
		changed = true
	}
	return changed
}

func idWidth(maxID int) int {
	if maxID < 1 {
		maxID = 1
	}
	return len(strconv.Itoa(maxID))
}

func idHeader(id, width int) string {
	return fmt.Sprintf("%0*d", width, id)
}
