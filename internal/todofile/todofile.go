// Package todofile maps between raw file lines and the record set: tasks
// keyed by 1-based line position. Untouched records keep their original
// line text verbatim; only replaced records are re-serialized.
package todofile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/todoslice/todoslice/internal/todotxt"
)

// Set is a record set loaded from a todo file. Ids are assigned by line
// position on load and are never renumbered afterwards; new records get
// ids past the original maximum.
type Set struct {
	tasks  map[int]todotxt.Task
	lines  map[int]string
	blanks map[int]bool // positions that were blank on load
	maxPos int          // highest position seen on load
}

// Load parses file lines into a record set. Blank lines produce no record
// but keep their position so ids stay aligned with line numbers. Comment
// lines are ambiguous in a todo file and rejected unless allowComments is
// set (as when re-reading the edited scratch file, where they are simply
// dropped).
func Load(lines []string, allowComments bool) (*Set, error) {
	s := &Set{
		tasks:  make(map[int]todotxt.Task),
		lines:  make(map[int]string),
		blanks: make(map[int]bool),
		maxPos: len(lines),
	}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			s.blanks[i+1] = true
			continue
		}
		if strings.HasPrefix(line, "#") {
			if allowComments {
				continue
			}
			return nil, fmt.Errorf("line %d: comment lines are not allowed in a todo file", i+1)
		}
		id := i + 1
		s.tasks[id] = todotxt.Parse(line)
		s.lines[id] = line
	}
	return s, nil
}

// IDs returns the record ids in ascending order.
func (s *Set) IDs() []int {
	ids := make([]int, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (s *Set) Task(id int) (todotxt.Task, bool) {
	t, ok := s.tasks[id]
	return t, ok
}

func (s *Set) Line(id int) (string, bool) {
	line, ok := s.lines[id]
	return line, ok
}

// MaxID is the largest record id, or zero for an empty set.
func (s *Set) MaxID() int {
	max := 0
	for id := range s.tasks {
		if id > max {
			max = id
		}
	}
	return max
}

func (s *Set) Len() int { return len(s.tasks) }

// Set stores a record under the given id, replacing any previous one. The
// stored line is the task's serialized form: single spaces between the
// line's components, title text kept as is.
func (s *Set) Set(id int, t todotxt.Task) {
	s.tasks[id] = t
	s.lines[id] = t.Line()
}

func (s *Set) Delete(id int) {
	delete(s.tasks, id)
	delete(s.lines, id)
}

// Render turns the set back into file lines. With preserveLineNumbers,
// positions that were blank on load stay blank so surviving records keep
// their original line numbers; without it they collapse. Deleted records
// always collapse.
func (s *Set) Render(preserveLineNumbers bool) []string {
	n := s.maxPos
	if max := s.MaxID(); max > n {
		n = max
	}
	var out []string
	for id := 1; id <= n; id++ {
		if line, ok := s.lines[id]; ok {
			out = append(out, line)
			continue
		}
		if preserveLineNumbers && s.blanks[id] {
			out = append(out, "")
		}
	}
	return out
}
