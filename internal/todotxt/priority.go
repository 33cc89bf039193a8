package todotxt

import "fmt"

// Priority is an optional single-letter task priority. Explicit records
// whether a priority without a level was written out as the "(_)"
// placeholder, so that form survives a round trip. Equality ignores
// explicitness: "implicitly none" and "explicitly none" match.
type Priority struct {
	Level    byte // 'A'..'Z', or 0 when no level is set
	Explicit bool
}

// ParsePriority parses a priority given as a bare letter or the "_"
// placeholder, as used in command arguments and review interval specs.
func ParsePriority(s string) (Priority, error) {
	if len(s) == 1 {
		if s[0] >= 'A' && s[0] <= 'Z' {
			return Priority{Level: s[0], Explicit: true}, nil
		}
		if s[0] == '_' {
			return Priority{Explicit: true}, nil
		}
	}
	return Priority{}, fmt.Errorf("invalid priority %q: want A-Z or _", s)
}

func (p Priority) None() bool { return p.Level == 0 }

func (p Priority) Equal(o Priority) bool { return p.Level == o.Level }

func (p Priority) String() string {
	switch {
	case p.Level != 0:
		return "(" + string(p.Level) + ")"
	case p.Explicit:
		return "(_)"
	default:
		return ""
	}
}
