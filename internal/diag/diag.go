package diag

import "fmt"

// Diagnostics collects non-fatal warnings produced while parsing and
// reconciling tasks, so callers can decide how to surface them instead of
// the library writing to a global logger.
type Diagnostics struct {
	warnings []string
}

func (d *Diagnostics) Warnf(format string, args ...any) {
	d.warnings = append(d.warnings, fmt.Sprintf(format, args...))
}

func (d *Diagnostics) Warnings() []string {
	return d.warnings
}

func (d *Diagnostics) Empty() bool {
	return len(d.warnings) == 0
}
