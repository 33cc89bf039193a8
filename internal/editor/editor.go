package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Resolve picks the editor command: the configured one, then $EDITOR, then
// $VISUAL. The bool reports that none of those were set and the hardcoded
// vi fallback was used, so callers can warn about it.
func Resolve(command string) (string, bool) {
	if command != "" {
		return command, false
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e, false
	}
	if e := os.Getenv("VISUAL"); e != "" {
		return e, false
	}
	return "vi", true
}

// Open runs the editor command on filepath and blocks until it exits. The
// command may carry arguments ("code --wait"); an empty command is resolved
// through Resolve.
func Open(command, filepath string) error {
	command, _ = Resolve(command)
	argv := strings.Fields(command)
	cmd := exec.Command(argv[0], append(argv[1:], filepath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %q: %w", command, err)
	}
	return nil
}
