package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/todoslice/todoslice/internal/diff"
	"github.com/todoslice/todoslice/internal/editor"
)

// cliEnv is the real engine.Env: plain files, a temp directory, the
// configured editor, and colorized diffs on stdout.
type cliEnv struct {
	editorCmd string
}

func newEnv(editorCmd string) *cliEnv {
	return &cliEnv{editorCmd: editorCmd}
}

func (e *cliEnv) ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n"), nil
}

func (e *cliEnv) WriteLines(path string, lines []string) error {
	var data []byte
	if len(lines) > 0 {
		data = []byte(strings.Join(lines, "\n") + "\n")
	}
	return os.WriteFile(path, data, 0644)
}

func (e *cliEnv) ScratchDir() (string, func(), error) {
	dir, err := os.MkdirTemp("", "todoslice")
	if err != nil {
		return "", nil, err
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}

func (e *cliEnv) LaunchEditor(path string) error {
	cmd, fallback := editor.Resolve(e.editorCmd)
	if fallback {
		fmt.Fprintln(os.Stderr, "warning: no editor configured and $EDITOR/$VISUAL unset, using vi")
	}
	return editor.Open(cmd, path)
}

func (e *cliEnv) PrintDiff(header, old, new string) {
	fmt.Print(diff.Render(header, old, new))
}
