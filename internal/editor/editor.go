package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Editor handles editor resolution and invocation.
type Editor struct {
	configured string
}

// NewEditor creates an Editor. configured is the editor key from the config
// file and may be empty.
func NewEditor(configured string) *Editor {
	return &Editor{configured: configured}
}

// Resolve returns the editor command to use.
// Order: config > $VISUAL > $EDITOR > vi
func (e *Editor) Resolve() string {
	if e.configured != "" {
		return e.configured
	}

	for _, env := range []string{"VISUAL", "EDITOR"} {
		if editor := os.Getenv(env); editor != "" {
			return editor
		}
	}

	return "vi"
}

// command builds the editor invocation for path. The editor string may carry
// arguments, e.g. "code --wait".
func (e *Editor) command(path string) (*exec.Cmd, error) {
	fields := strings.Fields(e.Resolve())
	if len(fields) == 0 {
		return nil, fmt.Errorf("no editor configured")
	}
	args := append(fields[1:], path)
	return exec.Command(fields[0], args...), nil
}

// EditFile opens path in the editor and waits for it to exit.
func (e *Editor) EditFile(path string) error {
	cmd, err := e.command(path)
	if err != nil {
		return err
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run editor %s: %w", cmd.Path, err)
	}
	return nil
}
