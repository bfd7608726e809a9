// Package editor round-trips task documents through the user's editor.
package editor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

const fallbackEditor = "vi"

// IsInteractive reports whether both stdin and stdout are terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Edit opens path in the user's editor and waits for it to exit.
// $VISUAL wins over $EDITOR, and either may carry arguments ("code --wait").
func Edit(path string) error {
	name, args := editorCommand(os.Getenv("VISUAL"), os.Getenv("EDITOR"))

	cmd := exec.Command(name, append(args, path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("editor exited with status %d", exitErr.ExitCode())
		}
		return fmt.Errorf("run editor %s: %w", name, err)
	}
	return nil
}

func editorCommand(visual, editor string) (string, []string) {
	for _, candidate := range []string{visual, editor} {
		if fields := strings.Fields(candidate); len(fields) > 0 {
			return fields[0], fields[1:]
		}
	}
	return fallbackEditor, nil
}
