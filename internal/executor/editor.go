package executor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// EditorCommand builds the argv that opens file at line with editor.
// Line 0 opens the file without positioning.
func EditorCommand(editor, file string, line int) []string {
	argv := strings.Fields(editor)
	if len(argv) == 0 {
		argv = []string{"vim"}
	}
	if line <= 0 {
		return append(argv, file)
	}

	switch filepath.Base(argv[0]) {
	case "vim", "vi", "nvim", "emacs", "nano", "hx", "helix", "micro", "kak":
		return append(argv, fmt.Sprintf("+%d", line), file)
	case "code", "codium", "code-insiders":
		return append(argv, "--goto", fmt.Sprintf("%s:%d", file, line))
	case "subl", "zed":
		return append(argv, fmt.Sprintf("%s:%d", file, line))
	default:
		return append(argv, file)
	}
}

// Edit opens file at line attached to the terminal and waits for the editor
// to exit. A missing file is created along with its parent directories.
func Edit(editor, file string, line int) error {
	if err := ensureFile(file); err != nil {
		return err
	}

	argv := EditorCommand(editor, file, line)
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %s: %w", argv[0], err)
	}
	return nil
}

func ensureFile(file string) error {
	if _, err := os.Stat(file); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return fmt.Errorf("creating snippet directory: %w", err)
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("creating snippet file: %w", err)
	}
	return f.Close()
}
