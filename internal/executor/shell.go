package executor

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsafeCommand is returned for commands rejected by CheckCommand
var ErrUnsafeCommand = errors.New("command contains forbidden patterns")

// Shell metacharacters are rejected anywhere in the command
var forbiddenChars = []string{";", "|", "&", ">", "<", "`", "$", "(", ")", "{", "}", "[", "]"}

// Programs are rejected when they appear as a word
var forbiddenWords = map[string]bool{
	"sudo": true,
	"rm":   true,
	"mv":   true,
	"cp":   true,
	"dd":   true,
	"mkfs": true,
	"fork": true,
	"kill": true,
}

// CheckCommand rejects commands that chain, redirect or substitute, and
// commands that invoke a destructive program
func CheckCommand(command string) error {
	for _, c := range forbiddenChars {
		if strings.Contains(command, c) {
			return fmt.Errorf("%w: %q", ErrUnsafeCommand, c)
		}
	}
	for _, word := range strings.Fields(command) {
		if forbiddenWords[filepath.Base(word)] || strings.HasPrefix(filepath.Base(word), "mkfs.") {
			return fmt.Errorf("%w: %q", ErrUnsafeCommand, word)
		}
	}
	return nil
}

// SafeShell is the shell filter backend used by templates
type SafeShell struct {
	runner ShellRunner
}

// NewSafeShell wraps a shell runner
func NewSafeShell(runner ShellRunner) *SafeShell {
	return &SafeShell{runner: runner}
}

// Run executes command after CheckCommand accepts it
func (s *SafeShell) Run(command string) (string, error) {
	if err := CheckCommand(command); err != nil {
		return "", err
	}
	return s.runner.RunShell(command)
}
