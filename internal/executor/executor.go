package executor

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/gubarz/snip/internal/config"
)

// ============================================================================
// Shell Runner Interface
// ============================================================================

// ShellRunner defines the interface for shell command execution
type ShellRunner interface {
	RunShell(command string) (string, error)
}

// ============================================================================
// Clipboard Interface
// ============================================================================

// Clipboard defines the interface for clipboard operations
type Clipboard interface {
	Copy(text string) error
}

// systemClipboard implements Clipboard on top of the platform clipboard tools
type systemClipboard struct {
	out io.Writer
}

// Copy copies text to the system clipboard
func (c *systemClipboard) Copy(text string) error {
	if clipboard.Unsupported {
		// No clipboard tool found, just print
		fmt.Fprintln(c.out, text)
		return nil
	}
	if err := clipboard.WriteAll(strings.TrimRight(text, "\r\n")); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}

// ============================================================================
// Executor
// ============================================================================

// Executor runs guarded shell commands, the editor and final output
type Executor struct {
	shell     string
	clipboard Clipboard
	out       io.Writer
}

// NewExecutor creates an executor writing to stdout
func NewExecutor() *Executor {
	return &Executor{
		shell:     "sh",
		clipboard: &systemClipboard{out: os.Stdout},
		out:       os.Stdout,
	}
}

// WithClipboard sets a custom clipboard implementation (useful for testing)
func (e *Executor) WithClipboard(c Clipboard) *Executor {
	e.clipboard = c
	return e
}

// WithOutput redirects printed output (useful for testing)
func (e *Executor) WithOutput(w io.Writer) *Executor {
	e.out = w
	if sc, ok := e.clipboard.(*systemClipboard); ok {
		sc.out = w
	}
	return e
}

// Shell returns the shell used for commands
func (e *Executor) Shell() string {
	return e.shell
}

// ============================================================================
// Command Execution
// ============================================================================

// RunShell executes a shell command and returns trimmed stdout
func (e *Executor) RunShell(command string) (string, error) {
	cmd := exec.Command(e.shell, "-c", command)
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("shell error: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return strings.TrimSpace(stdout.String()), nil
}

// ============================================================================
// Output Handling
// ============================================================================

// OutputMode represents how a rendered snippet is delivered
type OutputMode string

const (
	OutputPrint OutputMode = "print"
	OutputCopy  OutputMode = "copy"
)

// ParseOutputMode validates a configured output mode
func ParseOutputMode(s string) (OutputMode, error) {
	switch mode := OutputMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case OutputPrint, OutputCopy:
		return mode, nil
	case "":
		return OutputCopy, nil
	default:
		return "", fmt.Errorf("unknown output mode %q (supported: print, copy)", s)
	}
}

// Output delivers text using the configured mode
func (e *Executor) Output(text string) error {
	mode, err := ParseOutputMode(config.GetOutput())
	if err != nil {
		return err
	}
	return e.OutputWithMode(text, mode)
}

// OutputWithMode delivers text with an explicit mode
func (e *Executor) OutputWithMode(text string, mode OutputMode) error {
	switch mode {
	case OutputCopy:
		return e.clipboard.Copy(text)
	default: // print
		fmt.Fprintln(e.out, text)
		return nil
	}
}
