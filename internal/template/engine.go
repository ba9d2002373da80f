// Package template renders snippet content with a Jinja-style engine.
package template

import (
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/gubarz/snip/internal/parser"
	"github.com/joho/godotenv"
)

// Shell runs the command given to the shell filter
type Shell interface {
	Run(command string) (string, error)
}

// Context keys must be identifiers
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Engine renders template content. Templates are compiled on every call.
type Engine struct {
	shell   Shell
	envFile string
	now     func() time.Time
}

// NewEngine creates an engine whose shell filter runs through shell. A nil
// shell disables the filter.
func NewEngine(shell Shell) *Engine {
	registerFilters()
	return &Engine{shell: shell, now: time.Now}
}

// WithEnvFile adds the variables of a dotenv file to the context
func (e *Engine) WithEnvFile(path string) *Engine {
	e.envFile = path
	return e
}

// WithClock sets the time source for current_date (useful for testing)
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Render returns static content verbatim and executes template content
func (e *Engine) Render(c parser.Content) (string, error) {
	if !c.IsTemplate() {
		return c.Text, nil
	}
	return e.RenderString(c.Text, nil)
}

// RenderString executes src with the ambient context plus vars
func (e *Engine) RenderString(src string, vars map[string]any) (string, error) {
	tpl, err := pongo2.FromString(src)
	if err != nil {
		return "", &Error{Kind: Syntax, Err: err}
	}

	ctx := e.context()
	for k, v := range vars {
		ctx[k] = v
	}

	renderMu.Lock()
	activeShell = e.shell
	out, err := tpl.Execute(ctx)
	activeShell = nil
	renderMu.Unlock()

	if err != nil {
		return "", &Error{Kind: Rendering, Err: err}
	}
	return out, nil
}

// context builds current_date and env_NAME variables. Dotenv values
// override the process environment.
func (e *Engine) context() pongo2.Context {
	ctx := pongo2.Context{
		"current_date": e.now().UTC().Format(time.RFC3339),
	}

	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			setEnv(ctx, k, v)
		}
	}

	if e.envFile != "" {
		vars, err := godotenv.Read(e.envFile)
		if err != nil {
			slog.Warn("could not read env file", "file", e.envFile, "error", err)
		}
		for k, v := range vars {
			setEnv(ctx, k, v)
		}
	}
	return ctx
}

func setEnv(ctx pongo2.Context, name, value string) {
	if identRe.MatchString(name) {
		ctx["env_"+name] = value
	}
}
