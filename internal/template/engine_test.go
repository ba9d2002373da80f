package template

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gubarz/snip/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeShell struct {
	out string
	err error
	ran []string
}

func (f *fakeShell) Run(command string) (string, error) {
	f.ran = append(f.ran, command)
	return f.out, f.err
}

func fixedClock() time.Time {
	return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
}

func newTestEngine(shell Shell) *Engine {
	return NewEngine(shell).WithClock(fixedClock)
}

func render(t *testing.T, e *Engine, src string) string {
	t.Helper()
	out, err := e.Render(parser.Classify(src))
	require.NoError(t, err)
	return out
}

func TestRenderStaticVerbatim(t *testing.T) {
	e := newTestEngine(nil)
	for _, src := range []string{"plain text", "{{ unclosed", "{% if %}", ""} {
		assert.Equal(t, src, render(t, e, src))
	}
}

func TestRenderDates(t *testing.T) {
	e := newTestEngine(nil)

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"raw", "{{ current_date }}", "2024-03-15T10:30:00Z"},
		{"strftime", `{{ current_date|strftime:"%Y-%m-%d" }}`, "2024-03-15"},
		{"strftime default", "{{ current_date|strftime }}", "2024-03-15"},
		{"strftime time", `{{ current_date|strftime:"%H:%M" }}`, "10:30"},
		{"add days", `{{ current_date|add_days:7|strftime:"%Y-%m-%d" }}`, "2024-03-22"},
		{"subtract days", `{{ current_date|subtract_days:15|strftime:"%Y-%m-%d" }}`, "2024-02-29"},
		{"text around", `Date: {{ current_date|strftime:"%d.%m.%Y" }}!`, "Date: 15.03.2024!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, e, tt.src))
		})
	}
}

func TestRenderEnvironment(t *testing.T) {
	t.Setenv("SNIP_TEST_USER", "alice")
	t.Setenv("SNIP_TEST_MARKUP", "<a & b>")
	e := newTestEngine(nil)

	assert.Equal(t, "hi alice", render(t, e, "hi {{ env_SNIP_TEST_USER }}"))
	assert.Equal(t, "<a & b>", render(t, e, "{{ env_SNIP_TEST_MARKUP }}"), "output is not HTML escaped")
	assert.Equal(t, "[]", render(t, e, "[{{ env_SNIP_TEST_UNSET }}]"))
}

func TestRenderEnvFile(t *testing.T) {
	t.Setenv("SNIP_TEST_USER", "alice")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SNIP_TEST_USER=bob\nPROJECT=snip\n"), 0644))

	e := newTestEngine(nil).WithEnvFile(path)
	assert.Equal(t, "bob/snip", render(t, e, "{{ env_SNIP_TEST_USER }}/{{ env_PROJECT }}"))

	missing := newTestEngine(nil).WithEnvFile(filepath.Join(t.TempDir(), "none.env"))
	assert.Equal(t, "alice", render(t, missing, "{{ env_SNIP_TEST_USER }}"))
}

func TestRenderShellFilter(t *testing.T) {
	sh := &fakeShell{out: "main"}
	e := newTestEngine(sh)

	assert.Equal(t, "branch: main", render(t, e, `branch: {{ "git branch --show-current"|shell }}`))
	assert.Equal(t, []string{"git branch --show-current"}, sh.ran)
}

func TestRenderErrors(t *testing.T) {
	boom := errors.New("forbidden")

	tests := []struct {
		name string
		e    *Engine
		src  string
		kind ErrorKind
	}{
		{"unknown filter", newTestEngine(nil), "{{ current_date|nosuchfilter }}", Syntax},
		{"unclosed block", newTestEngine(nil), "{% if current_date %}{{ current_date }}", Syntax},
		{"jinja call syntax", newTestEngine(nil), "{{ current_date|strftime('%Y-%m-%d') }}", Syntax},
		{"bad date", newTestEngine(nil), `{{ "yesterday"|strftime }}`, Rendering},
		{"shell disabled", newTestEngine(nil), `{{ "ls"|shell }}`, Rendering},
		{"shell failure", newTestEngine(&fakeShell{err: boom}), `{{ "ls"|shell }}`, Rendering},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.e.Render(parser.Classify(tt.src))
			require.Error(t, err)
			var terr *Error
			require.ErrorAs(t, err, &terr)
			assert.Equal(t, tt.kind, terr.Kind)
			assert.Contains(t, err.Error(), "template "+tt.kind.String()+" error")
		})
	}
}

func TestRenderStringVars(t *testing.T) {
	e := newTestEngine(nil)
	out, err := e.RenderString("{% for a in aliases %}{{ a }};{% endfor %}", map[string]any{
		"aliases": []string{",", ",c"},
	})
	require.NoError(t, err)
	assert.Equal(t, ",;,c;", out)
}
