package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every config search path at an empty temp directory
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "")
	return dir
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestInitBuiltinDefaults(t *testing.T) {
	isolate(t)
	require.NoError(t, Init(""))

	assert.Equal(t, "copy", GetOutput())
	assert.Equal(t, "vim", GetEditor())
	assert.Empty(t, ActivePath())
	require.Contains(t, C.SnippetTypes, "default")
	assert.Equal(t, "~/.config/snip/snippets.txt", C.SnippetTypes["default"].SourceFile)
}

func TestInitSearchPaths(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "xdg", "snip", "config.toml")
	writeConfig(t, path, `
output = "print"

[snippet_types.rust]
source_file = "/tmp/rust.toml"
format = "scls"
`)

	require.NoError(t, Init(""))
	assert.Equal(t, path, ActivePath())
	assert.Equal(t, "print", GetOutput())
	assert.Contains(t, C.SnippetTypes, "default", "built-in types are kept")
	assert.Equal(t, "scls", C.SnippetTypes["rust"].Format)
}

func TestInitExplicitPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	writeConfig(t, path, `
editor = "hx"

[snippet_types.all]
sources = ["default", "rust"]
description = "Everything"
`)

	require.NoError(t, Init(path))
	assert.Equal(t, path, ActivePath())
	assert.Equal(t, "hx", GetEditor())
	assert.Equal(t, []string{"default", "rust"}, C.SnippetTypes["all"].Sources)
}

func TestInitMixedCaseTypes(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	writeConfig(t, path, `
[snippet_types.Shell]
source_file = "/tmp/shell.txt"

[snippet_types.All]
sources = ["Shell", "Default"]
`)
	require.NoError(t, Init(path))

	reg, err := Types()
	require.NoError(t, err)

	res, err := reg.Resolve("All")
	require.NoError(t, err)
	require.Len(t, res.Sources, 2)
	assert.Equal(t, "shell", res.Sources[0].Name)
	assert.Equal(t, "/tmp/shell.txt", res.Sources[0].SourceFile)
	assert.Equal(t, "default", res.Sources[1].Name)

	res, err = reg.Resolve("Shell")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/shell.txt", res.Sources[0].SourceFile)
}

func TestInitErrors(t *testing.T) {
	dir := isolate(t)

	t.Run("missing explicit file", func(t *testing.T) {
		assert.Error(t, Init(filepath.Join(dir, "nope.toml")))
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(dir, "bad.toml")
		writeConfig(t, path, "output = [unclosed")
		assert.Error(t, Init(path))
	})
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("SNIP_OUTPUT", "print")
	require.NoError(t, Init(""))
	assert.Equal(t, "print", GetOutput())
}

func TestGetEditorFallbacks(t *testing.T) {
	isolate(t)
	require.NoError(t, Init(""))

	t.Setenv("VISUAL", "code")
	assert.Equal(t, "code", GetEditor())

	t.Setenv("EDITOR", "nano")
	assert.Equal(t, "nano", GetEditor())
}

func TestSetOutput(t *testing.T) {
	isolate(t)
	require.NoError(t, Init(""))
	SetOutput("print")
	assert.Equal(t, "print", GetOutput())
	assert.Equal(t, "print", C.Output)
}

func TestExpandTilde(t *testing.T) {
	home := isolate(t)

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: ""},
		{in: "/abs/path", want: "/abs/path"},
		{in: "rel/path", want: "rel/path"},
		{in: "~", want: home},
		{in: "~/snips.txt", want: filepath.Join(home, "snips.txt")},
		{in: "~bob/snips.txt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := expandTilde(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	isolate(t)
	require.NoError(t, Init(""))
	reg, err := Types()
	require.NoError(t, err)
	assert.Equal(t, []string{"default"}, reg.Names())
	assert.Contains(t, DefaultConfig(), "[snippet_types.default]")
	assert.Contains(t, DefaultConfig(), `strftime:"%Y-%m-%d"`, "documents filter argument syntax")
}
