package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gubarz/snip/internal/config"
	"github.com/gubarz/snip/internal/template"
	"github.com/spf13/cobra"
)

var widgetCmd = &cobra.Command{
	Use:   "widget [shell]",
	Short: "Output shell aliases and completion for every aliased type",
	Long: `Outputs a shell script that can be sourced for shell integration.

Usage:
  eval "$(snip widget bash)"

Every snippet type with an alias gets a shell function of that name.
"<alias> query" copies the matching snippet, opening the picker when the
query is ambiguous, and TAB completes snippet names.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"bash", "zsh"},
	RunE:      runWidget,
}

// widgetType is one aliased snippet type handed to the widget template
type widgetType struct {
	Name  string
	Alias string
}

const bashWidget = `# snip shell integration for bash
{% for t in types %}
{{ t.Alias }}() {
   local name
   name="$({{ binary }} complete --ctype {{ t.Name }} -i --input "$*")" || return
   [ -n "$name" ] && {{ binary }} copy --ctype {{ t.Name }} --input "$name"
}

_snip_complete_{{ forloop.Counter }}() {
   local cur="${COMP_WORDS[COMP_CWORD]}"
   local IFS=$'\n'
   COMPREPLY=($({{ binary }} complete --ctype {{ t.Name }} --all --input "$cur"))
}
complete -F _snip_complete_{{ forloop.Counter }} {{ t.Alias }}
{% endfor %}`

const zshWidget = `# snip shell integration for zsh
{% for t in types %}
{{ t.Alias }}() {
   local name
   name="$({{ binary }} complete --ctype {{ t.Name }} -i --input "$*")" || return
   [ -n "$name" ] && {{ binary }} copy --ctype {{ t.Name }} --input "$name"
}

_snip_complete_{{ forloop.Counter }}() {
   local -a names
   names=("${(@f)$({{ binary }} complete --ctype {{ t.Name }} --all --input "$PREFIX")}")
   compadd -U -- $names
}
compdef _snip_complete_{{ forloop.Counter }} {{ t.Alias }}
{% endfor %}`

func runWidget(cmd *cobra.Command, args []string) error {
	types, err := config.Types()
	if err != nil {
		return err
	}

	var aliased []widgetType
	for _, name := range types.Names() {
		if alias := types.Alias(name); alias != "" {
			aliased = append(aliased, widgetType{Name: name, Alias: alias})
		}
	}

	return writeWidget(os.Stdout, args[0], aliased, "snip")
}

// writeWidget renders the integration script for shell
func writeWidget(w io.Writer, shell string, types []widgetType, binary string) error {
	var src string
	switch shell {
	case "bash":
		src = bashWidget
	case "zsh":
		src = zshWidget
	default:
		return fmt.Errorf("unsupported shell: %s (supported: bash, zsh)", shell)
	}

	out, err := template.NewEngine(nil).RenderString(src, map[string]any{
		"types":  types,
		"binary": binary,
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
