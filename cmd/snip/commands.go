package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gubarz/snip/internal/config"
	"github.com/gubarz/snip/internal/executor"
	"github.com/gubarz/snip/internal/parser"
	"github.com/gubarz/snip/internal/service"
	"github.com/gubarz/snip/internal/ui"
	"github.com/spf13/cobra"
)

const (
	defaultType       = "default"
	maxListContentLen = 100
)

var (
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	commentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List available snippet types",
	Args:  cobra.NoArgs,
	RunE:  runTypes,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all snippets of a type",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit a snippet file in the configured editor",
	Args:  cobra.NoArgs,
	RunE:  runEdit,
}

var completeCmd = &cobra.Command{
	Use:   "complete",
	Short: "Find completions with optional interactive selection",
	Long: `Prints the name of the snippet matching --input.

By default the name must match exactly. --fuzzy picks the best fuzzy match,
-i opens the interactive picker unless the input already identifies one
snippet, and --all prints every fuzzy match best first.`,
	Args: cobra.NoArgs,
	RunE: runComplete,
}

var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Render a snippet and copy it to the clipboard",
	Args:  cobra.NoArgs,
	RunE:  runCopy,
}

func init() {
	for _, cmd := range []*cobra.Command{listCmd, editCmd, completeCmd, copyCmd} {
		cmd.Flags().String("ctype", defaultType, "Snippet type")
		cobra.CheckErr(cmd.RegisterFlagCompletionFunc("ctype", completeTypes))
	}

	typesCmd.Flags().Bool("list", false, "Print a space separated list of type names")

	listCmd.Flags().String("prefix", "", "Only list snippets whose name starts with prefix")

	editCmd.Flags().String("input", "", "Snippet to jump to")

	completeCmd.Flags().String("input", "", "Partial input to match on")
	completeCmd.Flags().BoolP("interactive", "i", false, "Use the interactive picker")
	completeCmd.Flags().Bool("fuzzy", false, "Pick the best fuzzy match")
	completeCmd.Flags().Bool("all", false, "Print every fuzzy match, best first")

	copyCmd.Flags().String("input", "", "Snippet to copy")
	copyCmd.Flags().Bool("fuzzy", false, "Accept the best fuzzy match")
	copyCmd.Flags().BoolP("print", "p", false, "Print instead of copying (same as output = \"print\")")
	cobra.CheckErr(copyCmd.MarkFlagRequired("input"))
}

func runTypes(cmd *cobra.Command, args []string) error {
	types, err := config.Types()
	if err != nil {
		return err
	}

	if list, _ := cmd.Flags().GetBool("list"); list {
		fmt.Println(strings.Join(types.Names(), " "))
		return nil
	}

	fmt.Println("\nAvailable snippet types:")
	for _, name := range types.Names() {
		if desc := types.Description(name); desc != "" {
			fmt.Printf("  %s: %s\n", name, desc)
		} else {
			fmt.Printf("  %s\n", name)
		}
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	ctype, _ := cmd.Flags().GetString("ctype")
	prefix, _ := cmd.Flags().GetString("prefix")

	svc, err := newService()
	if err != nil {
		return err
	}
	snippets, err := svc.Snippets(ctype)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\nSnippets for type '%s':\n", ctype)
	printSnippetList(os.Stdout, snippets, prefix)
	return nil
}

// printSnippetList writes name and one-line content, sorted by name
func printSnippetList(w io.Writer, snippets []parser.Snippet, prefix string) {
	var shown []parser.Snippet
	for _, s := range snippets {
		if strings.HasPrefix(s.Name, prefix) {
			shown = append(shown, s)
		}
	}
	sort.SliceStable(shown, func(i, j int) bool {
		return shown[i].Name < shown[j].Name
	})

	width := 0
	for _, s := range shown {
		width = max(width, len(s.Name))
	}

	for _, s := range shown {
		content := strings.Join(strings.Split(s.Content.Text, "\n"), " ")
		if len(content) > maxListContentLen {
			content = content[:maxListContentLen-3] + "..."
		}
		name := fmt.Sprintf("%-*s", width, s.Name)
		fmt.Fprintf(w, "  %s    %s\n", nameStyle.Render(name), content)
	}
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctype, _ := cmd.Flags().GetString("ctype")
	input, _ := cmd.Flags().GetString("input")

	svc, err := newService()
	if err != nil {
		return err
	}
	return editSnippet(svc, ctype, input)
}

func editSnippet(svc *service.Service, ctype, name string) error {
	loc, err := svc.Locate(ctype, name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(loc.File); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, nameStyle.Render("Creating new snippet file: "+loc.File))
	}

	line := loc.Line
	if line == 0 {
		line = 1
	}
	return executor.Edit(config.GetEditor(), loc.File, line)
}

func runComplete(cmd *cobra.Command, args []string) error {
	ctype, _ := cmd.Flags().GetString("ctype")
	input, _ := cmd.Flags().GetString("input")
	interactive, _ := cmd.Flags().GetBool("interactive")
	fuzzy, _ := cmd.Flags().GetBool("fuzzy")
	all, _ := cmd.Flags().GetBool("all")

	svc, err := newService()
	if err != nil {
		return err
	}

	if all {
		ranked, err := svc.Rank(ctype, input)
		if err != nil {
			return err
		}
		for _, name := range parser.Names(ranked) {
			fmt.Println(name)
		}
		return nil
	}

	var snippet parser.Snippet
	switch {
	case interactive:
		snippet, err = svc.FindInteractive(ctype, input)
		if name, ok := ui.IsEditRequest(err); ok {
			return editSnippet(svc, ctype, name)
		}
	default:
		snippet, err = svc.Find(ctype, input, fuzzy)
	}

	// No match prints nothing so shell completion stays quiet
	if errors.Is(err, service.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println(snippet.Name)
	return nil
}

func runCopy(cmd *cobra.Command, args []string) error {
	ctype, _ := cmd.Flags().GetString("ctype")
	input, _ := cmd.Flags().GetString("input")
	fuzzy, _ := cmd.Flags().GetBool("fuzzy")
	if p, _ := cmd.Flags().GetBool("print"); p {
		config.SetOutput(string(executor.OutputPrint))
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	snippet, text, err := svc.Copy(ctype, input, fuzzy)
	if err != nil {
		return err
	}

	if len(snippet.Comments) > 0 {
		fmt.Fprintf(os.Stderr, "%s\n%s\n\n", commentStyle.Render("Comments:"), strings.Join(snippet.Comments, "\n"))
	}
	if config.GetOutput() != string(executor.OutputPrint) {
		fmt.Fprintln(os.Stderr, nameStyle.Render(fmt.Sprintf("'%s' -> clipboard:", snippet.Name)))
		fmt.Fprintln(os.Stderr, text)
	}
	return nil
}
