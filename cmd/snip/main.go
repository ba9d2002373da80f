package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gubarz/snip/internal/config"
	"github.com/gubarz/snip/internal/executor"
	"github.com/gubarz/snip/internal/logging"
	"github.com/gubarz/snip/internal/service"
	"github.com/gubarz/snip/internal/template"
	"github.com/gubarz/snip/internal/ui"
	"github.com/spf13/cobra"
)

var version = "0.2.0"

var (
	cfgFile   string
	verbosity int
)

var rootCmd = &cobra.Command{
	Use:   "snip",
	Short: "Snippet completion manager",
	Long: `Keeps named text snippets in plain files and completes them by exact
name, fuzzy match or an interactive picker. Snippets may be templates
that are rendered before they are copied.`,
	SilenceUsage: true,
	RunE:         runRoot,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "debug", "d", "Enable debug logging (-d info, -dd debug, -ddd with callers)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: search $XDG_CONFIG_HOME/snip, ~/.config/snip, /etc/snip)")
	rootCmd.Flags().Bool("info", false, "Display version and configuration information")
	rootCmd.Flags().Bool("generate-config", false, "Print the default configuration to stdout")

	rootCmd.AddCommand(typesCmd, listCmd, editCmd, completeCmd, copyCmd, widgetCmd)
}

func initConfig() {
	logging.Setup(verbosity, os.Stderr)
	if err := config.Init(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	if gen, _ := cmd.Flags().GetBool("generate-config"); gen {
		fmt.Print(config.DefaultConfig())
		return nil
	}
	if info, _ := cmd.Flags().GetBool("info"); info {
		return printInfo()
	}
	return cmd.Help()
}

func printInfo() error {
	fmt.Printf("snip %s\n\n", version)

	path := config.ActivePath()
	if path == "" {
		path = "(built-in defaults)"
	}
	fmt.Printf("Configuration file: %s\n", path)
	fmt.Printf("Output mode:        %s\n", config.GetOutput())
	fmt.Printf("Editor:             %s\n", config.GetEditor())
	if envFile := config.GetEnvFile(); envFile != "" {
		fmt.Printf("Env file:           %s\n", envFile)
	}

	types, err := config.Types()
	if err != nil {
		return err
	}
	fmt.Println("\nSnippet types:")
	for _, name := range types.Names() {
		if st, ok := types.Lookup(name); ok {
			fmt.Printf("  %s: %s (%s)\n", name, st.SourceFile, st.Format)
		} else if ct, ok := types.Combined(name); ok {
			fmt.Printf("  %s: combined %v\n", name, ct.Sources)
		}
	}
	return nil
}

// clipboardOutput delivers copied text through the configured output mode
type clipboardOutput struct {
	exec *executor.Executor
}

func (c clipboardOutput) Copy(text string) error {
	return c.exec.Output(text)
}

// newService wires the configured types to parsing, rendering and output
func newService() (*service.Service, error) {
	types, err := config.Types()
	if err != nil {
		return nil, err
	}

	exec := executor.NewExecutor()
	engine := template.NewEngine(executor.NewSafeShell(exec)).WithEnvFile(config.GetEnvFile())
	return service.New(types, engine, clipboardOutput{exec}, ui.NewSelector()), nil
}

// completeTypes offers configured type names for --ctype
func completeTypes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	types, err := config.Types()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return types.Names(), cobra.ShellCompDirectiveNoFileComp
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
