package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

//go:embed default_config.toml
var defaultConfig []byte

// Config holds the application configuration
type Config struct {
	Output       string                `mapstructure:"output"`
	Editor       string                `mapstructure:"editor"`
	EnvFile      string                `mapstructure:"env_file"`
	SnippetTypes map[string]TypeConfig `mapstructure:"snippet_types"`
}

// TypeConfig is one entry of the snippet_types table
type TypeConfig struct {
	SourceFile  string   `mapstructure:"source_file"`
	Format      string   `mapstructure:"format"`
	Description string   `mapstructure:"description"`
	Alias       string   `mapstructure:"alias"`
	Sources     []string `mapstructure:"sources"` // Set for combined types only
}

// C is the global config instance
var C Config

// DefaultConfig returns the compiled-in configuration file
func DefaultConfig() string {
	return string(defaultConfig)
}

// Init loads the built-in defaults, merges the first user config file found
// (or the explicit path when given) and applies SNIP_* environment overrides
func Init(path string) error {
	viper.Reset()
	viper.SetConfigType("toml")
	if err := viper.ReadConfig(bytes.NewReader(defaultConfig)); err != nil {
		return fmt.Errorf("built-in config: %w", err)
	}

	if path != "" {
		viper.SetConfigFile(expandTildeOrKeep(path))
	} else {
		viper.SetConfigName("config")
		for _, dir := range searchPaths() {
			viper.AddConfigPath(dir)
		}
	}

	viper.SetEnvPrefix("SNIP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	C = Config{}
	return viper.Unmarshal(&C)
}

// searchPaths lists config directories in priority order
func searchPaths() []string {
	var dirs []string
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, "snip"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "snip"))
	}
	return append(dirs, "/etc/snip")
}

// ActivePath returns the user config file in use, or "" when only the
// built-in defaults are loaded
func ActivePath() string {
	return viper.ConfigFileUsed()
}

// GetOutput returns the output mode
func GetOutput() string {
	return viper.GetString("output")
}

// GetEditor returns the configured editor command
func GetEditor() string {
	if editor := viper.GetString("editor"); editor != "" {
		return editor
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	return "vim"
}

// GetEnvFile returns the dotenv file for template variables with tilde expansion
func GetEnvFile() string {
	return expandTildeOrKeep(viper.GetString("env_file"))
}

// SetOutput sets output mode at runtime
func SetOutput(mode string) {
	viper.Set("output", mode)
	C.Output = mode
}

// Types builds the snippet type registry from the loaded configuration
func Types() (*Registry, error) {
	return NewRegistry(C.SnippetTypes)
}

// expandTilde expands a leading ~ or ~/ to the user's home directory.
// "~user" forms are not supported.
func expandTilde(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return "", fmt.Errorf("invalid path: %s", path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

func expandTildeOrKeep(path string) string {
	if expanded, err := expandTilde(path); err == nil {
		return expanded
	}
	return path
}
