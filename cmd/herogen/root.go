package main

import (
	"fmt"
	"log"

	"github.com/aellingwood/herogen/internal/config"
	"github.com/aellingwood/herogen/internal/mixedtext"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "herogen",
	Short:         "Render hero images for blog articles",
	Long:          "herogen draws 1920x1080 hero images with mixed Chinese and Latin titles from article front matter and a built-in catalog.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "herogen.yaml", "path to config file")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the --config file, falling back to defaults when it does
// not exist, and applies overrides before validating.
func loadConfig(cmd *cobra.Command, overrides map[string]any) (*config.Config, error) {
	configPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if len(overrides) > 0 {
		cfg.WithOverrides(overrides)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// verboseLogger returns a logger writing to stderr under --verbose, and nil
// otherwise.
func verboseLogger(cmd *cobra.Command) *log.Logger {
	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
	if !verbose {
		return nil
	}
	return log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
}

// newRenderer builds the text renderer for cfg. Font fallback notices are
// logged under --verbose.
func newRenderer(cmd *cobra.Command, cfg *config.Config) *mixedtext.Renderer {
	var opts []mixedtext.Option
	if l := verboseLogger(cmd); l != nil {
		opts = append(opts, mixedtext.WithLogger(l))
	}
	return mixedtext.New(cfg.Fonts, opts...)
}
