package main

import (
	"fmt"
	"strings"

	"github.com/aellingwood/herogen/internal/hero"
	"github.com/spf13/cobra"
)

var measureCmd = &cobra.Command{
	Use:   "measure <text>",
	Short: "Measure the rendered width of a line of text",
	Long:  "Print the width in pixels that <text> occupies when drawn with the configured fonts, and whether it fits inside the canvas margins.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		size, _ := cmd.Flags().GetInt("size")
		if size <= 0 {
			return fmt.Errorf("--size must be positive, got %d", size)
		}
		cfg, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		text := newRenderer(cmd, cfg)
		defer text.Close()

		line := strings.Join(args, " ")
		width := text.Measure(line, size)
		available := cfg.Canvas.Width - 2*cfg.Canvas.Margin

		fmt.Fprintf(cmd.OutOrStdout(), "%d\n", width)
		if width > available {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %dpx exceeds the %dpx between the canvas margins\n", width, available)
		}
		return nil
	},
}

func init() {
	measureCmd.Flags().Int("size", hero.DefaultLayout().TitleSize, "font size in pixels")

	rootCmd.AddCommand(measureCmd)
}
