package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/aellingwood/herogen/internal/hero"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List known heroes",
	Long:  "List every hero from the content directory and the built-in catalog, with its motif, source, and whether its images exist.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		defs, err := hero.Catalog(cfg.Content.Dir, true)
		if err != nil {
			return err
		}
		if len(defs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No heroes found.")
			return nil
		}

		gen := hero.NewGenerator(cfg, nil)
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SLUG\tMOTIF\tRENDERED\tSOURCE\tTITLE")
		for _, d := range defs {
			rendered := "yes"
			for _, p := range gen.Paths(d) {
				if _, err := os.Stat(p); err != nil {
					rendered = "no"
				}
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.Slug, d.Motif, rendered, d.Source, d.Title)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
