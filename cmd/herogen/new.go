package main

import (
	"fmt"

	"github.com/aellingwood/herogen/internal/scaffold"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new <slug>",
	Short: "Create an article with a hero block",
	Long:  "Write a Markdown article stub to the content directory whose front matter carries a hero block ready to render.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		subtitle, _ := cmd.Flags().GetString("subtitle")
		motif, _ := cmd.Flags().GetString("motif")
		format, _ := cmd.Flags().GetString("frontmatter")

		cfg, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		path, err := scaffold.NewArticle(cfg.Content.Dir, scaffold.ArticleOptions{
			Slug:     args[0],
			Title:    title,
			Subtitle: subtitle,
			Motif:    motif,
			Format:   format,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Article created: %s\n", path)
		return nil
	},
}

func init() {
	newCmd.Flags().String("title", "", "article and hero title (default: the slug)")
	newCmd.Flags().String("subtitle", "", "hero subtitle")
	newCmd.Flags().String("motif", "", "hero motif (orbit, shield, checklist, scale, none)")
	newCmd.Flags().String("frontmatter", "yaml", "front matter format (yaml or toml)")

	rootCmd.AddCommand(newCmd)
}
