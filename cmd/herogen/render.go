package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aellingwood/herogen/internal/config"
	"github.com/aellingwood/herogen/internal/hero"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render [slug...]",
	Short: "Render hero images",
	Long: `Render hero images for the given slugs, or for every known hero with --all.

Slugs are looked up among the articles in the content directory and the
built-in catalog. With --all only article heroes are rendered unless
--builtin is also set; --builtin alone renders the built-in catalog.`,
	RunE: runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	builtin, _ := cmd.Flags().GetBool("builtin")
	force, _ := cmd.Flags().GetBool("force")
	formats, _ := cmd.Flags().GetStringSlice("format")
	destination, _ := cmd.Flags().GetString("destination")

	cfg, err := loadConfig(cmd, map[string]any{
		"destination": destination,
		"formats":     formats,
	})
	if err != nil {
		return err
	}

	defs, err := selectHeroes(cfg, args, all, builtin)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	outs, err := renderHeroes(ctx, cmd, cfg, defs, force)
	printOutputs(cmd.OutOrStdout(), outs)

	rendered, cached := 0, 0
	for _, o := range outs {
		switch {
		case o == nil:
		case o.Cached:
			cached++
		default:
			rendered++
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d hero(es), %d unchanged, in %s\n",
		rendered, cached, time.Since(start).Round(time.Millisecond))
	return err
}

// selectHeroes resolves the command line into the definitions to render.
func selectHeroes(cfg *config.Config, slugs []string, all, builtin bool) ([]*hero.Definition, error) {
	switch {
	case len(slugs) > 0 && all:
		return nil, errors.New("pass slugs or --all, not both")
	case all:
		return hero.Catalog(cfg.Content.Dir, builtin)
	case len(slugs) == 0 && builtin:
		return hero.Builtin(), nil
	case len(slugs) == 0:
		return nil, errors.New("nothing to render: pass one or more slugs, --all, or --builtin")
	}

	catalog, err := hero.Catalog(cfg.Content.Dir, true)
	if err != nil {
		return nil, err
	}
	defs := make([]*hero.Definition, 0, len(slugs))
	for _, slug := range slugs {
		d, err := hero.Find(catalog, slug)
		if err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return defs, nil
}

// renderHeroes renders defs with cfg through the render cache.
func renderHeroes(ctx context.Context, cmd *cobra.Command, cfg *config.Config, defs []*hero.Definition, force bool) ([]*hero.Output, error) {
	text := newRenderer(cmd, cfg)
	defer text.Close()

	cache, err := hero.NewCache(cfg.Output.CacheDir)
	if err != nil {
		return nil, err
	}
	gen := hero.NewGenerator(cfg, text,
		hero.WithCache(cache),
		hero.WithForce(force),
		hero.WithProgressLogger(verboseLogger(cmd)),
	)
	return gen.RenderAll(ctx, defs)
}

func printOutputs(w io.Writer, outs []*hero.Output) {
	for _, o := range outs {
		if o == nil {
			continue
		}
		status := ""
		if o.Cached {
			status = " (unchanged)"
		}
		for _, f := range o.Files {
			fmt.Fprintf(w, "  %s%s\n", f, status)
		}
	}
}

// cmdContext returns the command's context, or Background when it is run
// without one (as in tests).
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	renderCmd.Flags().Bool("all", false, "render every hero declared in the content directory")
	renderCmd.Flags().Bool("builtin", false, "include the built-in catalog")
	renderCmd.Flags().Bool("force", false, "render even when the cached output is current")
	renderCmd.Flags().StringSlice("format", nil, "output formats (png, webp); defaults to the configured formats")
	renderCmd.Flags().StringP("destination", "d", "", "output directory")

	rootCmd.AddCommand(renderCmd)
}
