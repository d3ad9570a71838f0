package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/aellingwood/herogen/internal/config"
	"github.com/aellingwood/herogen/internal/hero"
	"github.com/aellingwood/herogen/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Preview heroes in the browser",
	Long:  "Render every hero, serve a gallery of the results, and re-render with live reload whenever an article, the config file, or a font changes.",
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load config.
		cfg, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		configPath, _ := cmd.Root().PersistentFlags().GetString("config")

		// 2. Read CLI flags, falling back to the server section.
		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}
		bind := cfg.Server.Host
		if cmd.Flags().Changed("bind") {
			bind, _ = cmd.Flags().GetString("bind")
		}
		noLiveReload := !cfg.Server.LiveReload
		if cmd.Flags().Changed("no-live-reload") {
			noLiveReload, _ = cmd.Flags().GetBool("no-live-reload")
		}

		// 3. Create the server and run the initial render.
		srv := server.NewServer(server.ServeOptions{
			Port:         port,
			Bind:         bind,
			OutputDir:    cfg.Output.Dir,
			NoLiveReload: noLiveReload,
		})
		defer func() { _ = srv.Stop() }()

		ctx, cancel := context.WithCancel(cmdContext(cmd))
		defer cancel()

		rebuild := func(cfg *config.Config) {
			start := time.Now()
			items, err := renderGallery(ctx, cmd, cfg)
			if err != nil {
				log.Printf("Render failed: %v", err)
			}
			srv.SetGallery(items)
			log.Printf("Rendered %d hero(es) in %s", len(items), time.Since(start).Round(time.Millisecond))
		}
		rebuild(cfg)

		// 4. Re-render on changes. The config is re-read so edits to
		// canvas, palette defaults or fonts take effect without a restart.
		watched := watchPaths(cfg, configPath)
		watcher := server.NewWatcher(watched, 200*time.Millisecond, func() {
			log.Println("Change detected, re-rendering...")
			next, err := loadConfig(cmd, nil)
			if err != nil {
				log.Printf("Keeping previous config: %v", err)
				next = cfg
			}
			if filepath.Clean(next.Output.Dir) != filepath.Clean(cfg.Output.Dir) {
				log.Printf("warning: output dir changed to %s; restart serve to preview it", next.Output.Dir)
				next.Output.Dir = cfg.Output.Dir
			}
			if added := unwatchedPaths(watched, watchPaths(next, configPath)); len(added) > 0 {
				log.Printf("warning: not watching %s; restart serve to pick up changes there", strings.Join(added, ", "))
			}
			rebuild(next)
			srv.NotifyReload()
		})
		srv.SetWatcher(watcher)

		// 5. Handle graceful shutdown.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			select {
			case <-sigCh:
				fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down...")
				cancel()
			case <-ctx.Done():
			}
		}()

		// 6. Start the server (blocks until shutdown).
		return srv.Start(ctx)
	},
}

// watchPaths lists what serve watches for cfg: the content dir, the config
// file and both font files.
func watchPaths(cfg *config.Config, configPath string) []string {
	var paths []string
	for _, p := range []string{cfg.Content.Dir, configPath, cfg.Fonts.Basic, cfg.Fonts.Extended} {
		if p != "" {
			paths = append(paths, filepath.Clean(p))
		}
	}
	return paths
}

// unwatchedPaths returns the entries of next missing from watched.
func unwatchedPaths(watched, next []string) []string {
	var missing []string
	for _, p := range next {
		if !slices.Contains(watched, p) {
			missing = append(missing, p)
		}
	}
	return missing
}

// renderGallery renders every hero in cfg's catalog, built-ins included,
// and returns the gallery entries for them.
func renderGallery(ctx context.Context, cmd *cobra.Command, cfg *config.Config) ([]server.GalleryItem, error) {
	defs, err := hero.Catalog(cfg.Content.Dir, true)
	if err != nil {
		return nil, err
	}
	outs, renderErr := renderHeroes(ctx, cmd, cfg, defs, false)

	items := make([]server.GalleryItem, len(defs))
	for i, d := range defs {
		items[i] = server.GalleryItem{
			Slug:     d.Slug,
			Title:    d.Title,
			Subtitle: d.Subtitle,
			Motif:    d.Motif,
			Source:   d.Source,
		}
		if i < len(outs) && outs[i] != nil {
			items[i].Files = server.FileURLs(cfg.Output.Dir, outs[i].Files)
		} else {
			items[i].Error = "not rendered; see the serve log"
		}
	}
	return items, renderErr
}

func init() {
	serveCmd.Flags().Int("port", 1414, "server port")
	serveCmd.Flags().String("bind", "localhost", "bind address")
	serveCmd.Flags().Bool("no-live-reload", false, "disable live reload")

	rootCmd.AddCommand(serveCmd)
}
