package mcpserver

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aellingwood/herogen/internal/config"
	"github.com/aellingwood/herogen/internal/hero"
	"github.com/aellingwood/herogen/internal/mixedtext"
	"github.com/aellingwood/herogen/internal/server"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// HeroServer is the MCP server for herogen.
type HeroServer struct {
	server  *mcp.Server
	cfg     *config.Config
	text    *mixedtext.Renderer
	cache   *hero.Cache
	version string
}

// New creates a HeroServer that renders with cfg. The caller owns text and
// closes it after Run returns.
func New(cfg *config.Config, text *mixedtext.Renderer, version string) (*HeroServer, error) {
	cache, err := hero.NewCache(cfg.Output.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("opening render cache: %w", err)
	}

	hs := &HeroServer{
		cfg:     cfg,
		text:    text,
		cache:   cache,
		version: version,
	}
	hs.server = mcp.NewServer(
		&mcp.Implementation{
			Name:    "herogen",
			Version: version,
		},
		nil,
	)

	hs.registerResources()
	hs.registerTools()

	return hs, nil
}

// Run starts the MCP server on the given transport.
func (hs *HeroServer) Run(ctx context.Context, transport mcp.Transport) error {
	hs.startWatcher(ctx)
	return hs.server.Run(ctx, transport)
}

// startWatcher tells subscribed clients the hero list changed whenever an
// article under the content directory is edited.
func (hs *HeroServer) startWatcher(ctx context.Context) {
	paths := []string{hs.cfg.Content.Dir}
	watcher := server.NewWatcher(paths, 500*time.Millisecond, func() {
		_ = hs.server.ResourceUpdated(ctx, &mcp.ResourceUpdatedNotificationParams{
			URI: heroesURI,
		})
	})

	go func() { _ = watcher.Start() }()
	go func() {
		<-ctx.Done()
		watcher.Stop()
	}()
}

// outputRel returns path relative to the output directory, slash separated.
func (hs *HeroServer) outputRel(path string) string {
	rel, err := filepath.Rel(hs.cfg.Output.Dir, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func ptr[T any](v T) *T {
	return &v
}

func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{IsError: true, Content: []mcp.Content{&mcp.TextContent{Text: msg}}}
}
