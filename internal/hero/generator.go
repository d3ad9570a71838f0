package hero

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/aellingwood/herogen/internal/config"
	"github.com/aellingwood/herogen/internal/mixedtext"
)

// Output describes the files written for one hero.
type Output struct {
	Slug     string        `json:"slug"`
	Files    []string      `json:"files"`
	Cached   bool          `json:"cached"`
	Duration time.Duration `json:"duration"`
}

// Generator renders definitions to files according to a Config.
type Generator struct {
	cfg    *config.Config
	text   *mixedtext.Renderer
	cache  *Cache
	force  bool
	logger *log.Logger

	fontsOnce sync.Once
	fontsHash string
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithCache skips heroes whose inputs have not changed since they were
// last rendered into the cache.
func WithCache(c *Cache) GeneratorOption {
	return func(g *Generator) { g.cache = c }
}

// WithForce renders every hero even when the cache says it is current.
func WithForce(force bool) GeneratorOption {
	return func(g *Generator) { g.force = force }
}

// WithProgressLogger reports each rendered hero to l.
func WithProgressLogger(l *log.Logger) GeneratorOption {
	return func(g *Generator) { g.logger = l }
}

// NewGenerator creates a Generator drawing text with text.
func NewGenerator(cfg *config.Config, text *mixedtext.Renderer, opts ...GeneratorOption) *Generator {
	g := &Generator{cfg: cfg, text: text}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Formats returns the configured output formats, lowercased and
// de-duplicated.
func (g *Generator) Formats() []string {
	var formats []string
	seen := make(map[string]bool)
	for _, f := range g.cfg.Output.Formats {
		f = strings.ToLower(f)
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats
}

// Paths returns the files def renders to, one per format.
func (g *Generator) Paths(def *Definition) []string {
	formats := g.Formats()
	paths := make([]string, len(formats))
	for i, f := range formats {
		paths[i] = filepath.Join(g.cfg.Output.Dir, def.FileName(g.cfg.Output.Suffix, f))
	}
	return paths
}

// Render composes def once and writes it in every configured format.
func (g *Generator) Render(ctx context.Context, def *Definition) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	def.Normalize()
	if err := def.Validate(); err != nil {
		return nil, err
	}

	formats := g.Formats()
	quality := g.cfg.Output.Quality

	paths := g.Paths(def)

	var fingerprint string
	if g.cache != nil {
		fp, err := g.Fingerprint(def)
		if err != nil {
			return nil, err
		}
		fingerprint = fp
		if !g.force {
			if g.cache.Lookup(def.Slug, fingerprint, paths, quality) {
				return &Output{Slug: def.Slug, Files: paths, Cached: true, Duration: time.Since(start)}, nil
			}
		}
	}

	img, err := Compose(def, g.cfg.Canvas, g.text)
	if err != nil {
		return nil, err
	}

	for i, format := range formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := encodeFile(img, paths[i], format, quality); err != nil {
			return nil, fmt.Errorf("writing %s: %w", paths[i], err)
		}
	}

	if g.cache != nil {
		if err := g.cache.Store(def.Slug, fingerprint, formats, quality, paths); err != nil {
			return nil, fmt.Errorf("updating render cache: %w", err)
		}
	}

	out := &Output{Slug: def.Slug, Files: paths, Duration: time.Since(start)}
	if g.logger != nil {
		g.logger.Printf("rendered %s in %v", def.Slug, out.Duration.Round(time.Millisecond))
	}
	return out, nil
}

// RenderAll renders defs on a bounded worker pool. Outputs are returned in
// the order of defs. The first error is returned after in-flight renders
// finish; a cancelled ctx stops scheduling new renders.
func (g *Generator) RenderAll(ctx context.Context, defs []*Definition) ([]*Output, error) {
	outs := make([]*Output, len(defs))
	if len(defs) == 0 {
		return outs, nil
	}

	numWorkers := g.cfg.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	sem := make(chan struct{}, numWorkers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	record := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

schedule:
	for i, def := range defs {
		select {
		case <-ctx.Done():
			record(ctx.Err())
			break schedule
		case sem <- struct{}{}: // acquire
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }() // release

			out, err := g.Render(ctx, def)
			if err != nil {
				record(fmt.Errorf("rendering %s: %w", def.Slug, err))
				return
			}
			outs[i] = out
		}()
	}
	wg.Wait()
	return outs, firstErr
}

// Fingerprint hashes everything that affects def's pixels: the definition
// itself, the canvas settings, the output suffix, and the font files.
func (g *Generator) Fingerprint(def *Definition) (string, error) {
	g.fontsOnce.Do(func() {
		g.fontsHash = hashFonts(g.cfg.Fonts)
	})

	d := *def
	d.Source = ""
	data, err := json.Marshal(struct {
		Definition *Definition
		Canvas     config.CanvasConfig
		Suffix     string
		Fonts      string
	}{&d, g.cfg.Canvas, g.cfg.Output.Suffix, g.fontsHash})
	if err != nil {
		return "", fmt.Errorf("fingerprinting %s: %w", def.Slug, err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}

func hashFonts(fonts mixedtext.FontSet) string {
	var parts []string
	for _, path := range []string{fonts.Basic, fonts.Extended} {
		sum, err := HashFile(path)
		if err != nil {
			sum = "missing"
		}
		parts = append(parts, path+"="+sum)
	}
	return strings.Join(parts, ";")
}
