package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aellingwood/herogen/internal/hero"
	"github.com/aellingwood/herogen/internal/mixedtext"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (hs *HeroServer) registerTools() {
	mcp.AddTool(hs.server, &mcp.Tool{
		Name:        "list_heroes",
		Description: "List every hero image definition: the built-in catalog plus heroes declared in article front matter. Returns slug, title, motif, source file, and whether the output files exist.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:  true,
			OpenWorldHint: ptr(false),
			Title:         "List Heroes",
		},
	}, hs.handleListHeroes)

	mcp.AddTool(hs.server, &mcp.Tool{
		Name:        "measure_text",
		Description: "Measure the rendered width in pixels of a line of mixed Latin and Chinese text with the configured fonts, split into per-font runs. Use it to check that a title fits the canvas before rendering.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:  true,
			OpenWorldHint: ptr(false),
			Title:         "Measure Text",
		},
	}, hs.handleMeasureText)

	mcp.AddTool(hs.server, &mcp.Tool{
		Name:        "render_hero",
		Description: "Render one hero image to the output directory in the configured formats. Renders a known hero by slug, or an ad-hoc hero when a title is given for an unknown slug. Unchanged heroes are served from the render cache unless force is set.",
		Annotations: &mcp.ToolAnnotations{
			DestructiveHint: ptr(false),
			IdempotentHint:  true,
			OpenWorldHint:   ptr(false),
			Title:           "Render Hero",
		},
	}, hs.handleRenderHero)
}

func (hs *HeroServer) handleListHeroes(ctx context.Context, req *mcp.CallToolRequest, input ListHeroesInput) (*mcp.CallToolResult, ListHeroesOutput, error) {
	defs, err := hero.Catalog(hs.cfg.Content.Dir, !input.ExcludeBuiltin)
	if err != nil {
		return toolError(err.Error()), ListHeroesOutput{}, nil
	}
	motif := strings.ToLower(strings.TrimSpace(input.Motif))
	if motif != "" {
		if _, err := hero.LookupMotif(motif); err != nil {
			return toolError(err.Error()), ListHeroesOutput{}, nil
		}
	}

	gen := hero.NewGenerator(hs.cfg, hs.text)
	out := ListHeroesOutput{Heroes: []HeroBrief{}}
	for _, d := range defs {
		if motif != "" && d.Motif != motif {
			continue
		}
		brief := HeroBrief{
			Slug:     d.Slug,
			Title:    d.Title,
			Subtitle: d.Subtitle,
			Tagline:  d.Tagline,
			Motif:    d.Motif,
			Source:   d.Source,
			Rendered: true,
		}
		for _, p := range gen.Paths(d) {
			brief.Files = append(brief.Files, hs.outputRel(p))
			if _, err := os.Stat(p); err != nil {
				brief.Rendered = false
			}
		}
		out.Heroes = append(out.Heroes, brief)
	}
	out.Count = len(out.Heroes)
	return nil, out, nil
}

func (hs *HeroServer) handleMeasureText(ctx context.Context, req *mcp.CallToolRequest, input MeasureTextInput) (*mcp.CallToolResult, MeasureTextOutput, error) {
	if input.Text == "" {
		return toolError("text is required"), MeasureTextOutput{}, nil
	}
	size := input.Size
	if size == 0 {
		size = hero.DefaultLayout().TitleSize
	}
	if size < 0 {
		return toolError(fmt.Sprintf("size must be positive, got %d", size)), MeasureTextOutput{}, nil
	}

	out := MeasureTextOutput{
		Width: hs.text.Measure(input.Text, size),
		Size:  size,
		Runs:  []TextRun{},
	}
	for _, run := range splitRuns(hs.text, input.Text) {
		out.Runs = append(out.Runs, TextRun{
			Text:  run.text,
			Class: run.class.String(),
			Width: hs.text.Measure(run.text, size),
		})
	}
	out.Fits = out.Width <= hs.cfg.Canvas.Width-2*hs.cfg.Canvas.Margin
	return nil, out, nil
}

func (hs *HeroServer) handleRenderHero(ctx context.Context, req *mcp.CallToolRequest, input RenderHeroInput) (*mcp.CallToolResult, RenderHeroOutput, error) {
	if input.Slug == "" {
		return toolError("slug is required"), RenderHeroOutput{}, nil
	}

	def, err := hs.resolveDefinition(input)
	if err != nil {
		return toolError(err.Error()), RenderHeroOutput{}, nil
	}

	cfg := *hs.cfg
	if len(input.Formats) > 0 {
		cfg.Output.Formats = input.Formats
		if err := cfg.Validate(); err != nil {
			return toolError(err.Error()), RenderHeroOutput{}, nil
		}
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return toolError(fmt.Sprintf("creating output dir: %v", err)), RenderHeroOutput{}, nil
	}

	gen := hero.NewGenerator(&cfg, hs.text, hero.WithCache(hs.cache), hero.WithForce(input.Force))
	res, err := gen.Render(ctx, def)
	if err != nil {
		return toolError(err.Error()), RenderHeroOutput{}, nil
	}

	out := RenderHeroOutput{
		Slug:       res.Slug,
		Cached:     res.Cached,
		DurationMs: res.Duration.Milliseconds(),
	}
	for _, f := range res.Files {
		out.Files = append(out.Files, hs.outputRel(f))
	}
	return nil, out, nil
}

// resolveDefinition finds the hero named by input.Slug, or builds an ad-hoc
// definition from the input when the slug is unknown and a title is given.
func (hs *HeroServer) resolveDefinition(input RenderHeroInput) (*hero.Definition, error) {
	defs, err := hero.Catalog(hs.cfg.Content.Dir, true)
	if err != nil {
		return nil, err
	}
	def, err := hero.Find(defs, input.Slug)
	if err == nil {
		return def, nil
	}
	if !errors.Is(err, hero.ErrNotFound) || input.Title == "" {
		return nil, err
	}

	def = &hero.Definition{
		Slug:     input.Slug,
		Title:    input.Title,
		Subtitle: input.Subtitle,
		Tagline:  input.Tagline,
		Motif:    input.Motif,
		Source:   "mcp",
	}
	if input.Background != "" {
		if def.Palette.Background, err = hero.ParseHex(input.Background); err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
	}
	if input.Primary != "" {
		if def.Palette.Primary, err = hero.ParseHex(input.Primary); err != nil {
			return nil, fmt.Errorf("primary: %w", err)
		}
	}
	def.Normalize()
	return def, nil
}

type run struct {
	text  string
	class mixedtext.Class
}

// splitRuns groups consecutive runes of the same font class.
func splitRuns(r *mixedtext.Renderer, text string) []run {
	var runs []run
	var b strings.Builder
	var cur mixedtext.Class
	for i, ru := range []rune(text) {
		c := r.Classify(ru)
		if i > 0 && c != cur {
			runs = append(runs, run{b.String(), cur})
			b.Reset()
		}
		cur = c
		b.WriteRune(ru)
	}
	if b.Len() > 0 {
		runs = append(runs, run{b.String(), cur})
	}
	return runs
}
