package mixedtext

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// GlyphSpacing is the fixed gap, in pixels, placed after every glyph.
const GlyphSpacing = 1

// Canvas is a surface the renderer paints single glyphs onto. dot is the
// pen position of the glyph: x on the pen origin, y on the top of the line
// (the ascender), matching a top-left text anchor.
type Canvas interface {
	DrawGlyph(face font.Face, dot image.Point, r rune, c color.Color)
}

// ImageCanvas adapts any draw.Image to Canvas. Glyphs are composited over
// the existing pixels, so colors with alpha blend with the background.
type ImageCanvas struct {
	Dst draw.Image
}

// DrawGlyph implements Canvas.
func (ic ImageCanvas) DrawGlyph(face font.Face, dot image.Point, r rune, c color.Color) {
	d := font.Drawer{
		Dst:  ic.Dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(dot.X, dot.Y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(string(r))
}

// Renderer lays out and draws mixed-script text. It is safe for concurrent
// use; access to the cached faces is serialised.
type Renderer struct {
	fonts    FontSet
	classify Classifier
	logger   *log.Logger

	mu      sync.Mutex
	parsed  map[string]loadedFont
	faces   map[faceKey]font.Face
	builtin *opentype.Font
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClassifier replaces the default code-point threshold classifier.
func WithClassifier(c Classifier) Option {
	return func(r *Renderer) {
		if c != nil {
			r.classify = c
		}
	}
}

// WithLogger reports font fallbacks to l. Without it fallbacks are silent.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// New creates a Renderer drawing basic runes with fonts.Basic and extended
// runes with fonts.Extended.
func New(fonts FontSet, opts ...Option) *Renderer {
	r := &Renderer{
		fonts:    fonts,
		classify: ThresholdClassifier(BasicCutoff),
		parsed:   make(map[string]loadedFont),
		faces:    make(map[faceKey]font.Face),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Classify reports the class the renderer assigns to r.
func (r *Renderer) Classify(ru rune) Class {
	return r.classify(ru)
}

// Measure returns the rendered width of text at size: the sum over runes of
// the glyph box width plus GlyphSpacing. It is 0 for empty text or a
// non-positive size.
func (r *Renderer) Measure(text string, size int) int {
	if text == "" || size <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.measure(text, size)
}

func (r *Renderer) measure(text string, size int) int {
	total := 0
	for _, ru := range text {
		lo, hi := glyphBox(r.resolve(r.classify(ru), size), ru)
		total += hi - lo + GlyphSpacing
	}
	return total
}

// DrawMixed draws text on dst with its top edge at pos.Y, aligned against
// pos.X, and returns the x just past the last glyph so callers can continue
// drawing on the same line. Empty text (or a non-positive size) draws
// nothing and returns pos.X.
func (r *Renderer) DrawMixed(dst Canvas, pos image.Point, text string, size int, c color.Color, align Align) int {
	if text == "" || size <= 0 {
		return pos.X
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	x := pos.X
	if align != AlignLeft {
		x = align.start(pos.X, r.measure(text, size))
	}
	for _, ru := range text {
		face := r.resolve(r.classify(ru), size)
		lo, hi := glyphBox(face, ru)
		// Shift the pen so the glyph box starts exactly at x.
		dst.DrawGlyph(face, image.Pt(x-lo, pos.Y), ru, c)
		x += hi - lo + GlyphSpacing
	}
	return x
}

// Close releases every cached face. The Renderer remains usable; faces are
// rebuilt on demand.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for key, face := range r.faces {
		if err := face.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(r.faces, key)
	}
	return errors.Join(errs...)
}

// glyphBox returns the horizontal pixel extent of r relative to the pen
// origin: the union of its ink bounds and its advance.
func glyphBox(face font.Face, r rune) (lo, hi int) {
	bounds, advance := font.BoundString(face, string(r))
	minX, maxX := fixed.Int26_6(0), advance
	if !bounds.Empty() {
		minX = min(minX, bounds.Min.X)
		maxX = max(maxX, bounds.Max.X)
	}
	return minX.Floor(), maxX.Ceil()
}
