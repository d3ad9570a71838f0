package hero

import (
	"fmt"
	"image"

	"github.com/aellingwood/herogen/internal/config"
	"github.com/aellingwood/herogen/internal/mixedtext"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// taglineLift is how far above the bottom margin the tagline's top edge sits.
const taglineLift = 40

// shadowColor is drawn under the title.
var shadowColor = Color{A: 120}

// TextLine is one centered line of the text block.
type TextLine struct {
	Role  string
	Text  string
	Pos   image.Point // anchor: horizontal center, top edge
	Size  int
	Color Color
}

// Lines lays out the text block of def on a canvas: title shadow, title,
// subtitle and tagline, each centered on the canvas. Empty subtitle or
// tagline lines are omitted.
func Lines(def *Definition, canvas config.CanvasConfig) []TextLine {
	l := def.Layout.withDefaults()
	p := def.Palette.withDefaults(DefaultPalette())
	cx := canvas.Width / 2
	titleY := int(float64(canvas.Height) * l.TitleY)

	lines := []TextLine{
		{Role: "shadow", Text: def.Title, Pos: image.Pt(cx, titleY+l.ShadowOffset), Size: l.TitleSize, Color: shadowColor},
		{Role: "title", Text: def.Title, Pos: image.Pt(cx, titleY), Size: l.TitleSize, Color: p.Text},
	}
	if def.Subtitle != "" {
		lines = append(lines, TextLine{
			Role:  "subtitle",
			Text:  def.Subtitle,
			Pos:   image.Pt(cx, titleY+l.SubtitleGap),
			Size:  l.SubtitleSize,
			Color: p.Primary.WithAlpha(200),
		})
	}
	if def.Tagline != "" {
		lines = append(lines, TextLine{
			Role:  "tagline",
			Text:  def.Tagline,
			Pos:   image.Pt(cx, canvas.Height-canvas.Margin-taglineLift),
			Size:  l.TaglineSize,
			Color: p.Muted.WithAlpha(180),
		})
	}
	return lines
}

// Compose draws def: background, orbs, motif and corners, softened with a
// Gaussian blur, then the text block on top.
func Compose(def *Definition, canvas config.CanvasConfig, text *mixedtext.Renderer) (*image.NRGBA, error) {
	if canvas.Width <= 0 || canvas.Height <= 0 {
		return nil, fmt.Errorf("compose %s: invalid canvas %dx%d", def.Slug, canvas.Width, canvas.Height)
	}
	motif, err := LookupMotif(def.Motif)
	if err != nil {
		return nil, fmt.Errorf("compose %s: %w", def.Slug, err)
	}
	palette := def.Palette.withDefaults(DefaultPalette())

	dc := gg.NewContext(canvas.Width, canvas.Height)
	dc.SetColor(palette.Background.WithAlpha(0xff))
	dc.Clear()

	for _, orb := range def.Orbs {
		gradientOrb(dc, orb, canvas.Width, canvas.Height)
	}

	motif(dc, Scene{
		Width:   canvas.Width,
		Height:  canvas.Height,
		Margin:  canvas.Margin,
		Palette: palette,
		Text:    text,
	})

	if def.Corners != nil {
		drawCorners(dc, def.Corners, canvas.Width, canvas.Height, canvas.Margin)
	}

	img := imaging.Blur(dc.Image(), canvas.Blur)

	if text != nil {
		dst := mixedtext.ImageCanvas{Dst: img}
		for _, line := range Lines(def, canvas) {
			text.DrawMixed(dst, line.Pos, line.Text, line.Size, line.Color, mixedtext.AlignCenter)
		}
	}
	return img, nil
}
