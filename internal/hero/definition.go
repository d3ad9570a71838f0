// Package hero describes, composes, and renders blog hero images: a dark
// canvas with gradient orbs, a geometric motif, corner brackets, and a
// centered mixed-script title block.
package hero

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by lookups.
var (
	ErrUnknownMotif = errors.New("unknown motif")
	ErrNotFound     = errors.New("hero not found")
)

// Definition is everything needed to render one hero image.
type Definition struct {
	Slug     string   `yaml:"slug"     toml:"slug"     json:"slug"`
	Title    string   `yaml:"title"    toml:"title"    json:"title"`
	Subtitle string   `yaml:"subtitle" toml:"subtitle" json:"subtitle,omitempty"`
	Tagline  string   `yaml:"tagline"  toml:"tagline"  json:"tagline,omitempty"`
	Motif    string   `yaml:"motif"    toml:"motif"    json:"motif"`
	Palette  Palette  `yaml:"palette"  toml:"palette"  json:"palette"`
	Orbs     []Orb    `yaml:"orbs"     toml:"orbs"     json:"orbs,omitempty"`
	Corners  *Corners `yaml:"corners"  toml:"corners"  json:"corners,omitempty"`
	Layout   Layout   `yaml:"layout"   toml:"layout"   json:"layout"`

	// Source is "builtin" or the article path the definition came from.
	Source string `yaml:"-" toml:"-" json:"source,omitempty"`
}

// Palette holds the named colors a hero is drawn with.
type Palette struct {
	Background Color `yaml:"background" toml:"background" json:"background"`
	Primary    Color `yaml:"primary"    toml:"primary"    json:"primary"`
	Secondary  Color `yaml:"secondary"  toml:"secondary"  json:"secondary"`
	Deep       Color `yaml:"deep"       toml:"deep"       json:"deep"`
	Accent     Color `yaml:"accent"     toml:"accent"     json:"accent"`
	Warm       Color `yaml:"warm"       toml:"warm"       json:"warm"`
	Alert      Color `yaml:"alert"      toml:"alert"      json:"alert"`
	Text       Color `yaml:"text"       toml:"text"       json:"text"`
	Muted      Color `yaml:"muted"      toml:"muted"      json:"muted"`
}

// Orb is a soft radial gradient in the background. X and Y are fractions of
// the canvas size.
type Orb struct {
	X      float64 `yaml:"x"      toml:"x"      json:"x"`
	Y      float64 `yaml:"y"      toml:"y"      json:"y"`
	Radius int     `yaml:"radius" toml:"radius" json:"radius"`
	From   Color   `yaml:"from"   toml:"from"   json:"from"`
	To     Color   `yaml:"to"     toml:"to"     json:"to"`
	Alpha  uint8   `yaml:"alpha"  toml:"alpha"  json:"alpha"`
}

// Corners draws L-shaped brackets in the top-left and bottom-right corners.
type Corners struct {
	Size        int   `yaml:"size"        toml:"size"        json:"size"`
	Alpha       uint8 `yaml:"alpha"       toml:"alpha"       json:"alpha"`
	TopLeft     Color `yaml:"topLeft"     toml:"topLeft"     json:"topLeft"`
	BottomRight Color `yaml:"bottomRight" toml:"bottomRight" json:"bottomRight"`
}

// Layout positions the text block. Zero fields take the defaults.
type Layout struct {
	TitleY       float64 `yaml:"titleY"       toml:"titleY"       json:"titleY"`
	TitleSize    int     `yaml:"titleSize"    toml:"titleSize"    json:"titleSize"`
	SubtitleSize int     `yaml:"subtitleSize" toml:"subtitleSize" json:"subtitleSize"`
	TaglineSize  int     `yaml:"taglineSize"  toml:"taglineSize"  json:"taglineSize"`
	ShadowOffset int     `yaml:"shadowOffset" toml:"shadowOffset" json:"shadowOffset"`
	SubtitleGap  int     `yaml:"subtitleGap"  toml:"subtitleGap"  json:"subtitleGap"`
}

// DefaultMotif is used when a definition names none.
const DefaultMotif = "orbit"

// DefaultPalette is the deep blue-gray "equilibrium" palette.
func DefaultPalette() Palette {
	return Palette{
		Background: RGB(15, 23, 42),
		Primary:    RGB(34, 211, 238),
		Secondary:  RGB(56, 189, 248),
		Deep:       RGB(30, 58, 138),
		Accent:     RGB(245, 158, 11),
		Warm:       RGB(251, 191, 36),
		Alert:      RGB(239, 68, 68),
		Text:       RGB(248, 250, 252),
		Muted:      RGB(148, 163, 184),
	}
}

// DefaultLayout is the text layout shared by most heroes.
func DefaultLayout() Layout {
	return Layout{
		TitleY:       0.12,
		TitleSize:    68,
		SubtitleSize: 30,
		TaglineSize:  22,
		ShadowOffset: 2,
		SubtitleGap:  85,
	}
}

// DefaultOrbs lays out three background orbs in the palette's colors.
func DefaultOrbs(p Palette) []Orb {
	return []Orb{
		{X: 0.25, Y: 0.3, Radius: 400, From: p.Primary, To: p.Deep, Alpha: 40},
		{X: 0.75, Y: 0.7, Radius: 350, From: p.Warm, To: p.Accent, Alpha: 35},
		{X: 0.5, Y: 0.5, Radius: 300, From: p.Secondary, To: p.Deep, Alpha: 25},
	}
}

// withDefaults fills every unset palette entry from def.
func (p Palette) withDefaults(def Palette) Palette {
	fill := func(c *Color, d Color) {
		if c.IsZero() {
			*c = d
		}
	}
	fill(&p.Background, def.Background)
	fill(&p.Primary, def.Primary)
	fill(&p.Secondary, def.Secondary)
	fill(&p.Deep, def.Deep)
	fill(&p.Accent, def.Accent)
	fill(&p.Warm, def.Warm)
	fill(&p.Alert, def.Alert)
	fill(&p.Text, def.Text)
	fill(&p.Muted, def.Muted)
	return p
}

func (l Layout) withDefaults() Layout {
	d := DefaultLayout()
	if l.TitleY <= 0 {
		l.TitleY = d.TitleY
	}
	if l.TitleSize <= 0 {
		l.TitleSize = d.TitleSize
	}
	if l.SubtitleSize <= 0 {
		l.SubtitleSize = d.SubtitleSize
	}
	if l.TaglineSize <= 0 {
		l.TaglineSize = d.TaglineSize
	}
	if l.ShadowOffset == 0 {
		l.ShadowOffset = d.ShadowOffset
	}
	if l.SubtitleGap <= 0 {
		l.SubtitleGap = d.SubtitleGap
	}
	return l
}

// Normalize fills defaults in place: motif, palette, layout, and orbs when
// none are given.
func (d *Definition) Normalize() {
	d.Slug = strings.TrimSpace(d.Slug)
	d.Motif = strings.ToLower(strings.TrimSpace(d.Motif))
	if d.Motif == "" {
		d.Motif = DefaultMotif
	}
	d.Palette = d.Palette.withDefaults(DefaultPalette())
	d.Layout = d.Layout.withDefaults()
	if d.Orbs == nil {
		d.Orbs = DefaultOrbs(d.Palette)
	}
	for i := range d.Orbs {
		if d.Orbs[i].To.IsZero() {
			d.Orbs[i].To = d.Orbs[i].From
		}
	}
}

// Validate reports the first problem that would prevent rendering.
func (d *Definition) Validate() error {
	if d.Slug == "" {
		return fmt.Errorf("hero: slug is required")
	}
	if Slugify(d.Slug) != d.Slug {
		return fmt.Errorf("hero %s: slug must be lowercase letters, digits and hyphens (try %q)", d.Slug, Slugify(d.Slug))
	}
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("hero %s: title is required", d.Slug)
	}
	if _, err := LookupMotif(d.Motif); err != nil {
		return fmt.Errorf("hero %s: %w", d.Slug, err)
	}
	for i, o := range d.Orbs {
		if o.Radius <= 0 {
			return fmt.Errorf("hero %s: orb %d must have a positive radius", d.Slug, i)
		}
	}
	if d.Corners != nil && d.Corners.Size <= 0 {
		return fmt.Errorf("hero %s: corner size must be positive", d.Slug)
	}
	return nil
}

// FileName returns the output file name for one encoding, e.g.
// "defi-risk-management-hero.webp".
func (d *Definition) FileName(suffix, format string) string {
	return d.Slug + suffix + "." + strings.ToLower(format)
}
