package hero

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"sort"

	"github.com/aellingwood/herogen/internal/mixedtext"
	"github.com/fogleman/gg"
)

// Scene is what a motif needs to know about the canvas it draws on.
type Scene struct {
	Width, Height, Margin int
	Palette               Palette
	// Text paints labels that are part of the artwork (and therefore get
	// blurred with it).
	Text *mixedtext.Renderer
}

// MotifFunc draws the central artwork of a hero.
type MotifFunc func(dc *gg.Context, s Scene)

var motifs = map[string]MotifFunc{
	"orbit":     drawOrbit,
	"shield":    drawShield,
	"checklist": drawChecklist,
	"scale":     drawScale,
	"none":      func(*gg.Context, Scene) {},
}

// Motifs returns the registered motif names in sorted order.
func Motifs() []string {
	names := make([]string, 0, len(motifs))
	for name := range motifs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupMotif returns the motif registered under name. Unknown names yield
// an error wrapping ErrUnknownMotif with the closest known names.
func LookupMotif(name string) (MotifFunc, error) {
	if fn, ok := motifs[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("%w %q%s", ErrUnknownMotif, name, didYouMean(name, Motifs()))
}

// drawOrbit: three orbital rings, six glowing nodes joined by curved amber
// arrows, and a gold core.
func drawOrbit(dc *gg.Context, s Scene) {
	p := s.Palette
	cx, cy := float64(s.Width/2), float64(s.Height/2)
	const mainRadius = 280.0

	rings := []struct {
		radius float64
		c      Color
		width  float64
	}{
		{mainRadius, p.Primary, 3},
		{mainRadius - 60, p.Secondary, 2},
		{mainRadius - 120, p.Deep, 2},
	}
	for _, ring := range rings {
		dc.DrawCircle(cx, cy, ring.radius)
		dc.SetColor(ring.c.WithAlpha(120))
		dc.SetLineWidth(ring.width)
		dc.Stroke()
	}

	const numNodes = 6
	nodeAngle := func(i int) float64 {
		return float64(i)/numNodes*2*math.Pi - math.Pi/2
	}
	for i := range numNodes {
		a := nodeAngle(i)
		x, y := cx+mainRadius*math.Cos(a), cy+mainRadius*math.Sin(a)
		glow(dc, x, y, 25, 3, 60, p.Primary)
		disc(dc, x, y, 12, p.Primary, p.Text, 2)
	}

	const arrowOffset, curveOffset, arrowSize = 40.0, 20.0, 8.0
	r := mainRadius - arrowOffset
	for i := range numNodes {
		a1, a2 := nodeAngle(i), nodeAngle(i+1)
		x1, y1 := cx+r*math.Cos(a1), cy+r*math.Sin(a1)
		x2, y2 := cx+r*math.Cos(a2), cy+r*math.Sin(a2)
		mid := (a1 + a2) / 2
		mx, my := cx+(r-curveOffset)*math.Cos(mid), cy+(r-curveOffset)*math.Sin(mid)

		line(dc, x1, y1, mx, my, 2, p.Warm.WithAlpha(100))
		line(dc, mx, my, x2, y2, 2, p.Warm.WithAlpha(100))

		heading := math.Atan2(y2-my, x2-mx)
		polygon(dc, p.Warm.WithAlpha(150),
			gg.Point{X: x2, Y: y2},
			gg.Point{X: x2 - arrowSize*math.Cos(heading-0.5), Y: y2 - arrowSize*math.Sin(heading-0.5)},
			gg.Point{X: x2 - arrowSize*math.Cos(heading+0.5), Y: y2 - arrowSize*math.Sin(heading+0.5)},
		)
	}

	glow(dc, cx, cy, 80, 4, 40, p.Accent)
	disc(dc, cx, cy, 45, p.Accent, p.Text, 3)
}

// drawShield: a hexagonal shield with a stepped glow, ringed by eight
// network nodes wired to its center.
func drawShield(dc *gg.Context, s Scene) {
	p := s.Palette
	cx, cy := float64(s.Width/2), float64(s.Height/2+50)
	const w, h = 280.0, 320.0

	points := []gg.Point{
		{X: cx, Y: cy - h/2},
		{X: cx + w/2, Y: cy - h/4},
		{X: cx + w/2, Y: cy + h/4},
		{X: cx, Y: cy + h/2},
		{X: cx - w/2, Y: cy + h/4},
		{X: cx - w/2, Y: cy - h/4},
	}

	for offset := 30; offset > 0; offset -= 2 {
		alpha := uint8(40 * (1 - float64(offset)/30))
		expanded := make([]gg.Point, len(points))
		for i, pt := range points {
			expanded[i] = gg.Point{
				X: pt.X + (pt.X-cx)*float64(offset)/w,
				Y: pt.Y + (pt.Y-cy)*float64(offset)/h,
			}
		}
		polygon(dc, p.Secondary.WithAlpha(alpha), expanded...)
	}

	tracePolygon(dc, points)
	dc.SetColor(p.Deep.WithAlpha(100))
	dc.FillPreserve()
	dc.SetColor(p.Secondary.WithAlpha(200))
	dc.SetLineWidth(4)
	dc.Stroke()

	const numNodes, nodeRadius = 8, 200.0
	for i := range numNodes {
		a := float64(i) / numNodes * 2 * math.Pi
		x, y := cx+nodeRadius*math.Cos(a), cy+nodeRadius*math.Sin(a)
		line(dc, x, y, cx, cy, 2, p.Primary.WithAlpha(60))
		glow(dc, x, y, 20, 2, 80, p.Primary)
		disc(dc, x, y, 8, p.Primary, p.Text, 2)
	}
}

// drawChecklist: faint code-line bars down both sides and a six-row
// checklist with the first four rows ticked.
func drawChecklist(dc *gg.Context, s Scene) {
	p := s.Palette
	m := float64(s.Margin)
	width := float64(s.Width)

	for i := range 15 {
		y := m + float64(i*60)
		length := float64(200 + (i%3)*150)
		x := m + float64((i%2)*100)
		rect(dc, x, y, length, 3, p.Primary.WithAlpha(uint8(20+i*2)))
	}
	for i := range 15 {
		y := m + float64(i*60)
		length := float64(180 + (i%4)*120)
		x := width - m - length - float64((i%2)*80)
		rect(dc, x, y, length, 3, p.Secondary.WithAlpha(uint8(20+i*2)))
	}

	cx, cy := s.Width/2, s.Height/2+30
	const items, itemHeight, itemWidth, box = 6, 50, 500, 28
	const ticked = 4
	for i := range items {
		y := float64(cy - (items*itemHeight)/2 + i*itemHeight)
		bx := float64(cx - itemWidth/2)

		dc.DrawRectangle(bx, y, box, box)
		dc.SetColor(p.Primary.WithAlpha(150))
		dc.SetLineWidth(2)
		dc.Stroke()

		alpha := uint8(60)
		if i < ticked {
			line(dc, bx+6, y+14, bx+12, y+20, 3, p.Primary)
			line(dc, bx+12, y+20, bx+22, y+8, 3, p.Primary)
			alpha = 120
		}
		lx := bx + box + 20
		rect(dc, lx, y+10, itemWidth-box-30, 8, p.Accent.WithAlpha(alpha))
	}
}

// drawScale: a balance beam on a pivot with a heavy alert-colored pan and a
// light secondary pan, flanked by two warning triangles.
func drawScale(dc *gg.Context, s Scene) {
	p := s.Palette
	cx, cy := float64(s.Width/2), float64(s.Height/2+40)
	const beamWidth, beamHeight = 400.0, 8.0

	dc.DrawRectangle(cx-beamWidth/2, cy-beamHeight/2, beamWidth, beamHeight)
	dc.SetColor(p.Primary)
	dc.FillPreserve()
	dc.SetColor(p.Text)
	dc.SetLineWidth(2)
	dc.Stroke()

	const pivot = 30.0
	tracePolygon(dc, []gg.Point{{X: cx, Y: cy + 40}, {X: cx - pivot, Y: cy}, {X: cx + pivot, Y: cy}})
	dc.SetColor(p.Secondary)
	dc.FillPreserve()
	dc.SetColor(p.Text)
	dc.SetLineWidth(2)
	dc.Stroke()

	pans := []struct {
		x, y  float64
		c     Color
		glowR float64
	}{
		{cx - beamWidth/2 + 50, cy + 80, p.Alert, 40},
		{cx + beamWidth/2 - 50, cy - 20, p.Secondary, 35},
	}
	const panWidth, panHeight = 120.0, 15.0
	for _, pan := range pans {
		line(dc, pan.x, cy, pan.x, pan.y-30, 3, pan.c.WithAlpha(150))
		dc.DrawEllipse(pan.x, pan.y, panWidth/2, panHeight)
		dc.SetColor(shade(pan.c, 0.25).WithAlpha(100))
		dc.FillPreserve()
		dc.SetColor(pan.c)
		dc.SetLineWidth(3)
		dc.Stroke()
		glow(dc, pan.x, pan.y, pan.glowR, 3, 60, pan.c)
	}

	const tri = 40.0
	m := float64(s.Margin)
	warnings := []struct {
		x, y float64
		c    Color
	}{
		{m + 60, m + 60, p.Warm},
		{float64(s.Width) - m - 60, m + 60, p.Accent},
	}
	for _, w := range warnings {
		tracePolygon(dc, []gg.Point{
			{X: w.x, Y: w.y - tri},
			{X: w.x - tri, Y: w.y + tri/2},
			{X: w.x + tri, Y: w.y + tri/2},
		})
		dc.SetColor(w.c.WithAlpha(150))
		dc.SetLineWidth(3)
		dc.Stroke()
		if s.Text != nil {
			if dst, ok := dc.Image().(draw.Image); ok {
				s.Text.DrawMixed(mixedtext.ImageCanvas{Dst: dst}, image.Pt(int(w.x), int(w.y)-15), "!", 32, w.c, mixedtext.AlignCenter)
			}
		}
	}
}

// gradientOrb fills concentric circles shrinking by 2px, each lerped from
// From towards To with alpha fading towards the rim.
func gradientOrb(dc *gg.Context, o Orb, width, height int) {
	cx := float64(int(float64(width) * o.X))
	cy := float64(int(float64(height) * o.Y))
	radius := float64(o.Radius)
	for r := o.Radius; r > 0; r -= 2 {
		progress := 1 - float64(r)/radius
		c := o.From.Lerp(o.To, progress).WithAlpha(uint8(float64(o.Alpha) * (1 - progress)))
		dc.DrawCircle(cx, cy, float64(r))
		dc.SetColor(c)
		dc.Fill()
	}
}

// drawCorners draws the top-left and bottom-right brackets.
func drawCorners(dc *gg.Context, c *Corners, width, height, margin int) {
	w, h, m, size := float64(width), float64(height), float64(margin), float64(c.Size)
	tl := c.TopLeft.WithAlpha(c.Alpha)
	br := c.BottomRight.WithAlpha(c.Alpha)
	line(dc, m, m, m+size, m, 2, tl)
	line(dc, m, m, m, m+size, 2, tl)
	line(dc, w-m, h-m, w-m-size, h-m, 2, br)
	line(dc, w-m, h-m, w-m, h-m-size, 2, br)
}

// glow stacks translucent discs from maxR down, so the center is densest.
func glow(dc *gg.Context, x, y, maxR float64, step int, alpha float64, c Color) {
	for r := int(maxR); r > 0; r -= step {
		a := uint8(alpha * (1 - float64(r)/maxR))
		dc.DrawCircle(x, y, float64(r))
		dc.SetColor(c.WithAlpha(a))
		dc.Fill()
	}
}

func disc(dc *gg.Context, x, y, r float64, fill, outline Color, width float64) {
	dc.DrawCircle(x, y, r)
	dc.SetColor(fill)
	dc.FillPreserve()
	dc.SetColor(outline)
	dc.SetLineWidth(width)
	dc.Stroke()
}

func line(dc *gg.Context, x1, y1, x2, y2, width float64, c Color) {
	dc.DrawLine(x1, y1, x2, y2)
	dc.SetColor(c)
	dc.SetLineWidth(width)
	dc.Stroke()
}

func rect(dc *gg.Context, x, y, w, h float64, c Color) {
	dc.DrawRectangle(x, y, w, h)
	dc.SetColor(c)
	dc.Fill()
}

func polygon(dc *gg.Context, c Color, pts ...gg.Point) {
	tracePolygon(dc, pts)
	dc.SetColor(c)
	dc.Fill()
}

func tracePolygon(dc *gg.Context, pts []gg.Point) {
	dc.NewSubPath()
	for i, pt := range pts {
		if i == 0 {
			dc.MoveTo(pt.X, pt.Y)
			continue
		}
		dc.LineTo(pt.X, pt.Y)
	}
	dc.ClosePath()
}

// shade darkens c by factor f in [0, 1].
func shade(c Color, f float64) Color {
	return Color{R: uint8(float64(c.R) * f), G: uint8(float64(c.G) * f), B: uint8(float64(c.B) * f), A: c.A}
}
