package hero

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/aellingwood/herogen/internal/config"
	"github.com/aellingwood/herogen/internal/mixedtext"
	"github.com/google/go-cmp/cmp"
)

func smallCanvas() config.CanvasConfig {
	return config.CanvasConfig{Width: 320, Height: 180, Margin: 20, Blur: 0.5}
}

// plainDefinition has no orbs, no motif and no corners, so the canvas is a
// flat background apart from the text.
func plainDefinition(title string) *Definition {
	d := &Definition{
		Slug:    "plain",
		Title:   title,
		Motif:   "none",
		Orbs:    []Orb{},
		Palette: Palette{Background: RGB(20, 20, 31)},
		Layout:  Layout{TitleSize: 40},
	}
	d.Normalize()
	return d
}

func near(a, b color.NRGBA) bool {
	diff := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	return diff(a.R, b.R) <= 1 && diff(a.G, b.G) <= 1 && diff(a.B, b.B) <= 1 && diff(a.A, b.A) <= 1
}

func differs(a, b *image.NRGBA, r image.Rectangle) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if !near(a.NRGBAAt(x, y), b.NRGBAAt(x, y)) {
				return true
			}
		}
	}
	return false
}

func TestComposeBackground(t *testing.T) {
	img, err := Compose(plainDefinition("T"), smallCanvas(), nil)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 320, 180) {
		t.Fatalf("Bounds = %v", got)
	}
	want := color.NRGBA{20, 20, 31, 255}
	for _, pt := range []image.Point{{0, 0}, {319, 179}, {160, 90}} {
		if got := img.NRGBAAt(pt.X, pt.Y); !near(got, want) {
			t.Errorf("pixel %v = %v; want %v", pt, got, want)
		}
	}
}

func TestComposeDrawsMotifAndOrbs(t *testing.T) {
	canvas := config.CanvasConfig{Width: 960, Height: 540, Margin: 60, Blur: 0.5}
	plain, err := Compose(plainDefinition("T"), canvas, nil)
	if err != nil {
		t.Fatal(err)
	}

	for _, motif := range []string{"orbit", "shield", "checklist", "scale"} {
		t.Run(motif, func(t *testing.T) {
			d := plainDefinition("T")
			d.Motif = motif
			img, err := Compose(d, canvas, nil)
			if err != nil {
				t.Fatalf("Compose() error = %v", err)
			}
			if !differs(plain, img, img.Bounds()) {
				t.Errorf("motif %s drew nothing", motif)
			}
		})
	}

	d := plainDefinition("T")
	d.Orbs = []Orb{{X: 0.5, Y: 0.5, Radius: 100, From: RGB(255, 0, 0), To: RGB(255, 0, 0), Alpha: 200}}
	img, err := Compose(d, canvas, nil)
	if err != nil {
		t.Fatal(err)
	}
	center := img.NRGBAAt(480, 270)
	if center.R <= 20 {
		t.Errorf("orb center = %v; want reddened", center)
	}
	if corner := img.NRGBAAt(0, 0); !near(corner, color.NRGBA{20, 20, 31, 255}) {
		t.Errorf("orb leaked to corner: %v", corner)
	}
}

func TestComposeCorners(t *testing.T) {
	canvas := smallCanvas()
	d := plainDefinition("T")
	d.Corners = &Corners{Size: 40, Alpha: 255, TopLeft: RGB(255, 255, 255), BottomRight: RGB(255, 255, 255)}
	img, err := Compose(d, canvas, nil)
	if err != nil {
		t.Fatal(err)
	}
	// The horizontal arm of the top-left bracket runs along y = margin.
	if got := img.NRGBAAt(40, 20); got.R < 100 {
		t.Errorf("top-left bracket missing: %v", got)
	}
	if got := img.NRGBAAt(300-20, 160); got.R < 100 {
		t.Errorf("bottom-right bracket missing: %v", got)
	}
}

func TestComposeDrawsText(t *testing.T) {
	canvas := smallCanvas()
	text := mixedtext.New(mixedtext.FontSet{})
	defer text.Close()

	without, err := Compose(plainDefinition("HERO"), canvas, nil)
	if err != nil {
		t.Fatal(err)
	}
	with, err := Compose(plainDefinition("HERO"), canvas, text)
	if err != nil {
		t.Fatal(err)
	}

	titleY := int(float64(canvas.Height) * DefaultLayout().TitleY)
	w := text.Measure("HERO", 40)
	titleBox := image.Rect(canvas.Width/2-w/2-2, titleY, canvas.Width/2+w/2+2, titleY+50)
	if !differs(without, with, titleBox) {
		t.Error("title was not drawn inside its box")
	}
	// Nothing lands left of the centered title.
	left := image.Rect(0, titleY, canvas.Width/2-w/2-3, titleY+50)
	if differs(without, with, left) {
		t.Error("title ink found outside its centered box")
	}
}

func TestComposeErrors(t *testing.T) {
	d := plainDefinition("T")
	d.Motif = "spiral"
	if _, err := Compose(d, smallCanvas(), nil); !errors.Is(err, ErrUnknownMotif) {
		t.Errorf("unknown motif: got %v", err)
	}
	if _, err := Compose(plainDefinition("T"), config.CanvasConfig{}, nil); err == nil {
		t.Error("zero canvas: expected error")
	}
}

func TestLines(t *testing.T) {
	canvas := config.Default().Canvas
	d, err := Find(Builtin(), "benign-arbitrage-theory")
	if err != nil {
		t.Fatal(err)
	}

	got := Lines(d, canvas)
	want := []TextLine{
		{Role: "shadow", Text: "良性套利论", Pos: image.Pt(960, 165), Size: 72, Color: Color{A: 120}},
		{Role: "title", Text: "良性套利论", Pos: image.Pt(960, 162), Size: 72, Color: RGB(248, 250, 252)},
		{Role: "subtitle", Text: "Benign Arbitrage Theory", Pos: image.Pt(960, 252), Size: 32, Color: RGB(34, 211, 238).WithAlpha(200)},
		{Role: "tagline", Text: d.Tagline, Pos: image.Pt(960, 920), Size: 20, Color: RGB(148, 163, 184).WithAlpha(180)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Lines mismatch (-want +got):\n%s", diff)
	}

	bare := plainDefinition("Only a title")
	if n := len(Lines(bare, canvas)); n != 2 {
		t.Errorf("title-only definition: got %d lines, want 2", n)
	}
}

func TestLinesDefaultLayout(t *testing.T) {
	d, err := Find(Builtin(), "web3-security-trends-2025")
	if err != nil {
		t.Fatal(err)
	}
	lines := Lines(d, config.Default().Canvas)
	// 1080 * 0.12 = 129.6, truncated.
	if lines[1].Pos.Y != 129 || lines[0].Pos.Y != 131 || lines[2].Pos.Y != 214 {
		t.Errorf("positions = %v, %v, %v", lines[0].Pos, lines[1].Pos, lines[2].Pos)
	}
	if lines[1].Size != 68 || lines[2].Size != 30 || lines[3].Size != 22 {
		t.Errorf("sizes = %d, %d, %d", lines[1].Size, lines[2].Size, lines[3].Size)
	}
}
