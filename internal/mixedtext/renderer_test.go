package mixedtext

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// writeFont writes font bytes to name inside dir and returns the path.
func writeFont(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// testFonts returns a FontSet with Go Regular for basic runes and Go Mono
// for extended runes, so the two classes measure differently.
func testFonts(t *testing.T) FontSet {
	t.Helper()
	dir := t.TempDir()
	return FontSet{
		Basic:    writeFont(t, dir, "regular.ttf", goregular.TTF),
		Extended: writeFont(t, dir, "mono.ttf", gomono.TTF),
	}
}

type drawnGlyph struct {
	face font.Face
	dot  image.Point
	r    rune
	c    color.Color
}

// recordingCanvas captures DrawGlyph calls instead of painting.
type recordingCanvas struct {
	glyphs []drawnGlyph
}

func (rc *recordingCanvas) DrawGlyph(face font.Face, dot image.Point, r rune, c color.Color) {
	rc.glyphs = append(rc.glyphs, drawnGlyph{face: face, dot: dot, r: r, c: c})
}

// boxLefts returns the left edge of each recorded glyph box.
func (rc *recordingCanvas) boxLefts() []int {
	var xs []int
	for _, g := range rc.glyphs {
		lo, _ := glyphBox(g.face, g.r)
		xs = append(xs, g.dot.X+lo)
	}
	return xs
}

var white = color.RGBA{R: 248, G: 250, B: 252, A: 255}

func TestMeasureEmpty(t *testing.T) {
	r := New(testFonts(t))
	for _, size := range []int{1, 12, 30, 72} {
		if got := r.Measure("", size); got != 0 {
			t.Errorf("Measure(\"\", %d) = %d; want 0", size, got)
		}
	}
}

func TestMeasureNonPositiveSize(t *testing.T) {
	r := New(testFonts(t))
	if got := r.Measure("Web3", 0); got != 0 {
		t.Errorf("Measure at size 0 = %d; want 0", got)
	}
	if got := r.Measure("Web3", -4); got != 0 {
		t.Errorf("Measure at size -4 = %d; want 0", got)
	}
}

func TestMeasureWeb3(t *testing.T) {
	r := New(testFonts(t))
	face := r.ResolveFont(Basic, 30)

	want := 0
	for _, ru := range "Web3" {
		lo, hi := glyphBox(face, ru)
		if hi-lo <= 0 {
			t.Fatalf("glyph %q has empty box", ru)
		}
		want += hi - lo + 1
	}

	if got := r.Measure("Web3", 30); got != want {
		t.Errorf("Measure(Web3, 30) = %d; want %d", got, want)
	}
}

func TestMeasureMatchesLeftDraw(t *testing.T) {
	r := New(testFonts(t))
	texts := []string{
		"Web3",
		"A中B文",
		"良性套利论",
		"2025年Web3安全趋势展望",
		"Benign Arbitrage Theory",
		"当\"贪婪\"成为去中心化世界的稳定器",
		"!",
		" ",
	}
	for _, text := range texts {
		for _, size := range []int{20, 32, 68} {
			start := 137
			got := r.DrawMixed(&recordingCanvas{}, image.Pt(start, 40), text, size, white, AlignLeft)
			if w := r.Measure(text, size); got-start != w {
				t.Errorf("%q size %d: final-x - start = %d; Measure = %d", text, size, got-start, w)
			}
		}
	}
}

func TestDrawMixedEmpty(t *testing.T) {
	r := New(testFonts(t))
	for _, align := range []Align{AlignLeft, AlignCenter, AlignRight} {
		rc := &recordingCanvas{}
		if got := r.DrawMixed(rc, image.Pt(960, 100), "", 30, white, align); got != 960 {
			t.Errorf("%s: DrawMixed(\"\") = %d; want 960", align, got)
		}
		if len(rc.glyphs) != 0 {
			t.Errorf("%s: drew %d glyphs for empty text", align, len(rc.glyphs))
		}
	}
}

func TestDrawMixedAlignment(t *testing.T) {
	r := New(testFonts(t))
	tests := []struct {
		text  string
		align Align
	}{
		{"Web3", AlignCenter},
		{"Web3", AlignRight},
		{"DeFi风险管理最佳实践", AlignCenter},
		{"智能合约审计完全指南", AlignRight},
		{"!", AlignCenter},
	}
	for _, tc := range tests {
		t.Run(tc.align.String()+"/"+tc.text, func(t *testing.T) {
			const anchor = 960
			w := r.Measure(tc.text, 30)
			wantStart := anchor - w
			if tc.align == AlignCenter {
				wantStart = anchor - w/2
			}

			rc := &recordingCanvas{}
			final := r.DrawMixed(rc, image.Pt(anchor, 100), tc.text, 30, white, tc.align)

			if lefts := rc.boxLefts(); lefts[0] != wantStart {
				t.Errorf("first glyph starts at %d; want %d", lefts[0], wantStart)
			}
			if final != wantStart+w {
				t.Errorf("final x = %d; want %d", final, wantStart+w)
			}
			for _, g := range rc.glyphs {
				if g.dot.Y != 100 {
					t.Errorf("glyph %q drawn at y=%d; want 100", g.r, g.dot.Y)
				}
			}
		})
	}
}

func TestDrawMixedWeb3Scenario(t *testing.T) {
	r := New(testFonts(t))
	w := r.Measure("Web3", 30)

	rc := &recordingCanvas{}
	final := r.DrawMixed(rc, image.Pt(960, 100), "Web3", 30, white, AlignCenter)

	start := 960 - w/2
	if got := rc.boxLefts()[0]; got != start {
		t.Errorf("start x = %d; want %d", got, start)
	}
	if final != start+w {
		t.Errorf("final x = %d; want %d", final, start+w)
	}
}

func TestSingleClassMatchesPlainLayout(t *testing.T) {
	r := New(testFonts(t))
	face := r.ResolveFont(Basic, 32)
	text := "Complete Guide to Smart Contract Auditing"

	// Plain single-face left layout with a one pixel gap.
	var want []int
	x := 120
	for _, ru := range text {
		want = append(want, x)
		lo, hi := glyphBox(face, ru)
		x += hi - lo + 1
	}

	rc := &recordingCanvas{}
	r.DrawMixed(rc, image.Pt(120, 0), text, 32, white, AlignLeft)
	if diff := cmp.Diff(want, rc.boxLefts()); diff != "" {
		t.Errorf("glyph positions mismatch (-want +got):\n%s", diff)
	}
	for _, g := range rc.glyphs {
		if g.face != face {
			t.Fatalf("glyph %q not drawn with the basic face", g.r)
		}
	}
}

func TestMixedClassFaceSelection(t *testing.T) {
	r := New(testFonts(t))
	basic := r.ResolveFont(Basic, 24)
	extended := r.ResolveFont(Extended, 24)
	if basic == extended {
		t.Fatal("basic and extended faces should differ")
	}

	rc := &recordingCanvas{}
	r.DrawMixed(rc, image.Pt(0, 0), "A中B文", 24, white, AlignLeft)

	want := []font.Face{basic, extended, basic, extended}
	if len(rc.glyphs) != len(want) {
		t.Fatalf("drew %d glyphs; want %d", len(rc.glyphs), len(want))
	}
	for i, g := range rc.glyphs {
		if g.face != want[i] {
			t.Errorf("glyph %d (%q) drawn with wrong face", i, g.r)
		}
	}
}

func TestColorPassedThrough(t *testing.T) {
	r := New(testFonts(t))
	cyan := color.NRGBA{R: 34, G: 211, B: 238, A: 200}
	rc := &recordingCanvas{}
	r.DrawMixed(rc, image.Pt(0, 0), "Hi你", 20, cyan, AlignLeft)
	for _, g := range rc.glyphs {
		if g.c != color.Color(cyan) {
			t.Errorf("glyph %q color = %v; want %v", g.r, g.c, cyan)
		}
	}
}

func TestFallbackOnMissingFont(t *testing.T) {
	var logs bytes.Buffer
	dir := t.TempDir()
	r := New(FontSet{
		Basic:    filepath.Join(dir, "missing.ttf"),
		Extended: writeFont(t, dir, "corrupt.ttf", []byte("not a font")),
	}, WithLogger(log.New(&logs, "", 0)))

	w := r.Measure("Web3 安全", 30)
	if w <= 0 {
		t.Fatalf("Measure with fallback fonts = %d; want > 0", w)
	}

	final := r.DrawMixed(&recordingCanvas{}, image.Pt(10, 10), "Web3 安全", 30, white, AlignLeft)
	if final-10 != w {
		t.Errorf("final-x - start = %d; want %d", final-10, w)
	}

	// Both classes fall back to the same built-in font, so widths agree
	// with a renderer that has no fonts configured at all.
	bare := New(FontSet{})
	if got := bare.Measure("Web3 安全", 30); got != w {
		t.Errorf("bare renderer Measure = %d; want %d", got, w)
	}

	out := logs.String()
	if !strings.Contains(out, "basic font unavailable") || !strings.Contains(out, "extended font unavailable") {
		t.Errorf("expected fallback notices for both classes, got:\n%s", out)
	}
}

func TestFallbackIsPerClass(t *testing.T) {
	dir := t.TempDir()
	r := New(FontSet{
		Basic:    writeFont(t, dir, "mono.ttf", gomono.TTF),
		Extended: filepath.Join(dir, "missing.ttf"),
	})
	if r.Measure("mmm", 40) == New(FontSet{}).Measure("mmm", 40) {
		t.Error("basic class should keep its configured font when only the extended font is missing")
	}
}

func TestResolveFontCaches(t *testing.T) {
	r := New(testFonts(t))
	a := r.ResolveFont(Basic, 30)
	b := r.ResolveFont(Basic, 30)
	if a != b {
		t.Error("ResolveFont should return the cached face for the same class and size")
	}
	if c := r.ResolveFont(Basic, 31); c == a {
		t.Error("different sizes must not share a face")
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := r.Measure("Web3", 30); got <= 0 {
		t.Errorf("Measure after Close = %d; want > 0", got)
	}
}

func TestCustomClassifier(t *testing.T) {
	// Treat everything as basic.
	r := New(testFonts(t), WithClassifier(func(rune) Class { return Basic }))
	rc := &recordingCanvas{}
	r.DrawMixed(rc, image.Pt(0, 0), "中文", 24, white, AlignLeft)
	basic := r.ResolveFont(Basic, 24)
	for _, g := range rc.glyphs {
		if g.face != basic {
			t.Errorf("glyph %q should use the basic face", g.r)
		}
	}
}

func TestImageCanvasPaints(t *testing.T) {
	r := New(testFonts(t))
	img := image.NewRGBA(image.Rect(0, 0, 400, 100))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	start := 20
	final := r.DrawMixed(ImageCanvas{Dst: img}, image.Pt(start, 10), "Web3", 40, color.White, AlignLeft)

	lit := 0
	for y := 0; y < 100; y++ {
		for x := 0; x < 400; x++ {
			if img.RGBAAt(x, y).R == 0 {
				continue
			}
			// Allow one pixel of antialiasing on either side.
			if x < start-1 || x > final {
				t.Fatalf("pixel lit at x=%d outside run [%d, %d)", x, start, final)
			}
			lit++
		}
	}
	if lit == 0 {
		t.Error("expected DrawMixed to paint pixels")
	}
}

func TestRendererConcurrentUse(t *testing.T) {
	r := New(testFonts(t))
	want := r.Measure("智能合约 Audit", 28)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := r.Measure("智能合约 Audit", 28); got != want {
				t.Errorf("concurrent Measure = %d; want %d", got, want)
			}
			r.DrawMixed(&recordingCanvas{}, image.Pt(0, 0), "智能合约 Audit", 28, white, AlignCenter)
		}()
	}
	wg.Wait()
}
