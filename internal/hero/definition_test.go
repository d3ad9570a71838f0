package hero

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ---------------------------------------------------------------------------
// Normalize / Validate
// ---------------------------------------------------------------------------

func TestNormalizeFillsDefaults(t *testing.T) {
	def := &Definition{
		Slug:    "rollup-economics",
		Title:   "Rollup 经济学",
		Motif:   "  Shield ",
		Palette: Palette{Background: RGB(12, 17, 35)},
	}
	def.Normalize()

	if def.Motif != "shield" {
		t.Errorf("Motif: got %q, want %q", def.Motif, "shield")
	}
	if def.Palette.Background != RGB(12, 17, 35) {
		t.Errorf("Background should be kept, got %v", def.Palette.Background)
	}
	if def.Palette.Primary != DefaultPalette().Primary {
		t.Errorf("Primary should default, got %v", def.Palette.Primary)
	}
	if diff := cmp.Diff(DefaultLayout(), def.Layout); diff != "" {
		t.Errorf("Layout mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(DefaultOrbs(def.Palette), def.Orbs); diff != "" {
		t.Errorf("Orbs mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeKeepsExplicitEmptyOrbs(t *testing.T) {
	def := &Definition{Slug: "x", Title: "X", Orbs: []Orb{}}
	def.Normalize()
	if len(def.Orbs) != 0 {
		t.Errorf("explicit empty orbs replaced with %d defaults", len(def.Orbs))
	}
	if def.Motif != DefaultMotif {
		t.Errorf("Motif: got %q, want %q", def.Motif, DefaultMotif)
	}
}

func TestNormalizeSingleColorOrb(t *testing.T) {
	def := &Definition{Slug: "x", Title: "X", Orbs: []Orb{{X: 0.5, Y: 0.5, Radius: 100, From: RGB(1, 2, 3), Alpha: 30}}}
	def.Normalize()
	if def.Orbs[0].To != RGB(1, 2, 3) {
		t.Errorf("To should default to From, got %v", def.Orbs[0].To)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Definition {
		d := &Definition{Slug: "defi-risk", Title: "DeFi风险"}
		d.Normalize()
		return d
	}
	if err := valid().Validate(); err != nil {
		t.Fatalf("valid definition rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Definition)
		want   string
	}{
		{"no slug", func(d *Definition) { d.Slug = "" }, "slug is required"},
		{"bad slug", func(d *Definition) { d.Slug = "DeFi Risk" }, `try "defi-risk"`},
		{"no title", func(d *Definition) { d.Title = "  " }, "title is required"},
		{"bad orb", func(d *Definition) { d.Orbs[0].Radius = 0 }, "positive radius"},
		{"bad corners", func(d *Definition) { d.Corners = &Corners{} }, "corner size"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := valid()
			tc.mutate(d)
			err := d.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Validate() = %v; want error containing %q", err, tc.want)
			}
		})
	}
}

func TestValidateUnknownMotif(t *testing.T) {
	d := &Definition{Slug: "x", Title: "X", Motif: "sheild"}
	d.Normalize()
	err := d.Validate()
	if !errors.Is(err, ErrUnknownMotif) {
		t.Fatalf("want ErrUnknownMotif, got %v", err)
	}
	if !strings.Contains(err.Error(), "did you mean shield?") {
		t.Errorf("missing suggestion in %q", err)
	}
}

func TestFileName(t *testing.T) {
	d := &Definition{Slug: "defi-risk-management"}
	if got := d.FileName("-hero", "WEBP"); got != "defi-risk-management-hero.webp" {
		t.Errorf("FileName = %q", got)
	}
	if got := d.FileName("", "png"); got != "defi-risk-management.png" {
		t.Errorf("FileName without suffix = %q", got)
	}
}

// ---------------------------------------------------------------------------
// Builtin catalog
// ---------------------------------------------------------------------------

func TestBuiltin(t *testing.T) {
	defs := Builtin()
	want := map[string]string{
		"benign-arbitrage-theory":    "orbit",
		"web3-security-trends-2025":  "shield",
		"smart-contract-audit-guide": "checklist",
		"defi-risk-management":       "scale",
	}
	if len(defs) != len(want) {
		t.Fatalf("got %d builtin heroes, want %d", len(defs), len(want))
	}
	for _, d := range defs {
		motif, ok := want[d.Slug]
		if !ok {
			t.Errorf("unexpected builtin %q", d.Slug)
			continue
		}
		if d.Motif != motif {
			t.Errorf("%s: motif %q, want %q", d.Slug, d.Motif, motif)
		}
		if d.Source != SourceBuiltin {
			t.Errorf("%s: source %q", d.Slug, d.Source)
		}
		if err := d.Validate(); err != nil {
			t.Errorf("%s: %v", d.Slug, err)
		}
	}

	// Fresh copies each call.
	defs[0].Title = "changed"
	if Builtin()[0].Title == "changed" {
		t.Error("Builtin returned shared definitions")
	}
}

func TestBuiltinBenignLayout(t *testing.T) {
	d, err := Find(Builtin(), "benign-arbitrage-theory")
	if err != nil {
		t.Fatal(err)
	}
	if d.Layout.TitleSize != 72 || d.Layout.ShadowOffset != 3 || d.Layout.SubtitleGap != 90 {
		t.Errorf("benign layout = %+v", d.Layout)
	}
	if d.Title != "良性套利论" {
		t.Errorf("Title = %q", d.Title)
	}
}

// ---------------------------------------------------------------------------
// Motifs, slugs and suggestions
// ---------------------------------------------------------------------------

func TestMotifs(t *testing.T) {
	want := []string{"checklist", "none", "orbit", "scale", "shield"}
	if diff := cmp.Diff(want, Motifs()); diff != "" {
		t.Errorf("Motifs mismatch (-want +got):\n%s", diff)
	}
	for _, name := range want {
		if _, err := LookupMotif(name); err != nil {
			t.Errorf("LookupMotif(%q): %v", name, err)
		}
	}
	if _, err := LookupMotif("spiral"); !errors.Is(err, ErrUnknownMotif) {
		t.Errorf("LookupMotif(spiral) = %v", err)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct{ in, want string }{
		{"DeFi Risk Management", "defi-risk-management"},
		{"web3_security  trends", "web3-security-trends"},
		{"良性 套利论", "良性-套利论"},
		{"--Hello, World!--", "hello-world"},
		{"Café", "café"},
	}
	for _, tc := range tests {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestSlugFromFileName(t *testing.T) {
	if got := slugFromFileName("2025-01-15-Benign_Arbitrage.md"); got != "benign-arbitrage" {
		t.Errorf("got %q", got)
	}
}

func TestSuggest(t *testing.T) {
	got := suggest("chekclist", Motifs(), 3)
	if len(got) == 0 || got[0] != "checklist" {
		t.Errorf("suggest = %v; want checklist first", got)
	}
	if got := suggest("zzzzzzzz", Motifs(), 3); len(got) != 0 {
		t.Errorf("suggest far input = %v; want none", got)
	}
	if got := didYouMean("orbit", Motifs()); got != "" {
		t.Errorf("exact match should not suggest, got %q", got)
	}
}
