// Package mixedtext draws strings that interleave two script classes (Latin
// and Chinese in practice) onto raster images, picking a font per rune,
// measuring glyph boxes, and aligning the run left, centered, or right of an
// anchor.
package mixedtext

import (
	"fmt"
	"strings"
)

// Class identifies which font a rune is drawn with.
type Class int

const (
	Basic    Class = iota // ASCII: Latin letters, digits, punctuation
	Extended              // everything else, in practice CJK ideographs
)

// String returns the human-readable name for a Class.
func (c Class) String() string {
	switch c {
	case Basic:
		return "basic"
	case Extended:
		return "extended"
	default:
		return "unknown"
	}
}

// Classifier maps a rune to the class of font it should be drawn with.
type Classifier func(r rune) Class

// BasicCutoff is the first code point outside the basic class.
const BasicCutoff = 128

// ThresholdClassifier returns a Classifier that places every rune below
// cutoff in Basic and everything else in Extended.
func ThresholdClassifier(cutoff rune) Classifier {
	return func(r rune) Class {
		if r < cutoff {
			return Basic
		}
		return Extended
	}
}

// Align selects where a text run sits relative to its anchor x.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// String returns the name accepted by ParseAlign.
func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseAlign converts "left", "center" or "right" (any case) to an Align.
// An empty string means left.
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "left":
		return AlignLeft, nil
	case "center", "centre":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	default:
		return AlignLeft, fmt.Errorf("unknown alignment %q (want left, center or right)", s)
	}
}

// start returns the x at which a run of the given width begins.
func (a Align) start(anchorX, width int) int {
	switch a {
	case AlignCenter:
		return anchorX - floorDiv(width, 2)
	case AlignRight:
		return anchorX - width
	default:
		return anchorX
	}
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
