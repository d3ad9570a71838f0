package mixedtext

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Default font locations on Debian/Ubuntu hosts.
const (
	DefaultExtendedFont = "/usr/share/fonts/truetype/droid/DroidSansFallbackFull.ttf"
	DefaultBasicFont    = "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"
)

// FontSet holds the font file used for each script class.
type FontSet struct {
	Basic    string `yaml:"basic"    mapstructure:"basic"`
	Extended string `yaml:"extended" mapstructure:"extended"`
}

// DefaultFontSet returns the system font paths herogen was designed against.
func DefaultFontSet() FontSet {
	return FontSet{Basic: DefaultBasicFont, Extended: DefaultExtendedFont}
}

// Path returns the font file configured for class c.
func (fs FontSet) Path(c Class) string {
	if c == Basic {
		return fs.Basic
	}
	return fs.Extended
}

type faceKey struct {
	class Class
	size  int
}

// loadedFont is the outcome of parsing one font file. A nil font with a
// non-nil err records a failed load so the file is not retried.
type loadedFont struct {
	font *opentype.Font
	err  error
}

// ResolveFont returns the face used for class at size pixels. The lookup
// order is the configured font file for the class, then the built-in Go
// Regular face, then basicfont.Face7x13. It never fails.
//
// Faces are cached per (class, size) until Close.
func (r *Renderer) ResolveFont(class Class, size int) font.Face {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolve(class, size)
}

// resolve is ResolveFont without locking.
func (r *Renderer) resolve(class Class, size int) font.Face {
	key := faceKey{class: class, size: size}
	if face, ok := r.faces[key]; ok {
		return face
	}

	face, err := r.fileFace(r.fonts.Path(class), size)
	if err != nil {
		r.logf("mixedtext: %s font unavailable, using default: %v", class, err)
		face = r.defaultFace(size)
	}
	r.faces[key] = face
	return face
}

// fileFace builds a face from the font file at path.
func (r *Renderer) fileFace(path string, size int) (font.Face, error) {
	if path == "" {
		return nil, fmt.Errorf("no font file configured")
	}
	lf, ok := r.parsed[path]
	if !ok {
		lf = parseFontFile(path)
		r.parsed[path] = lf
	}
	if lf.err != nil {
		return nil, lf.err
	}
	return newFace(lf.font, size)
}

// defaultFace returns the built-in face at size.
func (r *Renderer) defaultFace(size int) font.Face {
	if r.builtin == nil {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			r.logf("mixedtext: parsing built-in font: %v", err)
			return basicfont.Face7x13
		}
		r.builtin = f
	}
	face, err := newFace(r.builtin, size)
	if err != nil {
		r.logf("mixedtext: built-in face at size %d: %v", size, err)
		return basicfont.Face7x13
	}
	return face
}

func parseFontFile(path string) loadedFont {
	data, err := os.ReadFile(path)
	if err != nil {
		return loadedFont{err: fmt.Errorf("reading font %s: %w", path, err)}
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return loadedFont{err: fmt.Errorf("parsing font %s: %w", path, err)}
	}
	return loadedFont{font: f}
}

func newFace(f *opentype.Font, size int) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func (r *Renderer) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}
