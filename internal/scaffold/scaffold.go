// Package scaffold creates new Markdown articles that carry a hero block in
// their front matter, ready for herogen to render.
package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/aellingwood/herogen/internal/hero"
)

// nowFunc is the function used to get the current time.
// It is a package-level variable so tests can override it.
var nowFunc = time.Now

// ErrExists is returned when the article file is already present.
var ErrExists = errors.New("article already exists")

// ArticleOptions describes the article stub to create.
type ArticleOptions struct {
	Slug     string
	Title    string // defaults to Slug
	Subtitle string
	Motif    string // defaults to hero.DefaultMotif
	Format   string // "yaml" (default) or "toml"
}

type stubHero struct {
	Motif    string            `yaml:"motif"              toml:"motif"`
	Subtitle string            `yaml:"subtitle,omitempty" toml:"subtitle,omitempty"`
	Palette  map[string]string `yaml:"palette"            toml:"palette"`
}

type stubFrontmatter struct {
	Title   string    `yaml:"title"   toml:"title"`
	Date    time.Time `yaml:"date"    toml:"date"`
	Summary string    `yaml:"summary" toml:"summary"`
	Hero    stubHero  `yaml:"hero"    toml:"hero"`
}

const stubBody = `
Write the opening paragraph here. When summary is empty it becomes the hero
tagline.
`

// ArticlePath returns the file NewArticle writes for opts under contentDir:
// YYYY-MM-DD-slug.md.
func ArticlePath(contentDir string, opts ArticleOptions) string {
	name := fmt.Sprintf("%s-%s.md", nowFunc().Format("2006-01-02"), hero.Slugify(opts.Slug))
	return filepath.Join(contentDir, name)
}

// NewArticle writes an article stub with a hero block to contentDir and
// returns its path. Parent directories are created if they do not exist; an
// existing file is never overwritten.
func NewArticle(contentDir string, opts ArticleOptions) (string, error) {
	slug := hero.Slugify(opts.Slug)
	if slug == "" {
		return "", fmt.Errorf("slug %q has no usable characters", opts.Slug)
	}
	if opts.Title == "" {
		opts.Title = slug
	}
	opts.Motif = strings.ToLower(strings.TrimSpace(opts.Motif))
	if opts.Motif == "" {
		opts.Motif = hero.DefaultMotif
	}
	if _, err := hero.LookupMotif(opts.Motif); err != nil {
		return "", err
	}

	palette := hero.DefaultPalette()
	front := stubFrontmatter{
		Title: opts.Title,
		Date:  nowFunc().Truncate(time.Second),
		Hero: stubHero{
			Motif:    opts.Motif,
			Subtitle: opts.Subtitle,
			Palette: map[string]string{
				"background": palette.Background.String(),
				"primary":    palette.Primary.String(),
				"warm":       palette.Warm.String(),
			},
		},
	}

	var buf bytes.Buffer
	switch opts.Format {
	case "", "yaml":
		data, err := yaml.Marshal(front)
		if err != nil {
			return "", fmt.Errorf("encoding front matter: %w", err)
		}
		buf.WriteString("---\n")
		buf.Write(data)
		buf.WriteString("---\n")
	case "toml":
		buf.WriteString("+++\n")
		if err := toml.NewEncoder(&buf).Encode(front); err != nil {
			return "", fmt.Errorf("encoding front matter: %w", err)
		}
		buf.WriteString("+++\n")
	default:
		return "", fmt.Errorf("unknown front matter format %q (use yaml or toml)", opts.Format)
	}
	buf.WriteString(stubBody)

	if err := os.MkdirAll(contentDir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %q: %w", contentDir, err)
	}
	path := ArticlePath(contentDir, opts)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrExists, path)
		}
		return "", fmt.Errorf("creating %q: %w", path, err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return "", fmt.Errorf("writing %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("writing %q: %w", path, err)
	}
	return path, nil
}
