package hero

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FromArticle builds a hero definition from a Markdown article. ok is false
// when the article carries no hero block.
//
// Unset hero fields fall back to the article: title to its title, tagline
// to its summary, description or first paragraph, slug to its slug or file
// name.
func FromArticle(path string, raw []byte) (def *Definition, ok bool, err error) {
	format, front, body, err := splitFrontmatter(raw)
	if err != nil {
		return nil, false, fmt.Errorf("parsing frontmatter in %s: %w", path, err)
	}
	if format == "" {
		return nil, false, nil
	}
	meta, err := decodeFrontmatter(format, front)
	if err != nil {
		return nil, false, fmt.Errorf("parsing frontmatter in %s: %w", path, err)
	}
	if meta.Hero == nil {
		return nil, false, nil
	}

	def = meta.Hero
	def.Source = filepath.ToSlash(path)

	if def.Slug == "" {
		def.Slug = meta.Slug
	}
	if def.Slug == "" {
		name := filepath.Base(path)
		if name == "index.md" {
			name = filepath.Base(filepath.Dir(path))
		}
		def.Slug = slugFromFileName(name)
	}
	if def.Title == "" {
		def.Title = meta.Title
	}
	if def.Tagline == "" {
		switch {
		case meta.Summary != "":
			def.Tagline = meta.Summary
		case meta.Description != "":
			def.Tagline = meta.Description
		default:
			para, err := FirstParagraph(body)
			if err != nil {
				return nil, false, fmt.Errorf("summarising %s: %w", path, err)
			}
			def.Tagline = para
		}
		def.Tagline = Truncate(def.Tagline, MaxTaglineRunes)
	}

	def.Normalize()
	return def, true, nil
}

// Discover walks contentDir and returns the hero definitions declared by its
// Markdown articles, sorted by slug. Articles without a hero block are
// skipped; two articles claiming the same slug is an error.
func Discover(contentDir string) ([]*Definition, error) {
	var defs []*Definition
	seen := make(map[string]string)

	err := filepath.WalkDir(contentDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		def, ok, err := FromArticle(path, raw)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if prev, dup := seen[def.Slug]; dup {
			return fmt.Errorf("hero slug %q declared by both %s and %s", def.Slug, prev, path)
		}
		seen[def.Slug] = path
		defs = append(defs, def)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking content directory: %w", err)
	}

	sort.Slice(defs, func(i, j int) bool { return defs[i].Slug < defs[j].Slug })
	return defs, nil
}

// Catalog returns every known hero: the built-in catalog (when
// includeBuiltin is set) overlaid with the heroes discovered under
// contentDir. An article replaces a built-in hero with the same slug. A
// missing contentDir is not an error.
func Catalog(contentDir string, includeBuiltin bool) ([]*Definition, error) {
	bySlug := make(map[string]*Definition)
	if includeBuiltin {
		for _, d := range Builtin() {
			bySlug[d.Slug] = d
		}
	}

	if contentDir != "" {
		articles, err := Discover(contentDir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		for _, d := range articles {
			bySlug[d.Slug] = d
		}
	}

	defs := make([]*Definition, 0, len(bySlug))
	for _, d := range bySlug {
		defs = append(defs, d)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Slug < defs[j].Slug })
	return defs, nil
}

// Find returns the definition with the given slug. The error wraps
// ErrNotFound and suggests close slugs.
func Find(defs []*Definition, slug string) (*Definition, error) {
	slugs := make([]string, len(defs))
	for i, d := range defs {
		if d.Slug == slug {
			return d, nil
		}
		slugs[i] = d.Slug
	}
	return nil, fmt.Errorf("%w: %q%s", ErrNotFound, slug, didYouMean(slug, slugs))
}
