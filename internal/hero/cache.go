package hero

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// cacheManifestVersion is bumped when the cache format changes.
const cacheManifestVersion = "1"

// Cache remembers which heroes were rendered from which inputs so that
// unchanged heroes are not re-rendered. All methods are safe for concurrent
// use.
type Cache struct {
	mu       sync.Mutex
	dir      string        // e.g. .herogen/cache/
	manifest CacheManifest // loaded from manifest.json
}

// CacheManifest is the top-level structure persisted as manifest.json.
type CacheManifest struct {
	Version string                 `json:"version"`
	Entries map[string]*CacheEntry `json:"entries"` // keyed by slug
}

// CacheEntry records the inputs and outputs of one rendered hero.
type CacheEntry struct {
	Fingerprint string   `json:"fingerprint"` // SHA-256 of definition, canvas and fonts
	Formats     []string `json:"formats"`
	Quality     int      `json:"quality"`
	Files       []string `json:"files"` // output paths
}

// NewCache creates a Cache rooted at cacheDir. If a manifest.json already
// exists there it is loaded; otherwise an empty manifest is initialised.
func NewCache(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	c := &Cache{
		dir: cacheDir,
		manifest: CacheManifest{
			Version: cacheManifestVersion,
			Entries: make(map[string]*CacheEntry),
		},
	}

	data, err := os.ReadFile(filepath.Join(cacheDir, "manifest.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("reading cache manifest: %w", err)
	}

	var m CacheManifest
	if err := json.Unmarshal(data, &m); err != nil {
		// Corrupt manifest, start fresh.
		return c, nil
	}
	if m.Version != cacheManifestVersion {
		return c, nil
	}
	if m.Entries == nil {
		m.Entries = make(map[string]*CacheEntry)
	}
	c.manifest = m
	return c, nil
}

// Lookup reports whether slug was last rendered from fingerprint at quality
// into exactly files, and every one of them still exists. files carries the
// output directory and formats, so a new destination always misses.
func (c *Cache) Lookup(slug, fingerprint string, files []string, quality int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.manifest.Entries[slug]
	if !ok {
		return false
	}
	if entry.Fingerprint != fingerprint || entry.Quality != quality {
		return false
	}
	if !sameSet(cleanPaths(entry.Files), cleanPaths(files)) {
		return false
	}
	for _, f := range entry.Files {
		if _, err := os.Stat(f); err != nil {
			return false
		}
	}
	return true
}

// Store adds or updates the entry for slug and persists the manifest.
func (c *Cache) Store(slug, fingerprint string, formats []string, quality int, files []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.manifest.Entries[slug] = &CacheEntry{
		Fingerprint: fingerprint,
		Formats:     slices.Clone(formats),
		Quality:     quality,
		Files:       slices.Clone(files),
	}
	return c.saveManifest()
}

// Invalidate forgets slug so its next render is unconditional.
func (c *Cache) Invalidate(slug string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.manifest.Entries[slug]; !ok {
		return nil
	}
	delete(c.manifest.Entries, slug)
	return c.saveManifest()
}

// saveManifest writes the manifest to manifest.json. Callers hold c.mu.
func (c *Cache) saveManifest() error {
	data, err := json.MarshalIndent(c.manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling cache manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(c.dir, "manifest.json"), data, 0o644)
}

// HashFile computes the SHA-256 hex digest of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

func cleanPaths(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Clean(p)
	}
	return out
}

// sameSet reports whether a and b contain the same strings, ignoring order.
func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	ac, bc := slices.Clone(a), slices.Clone(b)
	slices.Sort(ac)
	slices.Sort(bc)
	return slices.Equal(ac, bc)
}
