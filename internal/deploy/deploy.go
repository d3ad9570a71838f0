// Package deploy publishes rendered hero images to S3 and invalidates the
// CloudFront paths that serve them.
package deploy

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aellingwood/herogen/internal/hero"
)

// Config holds deployment settings.
type Config struct {
	Bucket       string
	Region       string
	Prefix       string // key prefix inside the bucket, e.g. "blog-images"
	Distribution string // CloudFront distribution ID (optional)
	Delete       bool   // remove remote objects under Prefix that no longer exist locally
	DryRun       bool
	Verbose      bool
	Out          io.Writer // plan and progress output; nil means os.Stdout
}

// Result holds the results of a deployment.
type Result struct {
	Uploaded    int
	Deleted     int
	Skipped     int
	Invalidated []string
	Errors      []error
}

// FileEntry represents a local file to deploy.
type FileEntry struct {
	Path         string // path relative to the output dir, slash separated
	Key          string // S3 object key (Prefix + Path)
	ContentType  string
	CacheControl string
	Hash         string // hex-encoded SHA-256
}

// S3Client is the subset of S3 operations used during deployment.
type S3Client interface {
	PutObject(ctx context.Context, key string, body io.Reader, contentType, cacheControl, sha256Hash string) error
	DeleteObject(ctx context.Context, key string) error
	// ListObjects returns key -> SHA-256 metadata for every object under prefix.
	ListObjects(ctx context.Context, prefix string) (map[string]string, error)
}

// CloudFrontClient is an interface for CloudFront operations.
type CloudFrontClient interface {
	CreateInvalidation(ctx context.Context, distributionID string, paths []string) error
}

// ContentTypeForExt returns the MIME type for a file extension.
// The ext parameter should include the leading dot (e.g. ".png").
func ContentTypeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".svg":
		return "image/svg+xml"
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".json":
		return "application/json; charset=utf-8"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// CacheControlForExt returns the Cache-Control header for a file extension.
// Hero file names are stable across re-renders, so images get a day rather
// than an immutable lifetime.
func CacheControlForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".png", ".jpg", ".jpeg", ".webp", ".svg":
		return "public, max-age=86400"
	case ".html", ".htm", ".json":
		return "public, max-age=0, must-revalidate"
	default:
		return "public, max-age=3600"
	}
}

// KeyPrefix normalises a configured prefix to "" or "dir/".
func KeyPrefix(prefix string) string {
	prefix = strings.Trim(path.Clean("/"+filepath.ToSlash(prefix)), "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

// ScanFiles walks the output directory and returns one FileEntry per file.
// Dot files, including in-flight temp files from an atomic write, are
// skipped.
func ScanFiles(outputDir, prefix string) ([]FileEntry, error) {
	prefix = KeyPrefix(prefix)
	var entries []FileEntry

	err := filepath.WalkDir(outputDir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && p != outputDir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(outputDir, p)
		if err != nil {
			return fmt.Errorf("computing relative path: %w", err)
		}
		rel = filepath.ToSlash(rel)

		hash, err := hero.HashFile(p)
		if err != nil {
			return err
		}
		ext := filepath.Ext(p)
		entries = append(entries, FileEntry{
			Path:         rel,
			Key:          prefix + rel,
			ContentType:  ContentTypeForExt(ext),
			CacheControl: CacheControlForExt(ext),
			Hash:         hash,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning files: %w", err)
	}
	return entries, nil
}

// DiffFiles compares local files against remote key -> hash metadata.
// It returns files to upload (new or changed) and keys that exist only
// remotely, sorted.
func DiffFiles(local []FileEntry, remoteHashes map[string]string) (toUpload []FileEntry, toDelete []string) {
	localKeys := make(map[string]bool, len(local))
	for _, entry := range local {
		localKeys[entry.Key] = true
		if remoteHash, ok := remoteHashes[entry.Key]; !ok || remoteHash != entry.Hash {
			toUpload = append(toUpload, entry)
		}
	}
	for key := range remoteHashes {
		if !localKeys[key] {
			toDelete = append(toDelete, key)
		}
	}
	slices.Sort(toDelete)
	return toUpload, toDelete
}

// InvalidationPaths returns the CloudFront paths to invalidate for the
// changed keys. Beyond a handful of keys a single wildcard under the prefix
// is cheaper.
func InvalidationPaths(prefix string, changed []string) []string {
	if len(changed) == 0 {
		return nil
	}
	if len(changed) > maxInvalidationPaths {
		return []string{"/" + KeyPrefix(prefix) + "*"}
	}
	paths := make([]string, 0, len(changed))
	for _, key := range changed {
		paths = append(paths, "/"+key)
	}
	slices.Sort(paths)
	return paths
}

const maxInvalidationPaths = 15

// Deploy uploads the contents of outputDir using the provided clients.
//
// Steps:
//  1. Scan local files
//  2. List remote objects under the prefix
//  3. Diff to find uploads and deletes
//  4. If DryRun, print plan and return
//  5. Upload new/changed files
//  6. Delete remote-only files when cfg.Delete is set
//  7. Invalidate the changed paths if a distribution is configured
func Deploy(ctx context.Context, cfg Config, outputDir string, s3 S3Client, cf CloudFrontClient) (*Result, error) {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	result := &Result{}

	localFiles, err := ScanFiles(outputDir, cfg.Prefix)
	if err != nil {
		return nil, fmt.Errorf("scanning local files: %w", err)
	}

	remoteHashes, err := s3.ListObjects(ctx, KeyPrefix(cfg.Prefix))
	if err != nil {
		return nil, fmt.Errorf("listing remote objects: %w", err)
	}

	toUpload, toDelete := DiffFiles(localFiles, remoteHashes)
	if !cfg.Delete {
		toDelete = nil
	}
	result.Skipped = len(localFiles) - len(toUpload)

	var changed []string
	for _, f := range toUpload {
		changed = append(changed, f.Key)
	}
	changed = append(changed, toDelete...)

	if cfg.DryRun {
		for _, f := range toUpload {
			fmt.Fprintf(out, "[dry-run] upload: %s (%s)\n", f.Key, f.ContentType)
		}
		for _, key := range toDelete {
			fmt.Fprintf(out, "[dry-run] delete: %s\n", key)
		}
		if cfg.Distribution != "" {
			for _, p := range InvalidationPaths(cfg.Prefix, changed) {
				fmt.Fprintf(out, "[dry-run] invalidate: %s\n", p)
			}
		}
		result.Uploaded = len(toUpload)
		result.Deleted = len(toDelete)
		return result, nil
	}

	changed = nil
	for _, entry := range toUpload {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		f, err := os.Open(filepath.Join(outputDir, filepath.FromSlash(entry.Path)))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("opening %s: %w", entry.Path, err))
			continue
		}
		err = s3.PutObject(ctx, entry.Key, f, entry.ContentType, entry.CacheControl, entry.Hash)
		f.Close()
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("uploading %s: %w", entry.Key, err))
			continue
		}
		result.Uploaded++
		changed = append(changed, entry.Key)
		if cfg.Verbose {
			fmt.Fprintf(out, "uploaded: %s\n", entry.Key)
		}
	}

	for _, key := range toDelete {
		if err := s3.DeleteObject(ctx, key); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("deleting %s: %w", key, err))
			continue
		}
		result.Deleted++
		changed = append(changed, key)
		if cfg.Verbose {
			fmt.Fprintf(out, "deleted: %s\n", key)
		}
	}

	if cfg.Distribution != "" && cf != nil {
		paths := InvalidationPaths(cfg.Prefix, changed)
		if len(paths) > 0 {
			if err := cf.CreateInvalidation(ctx, cfg.Distribution, paths); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("CloudFront invalidation: %w", err))
			} else {
				result.Invalidated = paths
				if cfg.Verbose {
					fmt.Fprintf(out, "invalidated %d path(s) on %s\n", len(paths), cfg.Distribution)
				}
			}
		}
	}

	return result, nil
}
