package server

import (
	"bytes"
	"html/template"
	"path"
	"path/filepath"
	"strings"
)

// GalleryItem is one hero shown on the gallery page.
type GalleryItem struct {
	Slug     string
	Title    string
	Subtitle string
	Motif    string
	Source   string
	// Files are URL paths of the rendered images, relative to the server
	// root.
	Files []string
	Error string
}

// Preview returns the file shown as the thumbnail, preferring PNG.
func (g GalleryItem) Preview() string {
	for _, f := range g.Files {
		if strings.HasSuffix(f, ".png") {
			return f
		}
	}
	if len(g.Files) > 0 {
		return g.Files[0]
	}
	return ""
}

// FileURLs converts output file paths under outputDir to URL paths.
func FileURLs(outputDir string, files []string) []string {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(outputDir, f)
		if err != nil || strings.HasPrefix(rel, "..") {
			rel = filepath.Base(f)
		}
		urls = append(urls, "/"+filepath.ToSlash(rel))
	}
	return urls
}

var galleryFuncs = template.FuncMap{
	"ext": func(p string) string { return strings.TrimPrefix(path.Ext(p), ".") },
}

var galleryTmpl = template.Must(template.New("gallery").Funcs(galleryFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>herogen gallery</title>
<style nonce="{{.Nonce}}">
body { background: #0f172a; color: #f8fafc; font-family: system-ui, sans-serif; margin: 2rem; }
.grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(480px, 1fr)); gap: 1.5rem; }
figure { margin: 0; background: #1e293b; border-radius: 8px; overflow: hidden; }
img { width: 100%; display: block; }
figcaption { padding: .75rem 1rem; }
small, a { color: #94a3b8; }
.error { color: #ef4444; }
</style>
</head>
<body>
<h1>Hero images <small>({{len .Items}})</small></h1>
<div class="grid">
{{- range .Items}}
<figure id="{{.Slug}}">
  {{- with .Preview}}<a href="{{.}}"><img src="{{.}}" alt=""></a>{{end}}
  <figcaption>
    <strong>{{.Title}}</strong>{{with .Subtitle}} <small>{{.}}</small>{{end}}<br>
    <small>{{.Slug}} · {{.Motif}}{{with .Source}} · {{.}}{{end}}</small>
    {{- range .Files}} <a href="{{.}}">{{ext .}}</a>{{end}}
    {{- with .Error}}<p class="error">{{.}}</p>{{end}}
  </figcaption>
</figure>
{{- else}}
<p>No heroes rendered yet.</p>
{{- end}}
</div>
</body>
</html>
`))

// RenderGallery renders the gallery page for items.
func RenderGallery(items []GalleryItem, nonce string) ([]byte, error) {
	var buf bytes.Buffer
	err := galleryTmpl.Execute(&buf, struct {
		Items []GalleryItem
		Nonce string
	}{items, nonce})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
