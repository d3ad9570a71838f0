package server

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
)

// ---------- InjectLiveReload Tests ----------

func TestInjectLiveReload_BeforeBody(t *testing.T) {
	html := []byte("<html><body><p>Hello</p></body></html>")
	result := InjectLiveReload(html, 1414, "testnonce")

	if !bytes.Contains(result, []byte(":1414/__herogen/ws")) {
		t.Error("expected port 1414 in WebSocket URL")
	}

	bodyIdx := bytes.Index(result, []byte("</body>"))
	scriptIdx := bytes.Index(result, []byte(`<script nonce="testnonce">`))
	if scriptIdx == -1 || bodyIdx == -1 {
		t.Fatal("expected both <script nonce=...> and </body> in result")
	}
	if scriptIdx >= bodyIdx {
		t.Error("expected script to be injected before </body>")
	}
}

func TestInjectLiveReload_MissingBody(t *testing.T) {
	result := InjectLiveReload([]byte("<p>No body tag</p>"), 8080, "n")
	if !bytes.HasSuffix(result, []byte("</script>")) {
		t.Error("expected script to be appended at end when no </body> tag")
	}
	if !bytes.Contains(result, []byte(":8080/__herogen/ws")) {
		t.Error("expected port 8080 in WebSocket URL")
	}
}

func TestInjectLiveReload_UppercaseBody(t *testing.T) {
	result := InjectLiveReload([]byte("<HTML><BODY>x</BODY></HTML>"), 1414, "n")
	if !bytes.HasSuffix(result, []byte("</script></BODY></HTML>")) {
		t.Errorf("expected script before </BODY>, got %s", result)
	}
}

func TestInjectLiveReload_KeepsScroll(t *testing.T) {
	result := InjectLiveReload([]byte("<body></body>"), 1414, "n")
	for _, want := range []string{`"herogen-scroll"`, "sessionStorage.setItem", "wss://"} {
		if !bytes.Contains(result, []byte(want)) {
			t.Errorf("script missing %q", want)
		}
	}
}

// ---------- Gallery Tests ----------

func TestRenderGallery(t *testing.T) {
	items := []GalleryItem{
		{
			Slug:     "benign-arbitrage-theory",
			Title:    "良性套利论",
			Subtitle: "Benign Arbitrage Theory",
			Motif:    "orbit",
			Source:   "builtin",
			Files:    []string{"/benign-arbitrage-theory-hero.webp", "/benign-arbitrage-theory-hero.png"},
		},
		{
			Slug:  "broken",
			Title: "<script>alert(1)</script>",
			Motif: "scale",
			Error: "rendering broken: boom",
		},
	}
	page, err := RenderGallery(items, "abc")
	if err != nil {
		t.Fatalf("RenderGallery() error = %v", err)
	}
	html := string(page)

	for _, want := range []string{
		"良性套利论",
		`<img src="/benign-arbitrage-theory-hero.png"`,
		`>webp</a>`,
		`<style nonce="abc">`,
		"rendering broken: boom",
		"(2)",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("gallery missing %q", want)
		}
	}
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Error("gallery did not escape the title")
	}
}

func TestRenderGalleryEmpty(t *testing.T) {
	page, err := RenderGallery(nil, "n")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(page, []byte("No heroes rendered yet.")) {
		t.Error("expected empty-state message")
	}
}

func TestGalleryItemPreview(t *testing.T) {
	if got := (GalleryItem{Files: []string{"/a.webp"}}).Preview(); got != "/a.webp" {
		t.Errorf("webp-only preview = %q", got)
	}
	if got := (GalleryItem{}).Preview(); got != "" {
		t.Errorf("empty preview = %q", got)
	}
}

func TestFileURLs(t *testing.T) {
	out := filepath.Join("public", "blog-images")
	got := FileURLs(out, []string{
		filepath.Join(out, "a-hero.png"),
		filepath.Join(out, "nested", "b-hero.webp"),
		filepath.Join("elsewhere", "c-hero.png"),
	})
	want := []string{"/a-hero.png", "/nested/b-hero.webp", "/c-hero.png"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FileURLs mismatch (-want +got):\n%s", diff)
	}
}

// ---------- handleRequest Tests ----------

func TestHandleRequest_Gallery(t *testing.T) {
	srv := NewServer(ServeOptions{Port: 1414, Bind: "localhost", OutputDir: t.TempDir()})
	srv.SetGallery([]GalleryItem{{Slug: "defi-risk-management", Title: "DeFi风险管理最佳实践", Motif: "scale"}})

	for _, path := range []string{"/", "/index.html"} {
		req := httptest.NewRequest("GET", path, nil)
		rr := httptest.NewRecorder()
		srv.handleRequest(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", path, rr.Code)
		}
		body := rr.Body.String()
		if !strings.Contains(body, "DeFi风险管理最佳实践") {
			t.Errorf("%s: gallery does not list the hero", path)
		}
		if !strings.Contains(body, "/__herogen/ws") {
			t.Errorf("%s: expected live reload script", path)
		}
		csp := rr.Header().Get("Content-Security-Policy")
		if !strings.Contains(csp, "script-src 'nonce-") {
			t.Errorf("%s: CSP = %q", path, csp)
		}
		if rr.Header().Get("X-Frame-Options") != "DENY" {
			t.Errorf("%s: expected X-Frame-Options: DENY", path)
		}
	}
}

func TestHandleRequest_NoLiveReload(t *testing.T) {
	srv := NewServer(ServeOptions{Port: 1414, OutputDir: t.TempDir(), NoLiveReload: true})
	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	srv.handleRequest(rr, req)
	if strings.Contains(rr.Body.String(), "WebSocket") {
		t.Error("live reload script injected although disabled")
	}
}

func TestHandleRequest_UniqueNoncePerRequest(t *testing.T) {
	srv := NewServer(ServeOptions{Port: 1414, OutputDir: t.TempDir()})

	rr1 := httptest.NewRecorder()
	srv.handleRequest(rr1, httptest.NewRequest("GET", "/", nil))
	rr2 := httptest.NewRecorder()
	srv.handleRequest(rr2, httptest.NewRequest("GET", "/", nil))

	if rr1.Header().Get("Content-Security-Policy") == rr2.Header().Get("Content-Security-Policy") {
		t.Error("expected different nonces for different requests")
	}
}

func TestHandleRequest_Images(t *testing.T) {
	outputDir := t.TempDir()
	writeTestFile(t, outputDir, "a-hero.png", "\x89PNG\r\n\x1a\nfake")
	writeTestFile(t, outputDir, "a-hero.webp", "RIFF0000WEBPfake")

	srv := NewServer(ServeOptions{Port: 1414, OutputDir: outputDir})

	tests := []struct {
		path        string
		contentType string
	}{
		{"/a-hero.png", "image/png"},
		{"/a-hero.webp", "image/webp"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			srv.handleRequest(rr, httptest.NewRequest("GET", tt.path, nil))
			if rr.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rr.Code)
			}
			if ct := rr.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			if rr.Header().Get("Cache-Control") == "" {
				t.Error("expected Cache-Control header")
			}
		})
	}
}

func TestHandleRequest_404(t *testing.T) {
	outputDir := t.TempDir()
	writeTestFile(t, outputDir, "nested/x.png", "x")
	srv := NewServer(ServeOptions{Port: 1414, OutputDir: outputDir})

	for _, path := range []string{"/missing.png", "/nested", "/../../../etc/passwd"} {
		rr := httptest.NewRecorder()
		srv.handleRequest(rr, httptest.NewRequest("GET", path, nil))
		if rr.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, rr.Code)
		}
	}
}

// ---------- WebSocket Hub Tests ----------

func TestHub_BroadcastReachesClients(t *testing.T) {
	srv := NewServer(ServeOptions{Port: 1414, OutputDir: t.TempDir()})
	go srv.hub.Run()
	defer srv.hub.Stop()

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + wsPath
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for srv.hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if srv.hub.ClientCount() != 1 {
		t.Fatalf("expected 1 client, got %d", srv.hub.ClientCount())
	}

	srv.NotifyReload()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(msg) != "reload" {
		t.Errorf("message = %q, want reload", msg)
	}
}

func TestHub_BroadcastDoesNotBlock(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	done := make(chan struct{})
	go func() {
		for range 100 {
			hub.Broadcast([]byte("reload"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Error("Broadcast blocked with no clients")
	}
}

func TestHub_StopIsIdempotent(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Stop()
	hub.Stop()
}

// ---------- Watcher Tests ----------

func TestWatcher_Debouncing(t *testing.T) {
	dir := t.TempDir()
	article := filepath.Join(dir, "post.md")
	if err := os.WriteFile(article, []byte("initial"), 0o644); err != nil {
		t.Fatal(err)
	}

	var callCount atomic.Int32
	w := NewWatcher([]string{dir}, 100*time.Millisecond, func() {
		callCount.Add(1)
	})
	go func() {
		if err := w.Start(); err != nil {
			t.Logf("watcher start error: %v", err)
		}
	}()
	time.Sleep(50 * time.Millisecond)

	for i := range 5 {
		if err := os.WriteFile(article, fmt.Appendf(nil, "change %d", i), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(300 * time.Millisecond)
	w.Stop()

	count := callCount.Load()
	if count == 0 {
		t.Error("expected at least one onChange callback")
	}
	if count >= 5 {
		t.Errorf("expected debouncing to reduce callbacks, got %d for 5 changes", count)
	}
}

func TestWatcher_IgnoresScratchFiles(t *testing.T) {
	dir := t.TempDir()
	var callCount atomic.Int32
	w := NewWatcher([]string{dir}, 50*time.Millisecond, func() { callCount.Add(1) })
	go func() { _ = w.Start() }()
	time.Sleep(50 * time.Millisecond)

	for _, name := range []string{".#post.md", "post.md~", "post.md.swp"} {
		writeTestFile(t, dir, name, "x")
	}
	time.Sleep(200 * time.Millisecond)
	w.Stop()

	if n := callCount.Load(); n != 0 {
		t.Errorf("scratch files triggered %d callbacks", n)
	}
}

func TestWatcher_NonexistentPaths(t *testing.T) {
	w := NewWatcher([]string{"/nonexistent/path/that/does/not/exist"}, 100*time.Millisecond, func() {})
	go func() { _ = w.Start() }()
	time.Sleep(50 * time.Millisecond)
	w.Stop()
	w.Stop()
}

func TestIsScratchFile(t *testing.T) {
	tests := map[string]bool{
		"content/post.md":        false,
		"content/.#post.md":      true,
		"content/post.md~":       true,
		"herogen.yaml.swp":       true,
		"fonts/NotoSansSC.otf":   false,
		"public/.x-hero.png.tmp": true,
	}
	for path, want := range tests {
		if got := isScratchFile(path); got != want {
			t.Errorf("isScratchFile(%q) = %v, want %v", path, got, want)
		}
	}
}

// ---------- Helper ----------

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	fullPath := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
