package server

import (
	"context"
	"fmt"
	"log"
	"mime"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aellingwood/herogen/internal/security"
)

// ServeOptions contains the configurable settings for the preview server.
type ServeOptions struct {
	Port         int
	Bind         string
	OutputDir    string
	NoLiveReload bool
}

// Server serves the rendered heroes and a gallery page, and pushes reload
// notifications to open browsers over a WebSocket.
type Server struct {
	options ServeOptions
	hub     *Hub
	watcher *Watcher
	server  *http.Server

	mu    sync.RWMutex
	items []GalleryItem
}

// NewServer creates a new Server with the given options.
func NewServer(opts ServeOptions) *Server {
	return &Server{
		options: opts,
		hub:     NewHub(),
	}
}

// Handler returns the HTTP handler serving the gallery, images and the
// live reload socket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(wsPath, s.hub.HandleWS)
	mux.HandleFunc("/", s.handleRequest)
	return mux
}

// Start starts the HTTP server, WebSocket hub, and file watcher. It blocks
// until the provided context is cancelled or the server fails.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run()

	addr := net.JoinHostPort(s.options.Bind, fmt.Sprint(s.options.Port))
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watcher != nil {
		go func() {
			if err := s.watcher.Start(); err != nil {
				log.Printf("watcher error: %v", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	log.Printf("Serving heroes at http://%s/", ln.Addr())

	if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server, watcher, and hub.
func (s *Server) Stop() error {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	s.hub.Stop()
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// SetWatcher configures the file watcher for the server.
func (s *Server) SetWatcher(w *Watcher) {
	s.watcher = w
}

// SetGallery replaces the heroes listed on the gallery page.
func (s *Server) SetGallery(items []GalleryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = slices.Clone(items)
}

// NotifyReload sends a reload message to all connected WebSocket clients.
func (s *Server) NotifyReload() {
	s.hub.Broadcast([]byte("reload"))
}

// handleRequest serves the gallery at "/" and image files from the output
// directory everywhere else.
func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" || r.URL.Path == "/index.html" {
		s.handleGallery(w, r)
		return
	}

	filePath := s.resolveFilePath(r.URL.Path)
	if filePath == "" {
		http.Error(w, "404 page not found", http.StatusNotFound)
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		http.Error(w, "404 page not found", http.StatusNotFound)
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(filePath))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleGallery(w http.ResponseWriter, _ *http.Request) {
	nonce, err := security.GenerateNonce()
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.mu.RLock()
	items := s.items
	s.mu.RUnlock()

	page, err := RenderGallery(items, nonce)
	if err != nil {
		log.Printf("gallery: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !s.options.NoLiveReload {
		page = InjectLiveReload(page, s.options.Port, nonce)
	}

	security.SetHeaders(w, security.GalleryPolicy(nonce, !s.options.NoLiveReload))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

// resolveFilePath maps a URL path to a regular file in the output directory.
func (s *Server) resolveFilePath(urlPath string) string {
	cleaned := filepath.Clean("/" + urlPath)
	if strings.Contains(cleaned, "..") {
		return ""
	}
	fullPath := filepath.Join(s.options.OutputDir, filepath.FromSlash(cleaned))
	info, err := os.Stat(fullPath)
	if err != nil || info.IsDir() {
		return ""
	}
	return fullPath
}
