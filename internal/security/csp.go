// Package security builds the Content Security Policy and related headers
// for the gallery served by the preview server.
package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// GenerateNonce produces a 16-byte cryptographically random nonce,
// returned as a base64-encoded string.
func GenerateNonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// CSPPolicy holds the directives for a Content-Security-Policy header.
type CSPPolicy struct {
	DefaultSrc []string
	ScriptSrc  []string
	StyleSrc   []string
	ImgSrc     []string
	ConnectSrc []string
	BaseURI    []string
	FormAction []string
	FrameAnc   []string
}

// String serializes the policy to a CSP header value. Empty directives are
// left out.
func (p *CSPPolicy) String() string {
	var directives []string
	add := func(name string, values []string) {
		if len(values) > 0 {
			directives = append(directives, name+" "+strings.Join(values, " "))
		}
	}
	add("default-src", p.DefaultSrc)
	add("script-src", p.ScriptSrc)
	add("style-src", p.StyleSrc)
	add("img-src", p.ImgSrc)
	add("connect-src", p.ConnectSrc)
	add("base-uri", p.BaseURI)
	add("form-action", p.FormAction)
	add("frame-ancestors", p.FrameAnc)
	return strings.Join(directives, "; ")
}

// GalleryPolicy returns the policy for the gallery page. Only the inline
// style and script tagged with nonce may run; images load from the server
// itself. With liveReload the page may also open the reload WebSocket.
func GalleryPolicy(nonce string, liveReload bool) *CSPPolicy {
	p := &CSPPolicy{
		DefaultSrc: []string{"'self'"},
		ScriptSrc:  []string{fmt.Sprintf("'nonce-%s'", nonce)},
		StyleSrc:   []string{"'self'", fmt.Sprintf("'nonce-%s'", nonce)},
		ImgSrc:     []string{"'self'", "data:"},
		ConnectSrc: []string{"'self'"},
		BaseURI:    []string{"'self'"},
		FormAction: []string{"'none'"},
		FrameAnc:   []string{"'none'"},
	}
	if liveReload {
		p.ConnectSrc = append(p.ConnectSrc, "ws:", "wss:")
	}
	return p
}

// SetHeaders applies policy and the fixed hardening headers to w.
func SetHeaders(w http.ResponseWriter, policy *CSPPolicy) {
	w.Header().Set("Content-Security-Policy", policy.String())
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
}
