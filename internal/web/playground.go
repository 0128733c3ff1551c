// Package web serves the playground single-page application. The page is a
// self-contained HTML document; all data flows through the JSON API and the
// sandboxed preview frame.
package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/uidraft/uidraft/internal/preview"
)

// PlaygroundConfig configures the playground page.
type PlaygroundConfig struct {
	// Title is displayed in the browser tab and the sidebar header.
	Title string
}

// DefaultPlaygroundConfig returns the default page configuration.
func DefaultPlaygroundConfig() PlaygroundConfig {
	return PlaygroundConfig{Title: "uidraft"}
}

// PlaygroundHandler serves the playground application.
type PlaygroundHandler struct {
	config PlaygroundConfig
	html   string // cached rendered HTML
}

// NewPlaygroundHandler creates a handler with the given configuration. The
// postMessage wire strings and device widths come from the preview package,
// so the page and the sandbox document can never disagree on them.
func NewPlaygroundHandler(cfg PlaygroundConfig) *PlaygroundHandler {
	h := &PlaygroundHandler{config: cfg}
	h.html = strings.NewReplacer(
		"{{TITLE}}", cfg.Title,
		"{{MSG_EXPORT}}", string(preview.MsgExportImage),
		"{{MSG_CAPTURE}}", string(preview.MsgCaptureScreenshot),
		"{{FORMAT_PNG}}", string(preview.FormatPNG),
		"{{FORMAT_JPEG}}", string(preview.FormatJPEG),
		"{{WIDTH_MOBILE}}", preview.DeviceMobile.Width(),
		"{{WIDTH_TABLET}}", preview.DeviceTablet.Width(),
		"{{WIDTH_DESKTOP}}", preview.DeviceDesktop.Width(),
	).Replace(PlaygroundHTML)
	return h
}

// ServeHTTP serves the playground page on the root path only.
func (h *PlaygroundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, h.html)
}

// RegisterRoutes registers the page route on the given ServeMux.
func (h *PlaygroundHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/", h)
}
