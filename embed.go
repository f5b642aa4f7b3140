package newtablinks

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// EmbeddedAssets contains static assets shipped with the service:
// admin.css for the built-in admin views.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

// handleAdminCSS serves the user's stylesheet from the static dir when
// one exists, and falls back to the embedded copy otherwise.
func (a *App) handleAdminCSS(c echo.Context) error {
	userCSS := filepath.Join(a.staticDir, "admin.css")
	if _, err := os.Stat(userCSS); err == nil {
		return c.File(userCSS)
	}
	embeddedFS, err := fs.Sub(EmbeddedAssets, "embedded")
	if err != nil {
		return err
	}
	handler := http.StripPrefix("/public/", http.FileServer(http.FS(embeddedFS)))
	return echo.WrapHandler(handler)(c)
}
