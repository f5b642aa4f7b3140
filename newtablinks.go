// Package newtablinks is a small data-publishing service backing the
// "New Tab Links" browser extension. It stores a curated list of link
// records plus a singleton site-info record in SQLite and exposes them
// through two read-only JSON endpoints, with a session-protected admin
// surface for authoring.
//
// Admin pages are templ components. The built-in views work out of the
// box; users can replace any of them through the ViewFuncs struct.
package newtablinks

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// ViewFuncs holds the templ components used to render the admin surface.
// A nil field falls back to the built-in view.
type ViewFuncs struct {
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(links []Link, info SiteInfo, message string, csrfToken string) templ.Component
	AdminLinkForm  func(link Link, csrfToken string) templ.Component
}

// App is the central application. It wires together the store, handlers,
// middleware, and admin views.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Views  ViewFuncs

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates a new App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()
	views.fillDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the store, middleware, and routes, then starts the
// server. It blocks until the server stops.
func (a *App) Start() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("newtablinks: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("newtablinks: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("newtablinks: init store: %w", err)
	}
	a.Store = store

	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Static assets: rendered screenshots live under the static dir; the
	// embedded admin stylesheet is served when the user ships none.
	e.Static("/public", a.staticDir)
	e.GET("/public/admin.css", a.handleAdminCSS)

	// The read API consumed by the extension.
	e.GET("/links", a.handleLinks)
	e.GET("/info", a.handleInfo)

	// Admin routes — session-protected authoring surface.
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/link/:id/", a.handleAdminLink)
	e.POST("/admin/save/", a.handleAdminSave)
	e.POST("/admin/link/:id/publish/", a.handleAdminPublish)
	e.POST("/admin/link/:id/trash/", a.handleAdminTrash)
	e.DELETE("/admin/link/:id/", a.handleAdminDelete)
	e.POST("/admin/link/:id/screenshot/", a.handleScreenshotUpload)
	e.POST("/admin/settings/", a.handleAdminSettings)
}

// httpErrorHandler maps errors on API routes to the JSON error object;
// everything else falls through to Echo's default handler.
func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	path := c.Request().URL.Path
	if path == "/links" || path == "/info" {
		code := http.StatusInternalServerError
		msg := "Internal server error"
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if s, ok := he.Message.(string); ok {
				msg = s
			}
		}
		if code >= 500 {
			c.Logger().Errorf("server error: %v", err)
		}
		_ = c.JSON(code, APIError{Code: errorCode(code), Message: msg})
		return
	}
	if he, ok := err.(*echo.HTTPError); !ok || he.Code >= 500 {
		c.Logger().Errorf("server error: %v", err)
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_param"
	case http.StatusNotFound:
		return "not_found"
	default:
		return "server_error"
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if
// empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally
// exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("newtablinks: required environment variable %s is not set", key)
	}
	return v
}

// EnvBool reports whether the environment variable key is set to "true".
func EnvBool(key string) bool {
	return strings.EqualFold(os.Getenv(key), "true")
}
