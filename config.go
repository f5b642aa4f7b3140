package newtablinks

// SiteConfig holds all server configuration. Display settings (the
// new-tab page name and logo) live in the store, not here, because they
// are edited at runtime through the settings form.
type SiteConfig struct {
	URL  string // Canonical URL, used to build screenshot links (default "http://localhost:3000")
	Addr string // Listen address (default ":3000")

	DatabasePath string // SQLite path (default "data/links.db")

	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS
}

func (c *SiteConfig) setDefaults() {
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/links.db"
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets, including rendered
// screenshots (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
