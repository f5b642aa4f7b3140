package main

import (
	"log"

	newtablinks "github.com/josephfusco/new-tab-links"
)

func main() {
	cfg := newtablinks.SiteConfig{
		URL:           newtablinks.EnvOr("SITE_URL", "http://localhost:3000"),
		Addr:          newtablinks.EnvOr("ADDR", ":3000"),
		DatabasePath:  newtablinks.EnvOr("DATABASE_PATH", "data/links.db"),
		AdminPassword: newtablinks.MustEnv("ADMIN_PASSWORD"),
		SessionSecret: newtablinks.MustEnv("ADMIN_SESSION_SECRET"),
		CookieSecure:  newtablinks.EnvBool("COOKIE_SECURE"),
	}

	app := newtablinks.New(cfg, newtablinks.ViewFuncs{},
		newtablinks.WithStaticDir(newtablinks.EnvOr("STATIC_DIR", "public")))
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
