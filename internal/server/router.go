package server

import (
	"context"
	"net/http"
	"os"

	"cardly/internal/handlers"
	applog "cardly/internal/log"
)

func newRouter(cfg Config) http.Handler {
	mux := http.NewServeMux()
	protected := func(h http.HandlerFunc) http.Handler {
		return handlers.RequireAuthentication(h)
	}

	applog.Debug(context.Background(), "registering http routes")
	mux.HandleFunc("/healthz", handlers.Health)
	mux.HandleFunc("/login", handlers.Login)
	mux.HandleFunc("/signup", handlers.Signup)
	mux.HandleFunc("/logout", handlers.Logout)

	mux.Handle("/app", protected(handlers.Dashboard))
	mux.Handle("/app/preferences/update", protected(handlers.UpdatePreferences))
	mux.Handle("/app/api/templates", protected(handlers.Templates))
	mux.Handle("/app/api/profiles", protected(handlers.ProfileResource))
	mux.Handle("/app/api/profiles/", protected(handlers.ProfileResource))
	mux.Handle("/app/api/menus", protected(handlers.MenuResource))
	mux.Handle("/app/api/menus/", protected(handlers.MenuResource))
	mux.Handle("/app/api/uploads", protected(handlers.Upload))
	mux.Handle("/app/api/ai/backgrounds", protected(handlers.GenerateBackground))
	applog.Debug(context.Background(), "route registered", "path", "/app", "protected", true)

	mux.HandleFunc("/c/", handlers.PublicProfile)
	mux.HandleFunc("/m/", handlers.PublicMenu)
	mux.HandleFunc("/", handlers.Home)

	if cfg.StaticDir != "" {
		mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(cfg.StaticDir))))
		applog.Debug(context.Background(), "route registered", "path", "/assets/", "dir", cfg.StaticDir)
	}
	if cfg.Uploads != nil {
		prefix := cfg.Uploads.URLPath()
		mux.Handle(prefix, http.StripPrefix(prefix, http.FileServer(noListing{http.Dir(cfg.Uploads.Dir())})))
		applog.Debug(context.Background(), "route registered", "path", prefix, "dir", cfg.Uploads.Dir())
	}
	return mux
}

// noListing hides directory indexes of uploaded media.
type noListing struct {
	fs http.FileSystem
}

func (n noListing) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
