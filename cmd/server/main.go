// Command server runs the CMS over a SQLite or Postgres database.
// Configuration comes from the environment, optionally seeded from a
// .env file.
package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	ninecms "github.com/goliatone/go-ninecms"
	"github.com/goliatone/go-ninecms/internal/di"
	"github.com/goliatone/go-ninecms/internal/migrations"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	_ = godotenv.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := ninecms.DefaultConfig()
	cfg.Site.Name = envDefault("CMS_SITE_NAME", cfg.Site.Name)
	cfg.Site.Author = envDefault("CMS_SITE_AUTHOR", cfg.Site.Author)
	cfg.Site.URL = os.Getenv("CMS_BASE_URL")
	cfg.I18N.DefaultLanguage = envDefault("CMS_DEFAULT_LANGUAGE", cfg.I18N.DefaultLanguage)
	if languages := os.Getenv("CMS_LANGUAGES"); languages != "" {
		cfg.I18N.Languages = splitList(languages)
	}
	cfg.Storage.Provider = envDefault("CMS_DB_DRIVER", cfg.Storage.Provider)
	cfg.Storage.DSN = envDefault("CMS_DB_DSN", "file:ninecms.db?_fk=1")
	cfg.Logging.Level = envDefault("CMS_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = envDefault("CMS_LOG_FORMAT", "console")
	cfg.Features.Logger = true
	cfg.Features.Feeds = true

	db, err := openDatabase(cfg.Storage.Provider, cfg.Storage.DSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := migrations.CreateTables(ctx, db); err != nil {
		log.Fatalf("apply schema: %v", err)
	}

	opts := []di.Option{di.WithBunDB(db)}
	if dir := os.Getenv("CMS_TEMPLATES"); dir != "" {
		renderer, err := newHTMLRenderer(dir)
		if err != nil {
			log.Fatalf("load templates: %v", err)
		}
		opts = append(opts, di.WithTemplate(renderer))
	}

	module, err := ninecms.New(cfg, opts...)
	if err != nil {
		log.Fatalf("initialise cms: %v", err)
	}

	addr := envDefault("CMS_HTTP_ADDR", ":8080")
	server := &http.Server{
		Addr:              addr,
		Handler:           module.Server(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}
}

func openDatabase(provider, dsn string) (*bun.DB, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "postgres":
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		return bun.NewDB(sqldb, pgdialect.New()), nil
	case "", "sqlite", "memory":
		sqldb, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, err
		}
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", provider)
	}
}

func envDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// htmlRenderer serves templates from a directory of .html files. The
// file base name doubles as the suggestion name.
type htmlRenderer struct {
	templates *template.Template
}

func newHTMLRenderer(dir string) (*htmlRenderer, error) {
	parsed, err := template.ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, err
	}
	return &htmlRenderer{templates: parsed}, nil
}

func (r *htmlRenderer) Exists(name string) bool {
	return r.templates.Lookup(name+".html") != nil
}

func (r *htmlRenderer) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name+".html", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
