// Package httpserver is the public routing front: it normalizes request
// paths, resolves aliases to nodes, drives the composer and serves the
// form posts, feed and sitemap endpoints.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-ninecms/internal/aliases"
	"github.com/goliatone/go-ninecms/internal/logging"
	"github.com/goliatone/go-ninecms/internal/nodes"
	"github.com/goliatone/go-ninecms/internal/render"
	"github.com/goliatone/go-ninecms/pkg/interfaces"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const sessionCookie = "ninecms_session"

// Authenticator is the authentication glue the server delegates to.
// Credential mechanics live outside the core.
type Authenticator interface {
	Login(w http.ResponseWriter, r *http.Request, username, password string) error
	Logout(w http.ResponseWriter, r *http.Request) error
	Requester(r *http.Request) interfaces.Requester
}

// NodeSource is the slice of node storage the server needs directly.
type NodeSource interface {
	GetByID(ctx context.Context, id int64) (*nodes.Node, error)
	ListPromoted(ctx context.Context, language string) ([]*nodes.Node, error)
	ListAliased(ctx context.Context) ([]*nodes.Node, error)
}

// Config carries the site surface the server exposes.
type Config struct {
	SiteName        string
	SiteAuthor      string
	BaseURL         string
	DefaultLanguage string
	Languages       []string
	LanguagePrefix  bool
	FeedsEnabled    bool
}

// Server wires the routing contract onto a mux router.
type Server struct {
	router    *mux.Router
	resolver  *aliases.Resolver
	nodes     NodeSource
	composer  *render.Composer
	templates interfaces.TemplateRenderer
	session   interfaces.SessionStore
	mailer    interfaces.Mailer
	auth      Authenticator
	cfg       Config
	logger    interfaces.Logger
}

// Option configures the server.
type Option func(*Server)

// WithMailer wires contact form delivery.
func WithMailer(mailer interfaces.Mailer) Option {
	return func(s *Server) {
		if mailer != nil {
			s.mailer = mailer
		}
	}
}

// WithAuthenticator wires login handling.
func WithAuthenticator(auth Authenticator) Option {
	return func(s *Server) {
		if auth != nil {
			s.auth = auth
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New builds the server and registers its routes.
func New(
	resolver *aliases.Resolver,
	nodeSource NodeSource,
	composer *render.Composer,
	templates interfaces.TemplateRenderer,
	session interfaces.SessionStore,
	cfg Config,
	opts ...Option,
) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		resolver:  resolver,
		nodes:     nodeSource,
		composer:  composer,
		templates: templates,
		session:   session,
		auth:      denyAll{},
		cfg:       cfg,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/cms/content/{id:[0-9]+}/", s.handleContentNode).Methods(http.MethodGet)
	s.router.HandleFunc("/contact/form/", s.handleContact).Methods(http.MethodPost)
	s.router.HandleFunc("/user/login/", s.handleLogin).Methods(http.MethodPost)
	s.router.HandleFunc("/user/logout/", s.handleLogout).Methods(http.MethodPost)
	if s.cfg.FeedsEnabled {
		s.router.HandleFunc("/feed.xml", s.handleFeed).Methods(http.MethodGet)
		s.router.HandleFunc("/sitemap.xml", s.handleSitemap).Methods(http.MethodGet)
	}
	s.router.PathPrefix("/").HandlerFunc(s.handleAlias).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler. Requests are annotated with
// logging fields so every handler log entry carries the method and path.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := logging.ContextWithFields(r.Context(), map[string]any{
		"method": r.Method,
		"path":   r.URL.Path,
	})
	s.router.ServeHTTP(w, r.WithContext(ctx))
}

// log returns the server logger bound to the request context.
func (s *Server) log(r *http.Request) interfaces.Logger {
	return s.logger.WithContext(r.Context())
}

// language extracts the request language: the first path segment when
// language-prefixed URLs are enabled and the segment is configured,
// otherwise the default.
func (s *Server) language(path string) (lang, remainder string) {
	remainder = path
	lang = s.cfg.DefaultLanguage
	if !s.cfg.LanguagePrefix {
		return lang, remainder
	}
	trimmed := strings.TrimPrefix(path, "/")
	segment, rest, _ := strings.Cut(trimmed, "/")
	for _, code := range s.cfg.Languages {
		if segment == code {
			return code, "/" + rest
		}
	}
	return lang, remainder
}

// sessionID returns the request's session cookie value, minting one when
// absent so read-once form slots survive the post-redirect-get cycle.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
	})
	return id
}

// renderNode composes the node and writes the outer page template,
// selected by page type with an index fallback.
func (s *Server) renderNode(w http.ResponseWriter, r *http.Request, node *nodes.Node, language string) {
	page, err := s.composer.ComposePage(r.Context(), render.Request{
		Node:      node,
		Language:  language,
		Requester: s.auth.Requester(r),
		Query:     r.URL.Query(),
		SessionID: s.sessionID(w, r),
	})
	if err != nil {
		s.writeComposeError(w, r, err)
		return
	}

	pageTypeName := ""
	if node.PageType != nil {
		pageTypeName = node.PageType.Name
	}
	body, err := s.renderShell(pageTypeName, page)
	if err != nil {
		s.log(r).Error("page template render failed", "node_id", node.ID, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

func (s *Server) renderShell(pageTypeName string, page *render.Page) (string, error) {
	suggestions := []string{"index"}
	if normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(pageTypeName)), " ", "_"); normalized != "" {
		suggestions = []string{"page_" + normalized, normalized, "index"}
	}
	for _, name := range suggestions {
		if s.templates.Exists(name) {
			return s.templates.Render(name, page)
		}
	}
	return "", &render.MissingTemplateError{Suggestions: suggestions}
}

func (s *Server) writeComposeError(w http.ResponseWriter, r *http.Request, err error) {
	var forbidden *render.ForbiddenError
	if errors.As(err, &forbidden) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	var redirectErr *render.RedirectError
	if errors.As(err, &redirectErr) {
		lang, _ := s.language(r.URL.Path)
		location := redirectErr.Location
		if !strings.HasPrefix(location, "http:") && !strings.HasPrefix(location, "https:") {
			location = fullPath(location, lang, s.cfg.LanguagePrefix)
		}
		http.Redirect(w, r, location, http.StatusMovedPermanently)
		return
	}
	s.log(r).Error("page composition failed", "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// fullPath normalizes a node link or alias into a routable location.
func fullPath(path, language string, languagePrefix bool) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	if language != "" && languagePrefix {
		path = "/" + language + path
	}
	return path
}

// denyAll is the default authenticator: every requester is anonymous
// and logins always fail.
type denyAll struct{}

var errLoginUnavailable = errors.New("httpserver: authentication backend not configured")

func (denyAll) Login(http.ResponseWriter, *http.Request, string, string) error {
	return errLoginUnavailable
}

func (denyAll) Logout(http.ResponseWriter, *http.Request) error { return nil }

func (denyAll) Requester(*http.Request) interfaces.Requester {
	return interfaces.Anonymous()
}
