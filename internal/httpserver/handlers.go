package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-ninecms/internal/forms"
	"github.com/goliatone/go-ninecms/internal/nodes"
	"github.com/gorilla/mux"
)

// handleIndex serves the front page: the node whose alias is "/".
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	lang, _ := s.language(r.URL.Path)
	node, err := s.resolver.Resolve(r.Context(), "/", lang)
	if err != nil {
		var notFound *nodes.NotFoundError
		if errors.As(err, &notFound) {
			http.NotFound(w, r)
			return
		}
		s.log(r).Error("front page resolution failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	s.renderNode(w, r, node, lang)
}

// handleContentNode serves the canonical numeric route. Nodes with an
// alias redirect permanently to it so each page has a single address.
func (s *Server) handleContentNode(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	node, err := s.nodes.GetByID(r.Context(), id)
	if err != nil {
		var notFound *nodes.NotFoundError
		if errors.As(err, &notFound) {
			http.NotFound(w, r)
			return
		}
		s.log(r).Error("node lookup failed", "node_id", id, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if node.Alias != "" {
		http.Redirect(w, r, fullPath(node.Alias, node.Language, s.cfg.LanguagePrefix), http.StatusMovedPermanently)
		return
	}

	lang, _ := s.language(r.URL.Path)
	s.renderNode(w, r, node, lang)
}

// handleAlias serves every remaining GET path by alias lookup. Paths
// missing the trailing slash redirect permanently to the slashed form.
func (s *Server) handleAlias(w http.ResponseWriter, r *http.Request) {
	if !strings.HasSuffix(r.URL.Path, "/") {
		target := r.URL.Path + "/"
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
		return
	}

	lang, remainder := s.language(r.URL.Path)
	alias := strings.Trim(remainder, "/")
	if alias == "" {
		s.handleIndex(w, r)
		return
	}

	node, err := s.resolver.Resolve(r.Context(), alias, lang)
	if err != nil {
		var notFound *nodes.NotFoundError
		if errors.As(err, &notFound) {
			http.NotFound(w, r)
			return
		}
		s.log(r).Error("alias resolution failed", "alias", alias, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	s.renderNode(w, r, node, lang)
}

// handleContact accepts a contact submission. Valid forms are mailed to
// the site managers; invalid ones are stashed in the session so the
// originating page can replay them after the redirect.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	form := &forms.ContactForm{
		SenderName:  r.PostFormValue("sender_name"),
		SenderEmail: r.PostFormValue("sender_email"),
		Subject:     r.PostFormValue("subject"),
		Message:     r.PostFormValue("message"),
		Redirect:    r.PostFormValue("redirect"),
	}
	form.Clean()
	target := s.localRedirect(form.Redirect, r)

	if err := form.Validate(); err != nil {
		sid := s.sessionID(w, r)
		if putErr := s.session.Put(r.Context(), sid, forms.SlotContact, form); putErr != nil {
			s.log(r).Warn("contact form stash failed", "error", putErr)
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	if s.mailer == nil {
		s.log(r).Warn("contact form accepted but no mailer configured", "sender", form.SenderEmail)
	} else {
		body := fmt.Sprintf("From: %s <%s>\n\n%s", form.SenderName, form.SenderEmail, form.Message)
		if err := s.mailer.SendToManagers(r.Context(), form.Subject, body); err != nil {
			s.log(r).Error("contact mail delivery failed", "error", err)
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// handleLogin accepts a credential submission. Both validation and
// authentication failures stash the username so the login block can
// replay it; the password is never stored.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	form := &forms.LoginForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
		Redirect: r.PostFormValue("redirect"),
	}
	form.Clean()
	target := s.localRedirect(form.Redirect, r)

	failed := form.Validate() != nil
	if !failed {
		if err := s.auth.Login(w, r, form.Username, form.Password); err != nil {
			s.log(r).Info("login rejected", "username", form.Username, "error", err)
			failed = true
		}
	}
	if failed {
		sid := s.sessionID(w, r)
		stash := &forms.LoginForm{Username: form.Username, Redirect: form.Redirect}
		if putErr := s.session.Put(r.Context(), sid, forms.SlotLogin, stash); putErr != nil {
			s.log(r).Warn("login form stash failed", "error", putErr)
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !s.auth.Requester(r).IsAuthenticated() {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if err := s.auth.Logout(w, r); err != nil {
		s.log(r).Error("logout failed", "error", err)
	}
	target := s.localRedirect(r.PostFormValue("redirect"), r)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// localRedirect keeps post-submit navigation on-site: only rooted paths
// are honored, anything else falls back to the referer or the front page.
func (s *Server) localRedirect(target string, r *http.Request) string {
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") {
		return target
	}
	if ref := r.Referer(); strings.HasPrefix(ref, "/") && !strings.HasPrefix(ref, "//") {
		return ref
	}
	return "/"
}
