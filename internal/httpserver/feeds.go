package httpserver

import (
	"encoding/xml"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/feeds"
)

// handleFeed serves an RSS feed of promoted published nodes, sticky
// entries first, newest first within each group.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	lang, _ := s.language(r.URL.Path)
	promoted, err := s.nodes.ListPromoted(r.Context(), lang)
	if err != nil {
		s.log(r).Error("feed listing failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	feed := &feeds.Feed{
		Title:       s.cfg.SiteName,
		Link:        &feeds.Link{Href: s.cfg.BaseURL + "/"},
		Description: s.cfg.SiteName,
		Author:      &feeds.Author{Name: s.cfg.SiteAuthor},
		Created:     time.Now().UTC(),
	}
	for _, node := range promoted {
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          s.cfg.BaseURL + s.nodeLocation(node.Alias, node.ID, node.Language),
			Title:       node.Title,
			Link:        &feeds.Link{Href: s.cfg.BaseURL + s.nodeLocation(node.Alias, node.ID, node.Language)},
			Description: node.Summary,
			Created:     node.Created,
			Updated:     node.Changed,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		s.log(r).Error("feed encoding failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	_, _ = w.Write([]byte(rss))
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// handleSitemap serves a sitemap of every published aliased node.
func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	aliased, err := s.nodes.ListAliased(r.Context())
	if err != nil {
		s.log(r).Error("sitemap listing failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	set := sitemapURLSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, node := range aliased {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     s.cfg.BaseURL + s.nodeLocation(node.Alias, node.ID, node.Language),
			LastMod: node.Changed.UTC().Format("2006-01-02"),
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		s.log(r).Error("sitemap encoding failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(out)
}

// nodeLocation prefers the alias path and falls back to the numeric
// content route for unaliased nodes.
func (s *Server) nodeLocation(alias string, id int64, language string) string {
	if alias == "" {
		return "/cms/content/" + strconv.FormatInt(id, 10) + "/"
	}
	return fullPath(alias, language, s.cfg.LanguagePrefix)
}
