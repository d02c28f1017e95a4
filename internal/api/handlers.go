package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/FocuswithJustin/ChurchProjection/core/books"
	"github.com/FocuswithJustin/ChurchProjection/core/scripture"
	"github.com/FocuswithJustin/ChurchProjection/internal/logging"
)

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *APIMeta  `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	Total     int    `json:"total,omitempty"`
	Timestamp string `json:"timestamp"`
}

// HealthInfo is the health check response.
type HealthInfo struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime"`
	Loaded   bool   `json:"loaded"`
	Versions int    `json:"versions"`
}

// VersionInfo describes one loaded version.
type VersionInfo struct {
	ID      string                 `json:"id"`
	Books   int                    `json:"books"`
	Verses  int                    `json:"verses"`
	Sources []scripture.SourceInfo `json:"sources"`
}

// BookInfo is one entry of /books.
type BookInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Chapters    int    `json:"chapters"`
}

// VerseInfo is the /verse response.
type VerseInfo struct {
	scripture.Verse
	DisplayName string `json:"display_name"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"name":    "Church Projection API",
		"version": s.cfg.BuildVersion,
		"endpoints": []string{
			"/health", "/versions", "/search", "/verse",
			"/books", "/books/canonical", "/books/name",
			"/chapters", "/verses", "/reload", "/ws", "/metrics",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if !s.store.IsLoaded() {
		status = "loading"
	}
	respond(w, http.StatusOK, HealthInfo{
		Status:   status,
		Version:  s.cfg.BuildVersion,
		Uptime:   time.Since(s.started).Round(time.Second).String(),
		Loaded:   s.store.IsLoaded(),
		Versions: len(s.store.Versions()),
	})
}

func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	out := make([]VersionInfo, 0, len(snap.Versions()))
	for _, id := range snap.Versions() {
		bible, _ := snap.Bible(id)
		out = append(out, VersionInfo{
			ID:      id,
			Books:   len(bible.Books()),
			Verses:  s.store.VerseTotal(id),
			Sources: bible.Sources(),
		})
	}
	respondList(w, out, len(out))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("q") {
		respondError(w, http.StatusBadRequest, "MISSING_PARAMETER", "q is required")
		return
	}
	version, err := versionParam(q, "")
	if err != nil {
		respondParamError(w, err)
		return
	}
	query := strings.ToValidUTF8(q.Get("q"), "")
	if len([]rune(query)) > MaxQueryLength {
		respondError(w, http.StatusBadRequest, "INVALID_PARAMETER", "q is too long")
		return
	}

	res := s.engine.SearchDetailed(query, version)
	s.metrics.observeSearch(res)
	respondList(w, res, len(res.Verses))
}

func (s *Server) handleVerse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	version, book, err := s.versionAndBook(q)
	if err != nil {
		respondParamError(w, err)
		return
	}
	chapter, err := positiveIntParam(q, "chapter")
	if err != nil {
		respondParamError(w, err)
		return
	}
	verse, err := positiveIntParam(q, "verse")
	if err != nil {
		respondParamError(w, err)
		return
	}

	text := s.store.VerseText(book, chapter, verse, version)
	if text == "" {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Verse not found")
		return
	}
	canonical := books.Normalize(book)
	respond(w, http.StatusOK, VerseInfo{
		Verse: scripture.Verse{
			Book:    canonical,
			Chapter: chapter,
			Verse:   verse,
			Text:    text,
			Version: version,
		},
		DisplayName: s.store.LocalizedBookName(canonical, version),
	})
}

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	version, err := versionParam(r.URL.Query(), s.cfg.DefaultVersion)
	if err != nil {
		respondParamError(w, err)
		return
	}
	names := s.store.Books(version)
	if !s.store.HasVersion(version) {
		// Books falls back to the first version; report which one answered.
		version = s.store.FirstVersion()
	}
	out := make([]BookInfo, 0, len(names))
	for _, name := range names {
		out = append(out, BookInfo{
			Name:        name,
			DisplayName: s.store.LocalizedBookName(name, version),
			Chapters:    s.store.ChapterCount(name, version),
		})
	}
	respondList(w, out, len(out))
}

func (s *Server) handleCanonicalBooks(w http.ResponseWriter, r *http.Request) {
	version, err := versionParam(r.URL.Query(), s.cfg.DefaultVersion)
	if err != nil {
		respondParamError(w, err)
		return
	}
	out := s.store.CanonicalBooks(version)
	respondList(w, out, len(out))
}

func (s *Server) handleBookName(w http.ResponseWriter, r *http.Request) {
	version, book, err := s.versionAndBook(r.URL.Query())
	if err != nil {
		respondParamError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{
		"book":    book,
		"version": version,
		"name":    s.store.LocalizedBookName(book, version),
	})
}

func (s *Server) handleChapters(w http.ResponseWriter, r *http.Request) {
	version, book, err := s.versionAndBook(r.URL.Query())
	if err != nil {
		respondParamError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"book":     book,
		"version":  version,
		"chapters": s.store.ChapterCount(book, version),
	})
}

func (s *Server) handleVerses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	version, book, err := s.versionAndBook(q)
	if err != nil {
		respondParamError(w, err)
		return
	}
	chapter, err := positiveIntParam(q, "chapter")
	if err != nil {
		respondParamError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"book":    book,
		"chapter": chapter,
		"version": version,
		"verses":  s.store.VerseCount(book, chapter, version),
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.loader == nil {
		respondError(w, http.StatusServiceUnavailable, "RELOAD_UNAVAILABLE", "No loader configured")
		return
	}
	logging.InfoContext(r.Context(), "reload requested", "remote_addr", r.RemoteAddr)
	report, err := s.loader.Load(r.Context())
	if err != nil {
		logging.WarnContext(r.Context(), "reload failed", "error", err)
		respondError(w, http.StatusInternalServerError, "RELOAD_FAILED", err.Error())
		return
	}
	respond(w, http.StatusOK, report)
}

func (s *Server) versionAndBook(q url.Values) (string, string, error) {
	version, err := versionParam(q, s.cfg.DefaultVersion)
	if err != nil {
		return "", "", err
	}
	book, err := bookParam(q)
	if err != nil {
		return "", "", err
	}
	return version, book, nil
}

func respond(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, APIResponse{
		Success: true,
		Data:    data,
		Meta:    &APIMeta{Timestamp: time.Now().UTC().Format(time.RFC3339)},
	})
}

func respondList(w http.ResponseWriter, data any, total int) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			Total:     total,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
		Meta:    &APIMeta{Timestamp: time.Now().UTC().Format(time.RFC3339)},
	})
}

func respondParamError(w http.ResponseWriter, err error) {
	var perr *paramError
	if errors.As(err, &perr) {
		code := "INVALID_PARAMETER"
		if perr.Message == "is required" {
			code = "MISSING_PARAMETER"
		}
		respondError(w, http.StatusBadRequest, code, perr.Error())
		return
	}
	respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Debug("response write failed", "error", err)
	}
}
