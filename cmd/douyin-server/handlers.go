package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	douyin "github.com/RavensCloud/douyin-gofun"
)

// resolver is the slice of the extractor the handlers use; tests swap in
// fakes.
type resolver interface {
	GetMedia(ctx context.Context, url string) (*douyin.ExtractionResult, error)
	GetUserWorks(ctx context.Context, url string, maxWorks int, cookieSource string) (*douyin.UserWorksResult, error)
}

type server struct {
	resolver resolver
	log      zerolog.Logger
}

// envelope is the response wrapper both endpoints use: code 0 on success,
// the HTTP status on failure, data null on failure.
type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func newRouter(s *server, requestTimeout time.Duration) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CleanPath)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health", s.handleHealth)
	r.Get("/media", s.handleMedia)
	r.Get("/user/works", s.handleUserWorks)
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMedia resolves a single content URL.
// GET /media?url=<douyin_url>
func (s *server) handleMedia(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "url parameter is required")
		return
	}
	if !strings.HasPrefix(url, "http") {
		writeError(w, http.StatusBadRequest, "Invalid URL format, must start with http/https")
		return
	}

	start := time.Now()
	result, err := s.resolver.GetMedia(r.Context(), url)
	if err != nil {
		s.log.Error().Err(err).Str("url", url).Dur("elapsed", time.Since(start)).Msg("media extraction failed")
		writeError(w, http.StatusInternalServerError, "Extraction failed: "+err.Error())
		return
	}

	s.log.Info().Str("url", url).Str("type", result.Type).
		Int("items", len(result.Items)).Dur("elapsed", time.Since(start)).Msg("media extracted")
	writeSuccess(w, result)
}

// handleUserWorks lists the works of a user profile.
// GET /user/works?url=<profile_url>&max=<n>&cookie=<source>
func (s *server) handleUserWorks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	url := q.Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "url parameter is required")
		return
	}
	if !strings.HasPrefix(url, "http") {
		writeError(w, http.StatusBadRequest, "Invalid URL format, must start with http/https")
		return
	}
	if !strings.Contains(url, "/user/") {
		writeError(w, http.StatusBadRequest, "URL must be a Douyin user profile URL containing /user/")
		return
	}

	maxWorks := 0
	if raw := q.Get("max"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "max must be a non-negative integer")
			return
		}
		maxWorks = n
	}

	start := time.Now()
	result, err := s.resolver.GetUserWorks(r.Context(), url, maxWorks, q.Get("cookie"))
	if err != nil {
		s.log.Error().Err(err).Str("url", url).Dur("elapsed", time.Since(start)).Msg("user works extraction failed")
		writeError(w, http.StatusInternalServerError, "Extraction failed: "+err.Error())
		return
	}

	s.log.Info().Str("url", url).Int("works", result.WorksCount).
		Dur("elapsed", time.Since(start)).Msg("user works extracted")
	writeSuccess(w, result)
}

func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Code: 0, Message: "success", Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Code: status, Message: message, Data: nil})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
