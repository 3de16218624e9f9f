// Package api exposes the controller over HTTP. It is a thin adapter:
// parameter validation and JSON shaping only, no extraction logic.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/pranjalweb/filmveer/internal/controller"
)

const (
	maxPage         = 1000
	maxPageSize     = 50
	defaultPageSize = 20
)

var (
	idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

	// allowedLanguages is the fixed enum accepted for the lang parameter.
	allowedLanguages = map[string]bool{
		"": true, "hindi": true, "english": true, "japanese": true,
		"tamil": true, "telugu": true, "original": true,
	}
)

// Server wires the JSON API onto an HTTP mux.
type Server struct {
	controller *controller.Controller
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer creates the API server around a controller.
func NewServer(ctrl *controller.Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		controller: ctrl,
		mux:        http.NewServeMux(),
		logger:     logger,
	}
	s.routes()
	return s
}

// ServeHTTP satisfies http.Handler, applying the request-ID and access-log
// middleware to every route.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	w.Header().Set("X-Request-ID", requestID)

	start := time.Now()
	s.mux.ServeHTTP(w, r)
	s.logger.Debug("request",
		"id", requestID,
		"method", r.Method,
		"path", r.URL.Path,
		"duration", time.Since(start),
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/home", s.handleHome)
	s.mux.HandleFunc("GET /api/info/{id}", s.handleInfo)
	s.mux.HandleFunc("GET /api/episodes/{id}", s.handleEpisodes)
	s.mux.HandleFunc("GET /api/stream/{episodeId}", s.handleStream)
	s.mux.HandleFunc("GET /api/movies", s.handleMovies)
	s.mux.HandleFunc("GET /api/search", s.handleSearch)
	s.mux.HandleFunc("GET /api/genre/{genre}", s.handleGenre)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /stats", s.handleStats)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, s.controller.GetHome(r.Context()))
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !idPattern.MatchString(id) {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	writeResponse(w, s.controller.GetInfo(r.Context(), id))
}

func (s *Server) handleEpisodes(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !idPattern.MatchString(id) {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	writeResponse(w, s.controller.GetEpisodes(r.Context(), id))
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	episodeID := r.PathValue("episodeId")
	if !idPattern.MatchString(episodeID) {
		writeError(w, http.StatusBadRequest, "invalid episode id")
		return
	}
	language := r.URL.Query().Get("lang")
	if !allowedLanguages[language] {
		writeError(w, http.StatusBadRequest, "invalid lang")
		return
	}
	writeResponse(w, s.controller.GetStream(r.Context(), episodeID, language))
}

func (s *Server) handleMovies(w http.ResponseWriter, r *http.Request) {
	page, size, ok := listingParams(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid page or size")
		return
	}
	writeResponse(w, s.controller.GetMovies(r.Context(), page, size))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing query")
		return
	}
	page, size, ok := listingParams(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid page or size")
		return
	}
	writeResponse(w, s.controller.Search(r.Context(), query, page, size))
}

func (s *Server) handleGenre(w http.ResponseWriter, r *http.Request) {
	genre := r.PathValue("genre")
	if !idPattern.MatchString(genre) {
		writeError(w, http.StatusBadRequest, "invalid genre")
		return
	}
	page, size, ok := listingParams(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid page or size")
		return
	}
	writeResponse(w, s.controller.GetGenre(r.Context(), genre, page, size))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, uptime := s.controller.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"uptime":         uptime.Round(time.Second).String(),
		"started":        humanize.Time(time.Now().Add(-uptime)),
		"cacheEntries":   stats.Entries,
		"cacheHits":      humanize.Comma(int64(stats.Hits)),
		"cacheMisses":    humanize.Comma(int64(stats.Misses)),
		"cacheEvictions": humanize.Comma(int64(stats.Evictions)),
	})
}

// listingParams parses and bounds the page and size query parameters.
func listingParams(r *http.Request) (page, size int, ok bool) {
	page, size = 1, defaultPageSize

	if raw := r.URL.Query().Get("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 || p > maxPage {
			return 0, 0, false
		}
		page = p
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxPageSize {
			return 0, 0, false
		}
		size = n
	}
	return page, size, true
}

func writeResponse(w http.ResponseWriter, resp controller.Response) {
	status := http.StatusOK
	if !resp.Success {
		if resp.Retryable {
			status = http.StatusServiceUnavailable
		} else {
			status = http.StatusBadGateway
		}
	}
	writeJSON(w, status, resp)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, controller.Response{Success: false, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
