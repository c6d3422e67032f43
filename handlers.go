package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/apex/log"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"reel/catalog"
	"reel/details"
	"reel/home"
	"reel/search"
)

const (
	requestIDHeader = "X-Request-ID"
	cacheHeader     = "X-Cache"
)

type ctxKey int

const requestIDKey ctxKey = iota

type homeResponse struct {
	Sections []home.Section `json:"sections"`
	Banner   []catalog.Item `json:"banner"`
}

type embedResponse struct {
	URL      string       `json:"url"`
	Kind     catalog.Kind `json:"kind"`
	Season   int          `json:"season,omitempty"`
	Episode  int          `json:"episode,omitempty"`
	Fallback bool         `json:"fallback"`
	Warning  string       `json:"warning,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": Version})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	resp, hit, err := s.cached("home", func() (any, error) {
		h, err := home.Load(r.Context(), s.catalog)
		if err != nil {
			return nil, err
		}
		return homeResponse{Sections: h.Sections, Banner: home.BannerSet(h, s.config.BannerSize)}, nil
	})
	if err != nil {
		logger(r).WithError(err).Error("home load failed")
		writeError(w, http.StatusBadGateway, "Failed to load catalog")
		return
	}
	writeCached(w, hit, resp)
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	cat := catalog.Category(mux.Vars(r)["name"])
	if !cat.Valid() {
		writeError(w, http.StatusNotFound, "Unknown category")
		return
	}

	resp, hit, err := s.cached("category:"+string(cat), func() (any, error) {
		return s.catalog.ListByCategory(r.Context(), cat)
	})
	if err != nil {
		s.fail(w, r, err, log.Fields{"category": string(cat)})
		return
	}
	writeCached(w, hit, resp)
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind, err := catalog.ParseKind(vars["kind"])
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown kind")
		return
	}
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	d, hit, err := s.details(r.Context(), id, kind)
	if err != nil {
		s.fail(w, r, err, log.Fields{"id": id, "kind": string(kind)})
		return
	}
	writeCached(w, hit, d)
}

func (s *Server) handleSeasonDetails(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	season, err := strconv.Atoi(vars["season"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid season")
		return
	}

	key := "season:" + vars["id"] + ":" + vars["season"]
	resp, hit, err := s.cached(key, func() (any, error) {
		return s.catalog.SeasonEpisodes(r.Context(), id, season)
	})
	if err != nil {
		s.fail(w, r, err, log.Fields{"id": id, "season": season})
		return
	}
	writeCached(w, hit, resp)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}

	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) <= search.MinQueryLength {
		writeJSON(w, http.StatusOK, []catalog.Item{})
		return
	}

	results, err := s.catalog.Search(r.Context(), trimmed)
	if err != nil {
		s.fail(w, r, err, log.Fields{"query": trimmed})
		return
	}
	if results == nil {
		results = []catalog.Item{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleMovieEmbed(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	d := &catalog.Details{Item: catalog.Item{ID: id, Kind: catalog.KindMovie}}
	writeJSON(w, http.StatusOK, newEmbedResponse(details.BuildEmbed(s.config.EmbedBaseURL, d, 0, 0)))
}

func (s *Server) handleTVEmbed(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	season, ok := intParam(r, "season", 1)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid season")
		return
	}
	episode, ok := intParam(r, "episode", 1)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid episode")
		return
	}

	d, _, err := s.details(r.Context(), id, catalog.KindSeries)
	if err != nil {
		s.fail(w, r, err, log.Fields{"id": id, "kind": string(catalog.KindSeries)})
		return
	}

	sel := details.NewSelector(d)
	if !sel.SelectSeason(season) {
		writeError(w, http.StatusBadRequest, "Season out of range")
		return
	}
	if !sel.SelectEpisode(episode) {
		writeError(w, http.StatusBadRequest, "Episode out of range")
		return
	}

	e := details.BuildEmbed(s.config.EmbedBaseURL, d, sel.Season, sel.Episode)
	if e.Warning != nil {
		logger(r).WithField("id", id).WithError(e.Warning).Warn("series embed uses catalog id")
	}
	writeJSON(w, http.StatusOK, newEmbedResponse(e))
}

func (s *Server) handleIMDBRating(w http.ResponseWriter, r *http.Request) {
	imdbID := mux.Vars(r)["imdb_id"]
	if !strings.HasPrefix(imdbID, "tt") {
		writeError(w, http.StatusBadRequest, "Invalid IMDb id")
		return
	}

	resp, hit, err := s.cached("imdb:"+imdbID, func() (any, error) {
		return s.ratings.Fetch(r.Context(), imdbID)
	})
	if errors.Is(err, catalog.ErrNoRating) {
		writeError(w, http.StatusNotFound, "Rating not found")
		return
	}
	if err != nil {
		s.fail(w, r, err, log.Fields{"imdb_id": imdbID})
		return
	}
	writeCached(w, hit, resp)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	index := filepath.Join(s.config.AssetsDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		writeError(w, http.StatusNotFound, "No index page")
		return
	}
	http.ServeFile(w, r, index)
}

func (s *Server) details(ctx context.Context, id int, kind catalog.Kind) (*catalog.Details, bool, error) {
	v, hit, err := s.cached("details:"+string(kind)+":"+strconv.Itoa(id), func() (any, error) {
		return s.catalog.GetDetails(ctx, id, kind)
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*catalog.Details), hit, nil
}

// cached returns the stored value for key or calls fetch and stores its
// result. Errors are never cached.
func (s *Server) cached(key string, fetch func() (any, error)) (any, bool, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			return v, true, nil
		}
	}
	v, err := fetch()
	if err != nil {
		return nil, false, err
	}
	if s.cache != nil {
		s.cache.SetDefault(key, v)
	}
	return v, false, nil
}

// fail maps catalog errors onto HTTP statuses.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, fields log.Fields) {
	entry := logger(r).WithFields(fields).WithError(err)

	var se *catalog.StatusError
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		entry.Debug("not found")
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, context.Canceled):
		entry.Debug("client went away")
	case errors.As(err, &se), errors.Is(err, catalog.ErrMalformed):
		entry.Warn("catalog request failed")
		writeError(w, http.StatusBadGateway, "Failed to fetch data")
	default:
		entry.Error("request failed")
		writeError(w, http.StatusBadGateway, "Failed to fetch data")
	}
}

func newEmbedResponse(e details.Embed) embedResponse {
	resp := embedResponse{
		URL:      e.URL,
		Kind:     e.Kind,
		Season:   e.Season,
		Episode:  e.Episode,
		Fallback: e.Fallback,
	}
	if e.Warning != nil {
		resp.Warning = e.Warning.Error()
	}
	return resp
}

func intParam(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func writeCached(w http.ResponseWriter, hit bool, v any) {
	if hit {
		w.Header().Set(cacheHeader, "HIT")
	} else {
		w.Header().Set(cacheHeader, "MISS")
	}
	writeJSON(w, http.StatusOK, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("write response failed")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func logger(r *http.Request) *log.Entry {
	id, _ := r.Context().Value(requestIDKey).(string)
	return log.WithField("request_id", id)
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger(r).WithFields(log.Fields{
			"remote":   r.RemoteAddr,
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}
