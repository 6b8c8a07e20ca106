// Package server exposes the disambiguator over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"disambig/internal/cbr"
	"disambig/internal/corpus"
	"disambig/internal/corrector"
	"disambig/internal/window"
)

// Corpus is where new training windows are recorded.
type Corpus interface {
	Append(ctx context.Context, examples ...window.Example) (int64, error)
	Load(ctx context.Context) ([]window.Example, error)
}

// Server answers classification, correction and corpus requests for one
// confusable pair.
type Server struct {
	mu     sync.RWMutex
	sc     *corrector.SpellCorrector
	cfg    corrector.CorrectorConfig
	corpus Corpus
	logger *slog.Logger
}

// New serves sc. corpus may be nil, in which case the examples and reload
// endpoints answer 503.
func New(cfg corrector.CorrectorConfig, sc *corrector.SpellCorrector, c Corpus, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{sc: sc, cfg: cfg, corpus: c, logger: logger}
}

func (s *Server) corrector() *corrector.SpellCorrector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sc
}

// Handler routes the /api/v1 endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/classify", s.handleClassify)
	mux.HandleFunc("/api/v1/correct", s.handleCorrect)
	mux.HandleFunc("/api/v1/examples", s.handleExamples)
	mux.HandleFunc("/api/v1/reload", s.handleReload)
	return mux
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req struct {
		Window string `json:"window"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Window) == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	query, err := corpus.ParseLine(req.Window, true)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	votes, err := s.corrector().Classify(query)
	if errors.Is(err, cbr.ErrUnknownCenterWord) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, votes)
}

func (s *Server) handleCorrect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req struct {
		Tokens []window.Word `json:"tokens"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Tokens) == 0 {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	res, err := s.corrector().CorrectTokens(req.Tokens)
	if errors.Is(err, cbr.ErrUnknownCenterWord) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleExamples stores labelled records ("+ <window>" or "- <window>").
func (s *Server) handleExamples(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if s.corpus == nil {
		writeError(w, http.StatusServiceUnavailable, "no corpus configured")
		return
	}
	var req struct {
		Lines []string `json:"lines"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Lines) == 0 {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	examples := make([]window.Example, 0, len(req.Lines))
	for _, line := range req.Lines {
		ex, err := corpus.ParseRecord(line)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		examples = append(examples, ex)
	}
	total, err := s.corpus.Append(r.Context(), examples...)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"status": "ok", "added": len(examples), "total": total})
}

// handleReload retrains every engine on the current corpus.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if s.corpus == nil {
		writeError(w, http.StatusServiceUnavailable, "no corpus configured")
		return
	}
	n, err := s.Reload(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "examples": n})
}

// Reload rebuilds the corrector from the corpus. On failure the running
// corrector is kept.
func (s *Server) Reload(ctx context.Context) (int, error) {
	if s.corpus == nil {
		return 0, errors.New("no corpus configured")
	}
	examples, err := s.corpus.Load(ctx)
	if err != nil {
		return 0, err
	}
	sc, err := corrector.NewSpellCorrector(s.cfg, examples, s.logger)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	s.sc = sc
	s.mu.Unlock()
	s.logger.Info("corrector reloaded", "examples", len(examples))
	return len(examples), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
