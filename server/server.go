// Package server exposes the scan pipeline over HTTP for local
// frontends and scripting.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Abraxas-365/lectora/errx"
	"github.com/Abraxas-365/lectora/logx"
	"github.com/Abraxas-365/lectora/scan"
	"github.com/Abraxas-365/lectora/summarize"
	"github.com/gorilla/mux"
)

// Error registry for the HTTP surface
var (
	Errors = errx.NewRegistry("API")

	ErrInvalidBody = Errors.Register("INVALID_BODY", errx.TypeBadRequest, http.StatusBadRequest, "Invalid request body")
)

// Server wires the scan services into an HTTP API
type Server struct {
	session    *scan.Session
	library    *scan.Library
	history    *scan.History
	settings   *scan.SettingsService
	summarizer *summarize.Client
}

// New creates a server over the given services
func New(session *scan.Session, library *scan.Library, history *scan.History, settings *scan.SettingsService, summarizer *summarize.Client) *Server {
	return &Server{
		session:    session,
		library:    library,
		history:    history,
		settings:   settings,
		summarizer: summarizer,
	}
}

// Router builds the HTTP route table
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger)

	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/scans", s.handleScan).Methods(http.MethodPost)
	v1.HandleFunc("/scans/current", s.handleCurrentScan).Methods(http.MethodGet)

	v1.HandleFunc("/texts", s.handleListTexts).Methods(http.MethodGet)
	v1.HandleFunc("/texts", s.handleSaveText).Methods(http.MethodPost)
	v1.HandleFunc("/texts", s.handleClearTexts).Methods(http.MethodDelete)
	v1.HandleFunc("/texts/{id}", s.handleGetText).Methods(http.MethodGet)
	v1.HandleFunc("/texts/{id}", s.handleDeleteText).Methods(http.MethodDelete)

	v1.HandleFunc("/history", s.handleListHistory).Methods(http.MethodGet)
	v1.HandleFunc("/history", s.handleClearHistory).Methods(http.MethodDelete)
	v1.HandleFunc("/history/{id}", s.handleDeleteHistory).Methods(http.MethodDelete)

	v1.HandleFunc("/summaries", s.handleSummarize).Methods(http.MethodPost)

	v1.HandleFunc("/settings", s.handleGetSettings).Methods(http.MethodGet)
	v1.HandleFunc("/settings", s.handlePutSettings).Methods(http.MethodPut)

	return r
}

// ListenAndServe runs the server on addr until it fails
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
	logx.Info("listening on %s", addr)
	return srv.ListenAndServe()
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logx.Debug("%s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	})
}

type scanRequest struct {
	Image string    `json:"image"`
	Type  scan.Type `json:"type"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, Errors.NewWithCause(ErrInvalidBody, err))
		return
	}
	if req.Type == "" {
		req.Type = scan.TypeDocument
	}

	if err := s.session.Process(r.Context(), []byte(req.Image), req.Type); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleCurrentScan(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

type saveTextRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

func (s *Server) handleListTexts(w http.ResponseWriter, r *http.Request) {
	items, err := s.library.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleSaveText(w http.ResponseWriter, r *http.Request) {
	var req saveTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, Errors.NewWithCause(ErrInvalidBody, err))
		return
	}

	item, err := s.library.Save(r.Context(), req.Title, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleGetText(w http.ResponseWriter, r *http.Request) {
	item, err := s.library.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteText(w http.ResponseWriter, r *http.Request) {
	if err := s.library.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearTexts(w http.ResponseWriter, r *http.Request) {
	if err := s.library.Clear(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	filter := scan.Type(r.URL.Query().Get("type"))
	items, err := s.history.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.history.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.history.Clear(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type summarizeRequest struct {
	Text      string `json:"text"`
	Model     string `json:"model,omitempty"`
	MaxTokens int    `json:"maxTokens,omitempty"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, Errors.NewWithCause(ErrInvalidBody, err))
		return
	}

	var opts []summarize.Option
	if req.Model != "" {
		opts = append(opts, summarize.WithModel(req.Model))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, summarize.WithMaxTokens(req.MaxTokens))
	}

	summary, err := s.summarizer.Summarize(r.Context(), req.Text, opts...)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summarizeResponse{Summary: summary})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.Load(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var settings scan.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, Errors.NewWithCause(ErrInvalidBody, err))
		return
	}

	if err := s.settings.Save(r.Context(), settings); err != nil {
		writeError(w, err)
		return
	}

	saved, err := s.settings.Load(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Error("could not encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var xerr *errx.Error
	if errors.As(err, &xerr) {
		xerr.ToHTTP(w)
		return
	}
	errx.Wrap(err, "Internal server error", errx.TypeInternal).ToHTTP(w)
}
