// Package statisticstest provides an in-memory statistics backend for tests.
package statisticstest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	"github.com/samvad-hq/crawlstats/pkg/statistics"
)

// RecordedRequest is a request the server received.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
}

// Server serves /statistics and /statistics/all from in-memory websites and tasks.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	websites map[string]string
	tasks    []statistics.Task
	requests []RecordedRequest
}

// NewServer starts a server. Callers must Close it.
func NewServer() *Server {
	s := &Server{websites: make(map[string]string)}
	mux := http.NewServeMux()
	mux.HandleFunc(statistics.PathStatistics, s.handleWebsite)
	mux.HandleFunc(statistics.PathAllStatistics, s.handleAll)
	s.Server = httptest.NewServer(s.record(mux))
	return s
}

// AddWebsite registers a website.
func (s *Server) AddWebsite(id, name string) {
	s.mu.Lock()
	s.websites[id] = name
	s.mu.Unlock()
}

// AddTasks appends crawl tasks.
func (s *Server) AddTasks(tasks ...statistics.Task) {
	s.mu.Lock()
	s.tasks = append(s.tasks, tasks...)
	s.mu.Unlock()
}

// Requests returns the requests received so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleWebsite(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	q := r.URL.Query()
	id := q.Get(statistics.ParamWebsiteID)
	if id == "" {
		writeError(w, http.StatusBadRequest, "website_id is required")
		return
	}

	s.mu.Lock()
	name, ok := s.websites[id]
	var tasks []statistics.Task
	for _, t := range s.tasks {
		if t.WebsiteID == id {
			tasks = append(tasks, t)
		}
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "website not found")
		return
	}

	from, to := q.Get(statistics.ParamDateFrom), q.Get(statistics.ParamDateTo)
	summary, err := statistics.Summarize(tasks, from, to)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"website": statistics.Website{ID: id, Name: name},
			"period":  period(from, to),
			"summary": summary,
		},
	})
}

func (s *Server) handleAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	q := r.URL.Query()

	s.mu.Lock()
	tasks := make([]statistics.Task, len(s.tasks))
	copy(tasks, s.tasks)
	s.mu.Unlock()

	from, to := q.Get(statistics.ParamDateFrom), q.Get(statistics.ParamDateTo)
	summary, err := statistics.Summarize(tasks, from, to)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"period":  period(from, to),
			"summary": summary,
		},
	})
}

// period echoes the requested bounds, null when absent.
func period(from, to string) map[string]any {
	out := map[string]any{"from": nil, "to": nil}
	if from != "" {
		out["from"] = from
	}
	if to != "" {
		out["to"] = to
	}
	return out
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "message": msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
