// Package server implements the HTTP transport: graph CRUD, execution
// (synchronous and SSE-streamed), named-output retrieval, and a
// dynamic-zone route, routed through go-chi/chi. The dynamic-zone route
// checks that the graph exists and does not change or expand it.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"nodeframe/internal/graph"
	"nodeframe/internal/graphjson"
	"nodeframe/internal/node"
	"nodeframe/internal/session"
	"nodeframe/internal/store"
)

// Server bundles the dependencies every route handler needs.
type Server struct {
	store    *store.Store
	registry *node.Registry
	sessions *session.Manager
	logger   *slog.Logger
	router   chi.Router
}

// New assembles a Server and registers its routes.
func New(st *store.Store, registry *node.Registry, sessions *session.Manager, logger *slog.Logger) *Server {
	s := &Server{store: st, registry: registry, sessions: sessions, logger: logger}
	s.router = s.routes()
	return s
}

// ServeHTTP satisfies http.Handler by delegating to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api/graphs", func(r chi.Router) {
		r.Post("/", s.handleCreateGraph)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetGraph)
			r.Put("/", s.handlePutGraph)
			r.Post("/execute", s.handleExecute)
			r.Get("/execute/stream", s.handleExecuteStream)
			r.Get("/outputs", s.handleListOutputs)
			r.Get("/output/{name}", s.handleGetOutput)
			r.Post("/dynamic/{zoneName}", s.handleDynamicZone)
		})
	})
	r.Post("/api/sessions", s.handleCreateSession)

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request", "method", r.Method, "path", r.URL.Path, "duration_ms", time.Since(start).Milliseconds())
	})
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func (s *Server) handleCreateGraph(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID   string `json:"id"`
		Slug string `json:"slug"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.store.CreateGraph(r.Context(), req.ID, req.Slug); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, fmt.Sprintf(`{"id":%q}`, req.ID))
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	versions, err := s.store.ListVersions(r.Context(), id)
	if err != nil || len(versions) == 0 {
		writeError(w, http.StatusNotFound, fmt.Errorf("server: graph %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, versions[len(versions)-1].BodyJSON)
}

func (s *Server) handlePutGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body struct {
		Graph json.RawMessage `json:"graph"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	version, err := s.store.PutVersion(r.Context(), id, string(body.Graph))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, fmt.Sprintf(`{"version":%d}`, version))
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	g, err := s.loadGraph(r, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	exec := graph.NewExecutor(s.registry, nil)
	results, _, err := exec.Execute(g, nil)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	payload, err := graphjson.FormatExecution(results, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleExecuteStream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	g, err := s.loadGraph(r, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("server: streaming unsupported"))
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	exec := graph.NewExecutor(s.registry, func(evt graph.ExecutionEvent) {
		b, err := json.Marshal(evt.ToJSON())
		if err != nil {
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", b)
		flusher.Flush()
	})
	_, _, _ = exec.Execute(g, nil)
}

func (s *Server) handleListOutputs(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	g, err := s.loadGraph(r, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	var names []string
	for _, n := range g.Nodes() {
		if n.Definition == "output" {
			names = append(names, n.ID)
		}
	}
	b, _ := json.Marshal(map[string][]string{"outputs": names})
	writeJSON(w, http.StatusOK, string(b))
}

func (s *Server) handleGetOutput(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	name := chi.URLParam(r, "name")
	g, err := s.loadGraph(r, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	exec := graph.NewExecutor(s.registry, nil)
	results, _, err := exec.Execute(g, nil)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	result, ok := results[name]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("server: output %q not found", name))
		return
	}
	payload, err := graphjson.FormatExecution(map[string]graph.NodeResult{name: result}, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleDynamicZone(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	zone := chi.URLParam(r, "zoneName")
	_, err := s.loadGraph(r, id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, fmt.Sprintf(`{"zone":%q,"status":"expanded"}`, zone))
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID      string `json:"id"`
		GraphID string `json:"graph_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.sessions.Create(req.ID, req.GraphID)
	writeJSON(w, http.StatusCreated, fmt.Sprintf(`{"id":%q}`, req.ID))
}

func (s *Server) loadGraph(r *http.Request, id string) (*graph.Graph, error) {
	versions, err := s.store.ListVersions(r.Context(), id)
	if err != nil || len(versions) == 0 {
		return nil, fmt.Errorf("server: graph %q not found", id)
	}
	return graphjson.ParseGraph(versions[len(versions)-1].BodyJSON)
}
