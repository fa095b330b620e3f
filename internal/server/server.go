// Package server exposes the planner as a long-lived HTTP service
// accepting incremental task updates.
//
// Every mutation goes through the task store's exclusive lock and triggers
// a full graph rebuild; plan reads always compute from a committed
// snapshot, so clients never observe a partial view. Graceful shutdown
// drains connections before the process exits.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/felixgeelhaar/laneplan/internal/batch"
	"github.com/felixgeelhaar/laneplan/internal/domain"
	"github.com/felixgeelhaar/laneplan/internal/graph"
	"github.com/felixgeelhaar/laneplan/internal/lane"
	"github.com/felixgeelhaar/laneplan/internal/log"
	"github.com/felixgeelhaar/laneplan/internal/task"
)

// Server provides the planner HTTP API with health endpoints.
type Server struct {
	httpServer      *http.Server
	store           *task.Store
	logger          *log.Logger
	inShutdown      atomic.Bool
	shutdownTimeout time.Duration
}

// Config holds server configuration.
type Config struct {
	// Address is the listen address (e.g., ":8080", "0.0.0.0:8080")
	Address string

	// ShutdownTimeout is the maximum time to wait for connections to drain during shutdown.
	// Defaults to 30 seconds if not specified.
	ShutdownTimeout time.Duration

	// ReadTimeout is the maximum duration for reading the entire request.
	// Defaults to 10 seconds if not specified.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the response.
	// Defaults to 10 seconds if not specified.
	WriteTimeout time.Duration

	// IdleTimeout is the maximum amount of time to wait for the next request.
	// Defaults to 60 seconds if not specified.
	IdleTimeout time.Duration
}

// NewServer creates a planner server over a task store.
func NewServer(store *task.Store, logger *log.Logger, cfg Config) *Server {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 60 * time.Second
	}
	if logger == nil {
		logger = log.DefaultLogger()
	}

	s := &Server{
		store:           store,
		logger:          logger,
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /plan", s.handlePlan)
	mux.HandleFunc("GET /graph", s.handleGraph)
	mux.HandleFunc("PUT /tasks/{id}", s.handleUpsertTask)
	mux.HandleFunc("DELETE /tasks/{id}", s.handleRemoveTask)
	mux.HandleFunc("POST /tasks/{id}/status", s.handleTransition)

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Start starts the HTTP server.
// This is a blocking call that returns when the server is stopped or encounters an error.
// Returns http.ErrServerClosed when the server is shut down gracefully.
func (s *Server) Start() error {
	s.logger.Info("server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown performs graceful shutdown: readiness starts failing, keep-alives
// are disabled, and existing connections drain up to ShutdownTimeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.inShutdown.Store(true)
	s.httpServer.SetKeepAlivesEnabled(false)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}

// IsShuttingDown returns whether the server is shutting down.
func (s *Server) IsShuttingDown() bool {
	return s.inShutdown.Load()
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// handleHealthz reports readiness: 200 while serving, 503 once shutdown begins.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if s.IsShuttingDown() {
		status = "shutting_down"
		code = http.StatusServiceUnavailable
	}
	s.writeJSON(w, code, map[string]string{"status": status})
}

// planResponse is the payload of GET /plan
type planResponse struct {
	CriticalPath []domain.TaskID `json:"critical_path"`
	TotalDays    float64         `json:"total_days"`
	Lanes        []lane.Lane     `json:"lanes"`
	Batches      []batch.Batch   `json:"batches"`
}

// handlePlan computes lanes and batches over the committed snapshot.
// Optional query parameters: max_lanes, batch_size (default 5).
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	maxLanes, err := intQuery(r, "max_lanes", 0)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	batchSize, err := intQuery(r, "batch_size", 5)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	snapshot := s.store.Snapshot()
	if snapshot.Len() == 0 {
		s.writeJSON(w, http.StatusOK, planResponse{})
		return
	}

	g, err := graph.Build(snapshot)
	if err != nil {
		// The store never commits an unbuildable set; reaching this means a bug.
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	lanes := lane.Plan(g, lane.Options{MaxLanes: maxLanes})
	batches, err := batch.Group(g, batchSize)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	path, days := g.CriticalPath()
	s.writeJSON(w, http.StatusOK, planResponse{
		CriticalPath: path,
		TotalDays:    days,
		Lanes:        lanes,
		Batches:      batches,
	})
}

// graphTask is one entry in the payload of GET /graph
type graphTask struct {
	task.Task
	Unblocks []domain.TaskID `json:"unblocks,omitempty"`
	Blocked  bool            `json:"blocked"`
}

// handleGraph returns every task with its resolved edges and the derived
// blocked view.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	snapshot := s.store.Snapshot()
	if snapshot.Len() == 0 {
		s.writeJSON(w, http.StatusOK, []graphTask{})
		return
	}

	g, err := graph.Build(snapshot)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	blocked := make(map[domain.TaskID]bool)
	for _, id := range s.store.BlockedTasks() {
		blocked[id] = true
	}

	out := make([]graphTask, 0, g.Len())
	for _, t := range g.Tasks() {
		out = append(out, graphTask{
			Task:     t,
			Unblocks: g.UnblocksOf(t.ID),
			Blocked:  blocked[t.ID],
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleUpsertTask adds or replaces a task. The update is rejected with
// 422 when the resulting graph would contain a cycle or unknown
// dependency; the committed set is left untouched.
func (s *Server) handleUpsertTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathTaskID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	var t task.Task
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode task: %w", err))
		return
	}
	if t.ID == "" {
		t.ID = id
	}
	if t.ID != id {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("task ID %q does not match URL id %q", t.ID, id))
		return
	}
	if t.Status == "" {
		t.Status = domain.StatusPending
	}

	if err := s.store.Upsert(t); err != nil {
		s.writeError(w, statusForGraphError(err), err)
		return
	}

	s.logger.Info("task upserted", "task_id", t.ID.String())
	s.writeJSON(w, http.StatusOK, t)
}

// handleRemoveTask deletes a task unless another task depends on it.
func (s *Server) handleRemoveTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathTaskID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.store.Remove(id); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	s.logger.Info("task removed", "task_id", id.String())
	w.WriteHeader(http.StatusNoContent)
}

// transitionRequest is the body of POST /tasks/{id}/status
type transitionRequest struct {
	Status string `json:"status"`
}

// handleTransition applies a status change through the state machine.
func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	id, err := pathTaskID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode status: %w", err))
		return
	}

	status, err := domain.NewStatus(req.Status)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.store.Transition(id, status); err != nil {
		s.writeError(w, http.StatusConflict, err)
		return
	}

	s.logger.Info("task transitioned", "task_id", id.String(), "status", status.String())
	w.WriteHeader(http.StatusNoContent)
}

func pathTaskID(r *http.Request) (domain.TaskID, error) {
	return domain.NewTaskID(r.PathValue("id"))
}

func intQuery(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query parameter %s: %w", key, err)
	}
	return v, nil
}

func statusForGraphError(err error) int {
	var cycleErr *graph.CycleError
	var unknownErr *graph.UnknownDependencyError
	if errors.As(err, &cycleErr) || errors.As(err, &unknownErr) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", "error", err.Error())
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, err error) {
	s.writeJSON(w, code, map[string]string{"error": err.Error()})
}
