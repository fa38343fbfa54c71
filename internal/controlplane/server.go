package controlplane

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/daniswara/board/internal/board"
	"github.com/daniswara/board/internal/models"
	"github.com/daniswara/board/internal/store"
	"github.com/daniswara/board/internal/timeline"
)

// Version is reported by the health endpoint.
var Version = "dev"

// HolidaySyncer refreshes the stored holiday calendar.
type HolidaySyncer interface {
	RunOnce(ctx context.Context) (int, error)
}

// Server provides the HTTP API for the board.
type Server struct {
	service *Service
	boards  *board.Service
	store   *store.Store
	syncer  HolidaySyncer
	addr    string
	server  *http.Server
}

// NewServer creates a new HTTP server.
func NewServer(service *Service, boards *board.Service, st *store.Store, addr string) *Server {
	return &Server{
		service: service,
		boards:  boards,
		store:   st,
		addr:    addr,
	}
}

// SetHolidaySyncer enables POST /holidays/sync.
func (s *Server) SetHolidaySyncer(h HolidaySyncer) {
	s.syncer = h
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Project and task endpoints
	mux.HandleFunc("/projects", s.handleProjects)
	mux.HandleFunc("/tasks", s.handleTasks)
	mux.HandleFunc("/tasks/", s.handleTaskByID)

	// Holiday endpoints
	mux.HandleFunc("/holidays", s.handleHolidays)
	mux.HandleFunc("/holidays/sync", s.handleHolidaySync)

	// Board endpoints
	mux.HandleFunc("/board", s.handleBoard)
	mux.HandleFunc("/board/gantt.svg", s.handleBoardSVG)
	mux.HandleFunc("/board/click", s.handleBoardClick)
	mux.HandleFunc("/board/jump", s.handleBoardJump)
	mux.HandleFunc("/board/stats", s.handleBoardStats)
	mux.HandleFunc("/board/width", s.handleBoardWidth)

	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("[server] listening on %s", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	DB      string `json:"db"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		OK:      true,
		DB:      "ok",
		Version: Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK
	if err := s.store.Ping(ctx); err != nil {
		resp.OK = false
		resp.DB = err.Error()
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// --- Project Handlers ---

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req CreateProjectInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		p, err := s.service.CreateProject(req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	case http.MethodGet:
		projects, err := s.service.ListProjects()
		if err != nil {
			writeError(w, err)
			return
		}
		if projects == nil {
			projects = []models.Project{}
		}
		writeJSON(w, http.StatusOK, projects)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// --- Task Handlers ---

// handleTasks handles POST /tasks and GET /tasks
func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req CreateTaskInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		task, err := s.service.CreateTask(req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, task)
	case http.MethodGet:
		tasks, err := s.service.ListTasks()
		if err != nil {
			writeError(w, err)
			return
		}
		q := r.URL.Query()
		tasks = board.Filter{
			Division:      q.Get("division"),
			ShowCompleted: q.Get("completed") != "false",
		}.Apply(tasks)
		if tasks == nil {
			tasks = []models.Task{}
		}
		writeJSON(w, http.StatusOK, tasks)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleTaskByID handles /tasks/{id}/*
func (s *Server) handleTaskByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/tasks/")
	parts := strings.Split(path, "/")

	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "task id required", http.StatusBadRequest)
		return
	}

	taskID := parts[0]
	action := ""
	if len(parts) > 1 {
		action = parts[1]
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		task, err := s.service.GetTask(taskID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, task)
	case action == "" && r.Method == http.MethodDelete:
		if err := s.service.DeleteTask(taskID); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case action == "complete" && r.Method == http.MethodPost:
		s.completeTask(w, r, taskID)
	case action == "status" && r.Method == http.MethodPost:
		s.setTaskStatus(w, r, taskID)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

type completeRequest struct {
	Completed *bool `json:"completed"`
}

func (s *Server) completeTask(w http.ResponseWriter, r *http.Request, taskID string) {
	var req completeRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
	}
	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	}

	task, err := s.service.SetCompleted(taskID, completed)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) setTaskStatus(w http.ResponseWriter, r *http.Request, taskID string) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	task, err := s.service.SetStatus(taskID, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// --- Holiday Handlers ---

func (s *Server) handleHolidays(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	list, err := s.service.ListHolidays()
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []models.Holiday{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleHolidaySync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.syncer == nil {
		http.Error(w, "holiday sync not configured", http.StatusServiceUnavailable)
		return
	}
	n, err := s.syncer.RunOnce(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"synced": n})
}

// --- Board Handlers ---

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q, err := ParseQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	v, err := s.boards.Board(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleBoardSVG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q, err := ParseQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := s.boards.RenderSVG(r.Context(), q, w); err != nil {
		log.Printf("[server] render svg: %v", err)
		writeError(w, err)
	}
}

func (s *Server) handleBoardClick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q, err := ParseQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if errX != nil || errY != nil {
		http.Error(w, "x and y are required", http.StatusBadRequest)
		return
	}

	res, err := s.boards.Click(r.Context(), q, x, y)
	if err != nil {
		writeError(w, err)
		return
	}
	if res == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleBoardJump(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q, err := ParseQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ref := r.URL.Query().Get("task")
	if ref == "" {
		http.Error(w, "task is required", http.StatusBadRequest)
		return
	}

	res, err := s.boards.Jump(r.Context(), q, ref)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleBoardStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	st, err := s.boards.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type widthRequest struct {
	Width float64 `json:"width"`
}

func (s *Server) handleBoardWidth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req widthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	s.boards.ObserveWidth(req.Width)
	w.WriteHeader(http.StatusNoContent)
}

// ParseQuery reads board options from the URL: anchor (YYYY-MM or
// YYYY-MM-DD), density, width, division, completed and highlight.
func ParseQuery(r *http.Request) (board.Query, error) {
	v := r.URL.Query()
	var q board.Query

	if a := v.Get("anchor"); a != "" {
		if len(a) == len("2006-01") {
			a += "-01"
		}
		d, ok := timeline.ParseDay(a)
		if !ok {
			return q, fmt.Errorf("invalid anchor %q", v.Get("anchor"))
		}
		q.Anchor = d
	}
	if d := v.Get("density"); d != "" {
		density, err := timeline.ParseDensity(d)
		if err != nil {
			return q, err
		}
		q.Density = density
	}
	if ws := v.Get("width"); ws != "" {
		width, err := strconv.ParseFloat(ws, 64)
		if err != nil || width < 0 {
			return q, fmt.Errorf("invalid width %q", ws)
		}
		q.Width = width
	}
	q.Filter = board.Filter{
		Division:      v.Get("division"),
		ShowCompleted: v.Get("completed") == "true",
	}
	q.Highlight = v.Get("highlight")
	return q, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrTaskNotFound), errors.Is(err, ErrProjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidDivision):
		status = http.StatusBadRequest
	case errors.Is(err, board.ErrNoStartDate):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled):
		status = 499
	}
	http.Error(w, err.Error(), status)
}
