package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/circuitview/pkg/circuit"
	"github.com/matzehuels/circuitview/pkg/circuit/synth"
	"github.com/matzehuels/circuitview/pkg/errors"
	"github.com/matzehuels/circuitview/pkg/pipeline"
	"github.com/matzehuels/circuitview/pkg/render"
	"github.com/matzehuels/circuitview/pkg/source"
	"github.com/matzehuels/circuitview/pkg/tooltip"
	"github.com/matzehuels/circuitview/pkg/viewer"
)

// server hosts independent viewer instances over HTTP. Each viewer owns a
// controller with its own lock; the registry is guarded by mu.
type server struct {
	router     *chi.Mux
	runner     *pipeline.Runner
	logger     *log.Logger
	palette    string
	maxViewers int

	mu      sync.RWMutex
	viewers map[uuid.UUID]*session
}

// session is one hosted viewer.
type session struct {
	ctrl    *viewer.Controller
	surface *frameSurface
	created time.Time
}

// frameSurface keeps the last frame the controller drew.
type frameSurface struct {
	mu    sync.Mutex
	frame viewer.Frame
	draws int
}

func (s *frameSurface) Draw(f viewer.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = f
	s.draws++
	return nil
}

func (s *frameSurface) last() (viewer.Frame, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame, s.draws
}

// runnerLoader sends viewer loads through the runner so backend circuits
// are logged to the experiment store.
type runnerLoader struct{ r *pipeline.Runner }

func (l runnerLoader) Load(ctx context.Context, s source.Settings) (source.Result, error) {
	return l.r.Load(ctx, pipeline.Options{Settings: s})
}

func newServer(runner *pipeline.Runner, palette string, maxViewers int, logger *log.Logger) *server {
	s := &server{
		router:     chi.NewRouter(),
		runner:     runner,
		logger:     logger,
		palette:    palette,
		maxViewers: maxViewers,
		viewers:    make(map[uuid.UUID]*session),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/circuit", s.handleCircuit)
	s.router.Get("/render/{format}", s.handleRender)

	s.router.Post("/viewers", s.handleCreateViewer)
	s.router.Route("/viewers/{id}", func(r chi.Router) {
		r.Post("/load", s.handleLoad)
		r.Post("/resize", s.handleResize)
		r.Post("/pointer", s.handlePointer)
		r.Post("/leave", s.handleLeave)
		r.Get("/frame.svg", s.handleFrameSVG)
		r.Delete("/", s.handleDeleteViewer)
	})
}

// logRequests logs each request through the server logger.
func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// closeAll releases every hosted viewer.
func (s *server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, v := range s.viewers {
		v.ctrl.Close()
		delete(s.viewers, id)
	}
}

// =============================================================================
// Stateless endpoints
// =============================================================================

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	n := len(s.viewers)
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "viewers": n})
}

func (s *server) handleCircuit(w http.ResponseWriter, r *http.Request) {
	settings, err := querySettings(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Load(r.Context(), pipeline.Options{Settings: settings})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Circuit-Origin", string(res.Origin))
	if err := circuit.Encode(w, res.Circuit); err != nil {
		s.logger.Warn("failed to write circuit", "err", err)
	}
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	settings, err := querySettings(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	opts := pipeline.Options{
		Settings:  settings,
		Formats:   []string{format},
		Palette:   s.palette,
		ShowDepth: true,
		Tooltip:   q.Has("x") || q.Has("y"),
		Logger:    s.logger,
	}
	if q.Has("palette") {
		opts.Palette = q.Get("palette")
	}
	if opts.Width, err = queryFloat(r, "width"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Height, err = queryFloat(r, "height"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Tooltip {
		x, err := queryFloat(r, "x")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		y, err := queryFloat(r, "y")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts.Pointer = &pipeline.Point{X: x, Y: y}
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("X-Circuit-Origin", string(result.Origin))
	w.Write(result.Artifacts[format])
}

// =============================================================================
// Viewer endpoints
// =============================================================================

func (s *server) handleCreateViewer(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.maxViewers > 0 && len(s.viewers) >= s.maxViewers {
		s.mu.Unlock()
		writeJSON(w, http.StatusServiceUnavailable, errorBody{
			Code:    string(errors.ErrCodeUnsupported),
			Message: fmt.Sprintf("viewer limit of %d reached", s.maxViewers),
		})
		return
	}
	id := uuid.New()
	surface := &frameSurface{}
	s.viewers[id] = &session{
		ctrl: viewer.New(viewer.Options{
			Loader:  runnerLoader{s.runner},
			Surface: surface,
			Logger:  s.logger,
		}),
		surface: surface,
		created: time.Now(),
	}
	s.mu.Unlock()

	s.logger.Debug("created viewer", "id", id)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (s *server) handleLoad(w http.ResponseWriter, r *http.Request) {
	v, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	settings, err := querySettings(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := v.ctrl.Load(r.Context(), settings); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(v.ctrl.Frame()))
}

func (s *server) handleResize(w http.ResponseWriter, r *http.Request) {
	v, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	width, err := queryFloat(r, "width")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	height, err := queryFloat(r, "height")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := v.ctrl.Resize(width, height); err != nil {
		s.writeError(w, r, err)
		return
	}
	f := v.ctrl.Frame()
	writeJSON(w, http.StatusOK, map[string]float64{"width": f.Layout.Width, "height": f.Layout.Height})
}

// pointerResponse is the answer to a pointer event.
type pointerResponse struct {
	Hovered int              `json:"hovered"`
	Redraw  bool             `json:"redraw"`
	Tooltip *tooltip.Content `json:"tooltip,omitempty"`
}

func (s *server) handlePointer(w http.ResponseWriter, r *http.Request) {
	v, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	x, err := queryFloat(r, "x")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	y, err := queryFloat(r, "y")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	redraw, err := v.ctrl.PointerMove(x, y)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := pointerResponse{Hovered: v.ctrl.Hovered(), Redraw: redraw}
	if c, ok := v.ctrl.TooltipContent(); ok {
		resp.Tooltip = &c
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleLeave(w http.ResponseWriter, r *http.Request) {
	v, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	redraw, err := v.ctrl.PointerLeave()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pointerResponse{Hovered: render.NoHover, Redraw: redraw})
}

func (s *server) handleFrameSVG(w http.ResponseWriter, r *http.Request) {
	v, err := s.session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	f, _ := v.surface.last()
	if f.Empty() {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "viewer has no circuit loaded"))
		return
	}
	artifacts, err := pipeline.Render(r.Context(), pipeline.Frame{
		Circuit: f.Circuit,
		Origin:  f.Origin,
		Layout:  f.Layout,
		Hovered: f.Hovered,
	}, pipeline.Options{
		Formats:     []string{pipeline.FormatSVG},
		Palette:     s.palette,
		ShowDepth:   true,
		Tooltip:     true,
		Interactive: true,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[pipeline.FormatSVG])
	w.Header().Set("X-Frame-Generation", strconv.FormatUint(f.Generation, 10))
	w.Write(artifacts[pipeline.FormatSVG])
}

func (s *server) handleDeleteViewer(w http.ResponseWriter, r *http.Request) {
	id, err := viewerID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mu.Lock()
	v, ok := s.viewers[id]
	delete(s.viewers, id)
	s.mu.Unlock()
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeViewerNotFound, "viewer %s not found", id))
		return
	}
	v.ctrl.Close()
	s.logger.Debug("deleted viewer", "id", id, "age", time.Since(v.created))
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) session(r *http.Request) (*session, error) {
	id, err := viewerID(r)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.viewers[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeViewerNotFound, "viewer %s not found", id)
	}
	return v, nil
}

// =============================================================================
// Request and response helpers
// =============================================================================

// frameSummary describes the circuit a viewer shows.
type frameSummary struct {
	Generation  uint64            `json:"generation"`
	Origin      source.Origin     `json:"origin"`
	Settings    source.Settings   `json:"settings"`
	Qubits      int               `json:"qubits"`
	Gates       int               `json:"gates"`
	Depth       int               `json:"depth"`
	DepthText   string            `json:"depth_text"`
	Width       float64           `json:"width"`
	Height      float64           `json:"height"`
	Explanation synth.Explanation `json:"explanation"`
	Categories  map[string]int    `json:"categories"`
}

func summarize(f viewer.Frame) frameSummary {
	counts := make(map[string]int)
	for cat, n := range f.Circuit.CountByCategory() {
		counts[cat.String()] = n
	}
	return frameSummary{
		Generation:  f.Generation,
		Origin:      f.Origin,
		Settings:    f.Settings,
		Qubits:      f.Circuit.QubitCount,
		Gates:       f.Circuit.Len(),
		Depth:       f.Circuit.Depth,
		DepthText:   fmt.Sprintf("Total Depth: %d", f.Circuit.Depth),
		Width:       f.Layout.Width,
		Height:      f.Layout.Height,
		Explanation: synth.Explain(f.Settings.Topology, f.Circuit.QubitCount),
		Categories:  counts,
	}
}

func viewerID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.New(errors.ErrCodeViewerNotFound, "viewer %q not found", raw)
	}
	return id, nil
}

// querySettings reads entanglement and reps; missing values use defaults.
func querySettings(r *http.Request) (source.Settings, error) {
	q := r.URL.Query()
	reps := 0
	if raw := q.Get("reps"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return source.Settings{}, errors.New(errors.ErrCodeInvalidReps, "reps must be an integer, got %q", raw)
		}
		reps = n
	}
	return source.ParseSettings(q.Get("entanglement"), reps)
}

// queryFloat reads a numeric parameter; a missing one is zero.
func queryFloat(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be a number, got %q", name, raw)
	}
	if err := errors.ValidateCoordinate(name, v); err != nil {
		return 0, err
	}
	return v, nil
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorBody{Code: string(code), Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
