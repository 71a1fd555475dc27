package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"CandleScope/internal/interaction"
	"CandleScope/internal/render"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes one chart session over HTTP. Every event, read and reload
// runs on a single loop goroutine, so the session never sees concurrent use.
type Server struct {
	ctrl     *interaction.Controller
	session  *interaction.Session
	handlers interaction.Handlers
	style    render.Style
	ops      chan func()
	router   chi.Router
}

// New attaches a session for the initial state. Loop (or Run) must be running
// before requests are served.
func New(ctrl *interaction.Controller, initial interaction.State, style render.Style) *Server {
	s := &Server{
		ctrl:  ctrl,
		style: style,
		ops:   make(chan func()),
	}
	s.session = ctrl.Attach(s, initial)
	s.router = s.routes()
	return s
}

// Subscribe implements interaction.SurfaceEvents.
func (s *Server) Subscribe(h interaction.Handlers) { s.handlers = h }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/chart.svg", s.handleSVG)
	r.Get("/state", s.handleState)
	r.Post("/events", s.handleEvent)
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Loop serialises all session access until ctx is done.
func (s *Server) Loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case op := <-s.ops:
			op()
		}
	}
}

// Run starts the loop and serves HTTP on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	go s.Loop(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] http surface listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
		log.Println("[INFO] http surface stopped")
		return nil
	}
}

// Reload swaps in a freshly initialised state, keeping the current zoom.
func (s *Server) Reload(ctx context.Context, fresh interaction.State) error {
	return s.do(ctx, func() { s.session.Reset(fresh) })
}

// do runs fn on the loop and waits for it.
func (s *Server) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case s.ops <- func() { fn(); close(done) }:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	var scene *render.Scene
	if err := s.do(r.Context(), func() { scene = s.session.State().Scene }); err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	// scenes are never mutated once published in a State
	var buf bytes.Buffer
	if err := render.WriteSVG(&buf, scene, s.ctrl.Layout(), s.style); err != nil {
		log.Printf("[ERROR] render svg: %v", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(buf.Bytes())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	var v view
	if err := s.do(r.Context(), func() { v = newView(s.session.State(), render.Patch{}) }); err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode event: %w", err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var v view
	err := s.do(r.Context(), func() {
		s.dispatch(req)
		v = newView(s.session.State(), s.session.LastPatch())
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// dispatch turns a validated request into a surface event. Runs on the loop.
func (s *Server) dispatch(req eventRequest) {
	m := s.ctrl.Layout().Margin
	cur := s.session.State().Transform
	switch req.Type {
	case evPointerEnter, evPointerMove:
		s.handlers.OnPointerMove(interaction.PointerEvent{X: *req.X, Y: *req.Y})
	case evPointerLeave:
		s.handlers.OnPointerLeave()
	case evZoom:
		s.handlers.OnZoom(interaction.ZoomEvent{Transform: interaction.Transform{
			K: *req.K, X: value(req.X), Y: value(req.Y),
		}})
	case evWheel:
		// anchor the zoom on the pointer's plot position
		px, py := value(req.X)-m.Left, value(req.Y)-m.Top
		s.handlers.OnZoom(interaction.ZoomEvent{Transform: s.ctrl.Bounds().ScaleBy(cur, *req.Factor, px, py)})
	case evPan:
		s.handlers.OnZoom(interaction.ZoomEvent{Transform: cur.TranslateBy(value(req.DX), value(req.DY))})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[WARN] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
