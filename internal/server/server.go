// Package server implements the tagbubbles HTTP preview server.
//
// The server exposes bubble canvases only: static snapshots rendered through
// the pipeline, and live sessions whose frames stream to the browser over
// Server-Sent Events while pointer events flow back over plain POSTs.
//
// # Routes
//
//	GET    /healthz                     liveness and build info
//	GET    /showcases                   configured showcases
//	GET    /showcases/{name}.{format}   static snapshot (svg, png, json, dot, nodelink)
//	GET    /showcases/{name}/live       live SVG bound to a new session
//	POST   /sessions/{name}             create a live session for a showcase
//	GET    /sessions/{id}               session info
//	DELETE /sessions/{id}               end a session
//	GET    /sessions/{id}/frame         latest frame (json)
//	GET    /sessions/{id}/stream        frame stream (text/event-stream, event "frame")
//	POST   /sessions/{id}/pointer       pointer move {"x":..,"y":..}
//	DELETE /sessions/{id}/pointer       pointer leave
//	POST   /sessions/{id}/resize        canvas resize {"width":..,"height":..}
//	POST   /sessions/{id}/click         hit-test {"x":..,"y":..}
//	GET    /sessions/{id}/open          303 redirect to the action target
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/drpeachy/tagbubbles/pkg/assets"
	"github.com/drpeachy/tagbubbles/pkg/buildinfo"
	"github.com/drpeachy/tagbubbles/pkg/config"
	"github.com/drpeachy/tagbubbles/pkg/observability"
	"github.com/drpeachy/tagbubbles/pkg/pipeline"
	"github.com/drpeachy/tagbubbles/pkg/session"
)

// DefaultSeed seeds static snapshots of showcases that do not set one, so
// repeated requests return the same cacheable image.
const DefaultSeed = uint64(42)

// heartbeatInterval keeps idle SSE connections open through proxies.
const heartbeatInterval = 15 * time.Second

// Server serves showcases from one configuration.
type Server struct {
	cfg      config.Config
	registry *assets.Registry
	runner   *pipeline.Runner
	sessions *session.Manager
	logger   *log.Logger
	handler  http.Handler
}

// New builds a server. The runner's cache and the session manager belong to
// the server from here on; Close releases them.
func New(cfg config.Config, registry *assets.Registry, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if registry == nil {
		registry = assets.NewRegistry()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	s := &Server{
		cfg:      cfg,
		registry: registry,
		runner:   runner,
		logger:   logger,
		sessions: session.NewManager(session.Options{
			TTL:           cfg.Server.SessionTTL,
			MaxSessions:   cfg.Server.MaxSessions,
			FrameInterval: cfg.Server.FrameInterval,
			Logger:        logger,
		}),
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Sessions exposes the live session manager.
func (s *Server) Sessions() *session.Manager { return s.sessions }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(withSecurityHeaders)

	r.Get("/healthz", s.handleHealth)

	r.Route("/showcases", func(r chi.Router) {
		r.Get("/", s.handleListShowcases)
		r.Get("/{file}", s.handleSnapshot)
		r.Get("/{name}/live", s.handleLive)
	})

	r.Route("/sessions", func(r chi.Router) {
		// POST names a showcase; every other method names a session. Both
		// share the one-segment wildcard so chi routes them to one subrouter.
		r.Route("/{id}", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Get("/", s.handleSessionInfo)
			r.Delete("/", s.handleDeleteSession)
			r.Get("/frame", s.handleFrame)
			r.Get("/stream", s.handleStream)
			r.Post("/pointer", s.handlePointer)
			r.Delete("/pointer", s.handleLeave)
			r.Post("/resize", s.handleResize)
			r.Post("/click", s.handleClick)
			r.Get("/open", s.handleOpen)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "NOT_FOUND", Message: "no route for " + r.URL.Path})
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then drains connections
// for up to ten seconds. The idle-session reaper runs alongside.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("serving", "addr", ln.Addr().String(), "showcases", len(s.cfg.Showcases), "version", buildinfo.Get().Version)
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return s.sessions.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		// Streams only end when their sessions close.
		s.sessions.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Close ends every live session and releases the runner's cache.
func (s *Server) Close() error {
	s.sessions.Close()
	return s.runner.Close()
}

// logRequests logs each request and reports it to the HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, status, elapsed)

		logf := s.logger.Info
		if status >= 500 {
			logf = s.logger.Error
		}
		logf("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed.Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Server", buildinfo.UserAgent())
		next.ServeHTTP(w, r)
	})
}
