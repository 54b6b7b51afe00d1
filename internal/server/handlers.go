package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/drpeachy/tagbubbles/pkg/buildinfo"
	"github.com/drpeachy/tagbubbles/pkg/config"
	"github.com/drpeachy/tagbubbles/pkg/errors"
	"github.com/drpeachy/tagbubbles/pkg/pipeline"
	"github.com/drpeachy/tagbubbles/pkg/render/sink"
	"github.com/drpeachy/tagbubbles/pkg/render/styles"
	"github.com/drpeachy/tagbubbles/pkg/session"
)

// =============================================================================
// Health and listing
// =============================================================================

type healthResponse struct {
	Status   string         `json:"status"`
	Build    buildinfo.Info `json:"build"`
	Sessions int            `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Build:    buildinfo.Get(),
		Sessions: s.sessions.Len(),
	})
}

type showcaseInfo struct {
	Name   string   `json:"name"`
	Title  string   `json:"title,omitempty"`
	Labels []string `json:"labels"`
	Action string   `json:"action,omitempty"`
	SVG    string   `json:"svg"`
	Live   string   `json:"live"`
}

func (s *Server) handleListShowcases(w http.ResponseWriter, r *http.Request) {
	out := make([]showcaseInfo, 0, len(s.cfg.Showcases))
	for _, sc := range s.cfg.Showcases {
		ec := s.cfg.EngineConfig(sc)
		out = append(out, showcaseInfo{
			Name:   sc.Name,
			Title:  sc.Title,
			Labels: ec.Labels,
			Action: ec.ActionTarget,
			SVG:    "/showcases/" + sc.Name + ".svg",
			Live:   "/showcases/" + sc.Name + "/live",
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// Static snapshots
// =============================================================================

// splitFile splits "name.format" on the last dot. A bare name means svg.
func splitFile(file string) (name, format string) {
	i := strings.LastIndexByte(file, '.')
	if i < 0 {
		return file, pipeline.FormatSVG
	}
	return file[:i], strings.ToLower(file[i+1:])
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	name, format := splitFile(chi.URLParam(r, "file"))
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	sc, err := s.cfg.Showcase(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := pipeline.FromShowcase(s.cfg, sc, s.registry)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Seed == 0 {
		opts.Seed = DefaultSeed
	}
	if err := applyQuery(&opts, r); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}
	opts.Logger = s.logger

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	etag := fmt.Sprintf("%q", shortHash(result.SnapshotHash)+"-"+format)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	cacheState := "MISS"
	if result.CacheInfo.RenderHit {
		cacheState = "HIT"
	}
	h := w.Header()
	h.Set("Content-Type", pipeline.ContentTypes[format])
	h.Set("ETag", etag)
	h.Set("X-Cache", cacheState)
	h.Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// applyQuery overrides snapshot options from ?seed=, ?steps=, ?style= and
// ?lines=.
func applyQuery(opts *pipeline.Options, r *http.Request) error {
	q := r.URL.Query()
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil || seed == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "seed must be a positive integer, got %q", v)
		}
		opts.Seed = seed
	}
	if v := q.Get("steps"); v != "" {
		steps, err := strconv.Atoi(v)
		if err != nil || steps <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "steps must be a positive integer, got %q", v)
		}
		opts.Steps = steps
	}
	if v := q.Get("style"); v != "" {
		opts.Style = v
	}
	if v := q.Get("lines"); v != "" {
		show, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "lines must be a boolean, got %q", v)
		}
		opts.HideLines = !show
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 16 {
		return h[:16]
	}
	return h
}

// =============================================================================
// Live sessions
// =============================================================================

type sessionResponse struct {
	ID          string    `json:"id"`
	Showcase    string    `json:"showcase"`
	CreatedAt   time.Time `json:"created_at"`
	Subscribers int       `json:"subscribers"`
	Frames      uint64    `json:"frames"`
	Mounted     bool      `json:"mounted"`
	Target      string    `json:"target,omitempty"`
	Stream      string    `json:"stream"`
	Pointer     string    `json:"pointer"`
	Click       string    `json:"click"`
}

func describe(sess *session.Session) sessionResponse {
	base := "/sessions/" + sess.ID
	st := sess.Stats()
	target, _ := sess.Target()
	return sessionResponse{
		ID:          sess.ID,
		Showcase:    sess.Showcase,
		CreatedAt:   sess.CreatedAt,
		Subscribers: sess.Subscribers(),
		Frames:      st.Frames,
		Mounted:     st.Mounted,
		Target:      target,
		Stream:      base + "/stream",
		Pointer:     base + "/pointer",
		Click:       base + "/click",
	}
}

// createSession mounts a live component for the named showcase.
func (s *Server) createSession(name string) (*session.Session, config.Showcase, error) {
	sc, err := s.cfg.Showcase(name)
	if err != nil {
		return nil, config.Showcase{}, err
	}
	sess, err := s.sessions.Create(sc.Name, s.cfg.EngineConfig(sc))
	if err != nil {
		return nil, config.Showcase{}, err
	}
	return sess, sc, nil
}

// handleCreateSession starts a session for the showcase named by the path
// segment, which the router shares with session ids.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, _, err := s.createSession(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, describe(sess))
}

// handleLive returns an SVG document that follows a fresh session's frame
// stream and reports pointer movement back to it.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	sess, sc, err := s.createSession(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := pipeline.FromShowcase(s.cfg, sc, s.registry)
	if err != nil {
		_ = s.sessions.Delete(sess.ID)
		s.writeError(w, r, err)
		return
	}
	style, err := styles.Lookup(opts.Style)
	if err != nil {
		_ = s.sessions.Delete(sess.ID)
		s.writeError(w, r, err)
		return
	}

	base := "/sessions/" + sess.ID
	svgOpts := []sink.SVGOption{
		sink.WithStyle(style),
		sink.WithInstanceID(sess.ID),
		sink.WithLive(base+"/stream", base+"/pointer"),
	}
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	if opts.Texture != "" {
		svgOpts = append(svgOpts, sink.WithTexture(opts.Texture))
	}

	w.Header().Set("Content-Type", pipeline.ContentTypes[pipeline.FormatSVG])
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Session-ID", sess.ID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(sink.RenderSVG(sess.Frame(), svgOpts...))
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleSessionInfo(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, describe(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	data, err := sink.RenderJSON(sess.Frame(), sink.WithJSONShowcase(sess.Showcase))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[pipeline.FormatJSON])
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type point struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

func (p point) validate() error {
	if p.X == nil || p.Y == nil {
		return errors.New(errors.ErrCodeInvalidInput, "x and y are required")
	}
	return nil
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var p point
	if err := decodeBody(r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := p.validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.Pointer(*p.X, *p.Y)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Leave()
	w.WriteHeader(http.StatusNoContent)
}

type resizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req resizeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidDimensions,
			"canvas must be positive, got %gx%g", req.Width, req.Height))
		return
	}
	sess.Resize(req.Width, req.Height)
	w.WriteHeader(http.StatusNoContent)
}

type clickResponse struct {
	Hit    bool   `json:"hit"`
	Item   int    `json:"item,omitempty"`
	Label  string `json:"label,omitempty"`
	Action bool   `json:"action,omitempty"`
	Open   string `json:"open,omitempty"`
}

// handleClick hit-tests a point. The server cannot open a browser tab, so
// an action hit answers with the URL the client should navigate to.
func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var p point
	if err := decodeBody(r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := p.validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	it, hit, err := sess.Click(r.Context(), *p.X, *p.Y)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := clickResponse{Hit: hit}
	if hit {
		resp.Item = it.ID
		resp.Label = it.Label
		resp.Action = it.Action
		if it.Action && it.Target != "" {
			resp.Open = "/sessions/" + sess.ID + "/open"
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	target, ok := sess.Target()
	if !ok || target == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeNoAction, "showcase %s has no action target", sess.Showcase))
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
