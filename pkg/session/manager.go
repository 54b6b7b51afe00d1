package session

import (
	"context"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/drpeachy/tagbubbles/pkg/animate"
	"github.com/drpeachy/tagbubbles/pkg/bubbles"
	"github.com/drpeachy/tagbubbles/pkg/errors"
)

// Default limits.
const (
	// DefaultTTL is how long a session may sit idle before it is reaped.
	DefaultTTL = 5 * time.Minute

	// DefaultMaxSessions bounds concurrent frame loops.
	DefaultMaxSessions = 256
)

// Options configures a Manager. Zero values select the defaults.
type Options struct {
	TTL           time.Duration
	MaxSessions   int
	FrameInterval time.Duration
	Logger        *log.Logger

	// Now overrides the clock used for idle tracking.
	Now func() time.Time
}

// Manager indexes live sessions by id.
type Manager struct {
	opts Options

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

// NewManager returns an empty manager.
func NewManager(opts Options) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = animate.DefaultFrameInterval
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{opts: opts, sessions: make(map[string]*Session)}
}

// Create mounts a new component for cfg and registers it under a fresh
// uuid.
func (m *Manager) Create(showcase string, cfg bubbles.Config) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, errors.New(errors.ErrCodeInternal, "session manager is closed")
	}
	if len(m.sessions) >= m.opts.MaxSessions {
		return nil, errors.New(errors.ErrCodeLimitExceeded, "too many live sessions (max %d)", m.opts.MaxSessions)
	}

	id := uuid.NewString()
	s, err := newSession(id, showcase, cfg, m.opts.FrameInterval, m.opts.Now, m.opts.Logger)
	if err != nil {
		return nil, err
	}
	m.sessions[id] = s
	m.opts.Logger.Debug("session created", "session", id, "showcase", showcase, "live", len(m.sessions))
	return s, nil
}

// Get returns the session with the given id and marks it as used.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	s.Touch()
	return s, nil
}

// Delete closes and removes the session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	s.Close()
	m.opts.Logger.Debug("session deleted", "session", id)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// IDs returns the live session ids, sorted.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Reap closes sessions idle for longer than the TTL. Sessions with a
// connected stream are never idle. It returns the number reaped.
func (m *Manager) Reap() int {
	cutoff := m.opts.Now().Add(-m.opts.TTL)

	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if s.Subscribers() == 0 && s.LastSeen().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.Close()
		m.opts.Logger.Debug("session reaped", "session", s.ID, "idle", m.opts.Now().Sub(s.LastSeen()).Round(time.Second))
	}
	return len(stale)
}

// Run reaps idle sessions every TTL/2 until ctx is done.
func (m *Manager) Run(ctx context.Context) error {
	t := time.NewTicker(max(m.opts.TTL/2, time.Second))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if n := m.Reap(); n > 0 {
				m.opts.Logger.Info("reaped idle sessions", "count", n, "live", m.Len())
			}
		}
	}
}

// Close closes every session. Create fails afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	clear(m.sessions)
	m.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}
