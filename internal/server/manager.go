package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/msalah0e/ecomap/internal/dataset"
	"github.com/msalah0e/ecomap/internal/logger"
	"github.com/msalah0e/ecomap/internal/session"
)

var (
	ErrNotFound    = errors.New("session not found")
	ErrRateLimited = errors.New("event rate exceeded")
	ErrQueueFull   = errors.New("event queue full")
	ErrStreaming   = errors.New("session already has a stream")
	ErrTooMany     = errors.New("too many sessions")
)

// ManagerOptions configures the session manager.
type ManagerOptions struct {
	Session     session.Options
	TTL         time.Duration
	EventRate   float64
	EventBurst  int
	MaxSessions int
}

func (o ManagerOptions) withDefaults() ManagerOptions {
	if o.TTL <= 0 {
		o.TTL = 10 * time.Minute
	}
	if o.EventRate <= 0 {
		o.EventRate = 120
	}
	if o.EventBurst <= 0 {
		o.EventBurst = 240
	}
	if o.MaxSessions <= 0 {
		o.MaxSessions = 256
	}
	return o
}

type entry struct {
	sess      *session.Session
	cancel    context.CancelFunc
	done      chan struct{}
	limiter   *rate.Limiter
	lastSeen  time.Time
	streaming bool
}

// Manager owns the live sessions. Each session runs its own event loop;
// the manager only posts events to it and hands out its frame channel.
type Manager struct {
	doc  *dataset.Document
	opts ManagerOptions
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewManager returns an empty manager serving doc.
func NewManager(doc *dataset.Document, opts ManagerOptions) *Manager {
	return &Manager{
		doc:      doc,
		opts:     opts.withDefaults(),
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// CreateRequest is the initial state of a new session.
type CreateRequest struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Filter   string  `json:"filter"`
	Search   string  `json:"search"`
	Selected string  `json:"selected"`
}

// Create starts a session and returns its id and first full frame.
func (m *Manager) Create(req CreateRequest) (string, session.Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sessions) >= m.opts.MaxSessions {
		return "", session.Frame{}, ErrTooMany
	}

	opts := m.opts.Session
	opts.Width, opts.Height = req.Width, req.Height
	opts.Filter, opts.Search, opts.Selected = req.Filter, req.Search, req.Selected
	s := session.New(m.doc, opts)
	frame := s.Frame()

	id := uuid.New().String()
	s.OnSelect = func(n *dataset.Node) {
		if n == nil {
			logger.Debug("selection cleared", "session", id)
			return
		}
		logger.Debug("node selected", "session", id, "node", n.ID)
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &entry{
		sess:     s,
		cancel:   cancel,
		done:     make(chan struct{}),
		limiter:  rate.NewLimiter(rate.Limit(m.opts.EventRate), m.opts.EventBurst),
		lastSeen: m.now(),
	}
	go func() {
		defer close(e.done)
		s.Run(ctx)
	}()
	m.sessions[id] = e

	logger.Info("session created", "id", id, "width", req.Width, "height", req.Height)
	return id, frame, nil
}

// Post queues an event on a session.
func (m *Manager) Post(id string, ev session.Event) error {
	m.mu.Lock()
	e, ok := m.sessions[id]
	if ok {
		e.lastSeen = m.now()
	}
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	if !e.limiter.Allow() {
		return ErrRateLimited
	}
	if !e.sess.Post(ev) {
		return ErrQueueFull
	}
	return nil
}

// Attach claims the frame stream of a session. Only one stream may be
// attached at a time; the returned release func must be called when the
// stream ends.
func (m *Manager) Attach(id string) (<-chan session.Frame, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, nil, ErrNotFound
	}
	if e.streaming {
		return nil, nil, ErrStreaming
	}
	e.streaming = true
	e.lastSeen = m.now()

	// A fresh stream starts from a full scene. Frames queued while nobody
	// was listening are discarded so the snapshot has room.
	frames := e.sess.Frames()
drain:
	for {
		select {
		case _, ok := <-frames:
			if !ok {
				break drain
			}
		default:
			break drain
		}
	}
	if !e.sess.Post(session.Event{Type: session.Snapshot}) {
		// Without the snapshot the stream would wait forever for a full
		// frame; let the client retry.
		e.streaming = false
		return nil, nil, ErrQueueFull
	}

	release := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		e.streaming = false
		e.lastSeen = m.now()
	}
	return frames, release, nil
}

// Remove stops a session and waits for its loop to exit.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	e.cancel()
	<-e.done
	logger.Info("session removed", "id", id)
	return nil
}

// Reap removes sessions that have no stream attached and have been idle
// longer than the TTL. It returns how many were removed.
func (m *Manager) Reap() int {
	cutoff := m.now().Add(-m.opts.TTL)

	m.mu.Lock()
	var stale []string
	for id, e := range m.sessions {
		if !e.streaming && e.lastSeen.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	m.mu.Unlock()

	for _, id := range stale {
		if m.Remove(id) == nil {
			logger.Debug("reaped idle session", "id", id)
		}
	}
	return len(stale)
}

// RunReaper calls Reap every interval until ctx is done.
func (m *Manager) RunReaper(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Reap()
		}
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close stops every session.
func (m *Manager) Close() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.Remove(id)
	}
}
