package coverage

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/scopesignals/coverage/internal/domain"
	"github.com/scopesignals/coverage/internal/observability"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// minSweepInterval keeps very short TTLs from spinning the sweeper.
const minSweepInterval = time.Second

// Store keeps live sessions in memory and expires the idle ones.
type Store struct {
	catalog *Catalog
	ttl     time.Duration
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics

	mu        sync.RWMutex
	sessions  map[string]*Session
	listeners []Listener
}

// NewStore creates a session store. Pass a nil clock to use real time.
func NewStore(catalog *Catalog, ttl time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		catalog:  catalog,
		ttl:      ttl,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
		sessions: make(map[string]*Session),
	}
}

// OnSelection registers a listener attached to every session created afterwards.
func (s *Store) OnSelection(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Create starts a session on module.
func (s *Store) Create(module domain.Module) (*Session, error) {
	cov, err := s.catalog.Coverage(module)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := newSession(uuid.NewString(), cov, s.catalog, s.metrics, append([]Listener(nil), s.listeners...), s.clock.Now())
	s.sessions[sess.ID()] = sess
	s.metrics.SessionsActive.Set(float64(len(s.sessions)))
	s.logger.Debug("session created", "session_id", sess.ID(), "module", module)
	return sess, nil
}

// Get returns the session and marks it as recently used.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.touch(s.clock.Now())
	return sess, nil
}

// Delete ends a session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	s.metrics.SessionsActive.Set(float64(len(s.sessions)))
	return nil
}

// Len is the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many it removed.
func (s *Store) Sweep() int {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.idleSince(now) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.metrics.SessionsExpired.Add(float64(removed))
		s.metrics.SessionsActive.Set(float64(len(s.sessions)))
		s.logger.Debug("expired idle sessions", "removed", removed, "active", len(s.sessions))
	}
	return removed
}

// Run sweeps expired sessions every half TTL until the context is cancelled.
func (s *Store) Run(ctx context.Context) error {
	interval := max(s.ttl/2, minSweepInterval)
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("session sweeper started", "ttl", s.ttl, "interval", interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session sweeper stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			s.Sweep()
		}
	}
}
