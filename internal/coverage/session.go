package coverage

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/scopesignals/coverage/internal/domain"
	"github.com/scopesignals/coverage/internal/observability"
)

// Transition labels, also used as the metrics action label.
const (
	actionModule = "module"
	actionHover  = "hover"
	actionSelect = "select"
	actionClear  = "clear"
)

// Listener receives selection changes. It runs on the caller's goroutine
// after the session lock is released and must not block.
type Listener func(domain.SelectionEvent)

// Snapshot is a consistent read of a session: both views render from one.
type Snapshot struct {
	SessionID string
	Coverage  *Coverage
	State     domain.HighlightState
}

// Session owns the current module and the highlight state for one visitor.
// State only changes through the transition methods; ids that do not resolve
// against the current coverage leave the state as it was.
type Session struct {
	id        string
	catalog   *Catalog
	metrics   *observability.Metrics
	listeners []Listener
	lastSeen  atomic.Int64 // unix nanos

	mu       sync.Mutex
	coverage *Coverage
	state    domain.HighlightState
}

func newSession(id string, cov *Coverage, catalog *Catalog, metrics *observability.Metrics, listeners []Listener, now time.Time) *Session {
	s := &Session{
		id:        id,
		catalog:   catalog,
		metrics:   metrics,
		listeners: listeners,
		coverage:  cov,
	}
	s.touch(now)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Snapshot returns the current module coverage and state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// ChangeModule switches to module and clears hover and selection
// unconditionally, since group ids from the previous build do not carry over.
func (s *Session) ChangeModule(module domain.Module) (Snapshot, error) {
	cov, err := s.catalog.Coverage(module)
	if err != nil {
		return s.Snapshot(), err
	}

	s.mu.Lock()
	before := s.state
	prev := s.coverage
	s.coverage = cov
	s.state = s.state.Reset()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.metrics.Transitions.WithLabelValues(actionModule).Inc()
	if before.Selected != "" {
		s.notify(domain.NewSelectionEvent(s.id, prev.Module, domain.Group{}, false))
	}
	return snap, nil
}

// HoverGroup sets the hovered group. An empty id clears hover.
func (s *Session) HoverGroup(groupID string) Snapshot {
	return s.apply(actionHover, func(cov *Coverage, st domain.HighlightState) (domain.HighlightState, bool) {
		if groupID != "" {
			if _, ok := cov.Index.Group(groupID); !ok {
				return st, false
			}
		}
		return st.Hover(groupID), true
	})
}

// HoverZip resolves zip to its group and hovers it. An empty zip clears hover.
func (s *Session) HoverZip(zip string) Snapshot {
	return s.apply(actionHover, func(cov *Coverage, st domain.HighlightState) (domain.HighlightState, bool) {
		if zip == "" {
			return st.Hover(""), true
		}
		id := cov.Index.GroupID(zip)
		if id == "" {
			return st, false
		}
		return st.Hover(id), true
	})
}

// SelectGroup toggles the selection of groupID.
func (s *Session) SelectGroup(groupID string) Snapshot {
	return s.apply(actionSelect, func(cov *Coverage, st domain.HighlightState) (domain.HighlightState, bool) {
		if _, ok := cov.Index.Group(groupID); !ok {
			return st, false
		}
		return st.Select(groupID), true
	})
}

// SelectZip resolves zip to its group and toggles its selection.
func (s *Session) SelectZip(zip string) Snapshot {
	return s.apply(actionSelect, func(cov *Coverage, st domain.HighlightState) (domain.HighlightState, bool) {
		id := cov.Index.GroupID(zip)
		if id == "" {
			return st, false
		}
		return st.Select(id), true
	})
}

// ClearSelection is the zoom-out action: it drops the selection and keeps hover.
func (s *Session) ClearSelection() Snapshot {
	return s.apply(actionClear, func(_ *Coverage, st domain.HighlightState) (domain.HighlightState, bool) {
		return st.Select(""), true
	})
}

type transition func(*Coverage, domain.HighlightState) (domain.HighlightState, bool)

func (s *Session) apply(action string, t transition) Snapshot {
	s.mu.Lock()
	before := s.state
	next, ok := t(s.coverage, before)
	if !ok {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	s.state = next
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.metrics.Transitions.WithLabelValues(action).Inc()
	if before.Selected != next.Selected {
		s.notify(selectionEvent(s.id, snap))
	}
	return snap
}

func selectionEvent(sessionID string, snap Snapshot) domain.SelectionEvent {
	if snap.State.Selected == "" {
		return domain.NewSelectionEvent(sessionID, snap.Coverage.Module, domain.Group{}, false)
	}
	g, _ := snap.Coverage.Index.Group(snap.State.Selected)
	return domain.NewSelectionEvent(sessionID, snap.Coverage.Module, g, true)
}

func (s *Session) notify(ev domain.SelectionEvent) {
	for _, l := range s.listeners {
		l(ev)
	}
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{SessionID: s.id, Coverage: s.coverage, State: s.state}
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}
