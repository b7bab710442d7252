package coverage_test

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scopesignals/coverage/internal/coverage"
	"github.com/scopesignals/coverage/internal/domain"
)

type recordingListener struct {
	mu     sync.Mutex
	events []domain.SelectionEvent
}

func (r *recordingListener) listen(ev domain.SelectionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingListener) actions() []domain.SelectionAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.SelectionAction, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Action)
	}
	return out
}

func newTestSession(t *testing.T, module domain.Module) (*coverage.Session, *recordingListener) {
	t.Helper()
	rec := &recordingListener{}
	store := coverage.NewStore(newTestCatalog(t), time.Hour, clockwork.NewFakeClock(), slog.Default(), newTestMetrics())
	store.OnSelection(rec.listen)
	sess, err := store.Create(module)
	require.NoError(t, err)
	return sess, rec
}

func TestSession_WeedsExample(t *testing.T) {
	sess, _ := newTestSession(t, domain.ModuleWeeds)

	snap := sess.HoverZip("98117")

	assert.Equal(t, "group-1", snap.State.Hovered)
	assert.Equal(t, domain.EmphasisFocused, snap.State.EmphasisFor("group-1"))
	assert.Equal(t, domain.EmphasisDimmed, snap.State.EmphasisFor("group-0"))
}

func TestSession_SelectToggle(t *testing.T) {
	sess, rec := newTestSession(t, domain.ModuleWeeds)

	snap := sess.SelectGroup("group-0")
	assert.Equal(t, "group-0", snap.State.Selected)

	snap = sess.SelectZip("98103")
	assert.Empty(t, snap.State.Selected, "selecting the selected group clears it")

	sess.SelectGroup("group-0")
	snap = sess.SelectGroup("group-1")
	assert.Equal(t, "group-1", snap.State.Selected, "selection replaces")

	assert.Equal(t, []domain.SelectionAction{
		domain.ActionSelected, domain.ActionCleared, domain.ActionSelected, domain.ActionSelected,
	}, rec.actions())
}

func TestSession_SelectedEventCarriesGroup(t *testing.T) {
	sess, rec := newTestSession(t, domain.ModuleWeeds)

	sess.SelectZip("98107")

	require.Len(t, rec.events, 1)
	ev := rec.events[0]
	assert.Equal(t, sess.ID(), ev.SessionID)
	assert.Equal(t, domain.ModuleWeeds, ev.Module)
	assert.Equal(t, "group-1", ev.GroupID)
	assert.Equal(t, []string{"98107", "98117"}, ev.Zips)
	assert.Equal(t, domain.TierHigh, ev.Tier)
}

func TestSession_HoverDoesNotTouchSelection(t *testing.T) {
	sess, rec := newTestSession(t, domain.ModuleWeeds)

	sess.SelectGroup("group-0")
	snap := sess.HoverGroup("group-1")
	assert.Equal(t, domain.HighlightState{Hovered: "group-1", Selected: "group-0"}, snap.State)

	snap = sess.HoverZip("")
	assert.Equal(t, domain.HighlightState{Selected: "group-0"}, snap.State)
	assert.Len(t, rec.actions(), 1, "hover emits no selection events")
}

func TestSession_ClearSelection(t *testing.T) {
	sess, rec := newTestSession(t, domain.ModuleWeeds)

	sess.SelectGroup("group-1")
	sess.HoverGroup("group-0")
	snap := sess.ClearSelection()

	assert.Equal(t, domain.HighlightState{Hovered: "group-0"}, snap.State)
	assert.Equal(t, []domain.SelectionAction{domain.ActionSelected, domain.ActionCleared}, rec.actions())

	sess.ClearSelection()
	assert.Len(t, rec.actions(), 2, "clearing an empty selection emits nothing")
}

func TestSession_ChangeModuleResets(t *testing.T) {
	sess, rec := newTestSession(t, domain.ModuleWeeds)

	sess.SelectGroup("group-0")
	sess.HoverGroup("group-1")

	snap, err := sess.ChangeModule(domain.ModuleDumping)
	require.NoError(t, err)

	assert.Equal(t, domain.ModuleDumping, snap.Coverage.Module)
	_, ok := snap.Coverage.Index.Group("group-0")
	require.True(t, ok, "new module also has a group-0")
	assert.Equal(t, domain.HighlightState{}, snap.State)

	require.Len(t, rec.events, 2)
	assert.Equal(t, domain.ActionCleared, rec.events[1].Action)
	assert.Equal(t, domain.ModuleWeeds, rec.events[1].Module)
}

func TestSession_ChangeModuleUnknown(t *testing.T) {
	sess, _ := newTestSession(t, domain.ModuleWeeds)
	sess.SelectGroup("group-0")

	snap, err := sess.ChangeModule("gutters")
	require.ErrorIs(t, err, domain.ErrUnknownModule)
	assert.Equal(t, domain.ModuleWeeds, snap.Coverage.Module)
	assert.Equal(t, "group-0", snap.State.Selected)
}

func TestSession_UnresolvedIdsAreNoOps(t *testing.T) {
	sess, rec := newTestSession(t, domain.ModuleWeeds)
	sess.SelectGroup("group-0")
	sess.HoverGroup("group-1")
	want := sess.Snapshot().State

	assert.Equal(t, want, sess.HoverGroup("group-9").State)
	assert.Equal(t, want, sess.HoverZip("10001").State)
	assert.Equal(t, want, sess.SelectGroup("group-9").State)
	assert.Equal(t, want, sess.SelectZip("10001").State)
	assert.Equal(t, want, sess.SelectGroup("").State)
	assert.Len(t, rec.actions(), 1)
}

func TestSession_ConcurrentTransitions(t *testing.T) {
	sess, _ := newTestSession(t, domain.ModuleWeeds)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sess.SelectGroup("group-0")
		}()
		go func() {
			defer wg.Done()
			sess.HoverZip("98117")
		}()
	}
	wg.Wait()

	snap := sess.Snapshot()
	assert.Equal(t, "group-1", snap.State.Hovered)
	assert.Empty(t, snap.State.Selected, "an even number of toggles ends deselected")
}
