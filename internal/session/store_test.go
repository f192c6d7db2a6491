package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appErr "github.com/nhollis/docchat/internal/pkg/errors"
)

func newTestStore(ttl time.Duration) (*Store, *time.Time) {
	now := time.Now()
	store := NewStore(ttl)
	store.now = func() time.Time { return now }
	return store, &now
}

func TestStore_CreateAndGet(t *testing.T) {
	store, _ := newTestStore(time.Hour)

	id := store.Create()
	require.NotEmpty(t, id)

	state, err := store.Get(id)
	require.NoError(t, err)
	require.Empty(t, state.History)
}

func TestStore_GetUnknownSession(t *testing.T) {
	store, _ := newTestStore(time.Hour)

	_, err := store.Get("nope")
	require.ErrorIs(t, err, appErr.ErrSessionGone)
}

func TestStore_ExpiresAfterInactivity(t *testing.T) {
	store, now := newTestStore(time.Hour)
	id := store.Create()

	*now = now.Add(61 * time.Minute)

	_, err := store.Get(id)
	require.ErrorIs(t, err, appErr.ErrSessionGone)
	require.Equal(t, 0, store.Len())
}

func TestStore_ActivityRefreshesTTL(t *testing.T) {
	store, now := newTestStore(time.Hour)
	id := store.Create()

	*now = now.Add(50 * time.Minute)
	_, err := store.Get(id)
	require.NoError(t, err)

	*now = now.Add(50 * time.Minute)
	_, err = store.Get(id)
	require.NoError(t, err)
}

func TestStore_PutRoundTrip(t *testing.T) {
	store, _ := newTestStore(time.Hour)
	id := store.Create()

	state, err := store.Get(id)
	require.NoError(t, err)
	state.RecordQuestion("hello")
	require.NoError(t, store.Put(id, state))

	// Mutations after Put must not leak into the stored copy.
	state.RecordQuestion("leaked")

	got, err := store.Get(id)
	require.NoError(t, err)
	require.Equal(t, []string{"hello"}, got.RecentQuestions)
}

func TestStore_PutUnknownSession(t *testing.T) {
	store, _ := newTestStore(time.Hour)
	require.ErrorIs(t, store.Put("nope", NewState()), appErr.ErrSessionGone)
}

func TestStore_Delete(t *testing.T) {
	store, _ := newTestStore(time.Hour)
	id := store.Create()

	store.Delete(id)

	_, err := store.Get(id)
	require.ErrorIs(t, err, appErr.ErrSessionGone)
}

func TestStore_SweepRemovesOnlyIdleSessions(t *testing.T) {
	store, now := newTestStore(time.Hour)
	stale := store.Create()
	fresh := store.Create()

	*now = now.Add(30 * time.Minute)
	_, err := store.Get(fresh)
	require.NoError(t, err)

	*now = now.Add(45 * time.Minute)
	removed := store.Sweep()

	require.Equal(t, 1, removed)
	require.Equal(t, 1, store.Len())
	_, err = store.Get(stale)
	require.ErrorIs(t, err, appErr.ErrSessionGone)
	_, err = store.Get(fresh)
	require.NoError(t, err)
}
