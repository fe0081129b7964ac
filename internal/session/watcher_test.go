package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestTokenWatcherSeesSetAndClear(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := NewTokenStore(t.TempDir())
	tw, err := NewTokenWatcher(store)
	require.NoError(t, err)
	require.NoError(t, tw.Start())
	defer tw.Stop()

	require.NoError(t, store.Set("tok"))
	waitForChange(t, tw)

	require.NoError(t, store.Clear())
	waitForChange(t, tw)
}

func TestTokenWatcherStopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := NewTokenStore(t.TempDir())
	tw, err := NewTokenWatcher(store)
	require.NoError(t, err)
	require.NoError(t, tw.Start())

	tw.Stop()
	tw.Stop()
}

func TestTokenWatcherIgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	store := NewTokenStore(dir)
	tw, err := NewTokenWatcher(store)
	require.NoError(t, err)
	require.NoError(t, tw.Start())
	defer tw.Stop()

	other := NewTokenStore(dir)
	other.path = other.path + ".bak"
	require.NoError(t, other.Set("x"))

	select {
	case <-tw.Changes():
		t.Fatal("change signal for an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func waitForChange(t *testing.T, tw *TokenWatcher) {
	t.Helper()
	select {
	case <-tw.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("no change signal within deadline")
	}
}
