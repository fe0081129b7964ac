package docstate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"preserva/internal/document"
)

// fakeBackend scripts list and delete responses.
type fakeBackend struct {
	mu          sync.Mutex
	docs        []document.Document
	listErr     error
	deleteErr   error
	listCalls   int
	deleted     []string
	listGate    chan struct{} // when set, ListDocuments blocks until closed
	listStarted chan struct{} // when set, closed once the first call begins
}

func (f *fakeBackend) ListDocuments(_ context.Context) ([]document.Document, error) {
	f.mu.Lock()
	f.listCalls++
	if f.listStarted != nil {
		close(f.listStarted)
		f.listStarted = nil
	}
	gate := f.listGate
	docs, err := f.docs, f.listErr
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return docs, err
}

func (f *fakeBackend) DeleteDocument(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func twoDocs() []document.Document {
	return []document.Document{
		{ID: "1", Name: "Contrato.pdf", Status: document.StatusPreservado},
		{ID: "2", Name: "Relatório.pdf", Status: document.StatusIniciado},
	}
}

func TestInitialState(t *testing.T) {
	s := NewStore(&fakeBackend{}, nil)
	assert.True(t, s.Loading())
	assert.Empty(t, s.Documents())
}

func TestFetchAllReplacesCollection(t *testing.T) {
	b := &fakeBackend{docs: twoDocs()}
	s := NewStore(b, nil)

	require.NoError(t, s.FetchAll(context.Background()))
	assert.False(t, s.Loading())
	if diff := cmp.Diff(twoDocs(), s.Documents()); diff != "" {
		t.Errorf("collection mismatch (-want +got):\n%s", diff)
	}

	// A later fetch replaces everything; nothing is merged.
	b.mu.Lock()
	b.docs = []document.Document{{ID: "3", Name: "Edital.pdf"}}
	b.mu.Unlock()
	require.NoError(t, s.FetchAll(context.Background()))
	got := s.Documents()
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)
}

func TestFetchFailureKeepsStaleCollection(t *testing.T) {
	b := &fakeBackend{docs: twoDocs()}
	s := NewStore(b, nil)
	require.NoError(t, s.FetchAll(context.Background()))

	b.mu.Lock()
	b.listErr = errors.New("backend indisponível")
	b.mu.Unlock()

	err := s.FetchAll(context.Background())
	require.Error(t, err)
	assert.False(t, s.Loading())
	assert.Len(t, s.Documents(), 2, "stale data must be retained")
}

func TestConcurrentFetchesCollapse(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{})
	b := &fakeBackend{docs: twoDocs(), listGate: gate, listStarted: started}
	s := NewStore(b, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.FetchAll(context.Background())
	}()
	<-started // the first fetch is now blocked in flight

	// A manual refresh racing the in-flight tick must join it.
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.FetchAll(context.Background())
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, 1, b.calls(), "identical concurrent fetches must share one request")
	assert.Len(t, s.Documents(), 2)
}

func TestDeleteRemovesOnlyAfterSuccess(t *testing.T) {
	b := &fakeBackend{docs: twoDocs()}
	s := NewStore(b, nil)
	require.NoError(t, s.FetchAll(context.Background()))

	require.NoError(t, s.Delete(context.Background(), "1"))
	got := s.Documents()
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
	assert.False(t, s.DeletePending("1"))
	assert.Equal(t, []string{"1"}, b.deleted)
}

func TestDeleteFailureRollsBack(t *testing.T) {
	b := &fakeBackend{docs: twoDocs(), deleteErr: errors.New("falha ao excluir")}
	s := NewStore(b, nil)
	require.NoError(t, s.FetchAll(context.Background()))

	err := s.Delete(context.Background(), "1")
	require.Error(t, err)
	assert.Len(t, s.Documents(), 2, "collection unchanged on failure")
	assert.False(t, s.DeletePending("1"), "pending state rolled back")
}

func TestGetAndFiltered(t *testing.T) {
	b := &fakeBackend{docs: twoDocs()}
	s := NewStore(b, nil)
	require.NoError(t, s.FetchAll(context.Background()))

	d, ok := s.Get("2")
	require.True(t, ok)
	assert.Equal(t, "Relatório.pdf", d.Name)
	_, ok = s.Get("missing")
	assert.False(t, ok)

	c := document.NeutralCriteria()
	c.Status = "PRESERVADO"
	got := s.Filtered(c)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestSnapshotIsACopy(t *testing.T) {
	b := &fakeBackend{docs: twoDocs()}
	s := NewStore(b, nil)
	require.NoError(t, s.FetchAll(context.Background()))

	snap := s.Documents()
	snap[0].Name = "mutated"
	assert.Equal(t, "Contrato.pdf", s.Documents()[0].Name)
}
