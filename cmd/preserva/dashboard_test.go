package main

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"preserva/cmd/preserva/ui"
	"preserva/internal/docstate"
	"preserva/internal/document"
)

func testDashboard(t *testing.T, fake *fakeDocs) (dashboardModel, *docstate.Store) {
	t.Helper()
	store := docstate.NewStore(fake, zap.NewNop())
	require.NoError(t, store.FetchAll(context.Background()))
	return newDashboardModel(ui.DefaultStyles(), store, "http://localhost:3001"), store
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func sampleDocs() []document.Document {
	return []document.Document{
		{ID: "1", Name: "Relatório Anual.pdf", Status: document.StatusPreservado,
			CreatedAt: "2025-04-10T12:00:00Z", Metadata: document.Metadata{"autor": "Ana"}},
		{ID: "2", Name: "Ata de Reunião.pdf", Status: document.StatusProcessando,
			CreatedAt: "2025-04-12T09:30:00Z", Metadata: document.Metadata{"autor": "Bruno"}},
	}
}

func TestDashboardStatusKeyCyclesFilter(t *testing.T) {
	m, _ := testDashboard(t, &fakeDocs{docs: sampleDocs()})

	require.Equal(t, document.StatusAll, m.criteria().Status)

	m, _ = m.update(keyRune('f'))
	assert.Equal(t, string(document.StatusIniciado), m.criteria().Status)

	// A full cycle lands back on the sentinel.
	for i := 0; i < len(document.Statuses); i++ {
		m, _ = m.update(keyRune('f'))
	}
	assert.Equal(t, document.StatusAll, m.criteria().Status)
}

func TestDashboardSearchNarrowsList(t *testing.T) {
	m, _ := testDashboard(t, &fakeDocs{docs: sampleDocs()})

	m.search.SetValue("relatório")
	got := m.filtered()
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestDashboardClearResetsFilters(t *testing.T) {
	m, _ := testDashboard(t, &fakeDocs{docs: sampleDocs()})

	m.search.SetValue("ata")
	m.dateFrom.SetValue("2025-04-11")
	m, _ = m.update(keyRune('f'))
	require.True(t, m.criteria().Active())

	m, _ = m.update(keyRune('x'))
	assert.False(t, m.criteria().Active())
	assert.Len(t, m.filtered(), 2)
}

func TestDashboardEnterOpensDetail(t *testing.T) {
	m, _ := testDashboard(t, &fakeDocs{docs: sampleDocs()})

	_, cmd := m.update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(showDetailMsg)
	require.True(t, ok)
	assert.Equal(t, "1", msg.id)
}

func TestDashboardDeleteFlow(t *testing.T) {
	fake := &fakeDocs{docs: sampleDocs()}
	m, store := testDashboard(t, fake)

	m, _ = m.update(keyRune('d'))
	require.Equal(t, dialogConfirmDelete, m.dialog)
	assert.Equal(t, "1", m.dialogDoc.ID)

	m, cmd := m.update(keyRune('y'))
	require.NotNil(t, cmd)
	m, _ = m.update(cmd())

	assert.Equal(t, dialogAlert, m.dialog)
	assert.Equal(t, "Documento excluído com sucesso!", m.alertText)
	assert.Equal(t, []string{"1"}, fake.deleted)
	_, ok := store.Get("1")
	assert.False(t, ok, "the document leaves the collection only after the backend confirmed")
}

func TestDashboardDeleteFailureKeepsDocument(t *testing.T) {
	fake := &fakeDocs{docs: sampleDocs(), deleteErr: errors.New("boom")}
	m, store := testDashboard(t, fake)

	m, _ = m.update(keyRune('d'))
	m, cmd := m.update(keyRune('y'))
	require.NotNil(t, cmd)
	m, _ = m.update(cmd())

	assert.Equal(t, dialogAlert, m.dialog)
	assert.Equal(t, "Erro ao excluir documento. Tente novamente.", m.alertText)
	_, ok := store.Get("1")
	assert.True(t, ok, "a failed delete rolls back")
}

func TestDashboardEscCancelsDelete(t *testing.T) {
	fake := &fakeDocs{docs: sampleDocs()}
	m, _ := testDashboard(t, fake)

	m, _ = m.update(keyRune('d'))
	m, cmd := m.update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.Equal(t, dialogNone, m.dialog)
	assert.Empty(t, fake.deleted)
}
