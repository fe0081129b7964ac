package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"preserva/cmd/preserva/ui"
	"preserva/internal/document"
)

func testDetail(id string) detailModel {
	m := newDetailModel(ui.DefaultStyles(), nil, "http://localhost:3001")
	m.reset(id)
	return m
}

func loadedDoc() document.Document {
	return document.Document{
		ID:        "1",
		Name:      "Relatório Anual.pdf",
		Status:    document.StatusProcessando,
		CreatedAt: "2025-04-10T12:00:00Z",
		Metadata:  document.Metadata{"autor": "Ana"},
	}
}

func TestDetailFirstLoadFailureAlertsAndCloses(t *testing.T) {
	m := testDetail("1")

	m, _ = m.update(docFetchedMsg{err: assert.AnError})
	require.Equal(t, detailDialogAlert, m.dialog)
	assert.Equal(t, "Erro ao carregar documento. Não foi possível obter os detalhes.", m.alertText)

	// Dismissing the alert leaves the page.
	m, cmd := m.update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(showPageMsg)
	require.True(t, ok)
	assert.Equal(t, pageDashboard, page(msg))
}

func TestDetailRefreshFailureKeepsStaleCopy(t *testing.T) {
	m := testDetail("1")
	m, _ = m.update(docFetchedMsg{doc: loadedDoc(), viewURL: "http://localhost:3000/view/1?token=t"})
	require.True(t, m.loaded)

	m, _ = m.update(docFetchedMsg{err: assert.AnError})
	assert.Equal(t, detailDialogNone, m.dialog, "a failed background refresh is silent")
	assert.Equal(t, "Relatório Anual.pdf", m.doc.Name)
}

func TestDetailRefreshReplacesDocumentAndViewURL(t *testing.T) {
	m := testDetail("1")
	m, _ = m.update(docFetchedMsg{doc: loadedDoc(), viewURL: "http://localhost:3000/view/1?token=a"})

	refreshed := loadedDoc()
	refreshed.Status = document.StatusPreservado
	m, _ = m.update(docFetchedMsg{doc: refreshed, viewURL: "http://localhost:3000/view/1?token=b"})

	assert.Equal(t, document.StatusPreservado, m.doc.Status)
	assert.Equal(t, "http://localhost:3000/view/1?token=b", m.viewURL, "each refresh carries a fresh viewing token")
}

func TestDetailDeleteSuccessReturnsToDashboard(t *testing.T) {
	m := testDetail("1")
	m, _ = m.update(docFetchedMsg{doc: loadedDoc(), viewURL: ""})

	m, _ = m.update(deleteDoneMsg{id: "1"})
	require.Equal(t, detailDialogAlert, m.dialog)
	assert.Equal(t, "Documento excluído com sucesso!", m.alertText)

	m, cmd := m.update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	msg, ok := cmd().(showPageMsg)
	require.True(t, ok)
	assert.Equal(t, pageDashboard, page(msg))
}

func TestDetailDeleteFailureStays(t *testing.T) {
	m := testDetail("1")
	m, _ = m.update(docFetchedMsg{doc: loadedDoc(), viewURL: ""})

	m, _ = m.update(deleteDoneMsg{id: "1", err: assert.AnError})
	require.Equal(t, detailDialogAlert, m.dialog)

	m, cmd := m.update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "a failed delete keeps the user on the page")
	assert.Equal(t, detailDialogNone, m.dialog)
}
