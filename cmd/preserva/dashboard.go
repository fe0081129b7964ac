package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"preserva/cmd/preserva/ui"
	"preserva/internal/docstate"
	"preserva/internal/document"
)

// dashboardFocus identifies which control is capturing keystrokes.
type dashboardFocus int

const (
	focusList dashboardFocus = iota
	focusSearch
	focusMetaValue
	focusDateFrom
	focusDateTo
)

// dashboardDialog identifies the open modal, if any.
type dashboardDialog int

const (
	dialogNone dashboardDialog = iota
	dialogConfirmDelete
	dialogShare
	dialogAlert
)

// dashboardModel is the document list page: fetch-backed collection,
// client-side filters, and the delete/share dialogs.
type dashboardModel struct {
	styles      ui.Styles
	store       *docstate.Store
	shareOrigin string

	search    textinput.Model
	metaValue textinput.Model
	dateFrom  textinput.Model
	dateTo    textinput.Model
	spinner   spinner.Model

	statusIdx    int // 0 = todos, then document.Statuses
	metaFieldIdx int // 0 = todos, then MetadataFields of the collection

	focus  dashboardFocus
	cursor int

	dialog    dashboardDialog
	dialogDoc document.Document
	alertText string

	width  int
	height int
}

func newDashboardModel(styles ui.Styles, store *docstate.Store, shareOrigin string) dashboardModel {
	search := textinput.New()
	search.Placeholder = "Buscar documentos..."
	search.Prompt = "/ "
	search.CharLimit = 128

	metaValue := textinput.New()
	metaValue.Placeholder = "valor do metadado"
	metaValue.Prompt = "= "
	metaValue.CharLimit = 128

	dateFrom := textinput.New()
	dateFrom.Placeholder = "AAAA-MM-DD"
	dateFrom.Prompt = "de "
	dateFrom.CharLimit = 10

	dateTo := textinput.New()
	dateTo.Placeholder = "AAAA-MM-DD"
	dateTo.Prompt = "até "
	dateTo.CharLimit = 10

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return dashboardModel{
		styles:      styles,
		store:       store,
		shareOrigin: shareOrigin,
		search:      search,
		metaValue:   metaValue,
		dateFrom:    dateFrom,
		dateTo:      dateTo,
		spinner:     sp,
	}
}

func (m *dashboardModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.search.Width = min(w-8, 60)
}

// criteria assembles the current filter state. Date inputs that do not
// parse are treated as unset, so a half-typed date never filters.
func (m dashboardModel) criteria() document.Criteria {
	c := document.NeutralCriteria()
	c.Text = m.search.Value()
	if m.statusIdx > 0 && m.statusIdx <= len(document.Statuses) {
		c.Status = string(document.Statuses[m.statusIdx-1])
	}
	fields := m.metaFields()
	if m.metaFieldIdx > 0 && m.metaFieldIdx <= len(fields) {
		c.MetadataField = fields[m.metaFieldIdx-1]
		c.MetadataValue = m.metaValue.Value()
	}
	if t, err := time.Parse("2006-01-02", m.dateFrom.Value()); err == nil {
		c.DateFrom = &t
	}
	if t, err := time.Parse("2006-01-02", m.dateTo.Value()); err == nil {
		c.DateTo = &t
	}
	return c
}

func (m dashboardModel) metaFields() []string {
	return document.MetadataFields(m.store.Documents())
}

func (m dashboardModel) filtered() []document.Document {
	return m.store.Filtered(m.criteria())
}

// deleteDoc issues the backend deletion through the store's mutation state
// machine.
func deleteDoc(store *docstate.Store, id string) tea.Cmd {
	return func() tea.Msg {
		err := store.Delete(context.Background(), id)
		return deleteDoneMsg{id: id, err: err}
	}
}

func (m dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.store.Loading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case docsFetchedMsg:
		// Read failures keep stale data and stay silent here; the store
		// already logged them.
		m.clampCursor()
		return m, nil

	case deleteDoneMsg:
		m.dialog = dialogAlert
		if msg.err != nil {
			m.alertText = "Erro ao excluir documento. Tente novamente."
		} else {
			m.alertText = "Documento excluído com sucesso!"
			m.clampCursor()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m dashboardModel) handleKey(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	if m.dialog != dialogNone {
		return m.handleDialogKey(msg)
	}

	if m.focus != focusList {
		switch msg.Type {
		case tea.KeyEsc, tea.KeyEnter:
			m.blurInputs()
			m.focus = focusList
			m.clampCursor()
			return m, nil
		}
		var cmd tea.Cmd
		switch m.focus {
		case focusSearch:
			m.search, cmd = m.search.Update(msg)
		case focusMetaValue:
			m.metaValue, cmd = m.metaValue.Update(msg)
		case focusDateFrom:
			m.dateFrom, cmd = m.dateFrom.Update(msg)
		case focusDateTo:
			m.dateTo, cmd = m.dateTo.Update(msg)
		}
		m.clampCursor()
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.filtered())-1 {
			m.cursor++
		}
	case "enter":
		if doc, ok := m.selected(); ok {
			return m, func() tea.Msg { return showDetailMsg{id: doc.ID} }
		}
	case "/":
		m.focus = focusSearch
		return m, m.search.Focus()
	case "f":
		m.statusIdx = (m.statusIdx + 1) % (len(document.Statuses) + 1)
		m.clampCursor()
	case "m":
		m.metaFieldIdx = (m.metaFieldIdx + 1) % (len(m.metaFields()) + 1)
		m.clampCursor()
	case "v":
		m.focus = focusMetaValue
		return m, m.metaValue.Focus()
	case "[":
		m.focus = focusDateFrom
		return m, m.dateFrom.Focus()
	case "]":
		m.focus = focusDateTo
		return m, m.dateTo.Focus()
	case "x":
		m.search.SetValue("")
		m.metaValue.SetValue("")
		m.dateFrom.SetValue("")
		m.dateTo.SetValue("")
		m.statusIdx = 0
		m.metaFieldIdx = 0
	case "r":
		return m, fetchDocs(m.store)
	case "n":
		return m, func() tea.Msg { return showPageMsg(pageUpload) }
	case "d":
		if doc, ok := m.selected(); ok {
			m.dialog = dialogConfirmDelete
			m.dialogDoc = doc
		}
	case "s":
		if doc, ok := m.selected(); ok {
			m.dialog = dialogShare
			m.dialogDoc = doc
		}
	case "ctrl+l":
		return m, func() tea.Msg { return showPageMsg(pageAuth) }
	}
	return m, nil
}

func (m dashboardModel) handleDialogKey(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch m.dialog {
	case dialogConfirmDelete:
		switch msg.String() {
		case "enter", "y":
			m.dialog = dialogNone
			return m, deleteDoc(m.store, m.dialogDoc.ID)
		case "esc", "n":
			m.dialog = dialogNone
		}
	case dialogShare, dialogAlert:
		switch msg.String() {
		case "enter", "esc":
			m.dialog = dialogNone
		}
	}
	return m, nil
}

func (m *dashboardModel) blurInputs() {
	m.search.Blur()
	m.metaValue.Blur()
	m.dateFrom.Blur()
	m.dateTo.Blur()
}

func (m *dashboardModel) clampCursor() {
	n := len(m.filtered())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m dashboardModel) selected() (document.Document, bool) {
	docs := m.filtered()
	if m.cursor < 0 || m.cursor >= len(docs) {
		return document.Document{}, false
	}
	return docs[m.cursor], true
}

func (m dashboardModel) statusLabel() string {
	if m.statusIdx == 0 {
		return "todos"
	}
	return document.Statuses[m.statusIdx-1].Label()
}

func (m dashboardModel) metaFieldLabel() string {
	fields := m.metaFields()
	if m.metaFieldIdx == 0 || m.metaFieldIdx > len(fields) {
		return "todos"
	}
	return fields[m.metaFieldIdx-1]
}

func (m dashboardModel) view() string {
	var b strings.Builder

	b.WriteString(m.styles.Content.Render(m.styles.Title.Render("Seus Documentos")))
	b.WriteString("\n")

	filterLine := fmt.Sprintf("%s   status: %s   metadado: %s %s   %s %s",
		m.search.View(),
		m.styles.Bold.Render(m.statusLabel()),
		m.styles.Bold.Render(m.metaFieldLabel()),
		m.metaValue.View(),
		m.dateFrom.View(),
		m.dateTo.View(),
	)
	b.WriteString(m.styles.Content.Render(filterLine))
	b.WriteString("\n")

	switch {
	case m.store.Loading():
		b.WriteString(m.styles.Content.Render(m.spinner.View() + " Carregando documentos..."))
	default:
		docs := m.filtered()
		if len(docs) == 0 {
			b.WriteString(m.styles.Content.Render(m.styles.EmptyState(m.criteria().Active())))
		} else {
			for i, doc := range docs {
				card := m.styles.DocumentCard(doc, m.width, i == m.cursor && m.focus == focusList,
					m.store.DeletePending(doc.ID))
				b.WriteString(card)
				b.WriteString("\n")
			}
		}
	}

	if dialog := m.dialogView(); dialog != "" {
		b.WriteString("\n")
		b.WriteString(dialog)
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(
		"↑/↓ navegar · enter detalhes · / buscar · f status · m metadado · v valor · [ ] datas · x limpar · n novo · d excluir · s compartilhar · r atualizar · q sair"))
	return b.String()
}

func (m dashboardModel) dialogView() string {
	switch m.dialog {
	case dialogConfirmDelete:
		return m.styles.DialogBox("Excluir documento",
			fmt.Sprintf("Tem certeza que deseja excluir o documento %q?\nEsta ação não pode ser desfeita.", m.dialogDoc.Name),
			"enter excluir · esc cancelar", m.width)
	case dialogShare:
		link := document.ShareLink(m.shareOrigin, m.dialogDoc.ID)
		body := fmt.Sprintf("Link: %s\n\nWhatsApp: %s\nTelegram: %s\nE-mail:   %s\n\nLink válido enquanto o documento existir.",
			link,
			document.ShareWhatsApp(m.dialogDoc.Name, link),
			document.ShareTelegram(m.dialogDoc.Name, link),
			document.ShareMailto(m.dialogDoc.Name, link))
		return m.styles.DialogBox("Compartilhar documento", body, "esc fechar", m.width)
	case dialogAlert:
		return m.styles.DialogBox("Aviso", m.alertText, "enter fechar", m.width)
	}
	return ""
}
