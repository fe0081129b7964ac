package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"preserva/cmd/preserva/ui"
	"preserva/internal/api"
	"preserva/internal/document"
)

type detailDialog int

const (
	detailDialogNone detailDialog = iota
	detailDialogConfirmDelete
	detailDialogShare
	detailDialogAlert
)

// detailModel is the single-document view: PDF link, metadata pane, and the
// short polling chain that follows the preservation pipeline until the
// status is terminal.
type detailModel struct {
	styles      ui.Styles
	client      *api.Client
	shareOrigin string

	id      string
	doc     document.Document
	viewURL string
	loaded  bool
	loadErr error

	dialog    detailDialog
	alertText string
	// closeAfterAlert returns to the dashboard when the alert is dismissed
	// (set after a successful delete).
	closeAfterAlert bool

	width  int
	height int
}

func newDetailModel(styles ui.Styles, client *api.Client, shareOrigin string) detailModel {
	return detailModel{styles: styles, client: client, shareOrigin: shareOrigin}
}

func (m *detailModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

// reset prepares the model for a newly opened document.
func (m *detailModel) reset(id string) {
	m.id = id
	m.doc = document.Document{}
	m.viewURL = ""
	m.loaded = false
	m.loadErr = nil
	m.dialog = detailDialogNone
	m.closeAfterAlert = false
}

// fetch loads the document and a fresh viewing token. The token is
// short-lived, so every refresh rebuilds the view URL too.
func (m detailModel) fetch() tea.Cmd {
	client, id := m.client, m.id
	return func() tea.Msg {
		ctx := context.Background()
		doc, err := client.GetDocument(ctx, id)
		if err != nil {
			return docFetchedMsg{err: err}
		}
		tok, err := client.ViewToken(ctx, id)
		if err != nil {
			return docFetchedMsg{err: err}
		}
		return docFetchedMsg{doc: doc, viewURL: client.ViewURL(id, tok)}
	}
}

// deleteSelf removes this document server-side.
func (m detailModel) deleteSelf() tea.Cmd {
	client, id := m.client, m.id
	return func() tea.Msg {
		return deleteDoneMsg{id: id, err: client.DeleteDocument(context.Background(), id)}
	}
}

// saveMetadata writes the metadata export next to the working directory,
// mirroring the portal's "-metadados.json" download.
func (m detailModel) saveMetadata() tea.Cmd {
	doc := m.doc
	return func() tea.Msg {
		data, err := doc.MetadataJSON()
		if err != nil {
			return metadataSavedMsg{err: err}
		}
		path := doc.Name + "-metadados.json"
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return metadataSavedMsg{err: err}
		}
		return metadataSavedMsg{path: path}
	}
}

func (m detailModel) update(msg tea.Msg) (detailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case docFetchedMsg:
		if msg.err != nil {
			// First load failing is a dead end worth telling the user
			// about; a failed background refresh keeps the stale copy.
			if !m.loaded {
				m.loadErr = msg.err
				m.dialog = detailDialogAlert
				m.alertText = "Erro ao carregar documento. Não foi possível obter os detalhes."
				m.closeAfterAlert = true
			}
			return m, nil
		}
		m.doc = msg.doc
		m.viewURL = msg.viewURL
		m.loaded = true
		return m, nil

	case deleteDoneMsg:
		m.dialog = detailDialogAlert
		if msg.err != nil {
			m.alertText = "Erro ao excluir documento. Tente novamente."
		} else {
			m.alertText = "Documento excluído com sucesso!"
			m.closeAfterAlert = true
		}
		return m, nil

	case metadataSavedMsg:
		m.dialog = detailDialogAlert
		if msg.err != nil {
			m.alertText = "Erro ao salvar metadados: " + msg.err.Error()
		} else {
			m.alertText = "Metadados salvos em " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m detailModel) handleKey(msg tea.KeyMsg) (detailModel, tea.Cmd) {
	if m.dialog != detailDialogNone {
		switch m.dialog {
		case detailDialogConfirmDelete:
			switch msg.String() {
			case "enter", "y":
				m.dialog = detailDialogNone
				return m, m.deleteSelf()
			case "esc", "n":
				m.dialog = detailDialogNone
			}
		case detailDialogShare, detailDialogAlert:
			switch msg.String() {
			case "enter", "esc":
				closing := m.dialog == detailDialogAlert && m.closeAfterAlert
				m.dialog = detailDialogNone
				if closing {
					return m, func() tea.Msg { return showPageMsg(pageDashboard) }
				}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "esc", "b":
		return m, func() tea.Msg { return showPageMsg(pageDashboard) }
	case "r":
		return m, m.fetch()
	case "d":
		if m.loaded {
			m.dialog = detailDialogConfirmDelete
		}
	case "s":
		if m.loaded {
			m.dialog = detailDialogShare
		}
	case "x":
		if m.loaded {
			return m, m.saveMetadata()
		}
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m detailModel) view() string {
	if !m.loaded {
		if m.loadErr != nil {
			return m.styles.Content.Render(m.styles.Error.Render("Documento indisponível.")) +
				"\n" + m.dialogView()
		}
		return m.styles.Content.Render("Carregando...")
	}

	var b strings.Builder
	b.WriteString(m.styles.Content.Render(m.styles.Title.Render(m.doc.Name)))
	b.WriteString("\n")

	info := fmt.Sprintf("%s   %s",
		m.styles.StatusBadge(m.doc.Status),
		m.styles.Muted.Render("Criado em "+m.doc.CreatedDisplay()))
	b.WriteString(m.styles.Content.Render(info))
	b.WriteString("\n")

	if m.viewURL != "" {
		b.WriteString(m.styles.Content.Render(
			m.styles.FieldLabel.Render("Visualização:") + " " + m.viewURL))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Content.Render(
		m.styles.Subtitle.Render("Metadados") + "\n" + m.styles.MetadataList(m.doc.Metadata)))

	if dialog := m.dialogView(); dialog != "" {
		b.WriteString("\n")
		b.WriteString(dialog)
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(
		"esc voltar · r atualizar · s compartilhar · x salvar metadados · d excluir · q sair"))
	return b.String()
}

func (m detailModel) dialogView() string {
	switch m.dialog {
	case detailDialogConfirmDelete:
		return m.styles.DialogBox("Excluir documento",
			fmt.Sprintf("Tem certeza que deseja excluir o documento %q?\nEsta ação não pode ser desfeita.", m.doc.Name),
			"enter excluir · esc cancelar", m.width)
	case detailDialogShare:
		link := document.ShareLink(m.shareOrigin, m.doc.ID)
		body := fmt.Sprintf("Link: %s\n\nWhatsApp: %s\nTelegram: %s\nE-mail:   %s",
			link,
			document.ShareWhatsApp(m.doc.Name, link),
			document.ShareTelegram(m.doc.Name, link),
			document.ShareMailto(m.doc.Name, link))
		return m.styles.DialogBox("Compartilhar documento", body, "esc fechar", m.width)
	case detailDialogAlert:
		return m.styles.DialogBox("Aviso", m.alertText, "enter fechar", m.width)
	}
	return ""
}
