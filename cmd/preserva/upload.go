package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"preserva/cmd/preserva/ui"
	"preserva/internal/api"
	"preserva/internal/document"
)

// uploadField indexes the form inputs in tab order.
type uploadField int

const (
	fieldName uploadField = iota
	fieldFile
	fieldAutor
	fieldTema
	fieldLinguagem
	fieldAno
	uploadFieldCount
)

var uploadLabels = [uploadFieldCount]string{
	"Nome do Documento",
	"Arquivo PDF (caminho)",
	"Autor",
	"Tema",
	"Linguagem",
	"Ano",
}

// uploadModel is the new-document form. Every field is required, matching
// the portal's upload page; validation runs client-side before any network
// call.
type uploadModel struct {
	styles ui.Styles
	client *api.Client

	inputs  [uploadFieldCount]textinput.Model
	focus   uploadField
	errs    map[uploadField]string
	sending bool
	failMsg string

	width  int
	height int
}

func newUploadModel(styles ui.Styles, client *api.Client) uploadModel {
	m := uploadModel{styles: styles, client: client, errs: map[uploadField]string{}}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.CharLimit = 256
		m.inputs[i] = ti
	}
	m.inputs[fieldFile].Placeholder = "./documento.pdf"
	m.inputs[fieldAno].CharLimit = 4
	return m
}

func (m *uploadModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m uploadModel) focusCmd() tea.Cmd {
	return m.inputs[m.focus].Focus()
}

// validate fills errs for every missing field and checks that the chosen
// file exists before the form goes anywhere near the backend.
func (m *uploadModel) validate() bool {
	m.errs = map[uploadField]string{}
	for f := fieldName; f < uploadFieldCount; f++ {
		if strings.TrimSpace(m.inputs[f].Value()) == "" {
			m.errs[f] = "Campo obrigatório"
		}
	}
	if path := m.inputs[fieldFile].Value(); m.errs[fieldFile] == "" {
		if _, err := os.Stat(path); err != nil {
			m.errs[fieldFile] = "Arquivo não encontrado"
		} else if !strings.EqualFold(filepath.Ext(path), ".pdf") {
			m.errs[fieldFile] = "Selecione um arquivo PDF"
		}
	}
	return len(m.errs) == 0
}

func (m uploadModel) submit() tea.Cmd {
	up := api.Upload{
		Name:     m.inputs[fieldName].Value(),
		FilePath: m.inputs[fieldFile].Value(),
		Metadata: document.Metadata{
			"autor":     m.inputs[fieldAutor].Value(),
			"tema":      m.inputs[fieldTema].Value(),
			"linguagem": m.inputs[fieldLinguagem].Value(),
			"ano":       m.inputs[fieldAno].Value(),
		},
	}
	client := m.client
	return func() tea.Msg {
		doc, err := client.UploadDocument(context.Background(), up)
		return uploadDoneMsg{doc: doc, err: err}
	}
}

func (m uploadModel) update(msg tea.Msg) (uploadModel, tea.Cmd) {
	switch msg := msg.(type) {
	case uploadDoneMsg:
		m.sending = false
		if msg.err != nil {
			m.failMsg = "Falha no envio. Verifique os dados."
			return m, nil
		}
		return m, func() tea.Msg { return showPageMsg(pageDashboard) }

	case tea.KeyMsg:
		if m.sending {
			return m, nil
		}
		switch msg.Type {
		case tea.KeyEsc:
			return m, func() tea.Msg { return showPageMsg(pageDashboard) }
		case tea.KeyTab, tea.KeyDown:
			return m.moveFocus(1)
		case tea.KeyShiftTab, tea.KeyUp:
			return m.moveFocus(-1)
		case tea.KeyEnter:
			if m.focus < uploadFieldCount-1 {
				return m.moveFocus(1)
			}
			if m.validate() {
				m.sending = true
				m.failMsg = ""
				return m, m.submit()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m uploadModel) moveFocus(delta int) (uploadModel, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = uploadField((int(m.focus) + delta + int(uploadFieldCount)) % int(uploadFieldCount))
	return m, m.inputs[m.focus].Focus()
}

func (m uploadModel) view() string {
	var b strings.Builder
	b.WriteString(m.styles.Content.Render(m.styles.Title.Render("Novo Documento")))
	b.WriteString("\n")

	for f := fieldName; f < uploadFieldCount; f++ {
		b.WriteString(m.styles.Content.Render(
			m.styles.FieldLabel.Render(uploadLabels[f]) + "\n" + m.inputs[f].View()))
		if msg, ok := m.errs[f]; ok {
			b.WriteString("\n" + m.styles.Content.Render(m.styles.FieldError.Render(msg)))
		}
		b.WriteString("\n")
	}

	if m.sending {
		b.WriteString(m.styles.Content.Render(m.styles.Info.Render("Enviando...")))
		b.WriteString("\n")
	}
	if m.failMsg != "" {
		b.WriteString(m.styles.Content.Render(m.styles.Error.Render(m.failMsg)))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render("tab próximo campo · enter enviar · esc cancelar"))
	return b.String()
}
