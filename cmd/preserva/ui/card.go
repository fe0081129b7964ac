package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"preserva/internal/document"
)

// DocumentCard renders one document of the dashboard list: name, status
// badge, creation date. A pending delete is shown inline instead of the
// badge, matching the portal's "Excluindo..." button state.
func (s Styles) DocumentCard(doc document.Document, width int, selected, deletePending bool) string {
	style := s.Card
	if selected {
		style = s.SelectedCard
	}
	if width > 4 {
		style = style.Width(width - 2)
	}

	status := s.StatusBadge(doc.Status)
	if deletePending {
		status = s.Error.Render("Excluindo...")
	}

	line := lipgloss.JoinHorizontal(lipgloss.Center,
		s.Bold.Render(truncate(doc.Name, width-24)),
		"  ",
		status,
	)
	meta := s.Muted.Render("Criado em " + doc.CreatedDisplay())
	return style.Render(line + "\n" + meta)
}

// Dialog renders a centered modal box with a title, body, and key hints.
func (s Styles) DialogBox(title, body, hints string, width int) string {
	content := s.Title.Render(title) + "\n" + body
	if hints != "" {
		content += "\n\n" + s.Help.Render(hints)
	}
	box := s.Dialog.Render(content)
	if width <= 0 {
		return box
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
}

// EmptyState renders the no-documents placeholder.
func (s Styles) EmptyState(filtered bool) string {
	msg := "Você ainda não possui documentos cadastrados."
	if filtered {
		msg = "Nenhum documento encontrado. Tente ajustar seus filtros de busca."
	}
	return s.Muted.Render(msg)
}

// MetadataList renders the metadata mapping of the detail view, one field
// per line, sorted by field name.
func (s Styles) MetadataList(meta document.Metadata) string {
	if len(meta) == 0 {
		return s.Subtitle.Render("Nenhum metadado disponível para este documento.")
	}
	var b strings.Builder
	for _, field := range document.MetadataFields([]document.Document{{Metadata: meta}}) {
		fmt.Fprintf(&b, "%s %s\n",
			s.FieldLabel.Render(field+":"),
			s.Body.Render(document.MetadataString(meta[field])))
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(text string, max int) string {
	if max < 4 || len(text) <= max {
		return text
	}
	return text[:max-1] + "…"
}
