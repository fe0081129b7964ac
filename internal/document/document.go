// Package document holds the client-side model of a preserved document
// and the pure filtering logic applied to the fetched collection.
// The backend owns every Document; this layer only caches read-only
// copies refreshed by polling.
package document

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status is the preservation lifecycle stage mirrored from the backend.
type Status string

const (
	StatusIniciado    Status = "INICIADO"
	StatusProcessando Status = "PROCESSANDO"
	StatusPreservado  Status = "PRESERVADO"
	StatusFalha       Status = "FALHA"

	// StatusAll is the sentinel meaning "no status filter".
	StatusAll = "todos"
)

// Statuses lists the canonical set offered as filter choices, in display order.
var Statuses = []Status{StatusIniciado, StatusProcessando, StatusPreservado, StatusFalha}

// Terminal reports whether the preservation pipeline is done with the
// document. The detail view stops polling once a terminal status is reached.
func (s Status) Terminal() bool {
	return s == StatusPreservado || s == StatusFalha
}

// Label returns the human-readable badge text for a status. Legacy lowercase
// statuses from earlier backend revisions are passed through unchanged so old
// records still render.
func (s Status) Label() string {
	switch s {
	case StatusIniciado:
		return "Iniciado"
	case StatusProcessando:
		return "Processando"
	case StatusPreservado:
		return "Preservado"
	case StatusFalha:
		return "Falha"
	}
	if s == "" {
		return "Desconhecido"
	}
	return string(s)
}

// Metadata is the open field → value mapping attached to a document.
// Values are arbitrary scalars or nested structures; the backend extracts
// them from the PDF (author, title, producer, ...) or takes them from the
// upload form (autor, tema, linguagem, ano).
type Metadata map[string]any

// Document is the client's read-only copy of one uploaded file.
// CreatedAt stays the raw ISO-8601 string as received; it is parsed lazily
// by the date filters so an unparseable value is never a fetch error.
type Document struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Status    Status   `json:"status"`
	CreatedAt string   `json:"createdAt"`
	Metadata  Metadata `json:"metadata,omitempty"`
}

// createdAtFormats are tried in order when parsing CreatedAt.
var createdAtFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

// Created parses the CreatedAt timestamp. ok is false when the value does
// not parse; callers treat that as "excluded from date-filtered results",
// never as an error.
func (d Document) Created() (time.Time, bool) {
	for _, layout := range createdAtFormats {
		if t, err := time.Parse(layout, d.CreatedAt); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CreatedDisplay formats the creation timestamp for rendering, falling back
// to the raw string when it does not parse.
func (d Document) CreatedDisplay() string {
	t, ok := d.Created()
	if !ok {
		return d.CreatedAt
	}
	return t.Format("02/01/2006 15:04")
}

// MetadataString renders one metadata value the way the filter (and the
// metadata pane) sees it: scalars via plain formatting, nested values as JSON.
func MetadataString(v any) string {
	switch v.(type) {
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
	return fmt.Sprint(v)
}

// MetadataJSON pretty-prints the whole metadata mapping for export
// (the "-metadados.json" download in the detail view).
func (d Document) MetadataJSON() ([]byte, error) {
	m := d.Metadata
	if m == nil {
		m = Metadata{}
	}
	return json.MarshalIndent(m, "", "  ")
}
