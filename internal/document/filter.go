package document

import (
	"sort"
	"strings"
	"time"
)

// MetadataFieldAll is the sentinel meaning "no metadata field selected".
const MetadataFieldAll = "todos"

// Criteria is the ephemeral, client-only filter state of the dashboard.
// The zero value with Status and MetadataField set to their sentinels is
// the neutral criteria that matches everything.
type Criteria struct {
	Text          string
	Status        string // StatusAll disables the status filter
	MetadataField string // MetadataFieldAll disables the metadata filter
	MetadataValue string
	DateFrom      *time.Time
	DateTo        *time.Time
}

// NeutralCriteria returns criteria with every filter off.
func NeutralCriteria() Criteria {
	return Criteria{Status: StatusAll, MetadataField: MetadataFieldAll}
}

// Active reports whether any filter would exclude documents.
func (c Criteria) Active() bool {
	return c.Text != "" ||
		(c.Status != "" && c.Status != StatusAll) ||
		c.metadataActive() ||
		c.DateFrom != nil || c.DateTo != nil
}

func (c Criteria) metadataActive() bool {
	return c.MetadataField != "" && c.MetadataField != MetadataFieldAll && c.MetadataValue != ""
}

// Filter returns the documents matching every active criterion, in their
// original order. The result is always a subset of docs; no criterion
// re-sorts or mutates anything.
func Filter(docs []Document, c Criteria) []Document {
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if matches(d, c) {
			out = append(out, d)
		}
	}
	return out
}

func matches(d Document, c Criteria) bool {
	if c.Text != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(c.Text)) {
		return false
	}

	// Exact, case-sensitive match against the canonical status set.
	if c.Status != "" && c.Status != StatusAll && string(d.Status) != c.Status {
		return false
	}

	if c.metadataActive() && !matchesMetadata(d, c.MetadataField, c.MetadataValue) {
		return false
	}

	if c.DateFrom != nil || c.DateTo != nil {
		created, ok := d.Created()
		if !ok {
			// Unparseable timestamps never survive a date filter.
			return false
		}
		if c.DateFrom != nil && !created.After(*c.DateFrom) {
			return false
		}
		// The end date is inclusive of its full calendar day.
		if c.DateTo != nil && !created.Before(c.DateTo.AddDate(0, 0, 1)) {
			return false
		}
	}

	return true
}

func matchesMetadata(d Document, field, value string) bool {
	if len(d.Metadata) == 0 {
		return false
	}
	v, ok := d.Metadata[field]
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(MetadataString(v)), strings.ToLower(value))
}

// MetadataFields collects the distinct metadata field names present in the
// collection, sorted, for the field selector.
func MetadataFields(docs []Document) []string {
	seen := make(map[string]bool)
	var fields []string
	for _, d := range docs {
		for k := range d.Metadata {
			if !seen[k] {
				seen[k] = true
				fields = append(fields, k)
			}
		}
	}
	// Map iteration order is random; keep the selector stable.
	sort.Strings(fields)
	return fields
}
