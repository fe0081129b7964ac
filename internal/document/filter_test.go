package document

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func sampleDocs() []Document {
	return []Document{
		{ID: "1", Name: "Contrato.pdf", Status: StatusPreservado, CreatedAt: "2025-04-10T14:30:00Z",
			Metadata: Metadata{"author": "Maria", "year": 2024}},
		{ID: "2", Name: "Relatório.pdf", Status: StatusIniciado, CreatedAt: "2025-04-11T09:00:00Z",
			Metadata: Metadata{"author": "Carlos", "subject": "financeiro"}},
		{ID: "3", Name: "ata-reuniao.pdf", Status: StatusProcessando, CreatedAt: "2025-03-01T00:00:00Z"},
		{ID: "4", Name: "Edital.pdf", Status: StatusFalha, CreatedAt: "not-a-date",
			Metadata: Metadata{"author": "Maria Clara"}},
	}
}

func TestFilterNeutralCriteriaReturnsAll(t *testing.T) {
	docs := sampleDocs()
	got := Filter(docs, NeutralCriteria())
	if diff := cmp.Diff(docs, got); diff != "" {
		t.Errorf("neutral filter changed the collection (-want +got):\n%s", diff)
	}
}

func TestFilterTextCaseInsensitive(t *testing.T) {
	docs := []Document{{ID: "1", Name: "Contrato.pdf"}}
	c := NeutralCriteria()
	c.Text = "CONTRATO"
	got := Filter(docs, c)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestFilterTextNoMatch(t *testing.T) {
	c := NeutralCriteria()
	c.Text = "inexistente"
	assert.Empty(t, Filter(sampleDocs(), c))
}

func TestFilterStatusExactMatch(t *testing.T) {
	c := NeutralCriteria()
	c.Status = "PRESERVADO"
	got := Filter(sampleDocs(), c)
	require.Len(t, got, 1)
	assert.Equal(t, StatusPreservado, got[0].Status)

	// Case-sensitive against the canonical set.
	c.Status = "preservado"
	assert.Empty(t, Filter(sampleDocs(), c))
}

func TestFilterMetadata(t *testing.T) {
	docs := sampleDocs()

	c := NeutralCriteria()
	c.MetadataField = "author"
	c.MetadataValue = "mar"
	got := Filter(docs, c)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "4", got[1].ID)

	c.MetadataValue = "carlos"
	got = Filter(docs, c)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	// Documents with no metadata never match a metadata filter.
	for _, d := range got {
		assert.NotEmpty(t, d.Metadata)
	}
	c.MetadataValue = "reuniao"
	assert.Empty(t, Filter([]Document{{ID: "3", Name: "ata-reuniao.pdf"}}, c))
}

func TestFilterMetadataRequiresFieldAndValue(t *testing.T) {
	docs := sampleDocs()

	// Field selected but empty value: filter is off.
	c := NeutralCriteria()
	c.MetadataField = "author"
	assert.Len(t, Filter(docs, c), len(docs))

	// Value supplied but field is the sentinel: filter is off.
	c = NeutralCriteria()
	c.MetadataValue = "maria"
	assert.Len(t, Filter(docs, c), len(docs))
}

func TestFilterMetadataNestedValue(t *testing.T) {
	docs := []Document{{ID: "1", Name: "a.pdf",
		Metadata: Metadata{"keywords": []any{"preservação", "digital"}}}}
	c := NeutralCriteria()
	c.MetadataField = "keywords"
	c.MetadataValue = "DIGITAL"
	assert.Len(t, Filter(docs, c), 1)
}

func TestFilterDateRange(t *testing.T) {
	docs := []Document{{ID: "1", Name: "a.pdf", CreatedAt: "2025-04-10T12:00:00Z"}}

	c := NeutralCriteria()
	c.DateFrom = date("2025-04-09")
	assert.Len(t, Filter(docs, c), 1, "created 2025-04-10 is after from=2025-04-09")

	c = NeutralCriteria()
	c.DateTo = date("2025-04-10")
	assert.Len(t, Filter(docs, c), 1, "to date is inclusive of its full day")

	c = NeutralCriteria()
	c.DateTo = date("2025-04-09")
	assert.Empty(t, Filter(docs, c))
}

func TestFilterDateExcludesUnparseable(t *testing.T) {
	docs := sampleDocs()

	c := NeutralCriteria()
	c.DateFrom = date("2020-01-01")
	for _, d := range Filter(docs, c) {
		assert.NotEqual(t, "4", d.ID, "unparseable createdAt must not pass a date filter")
	}

	// Without a date filter the same document is unaffected.
	c = NeutralCriteria()
	c.Text = "edital"
	got := Filter(docs, c)
	require.Len(t, got, 1)
	assert.Equal(t, "4", got[0].ID)
}

func TestFilterComposesWithAND(t *testing.T) {
	docs := sampleDocs()
	c := NeutralCriteria()
	c.Text = ".pdf"
	c.Status = "PRESERVADO"
	c.MetadataField = "author"
	c.MetadataValue = "maria"
	c.DateFrom = date("2025-04-01")
	c.DateTo = date("2025-04-30")
	got := Filter(docs, c)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestFilterPreservesOrderAndSubset(t *testing.T) {
	docs := sampleDocs()
	c := NeutralCriteria()
	c.Text = "pdf"
	got := Filter(docs, c)

	byID := make(map[string]int)
	for i, d := range docs {
		byID[d.ID] = i
	}
	last := -1
	for _, d := range got {
		idx, ok := byID[d.ID]
		require.True(t, ok, "filter produced a document not in the input")
		assert.Greater(t, idx, last, "filter reordered the collection")
		last = idx
	}
}

func TestMetadataFields(t *testing.T) {
	fields := MetadataFields(sampleDocs())
	assert.Equal(t, []string{"author", "subject", "year"}, fields)
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusPreservado.Terminal())
	assert.True(t, StatusFalha.Terminal())
	assert.False(t, StatusIniciado.Terminal())
	assert.False(t, StatusProcessando.Terminal())
}
