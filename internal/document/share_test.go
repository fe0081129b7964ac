package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShareLinks(t *testing.T) {
	link := ShareLink("https://portal.example.com", "abc-123")
	assert.Equal(t, "https://portal.example.com/document/abc-123", link)

	wa := ShareWhatsApp("Contrato.pdf", link)
	assert.Equal(t,
		"https://api.whatsapp.com/send?text=Contrato.pdf%3A+https%3A%2F%2Fportal.example.com%2Fdocument%2Fabc-123",
		wa)

	tg := ShareTelegram("Contrato.pdf", link)
	assert.Contains(t, tg, "https://telegram.me/share/url?url=")
	assert.Contains(t, tg, "text=Contrato.pdf")

	mail := ShareMailto("Contrato.pdf", link)
	assert.Contains(t, mail, "mailto:?subject=Contrato.pdf")
	assert.Contains(t, mail, "Confira+este+documento")
}
