package document

import (
	"fmt"
	"net/url"
)

// ShareLink builds the public link for a document, valid for as long as the
// document exists. origin is the portal front-end origin, not the API base.
func ShareLink(origin, id string) string {
	return fmt.Sprintf("%s/document/%s", origin, id)
}

// ShareWhatsApp builds the WhatsApp share URL for a document link.
func ShareWhatsApp(name, link string) string {
	return "https://api.whatsapp.com/send?text=" + url.QueryEscape(name+": "+link)
}

// ShareTelegram builds the Telegram share URL for a document link.
func ShareTelegram(name, link string) string {
	return "https://telegram.me/share/url?url=" + url.QueryEscape(link) + "&text=" + url.QueryEscape(name)
}

// ShareMailto builds a mailto URL with the document link in the body.
func ShareMailto(name, link string) string {
	return "mailto:?subject=" + url.QueryEscape(name) +
		"&body=" + url.QueryEscape("Confira este documento: "+link)
}
