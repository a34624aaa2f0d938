// Package i18n renders user-facing strings through a locale-aware catalog.
// The English source string doubles as the message key.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	log "github.com/sirupsen/logrus"
)

// Printer formats user-facing messages for one configured locale
type Printer struct {
	p *message.Printer
}

// NewPrinter creates a printer for the given BCP 47 locale tag, falling
// back to English when the tag is unknown
func NewPrinter(locale string) *Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		log.WithField("locale", locale).Warn("Unknown locale, falling back to English")
		tag = language.English
	}
	return &Printer{p: message.NewPrinter(tag)}
}

// Sprintf formats the message identified by its English source string
func (pr *Printer) Sprintf(key message.Reference, args ...interface{}) string {
	return pr.p.Sprintf(key, args...)
}
