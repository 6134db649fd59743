package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Translator looks up the display string for a key.
type Translator interface {
	T(key string) string
}

// Supported languages. English is the key language.
var (
	English = language.English
	French  = language.French
)

var matcher = language.NewMatcher([]language.Tag{English, French})

// aiMonikers are the reserved sender names of the assistant, per locale.
var aiMonikers = []string{"AI", "IA"}

// IsAI reports whether a sender name is an AI identity.
func IsAI(name string) bool {
	for _, moniker := range aiMonikers {
		if name == moniker {
			return true
		}
	}
	return false
}

var french = map[string]string{
	"AI":                                     "IA",
	"Copy":                                   "Copier",
	"Reply":                                  "Répondre",
	"Delete":                                 "Supprimer",
	"Hide from AI":                           "Cacher de l'IA",
	"Join this group":                        "Rejoindre ce groupe",
	"Type a message":                         "Écrivez un message",
	"Reply to a deleted message":             "Réponse à un message supprimé",
	"AI is busy responding, please wait":     "L'IA est en train de répondre, veuillez patienter",
	"All prior messages will be skipped":     "Tous les messages précédents seront ignorés par l'IA",
	"Please confirm you want to delete":      "Veuillez confirmer la suppression",
	"Failed to copy the message":             "Échec de la copie du message",
	"Copied":                                 "Copié",
	"You are offline":                        "Vous êtes hors ligne",
	"(no message)":                           "(aucun message)",
	"(deleted message)":                      "(message supprimé)",
	"Username and password are required":     "Nom d'utilisateur et mot de passe requis",
	"Select a message first":                 "Sélectionnez d'abord un message",
	"Only your messages can be changed":      "Seuls vos messages peuvent être modifiés",
	"Loading...":                             "Chargement...",
	"Rooms":                                  "Salons",
	"No rooms":                               "Aucun salon",
	"Replying to":                            "Réponse à",
	"AI replied to you":                      "L'IA vous a répondu",
	"Back":                                   "Retour",
	"Send":                                   "Envoyer",
	"Cancel":                                 "Annuler",
	"Message deleted":                        "Message supprimé",
	"Messages up to here are hidden from AI": "Les messages jusqu'ici sont cachés de l'IA",
}

var english = map[string]string{
	"IA": "AI",
}

var builder = newCatalog()

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(English))
	for key, value := range french {
		_ = b.SetString(French, key, value)
	}
	for key, value := range english {
		_ = b.SetString(English, key, value)
	}
	return b
}

// Match returns the supported language closest to the given code.
// Empty or unknown values fall back to English.
func Match(code string) language.Tag {
	code = strings.TrimSpace(code)
	if code == "" {
		return English
	}
	tag, _ := language.MatchStrings(matcher, code)
	base, _ := tag.Base()
	if base.String() == "fr" {
		return French
	}
	return English
}

// Printer translates keys for one language.
type Printer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Printer for the language code (en, fr, fr-CA, ...).
func New(code string) *Printer {
	tag := Match(code)
	return &Printer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
	}
}

// T implements Translator. Keys without a translation are returned as-is.
func (p *Printer) T(key string) string {
	if p == nil || key == "" {
		return key
	}
	return p.printer.Sprintf(key)
}

// Code returns the short language code.
func (p *Printer) Code() string {
	base, _ := p.tag.Base()
	return base.String()
}

// Identity is a Translator that returns keys unchanged.
type Identity struct{}

// T implements Translator.
func (Identity) T(key string) string { return key }
