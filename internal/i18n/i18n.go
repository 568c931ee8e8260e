package i18n

import (
	"embed"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

// Translator localizes bot replies per chat. Language selection comes from the
// /start keyboard and lives in memory only; a restart falls back to English.
type Translator struct {
	bundle *i18n.Bundle

	mu       sync.RWMutex
	chatLang map[int64]string
}

func New() (*Translator, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, f := range []string{"locales/active.en.toml", "locales/active.ru.toml"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, f); err != nil {
			return nil, err
		}
	}

	return &Translator{
		bundle:   bundle,
		chatLang: make(map[int64]string),
	}, nil
}

func (t *Translator) SetLanguage(chatID int64, lang string) {
	t.mu.Lock()
	t.chatLang[chatID] = lang
	t.mu.Unlock()
}

func (t *Translator) Language(chatID int64) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if l, ok := t.chatLang[chatID]; ok {
		return l
	}
	return "en"
}

// Localize renders the message for the chat's language. Unknown IDs come back
// verbatim so a missing translation never swallows a reply.
func (t *Translator) Localize(chatID int64, messageID string, data map[string]interface{}) string {
	localizer := i18n.NewLocalizer(t.bundle, t.Language(chatID), "en")
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}
