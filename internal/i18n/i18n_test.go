package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalizeDefaultsToEnglish(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)

	out := tr.Localize(100, "AdminsOnly", nil)
	assert.NotEqual(t, "AdminsOnly", out, "message ID must resolve to a translation")
}

func TestLocalizeTemplateData(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)

	out := tr.Localize(100, "Welcome", map[string]interface{}{"Name": "Alice"})
	assert.Contains(t, out, "Alice")
}

func TestSetLanguage(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)

	assert.Equal(t, "en", tr.Language(100))

	tr.SetLanguage(100, "ru")
	assert.Equal(t, "ru", tr.Language(100))
	assert.Equal(t, "en", tr.Language(200), "language choice is per chat")

	en := tr.Localize(200, "LanguageSet", nil)
	ru := tr.Localize(100, "LanguageSet", nil)
	assert.NotEqual(t, en, ru)
}

func TestLocalizeTitleTemplates(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)

	out := tr.Localize(100, "SongRemoved", map[string]interface{}{"Title": "Old Song"})
	assert.Contains(t, out, "Old Song")

	out = tr.Localize(100, "Demoted", map[string]interface{}{"Name": "@bob"})
	assert.Contains(t, out, "@bob")
}

func TestLocalizeUnknownID(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)

	assert.Equal(t, "NoSuchMessage", tr.Localize(100, "NoSuchMessage", nil))
}
