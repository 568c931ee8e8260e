package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/d3vil404/alice/internal/storage"
)

func startKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Commands", "show_commands"),
			tgbotapi.NewInlineKeyboardButtonData("ℹ️ About", "about"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("English", "lang_en"),
			tgbotapi.NewInlineKeyboardButtonData("Русский", "lang_ru"),
		),
	)
}

// playlistKeyboard lists each song with a remove button, plus play-all and
// delete controls. Callback data is capped at 64 bytes by Telegram, hence
// the short prefixes and truncated titles on the labels only.
func playlistKeyboard(name string, songs []storage.Song, maxSongs int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for i, song := range songs {
		title := song.Title
		if len(title) > 30 {
			title = title[:30] + "…"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("🗑 %d. %s", i+1, title),
				fmt.Sprintf("plrm|%d|%s", i, name),
			),
		))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("▶️ Play All", "plplay|"+name),
		tgbotapi.NewInlineKeyboardButtonData("🗑 Delete Playlist", "pldel|"+name),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
