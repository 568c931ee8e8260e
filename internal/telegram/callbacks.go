package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/d3vil404/alice/internal/storage"
)

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.WithError(err).Debug("failed to answer callback")
	}

	data := cb.Data
	switch {
	case data == "lang_en" || data == "lang_ru":
		lang := strings.TrimPrefix(data, "lang_")
		b.tr.SetLanguage(chatID, lang)
		b.reply(chatID, b.text(chatID, "LanguageSet", nil))

	case data == "show_commands":
		b.reply(chatID, b.text(chatID, "Help", nil))

	case data == "about":
		b.reply(chatID, b.text(chatID, "About", nil))

	case strings.HasPrefix(data, "plplay|"):
		b.callbackPlayPlaylist(ctx, cb, strings.TrimPrefix(data, "plplay|"))

	case strings.HasPrefix(data, "pldel|"):
		b.callbackDeletePlaylist(ctx, cb, strings.TrimPrefix(data, "pldel|"))

	case strings.HasPrefix(data, "plrm|"):
		b.callbackRemoveSong(ctx, cb, strings.TrimPrefix(data, "plrm|"))
	}
}

func (b *Bot) callbackPlayPlaylist(ctx context.Context, cb *tgbotapi.CallbackQuery, name string) {
	chat := cb.Message.Chat
	chatID := chat.ID
	if !chat.IsGroup() && !chat.IsSuperGroup() {
		b.reply(chatID, b.text(chatID, "GroupsOnly", nil))
		return
	}

	pl, err := b.store.GetPlaylist(ctx, cb.From.ID, name)
	if errors.Is(err, storage.ErrPlaylistNotFound) {
		b.reply(chatID, b.text(chatID, "PlaylistNotFound", map[string]interface{}{"Name": name}))
		return
	}
	if err != nil {
		b.log.WithError(err).Error("get playlist failed")
		b.reply(chatID, b.text(chatID, "GenericError", nil))
		return
	}

	requester := requesterName(cb.From)
	queued := 0
	for _, song := range pl.Songs {
		if _, err := b.player.Play(ctx, chatID, chat.UserName, requester, cb.From.ID, song.URL, false); err != nil {
			b.reply(chatID, b.playErrorText(chatID, err))
			break
		}
		queued++
	}
	if queued > 0 {
		b.reply(chatID, b.text(chatID, "PlaylistQueued", map[string]interface{}{
			"Count": queued,
			"Name":  pl.Name,
		}))
	}
}

func (b *Bot) callbackDeletePlaylist(ctx context.Context, cb *tgbotapi.CallbackQuery, name string) {
	chatID := cb.Message.Chat.ID

	err := b.store.DeletePlaylist(ctx, cb.From.ID, name)
	switch {
	case errors.Is(err, storage.ErrPlaylistNotFound):
		b.edit(chatID, cb.Message.MessageID, b.text(chatID, "PlaylistNotFound", map[string]interface{}{"Name": name}))
	case err != nil:
		b.log.WithError(err).Error("delete playlist failed")
		b.reply(chatID, b.text(chatID, "GenericError", nil))
	default:
		b.edit(chatID, cb.Message.MessageID, b.text(chatID, "PlaylistDeleted", map[string]interface{}{"Name": name}))
	}
}

// callbackRemoveSong handles "plrm|<index>|<name>" and refreshes the
// playlist view in place.
func (b *Bot) callbackRemoveSong(ctx context.Context, cb *tgbotapi.CallbackQuery, payload string) {
	chatID := cb.Message.Chat.ID

	parts := strings.SplitN(payload, "|", 2)
	if len(parts) != 2 {
		return
	}
	index, err := strconv.Atoi(parts[0])
	if err != nil {
		return
	}
	name := parts[1]

	removed, err := b.store.RemoveSong(ctx, cb.From.ID, name, index)
	switch {
	case errors.Is(err, storage.ErrPlaylistNotFound):
		b.edit(chatID, cb.Message.MessageID, b.text(chatID, "PlaylistNotFound", map[string]interface{}{"Name": name}))
		return
	case errors.Is(err, storage.ErrInvalidIndex):
		return
	case err != nil:
		b.log.WithError(err).Error("remove song failed")
		b.reply(chatID, b.text(chatID, "GenericError", nil))
		return
	}

	pl, err := b.store.GetPlaylist(ctx, cb.From.ID, name)
	if err != nil {
		b.edit(chatID, cb.Message.MessageID, b.text(chatID, "SongRemoved", map[string]interface{}{"Title": removed.Title}))
		return
	}

	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID,
		PlaylistMessage(pl.Name, pl.Songs),
		playlistKeyboard(pl.Name, pl.Songs, b.cfg.Limits.MaxPlaylistSongs))
	if _, err := b.api.Send(edit); err != nil {
		b.log.WithError(err).Error("failed to refresh playlist view")
	}
}
