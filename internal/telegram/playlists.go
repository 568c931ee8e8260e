package telegram

import (
	"context"
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/d3vil404/alice/internal/storage"
)

func (b *Bot) handleCreatePlaylist(ctx context.Context, msg *tgbotapi.Message, args string) {
	chatID := msg.Chat.ID
	name := strings.TrimSpace(args)
	if name == "" {
		b.reply(chatID, b.text(chatID, "ProvidePlaylistName", nil))
		return
	}

	err := b.store.CreatePlaylist(ctx, msg.From.ID, name)
	switch {
	case errors.Is(err, storage.ErrPlaylistLimit):
		b.reply(chatID, b.text(chatID, "PlaylistLimit", map[string]interface{}{"Max": b.cfg.Limits.MaxPlaylists}))
	case errors.Is(err, storage.ErrPlaylistExists):
		b.reply(chatID, b.text(chatID, "PlaylistExists", nil))
	case err != nil:
		b.log.WithError(err).Error("create playlist failed")
		b.reply(chatID, b.text(chatID, "GenericError", nil))
	default:
		b.reply(chatID, b.text(chatID, "PlaylistCreated", map[string]interface{}{"Name": name}))
	}
}

func (b *Bot) handleShowPlaylist(ctx context.Context, msg *tgbotapi.Message, args string) {
	chatID := msg.Chat.ID
	name := strings.TrimSpace(args)

	if name == "" {
		playlists, err := b.store.ListPlaylists(ctx, msg.From.ID)
		if err != nil {
			b.log.WithError(err).Error("list playlists failed")
			b.reply(chatID, b.text(chatID, "GenericError", nil))
			return
		}
		if len(playlists) == 0 {
			b.reply(chatID, b.text(chatID, "NoPlaylists", nil))
			return
		}
		b.reply(chatID, PlaylistsOverview(playlists))
		return
	}

	pl, err := b.store.GetPlaylist(ctx, msg.From.ID, name)
	if errors.Is(err, storage.ErrPlaylistNotFound) {
		b.reply(chatID, b.text(chatID, "PlaylistNotFound", map[string]interface{}{"Name": name}))
		return
	}
	if err != nil {
		b.log.WithError(err).Error("get playlist failed")
		b.reply(chatID, b.text(chatID, "GenericError", nil))
		return
	}

	out := tgbotapi.NewMessage(chatID, PlaylistMessage(pl.Name, pl.Songs))
	kb := playlistKeyboard(pl.Name, pl.Songs, b.cfg.Limits.MaxPlaylistSongs)
	out.ReplyMarkup = kb
	if _, err := b.api.Send(out); err != nil {
		b.log.WithError(err).Error("failed to send playlist")
	}
}

func (b *Bot) handleDeletePlaylist(ctx context.Context, msg *tgbotapi.Message, args string) {
	chatID := msg.Chat.ID
	name := strings.TrimSpace(args)
	if name == "" {
		b.reply(chatID, b.text(chatID, "ProvidePlaylistName", nil))
		return
	}

	err := b.store.DeletePlaylist(ctx, msg.From.ID, name)
	switch {
	case errors.Is(err, storage.ErrPlaylistNotFound):
		b.reply(chatID, b.text(chatID, "PlaylistNotFound", map[string]interface{}{"Name": name}))
	case err != nil:
		b.log.WithError(err).Error("delete playlist failed")
		b.reply(chatID, b.text(chatID, "GenericError", nil))
	default:
		b.reply(chatID, b.text(chatID, "PlaylistDeleted", map[string]interface{}{"Name": name}))
	}
}

// handlePlaylist covers the catch-all /playlist command:
//
//	/playlist                     list playlists
//	/playlist add <name> <query>  resolve a song and store it
//	/playlist <name>              queue the whole playlist in the VC
func (b *Bot) handlePlaylist(ctx context.Context, msg *tgbotapi.Message, args string) {
	chatID := msg.Chat.ID
	fields := strings.Fields(args)

	if len(fields) == 0 {
		b.handleShowPlaylist(ctx, msg, "")
		return
	}

	if fields[0] == "add" {
		if len(fields) < 3 {
			b.reply(chatID, b.text(chatID, "ProvidePlaylistName", nil))
			return
		}
		b.handleAddSong(ctx, msg, fields[1], strings.Join(fields[2:], " "))
		return
	}

	b.playStoredPlaylist(ctx, msg, strings.Join(fields, " "))
}

func (b *Bot) handleAddSong(ctx context.Context, msg *tgbotapi.Message, name, query string) {
	chatID := msg.Chat.ID

	status, err := b.api.Send(tgbotapi.NewMessage(chatID, b.text(chatID, "Searching", nil)))
	if err != nil {
		b.log.WithError(err).Error("failed to send status message")
		return
	}

	track, err := b.player.Resolve(ctx, query)
	if err != nil {
		b.log.WithError(err).Warn("song lookup failed")
		b.edit(chatID, status.MessageID, b.text(chatID, "TrackNotFound", nil))
		return
	}

	song := storage.Song{
		Title:    track.Title,
		URL:      track.WebpageURL,
		Duration: track.Duration,
		AddedAt:  time.Now().Format(time.RFC3339),
	}
	err = b.store.AddSong(ctx, msg.From.ID, name, song)
	switch {
	case errors.Is(err, storage.ErrPlaylistNotFound):
		b.edit(chatID, status.MessageID, b.text(chatID, "PlaylistNotFound", map[string]interface{}{"Name": name}))
	case errors.Is(err, storage.ErrSongLimit):
		b.edit(chatID, status.MessageID, b.text(chatID, "SongLimit", map[string]interface{}{"Max": b.cfg.Limits.MaxPlaylistSongs}))
	case errors.Is(err, storage.ErrDuplicateSong):
		b.edit(chatID, status.MessageID, b.text(chatID, "DuplicateSong", nil))
	case err != nil:
		b.log.WithError(err).Error("add song failed")
		b.edit(chatID, status.MessageID, b.text(chatID, "GenericError", nil))
	default:
		b.edit(chatID, status.MessageID, b.text(chatID, "SongAdded", map[string]interface{}{
			"Title": track.Title,
			"Name":  name,
		}))
	}
}

// playStoredPlaylist feeds every song of the playlist through the player,
// stopping early when the queue fills up.
func (b *Bot) playStoredPlaylist(ctx context.Context, msg *tgbotapi.Message, name string) {
	chatID := msg.Chat.ID
	if !msg.Chat.IsGroup() && !msg.Chat.IsSuperGroup() {
		b.reply(chatID, b.text(chatID, "GroupsOnly", nil))
		return
	}

	pl, err := b.store.GetPlaylist(ctx, msg.From.ID, name)
	if errors.Is(err, storage.ErrPlaylistNotFound) {
		b.reply(chatID, b.text(chatID, "PlaylistNotFound", map[string]interface{}{"Name": name}))
		return
	}
	if err != nil {
		b.log.WithError(err).Error("get playlist failed")
		b.reply(chatID, b.text(chatID, "GenericError", nil))
		return
	}
	if len(pl.Songs) == 0 {
		b.reply(chatID, PlaylistMessage(pl.Name, nil))
		return
	}

	requester := requesterName(msg.From)
	queued := 0
	for _, song := range pl.Songs {
		_, err := b.player.Play(ctx, chatID, msg.Chat.UserName, requester, msg.From.ID, song.URL, false)
		if err != nil {
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
