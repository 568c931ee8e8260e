package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/d3vil404/alice/internal/config"
	"github.com/d3vil404/alice/internal/i18n"
	"github.com/d3vil404/alice/internal/player"
	"github.com/d3vil404/alice/internal/search"
	"github.com/d3vil404/alice/internal/storage"
	"github.com/d3vil404/alice/internal/sysinfo"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	cfg      *config.Config
	store    *storage.Store
	player   *player.Player
	searcher *search.YTDLP
	sys      *sysinfo.Collector
	tr       *i18n.Translator
	log      *logrus.Entry
}

func NewBot(cfg *config.Config, store *storage.Store, pl *player.Player, searcher *search.YTDLP, sys *sysinfo.Collector, tr *i18n.Translator) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:      api,
		cfg:      cfg,
		store:    store,
		player:   pl,
		searcher: searcher,
		sys:      sys,
		tr:       tr,
		log:      logrus.WithField("component", "bot"),
	}, nil
}

var botCommands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Start the bot"},
	{Command: "help", Description: "Show available commands"},
	{Command: "play", Description: "Play a song in VC"},
	{Command: "video", Description: "Play a video in VC"},
	{Command: "skip", Description: "Skip to next song"},
	{Command: "song", Description: "Download a song as mp3"},
	{Command: "stop", Description: "Stop current playback"},
	{Command: "createplaylist", Description: "Create a new playlist"},
	{Command: "showplaylist", Description: "Show your playlists"},
	{Command: "delplaylist", Description: "Delete a playlist"},
	{Command: "playlist", Description: "Play or manage a playlist"},
	{Command: "activegc", Description: "Show active groups"},
	{Command: "sysinfo", Description: "Show system info"},
	{Command: "promo", Description: "Promote a user as admin"},
	{Command: "demote", Description: "Remove a bot admin"},
	{Command: "allgclist", Description: "List all groups"},
	{Command: "allusers", Description: "List all users"},
}

// Start runs the long-poll loop until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(botCommands...)); err != nil {
		b.log.WithError(err).Warn("failed to register bot commands")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.log.Infof("bot authorized on account %s", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message != nil {
				b.handleMessage(ctx, update.Message)
			}
			if update.CallbackQuery != nil {
				b.handleCallback(ctx, update.CallbackQuery)
			}
			if update.MyChatMember != nil {
				b.handleMembershipChange(ctx, update.MyChatMember)
			}
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	b.trackSighting(ctx, msg)

	if !msg.IsCommand() {
		return
	}

	args := msg.CommandArguments()
	switch msg.Command() {
	case "start":
		b.handleStart(ctx, msg)
	case "help":
		b.reply(msg.Chat.ID, b.text(msg.Chat.ID, "Help", nil))
	case "play":
		b.handlePlay(ctx, msg, args, false)
	case "video":
		b.handlePlay(ctx, msg, args, true)
	case "skip":
		b.handleSkip(ctx, msg)
	case "stop":
		b.handleStop(ctx, msg)
	case "song":
		b.handleSong(ctx, msg, args)
	case "createplaylist":
		b.handleCreatePlaylist(ctx, msg, args)
	case "showplaylist":
		b.handleShowPlaylist(ctx, msg, args)
	case "delplaylist":
		b.handleDeletePlaylist(ctx, msg, args)
	case "playlist":
		b.handlePlaylist(ctx, msg, args)
	case "sysinfo":
		b.handleSysinfo(ctx, msg)
	case "promo":
		b.handlePromo(ctx, msg, args)
	case "demote":
		b.handleDemote(ctx, msg, args)
	case "activegc":
		b.handleActiveGroups(ctx, msg)
	case "allgclist":
		b.handleAllGroups(ctx, msg)
	case "allusers":
		b.handleAllUsers(ctx, msg)
	}
}

// trackSighting upserts the sender and, in groups, the chat itself.
func (b *Bot) trackSighting(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From != nil {
		err := b.store.UpsertUser(ctx, storage.User{
			ID:        msg.From.ID,
			Username:  msg.From.UserName,
			FirstName: msg.From.FirstName,
			LastName:  msg.From.LastName,
		})
		if err != nil {
			b.log.WithError(err).Debug("failed to upsert user")
		}
		// The upsert is a no-op when profile fields are unchanged, which
		// leaves last_active stale.
		if err := b.store.TouchUser(ctx, msg.From.ID); err != nil {
			b.log.WithError(err).Debug("failed to touch user")
		}
	}

	if msg.Chat != nil && (msg.Chat.IsGroup() || msg.Chat.IsSuperGroup()) {
		var addedBy int64
		if msg.From != nil {
			addedBy = msg.From.ID
		}
		err := b.store.UpsertGroup(ctx, storage.Group{
			ID:      msg.Chat.ID,
			Name:    msg.Chat.Title,
			AddedBy: addedBy,
		})
		if err != nil {
			b.log.WithError(err).Debug("failed to upsert group")
		}
		if count, err := b.api.GetChatMembersCount(tgbotapi.ChatMemberCountConfig{
			ChatConfig: tgbotapi.ChatConfig{ChatID: msg.Chat.ID},
		}); err == nil {
			_ = b.store.SetMemberCount(ctx, msg.Chat.ID, count)
		}
	}
}

// handleMembershipChange marks groups the bot was removed from as inactive.
func (b *Bot) handleMembershipChange(ctx context.Context, upd *tgbotapi.ChatMemberUpdated) {
	status := upd.NewChatMember.Status
	if status != "kicked" && status != "left" {
		return
	}
	if err := b.store.DeactivateGroup(ctx, upd.Chat.ID); err != nil {
		b.log.WithError(err).Debug("failed to deactivate group")
	}
}

// isAdmin: bot owner, promoted bot admin, or Telegram admin of the chat.
func (b *Bot) isAdmin(ctx context.Context, chatID, userID int64) bool {
	if userID == b.cfg.OwnerID {
		return true
	}
	if ok, err := b.store.IsAdmin(ctx, userID); err == nil && ok {
		return true
	}
	member, err := b.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: chatID, UserID: userID},
	})
	if err != nil {
		return false
	}
	return member.IsCreator() || member.IsAdministrator()
}

func (b *Bot) text(chatID int64, id string, data map[string]interface{}) string {
	return b.tr.Localize(chatID, id, data)
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithError(err).Error("failed to send message")
	}
}

func (b *Bot) edit(chatID int64, messageID int, text string) {
	msg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithError(err).Error("failed to edit message")
	}
}
