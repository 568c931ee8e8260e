package telegram

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/d3vil404/alice/internal/player"
	"github.com/d3vil404/alice/internal/storage"
	"github.com/d3vil404/alice/internal/voice"
)

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	name := ""
	if msg.From != nil {
		name = msg.From.FirstName
	}

	welcome := tgbotapi.NewMessage(msg.Chat.ID, b.text(msg.Chat.ID, "Welcome", map[string]interface{}{"Name": name}))
	welcome.ReplyMarkup = startKeyboard()
	if _, err := b.api.Send(welcome); err != nil {
		b.log.WithError(err).Error("failed to send welcome")
	}
}

func (b *Bot) handlePlay(ctx context.Context, msg *tgbotapi.Message, query string, video bool) {
	chatID := msg.Chat.ID
	if !msg.Chat.IsGroup() && !msg.Chat.IsSuperGroup() {
		b.reply(chatID, b.text(chatID, "GroupsOnly", nil))
		return
	}
	query = strings.TrimSpace(query)
	if query == "" {
		b.reply(chatID, b.text(chatID, "ProvideQuery", nil))
		return
	}

	status, err := b.api.Send(tgbotapi.NewMessage(chatID, b.text(chatID, "Searching", nil)))
	if err != nil {
		b.log.WithError(err).Error("failed to send status message")
		return
	}

	requester := requesterName(msg.From)
	res, err := b.player.Play(ctx, chatID, msg.Chat.UserName, requester, msg.From.ID, query, video)
	if err != nil {
		b.edit(chatID, status.MessageID, b.playErrorText(chatID, err))
		return
	}

	if res.Queued {
		b.edit(chatID, status.MessageID, b.text(chatID, "AddedToQueue", map[string]interface{}{
			"Title":    res.Entry.Track.Title,
			"Position": res.Position,
		}))
		return
	}
	b.edit(chatID, status.MessageID, b.text(chatID, "NowPlaying", map[string]interface{}{
		"Title":     res.Entry.Track.Title,
		"Duration":  FormatDuration(res.Entry.Track.Duration),
		"Requester": requester,
	}))
}

// playErrorText maps player/voice errors to localized replies; anything
// unexpected is logged and answered generically.
func (b *Bot) playErrorText(chatID int64, err error) string {
	switch {
	case errors.Is(err, voice.ErrNoActiveCall):
		return b.text(chatID, "NoActiveCall", nil)
	case errors.Is(err, voice.ErrNeedUsername):
		return b.text(chatID, "NeedUsername", nil)
	case errors.Is(err, player.ErrQueueFull):
		return b.text(chatID, "QueueFull", map[string]interface{}{"Max": b.cfg.Limits.MaxQueue})
	case errors.Is(err, player.ErrNothingPlaying):
		return b.text(chatID, "NothingPlaying", nil)
	default:
		b.log.WithError(err).Error("play failed")
		return b.text(chatID, "PlayError", nil)
	}
}

func (b *Bot) handleSkip(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !b.isAdmin(ctx, chatID, msg.From.ID) {
		b.reply(chatID, b.text(chatID, "AdminsOnly", nil))
		return
	}

	next, err := b.player.Skip(ctx, chatID)
	if err != nil {
		b.reply(chatID, b.playErrorText(chatID, err))
		return
	}
	if next == nil {
		b.reply(chatID, b.text(chatID, "QueueEmpty", nil))
		return
	}
	b.reply(chatID, b.text(chatID, "Skipped", map[string]interface{}{"Title": next.Track.Title}))
}

func (b *Bot) handleStop(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !b.isAdmin(ctx, chatID, msg.From.ID) {
		b.reply(chatID, b.text(chatID, "AdminsOnly", nil))
		return
	}

	if err := b.player.Stop(ctx, chatID); err != nil {
		b.reply(chatID, b.playErrorText(chatID, err))
		return
	}
	b.reply(chatID, b.text(chatID, "Stopped", nil))
}

// handleSong downloads the track as mp3 and sends it as an audio file.
// Works in any chat, unlike /play.
func (b *Bot) handleSong(ctx context.Context, msg *tgbotapi.Message, query string) {
	chatID := msg.Chat.ID
	query = strings.TrimSpace(query)
	if query == "" {
		b.reply(chatID, b.text(chatID, "ProvideQuery", nil))
		return
	}

	status, err := b.api.Send(tgbotapi.NewMessage(chatID, b.text(chatID, "Downloading", nil)))
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

	path, err := b.searcher.DownloadAudio(ctx, *track, b.cfg.DownloadDir)
	if err != nil {
		b.log.WithError(err).Error("song download failed")
		b.edit(chatID, status.MessageID, b.text(chatID, "DownloadFailed", nil))
		return
	}
	defer os.Remove(path)

	audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(path))
	audio.Title = track.Title
	audio.Performer = track.Artist
	audio.Duration = track.Duration
	if _, err := b.api.Send(audio); err != nil {
		b.log.WithError(err).Error("failed to send audio")
		b.edit(chatID, status.MessageID, b.text(chatID, "DownloadFailed", nil))
		return
	}
	b.api.Request(tgbotapi.NewDeleteMessage(chatID, status.MessageID))
}

func (b *Bot) handleSysinfo(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !b.isAdmin(ctx, chatID, msg.From.ID) {
		b.reply(chatID, b.text(chatID, "AdminsOnly", nil))
		return
	}

	snap, err := b.sys.Collect(ctx)
	if err != nil {
		b.log.WithError(err).Error("sysinfo collection failed")
		b.reply(chatID, b.text(chatID, "GenericError", nil))
		return
	}
	report := SysinfoMessage(snap)
	if n, err := b.store.ActiveStreamCount(ctx); err == nil {
		report += fmt.Sprintf("\nActive streams: %d", n)
	}
	b.reply(chatID, report)
}

// handlePromo promotes a bot admin. The Bot API cannot resolve arbitrary
// usernames to IDs, so the target comes from a replied-to message or a
// numeric ID argument.
func (b *Bot) handlePromo(ctx context.Context, msg *tgbotapi.Message, args string) {
	chatID := msg.Chat.ID
	if msg.From.ID != b.cfg.OwnerID && !b.isAdmin(ctx, chatID, msg.From.ID) {
		b.reply(chatID, b.text(chatID, "OwnerOnly", nil))
		return
	}

	target := commandTarget(msg, args)
	if target == nil {
		b.reply(chatID, b.text(chatID, "PromoUsage", nil))
		return
	}

	// The admins table references users, so the target must exist there.
	if err := b.store.UpsertUser(ctx, storage.User{
		ID:        target.ID,
		Username:  target.UserName,
		FirstName: target.FirstName,
		LastName:  target.LastName,
	}); err != nil {
		b.log.WithError(err).Error("failed to upsert promo target")
		b.reply(chatID, b.text(chatID, "GenericError", nil))
		return
	}

	name := requesterName(target)
	err := b.store.Promote(ctx, target.ID, msg.From.ID)
	switch {
	case errors.Is(err, storage.ErrAlreadyAdmin):
		b.reply(chatID, b.text(chatID, "AlreadyAdmin", map[string]interface{}{"Name": name}))
	case err != nil:
		b.log.WithError(err).Error("promote failed")
		b.reply(chatID, b.text(chatID, "GenericError", nil))
	default:
		b.reply(chatID, b.text(chatID, "Promoted", map[string]interface{}{"Name": name}))
	}
}

// handleDemote removes a bot admin. Same target resolution as /promo;
// demoting a non-admin is a silent no-op in storage.
func (b *Bot) handleDemote(ctx context.Context, msg *tgbotapi.Message, args string) {
	chatID := msg.Chat.ID
	if msg.From.ID != b.cfg.OwnerID && !b.isAdmin(ctx, chatID, msg.From.ID) {
		b.reply(chatID, b.text(chatID, "OwnerOnly", nil))
		return
	}

	target := commandTarget(msg, args)
	if target == nil {
		b.reply(chatID, b.text(chatID, "PromoUsage", nil))
		return
	}

	if err := b.store.Demote(ctx, target.ID); err != nil {
		b.log.WithError(err).Error("demote failed")
		b.reply(chatID, b.text(chatID, "GenericError", nil))
		return
	}
	b.reply(chatID, b.text(chatID, "Demoted", map[string]interface{}{"Name": requesterName(target)}))
}

// commandTarget picks the affected user from a replied-to message or a
// numeric ID argument. The Bot API cannot resolve bare usernames.
func commandTarget(msg *tgbotapi.Message, args string) *tgbotapi.User {
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil {
		return msg.ReplyToMessage.From
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64); err == nil {
		return &tgbotapi.User{ID: id}
	}
	return nil
}

func (b *Bot) handleActiveGroups(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !b.isAdmin(ctx, chatID, msg.From.ID) {
		b.reply(chatID, b.text(chatID, "AdminsOnly", nil))
		return
	}

	groups, err := b.store.ActiveGroups(ctx)
	if err != nil {
		b.log.WithError(err).Error("active groups query failed")
		b.reply(chatID, b.text(chatID, "GenericError", nil))
		return
	}
	if len(groups) == 0 {
		b.reply(chatID, b.text(chatID, "NoActiveGroups", nil))
		return
	}
	b.reply(chatID, ActiveGroupsMessage(groups))
}

func (b *Bot) handleAllGroups(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !b.isAdmin(ctx, chatID, msg.From.ID) {
		b.reply(chatID, b.text(chatID, "AdminsOnly", nil))
		return
	}

	groups, err := b.store.AllGroups(ctx)
	if err != nil {
		b.log.WithError(err).Error("all groups query failed")
		b.reply(chatID, b.text(chatID, "GenericError", nil))
		return
	}
	if len(groups) == 0 {
		b.reply(chatID, b.text(chatID, "NoGroups", nil))
		return
	}
	b.reply(chatID, AllGroupsMessage(groups))
}

func (b *Bot) handleAllUsers(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !b.isAdmin(ctx, chatID, msg.From.ID) {
		b.reply(chatID, b.text(chatID, "AdminsOnly", nil))
		return
	}

	users, err := b.store.AllUsers(ctx)
	if err != nil {
		b.log.WithError(err).Error("all users query failed")
		b.reply(chatID, b.text(chatID, "GenericError", nil))
		return
	}
	if len(users) == 0 {
		b.reply(chatID, b.text(chatID, "NoUsers", nil))
		return
	}
	b.reply(chatID, AllUsersMessage(users))
}

func requesterName(u *tgbotapi.User) string {
	if u == nil {
		return "unknown"
	}
	if u.UserName != "" {
		return "@" + u.UserName
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return strconv.FormatInt(u.ID, 10)
	}
	return name
}
