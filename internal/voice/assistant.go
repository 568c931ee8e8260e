// Package voice streams media into group voice chats. Bot accounts cannot
// join calls, so a separate user account (the assistant) fetches the call's
// RTMP ingest endpoint and an ffmpeg child process pushes the media into it.
package voice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNeedUsername: the assistant resolves chats by public username; a
	// private group without one cannot be joined this way.
	ErrNeedUsername = errors.New("group has no public username")
	ErrChatNotFound = errors.New("chat not found")
	ErrNoActiveCall = errors.New("no active group call")
)

// Assistant is the MTProto user client backing the voice side of the bot.
type Assistant struct {
	client *telegram.Client
	api    *tg.Client
	log    *logrus.Entry
}

// NewAssistant builds the client from a Telethon-format string session.
func NewAssistant(apiID int, apiHash, sessionString string) (*Assistant, error) {
	storage := new(session.StorageMemory)
	data, err := session.TelethonSession(sessionString)
	if err != nil {
		return nil, fmt.Errorf("decode assistant session: %w", err)
	}
	loader := session.Loader{Storage: storage}
	if err := loader.Save(context.Background(), data); err != nil {
		return nil, fmt.Errorf("store assistant session: %w", err)
	}

	client := telegram.NewClient(apiID, apiHash, telegram.Options{
		SessionStorage: storage,
	})
	return &Assistant{
		client: client,
		log:    logrus.WithField("component", "assistant"),
	}, nil
}

// Start runs the client in the background for the lifetime of ctx and blocks
// until it is authorized and ready, or fails.
func (a *Assistant) Start(ctx context.Context) error {
	ready := make(chan struct{})
	errc := make(chan error, 1)

	go func() {
		errc <- a.client.Run(ctx, func(ctx context.Context) error {
			status, err := a.client.Auth().Status(ctx)
			if err != nil {
				return fmt.Errorf("assistant auth status: %w", err)
			}
			if !status.Authorized {
				return errors.New("assistant session is not authorized")
			}
			a.api = a.client.API()
			a.log.Info("assistant client ready")
			close(ready)
			<-ctx.Done()
			return ctx.Err()
		})
	}()

	select {
	case <-ready:
		return nil
	case err := <-errc:
		return err
	case <-time.After(30 * time.Second):
		return errors.New("assistant startup timed out")
	}
}

// ResolvePeer looks up a chat by its public username.
func (a *Assistant) ResolvePeer(ctx context.Context, username string) (tg.InputPeerClass, error) {
	if username == "" {
		return nil, ErrNeedUsername
	}
	res, err := a.api.ContactsResolveUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("resolve @%s: %w", username, err)
	}
	for _, chat := range res.Chats {
		if ch, ok := chat.(*tg.Channel); ok {
			return &tg.InputPeerChannel{ChannelID: ch.ID, AccessHash: ch.AccessHash}, nil
		}
	}
	return nil, ErrChatNotFound
}

// RTMPIngest fetches the group call's RTMP URL and stream key. Only user
// accounts may call this, which is the whole reason the assistant exists.
func (a *Assistant) RTMPIngest(ctx context.Context, peer tg.InputPeerClass) (url, key string, err error) {
	res, err := a.api.PhoneGetGroupCallStreamRtmpURL(ctx, &tg.PhoneGetGroupCallStreamRtmpURLRequest{
		Peer:   peer,
		Revoke: false,
	})
	if tgerr.Is(err, "GROUPCALL_FORBIDDEN", "GROUPCALL_INVALID") {
		return "", "", ErrNoActiveCall
	}
	if err != nil {
		return "", "", fmt.Errorf("get rtmp url: %w", err)
	}
	return res.URL, res.Key, nil
}
