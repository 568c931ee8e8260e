// Package player holds the per-chat playback state: the song on air and the
// queue behind it. It glues search results to the voice engine and records
// active streams in storage.
package player

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/d3vil404/alice/internal/cache"
	"github.com/d3vil404/alice/internal/search"
)

var (
	ErrQueueFull      = errors.New("queue is full")
	ErrNothingPlaying = errors.New("nothing is playing")
)

// Streamer pushes media into a chat's voice call.
type Streamer interface {
	Stream(ctx context.Context, chatID int64, chatUsername, mediaURL string, video bool) error
	Stop(chatID int64) error
}

// Resolver turns queries into tracks and tracks into direct media URLs.
type Resolver interface {
	ExtractInfo(ctx context.Context, query string) (*search.Track, error)
	StreamURL(ctx context.Context, url string, video bool) (string, error)
}

// TrackCache memoizes resolved tracks between plays.
type TrackCache interface {
	Get(ctx context.Context, key string) (*search.Track, bool)
	Set(ctx context.Context, key string, t *search.Track)
}

// StreamStore persists which group is playing what.
type StreamStore interface {
	SetActiveStream(ctx context.Context, groupID int64, song string, requestedBy int64) error
	ClearActiveStream(ctx context.Context, groupID int64) error
}

// Entry is one requested song.
type Entry struct {
	Track       search.Track
	RequestedBy string
	RequesterID int64
	Video       bool
	RequestedAt time.Time
}

// Result of a Play call.
type Result struct {
	Entry    Entry
	Queued   bool
	Position int
}

type callState struct {
	username string
	current  *Entry
	queue    []Entry
}

type Player struct {
	streamer Streamer
	resolver Resolver
	cache    TrackCache
	store    StreamStore
	maxQueue int
	log      *logrus.Entry

	mu    sync.Mutex
	calls map[int64]*callState
}

func New(streamer Streamer, resolver Resolver, cache TrackCache, store StreamStore, maxQueue int) *Player {
	if maxQueue <= 0 {
		maxQueue = 10
	}
	return &Player{
		streamer: streamer,
		resolver: resolver,
		cache:    cache,
		store:    store,
		maxQueue: maxQueue,
		log:      logrus.WithField("component", "player"),
		calls:    make(map[int64]*callState),
	}
}

// Resolve finds the track for a query, going through the cache first.
func (p *Player) Resolve(ctx context.Context, query string) (*search.Track, error) {
	key := cache.Key(query)
	if t, ok := p.cache.Get(ctx, key); ok {
		return t, nil
	}
	t, err := p.resolver.ExtractInfo(ctx, query)
	if err != nil {
		return nil, err
	}
	p.cache.Set(ctx, key, t)
	return t, nil
}

// Play resolves the query and either starts streaming it right away or, when
// the chat already has a song on air, appends it to the queue.
func (p *Player) Play(ctx context.Context, chatID int64, chatUsername, requester string, requesterID int64, query string, video bool) (*Result, error) {
	track, err := p.Resolve(ctx, query)
	if err != nil {
		return nil, err
	}

	entry := Entry{
		Track:       *track,
		RequestedBy: requester,
		RequesterID: requesterID,
		Video:       video,
		RequestedAt: time.Now(),
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	st, ok := p.calls[chatID]
	if !ok {
		st = &callState{}
		p.calls[chatID] = st
	}
	st.username = chatUsername

	if st.current != nil {
		if len(st.queue) >= p.maxQueue {
			return nil, ErrQueueFull
		}
		st.queue = append(st.queue, entry)
		return &Result{Entry: entry, Queued: true, Position: len(st.queue)}, nil
	}

	if err := p.startLocked(ctx, chatID, st, entry); err != nil {
		delete(p.calls, chatID)
		return nil, err
	}
	return &Result{Entry: entry}, nil
}

// startLocked begins streaming the entry. Caller holds p.mu.
func (p *Player) startLocked(ctx context.Context, chatID int64, st *callState, entry Entry) error {
	mediaURL := entry.Track.StreamURL
	if mediaURL == "" || entry.Video {
		url, err := p.resolver.StreamURL(ctx, entry.Track.WebpageURL, entry.Video)
		if err != nil {
			return err
		}
		mediaURL = url
	}

	if err := p.streamer.Stream(ctx, chatID, st.username, mediaURL, entry.Video); err != nil {
		return err
	}
	st.current = &entry

	if err := p.store.SetActiveStream(ctx, chatID, entry.Track.Title, entry.RequesterID); err != nil {
		p.log.WithError(err).Warn("failed to record active stream")
	}
	return nil
}

// Skip drops the current song and starts the next queued one. Returns the
// new current entry, or nil when the queue was empty and playback stopped.
func (p *Player) Skip(ctx context.Context, chatID int64) (*Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	st, ok := p.calls[chatID]
	if !ok || st.current == nil {
		return nil, ErrNothingPlaying
	}
	return p.advanceLocked(ctx, chatID, st)
}

func (p *Player) advanceLocked(ctx context.Context, chatID int64, st *callState) (*Entry, error) {
	if len(st.queue) == 0 {
		p.stopLocked(ctx, chatID)
		return nil, nil
	}

	next := st.queue[0]
	st.queue = st.queue[1:]
	st.current = nil
	if err := p.startLocked(ctx, chatID, st, next); err != nil {
		// Broken entry: fall through to whatever is behind it.
		p.log.WithError(err).WithField("chat", chatID).Warn("failed to start next song, skipping it")
		return p.advanceLocked(ctx, chatID, st)
	}
	return st.current, nil
}

// Stop ends playback and clears the chat's queue.
func (p *Player) Stop(ctx context.Context, chatID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.calls[chatID]; !ok {
		return ErrNothingPlaying
	}
	p.stopLocked(ctx, chatID)
	return nil
}

func (p *Player) stopLocked(ctx context.Context, chatID int64) {
	_ = p.streamer.Stop(chatID)
	delete(p.calls, chatID)
	if err := p.store.ClearActiveStream(ctx, chatID); err != nil {
		p.log.WithError(err).Warn("failed to clear active stream")
	}
}

// HandleStreamEnd is wired to the voice engine: when a song finishes on its
// own the queue advances automatically.
func (p *Player) HandleStreamEnd(chatID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	st, ok := p.calls[chatID]
	if !ok {
		return
	}
	if _, err := p.advanceLocked(ctx, chatID, st); err != nil {
		p.log.WithError(err).WithField("chat", chatID).Warn("failed to advance queue")
	}
}

// Current returns the song on air in the chat, if any.
func (p *Player) Current(chatID int64) *Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	if st, ok := p.calls[chatID]; ok && st.current != nil {
		e := *st.current
		return &e
	}
	return nil
}

// Queue returns a copy of the pending entries for the chat.
func (p *Player) Queue(chatID int64) []Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	st, ok := p.calls[chatID]
	if !ok {
		return nil
	}
	out := make([]Entry, len(st.queue))
	copy(out, st.queue)
	return out
}

// ActiveChats lists chats with a song on air.
func (p *Player) ActiveChats() []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	var chats []int64
	for id, st := range p.calls {
		if st.current != nil {
			chats = append(chats, id)
		}
	}
	return chats
}
