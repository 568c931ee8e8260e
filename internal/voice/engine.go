package voice

import (
	"context"
	"os/exec"
	"strings"
	"sync"

	"github.com/gotd/td/tg"
	"github.com/sirupsen/logrus"
)

// StreamEndFunc is called when an ffmpeg push finishes on its own, i.e. the
// song played to the end rather than being stopped or replaced.
type StreamEndFunc func(chatID int64)

// Ingester is the assistant surface the engine needs. Split out so tests can
// stream against a fake.
type Ingester interface {
	ResolvePeer(ctx context.Context, username string) (tg.InputPeerClass, error)
	RTMPIngest(ctx context.Context, peer tg.InputPeerClass) (url, key string, err error)
}

type stream struct {
	cmd     *exec.Cmd
	cancel  context.CancelFunc
	stopped bool
}

// Engine supervises one ffmpeg push per chat.
type Engine struct {
	assistant  Ingester
	ffmpegPath string
	log        *logrus.Entry

	mu      sync.Mutex
	streams map[int64]*stream
	onEnd   StreamEndFunc
}

func NewEngine(assistant Ingester, ffmpegPath string) *Engine {
	return &Engine{
		assistant:  assistant,
		ffmpegPath: ffmpegPath,
		log:        logrus.WithField("component", "voice"),
		streams:    make(map[int64]*stream),
	}
}

// OnStreamEnd registers the queue-advance callback. Must be set before any
// stream starts.
func (e *Engine) OnStreamEnd(fn StreamEndFunc) {
	e.onEnd = fn
}

// Stream starts pushing mediaURL into the chat's group call, replacing any
// stream already running there.
func (e *Engine) Stream(ctx context.Context, chatID int64, chatUsername, mediaURL string, video bool) error {
	peer, err := e.assistant.ResolvePeer(ctx, chatUsername)
	if err != nil {
		return err
	}
	ingestURL, key, err := e.assistant.RTMPIngest(ctx, peer)
	if err != nil {
		return err
	}

	// The ffmpeg process must outlive the triggering update, so it gets its
	// own context rather than the handler's.
	procCtx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(procCtx, e.ffmpegPath,
		ffmpegArgs(mediaURL, ingestEndpoint(ingestURL, key), video)...)

	st := &stream{cmd: cmd, cancel: cancel}

	e.mu.Lock()
	if prev, ok := e.streams[chatID]; ok {
		prev.stopped = true
		prev.cancel()
	}
	e.streams[chatID] = st
	e.mu.Unlock()

	if err := cmd.Start(); err != nil {
		cancel()
		e.mu.Lock()
		if e.streams[chatID] == st {
			delete(e.streams, chatID)
		}
		e.mu.Unlock()
		return err
	}
	e.log.WithField("chat", chatID).Debug("ffmpeg stream started")

	go func() {
		err := cmd.Wait()
		cancel()

		e.mu.Lock()
		current := e.streams[chatID] == st
		stopped := st.stopped
		if current {
			delete(e.streams, chatID)
		}
		e.mu.Unlock()

		if !current || stopped {
			return
		}
		if err != nil {
			e.log.WithError(err).WithField("chat", chatID).Warn("ffmpeg stream ended with error")
		}
		if e.onEnd != nil {
			e.onEnd(chatID)
		}
	}()
	return nil
}

// Stop kills the chat's stream without firing the end callback.
func (e *Engine) Stop(chatID int64) error {
	e.mu.Lock()
	st, ok := e.streams[chatID]
	if ok {
		st.stopped = true
		delete(e.streams, chatID)
	}
	e.mu.Unlock()

	if ok {
		st.cancel()
	}
	return nil
}

// Active returns the chats currently being streamed to.
func (e *Engine) Active() []int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	chats := make([]int64, 0, len(e.streams))
	for id := range e.streams {
		chats = append(chats, id)
	}
	return chats
}

// Shutdown stops every stream.
func (e *Engine) Shutdown() {
	for _, id := range e.Active() {
		_ = e.Stop(id)
	}
}

// ingestEndpoint joins the RTMP server URL with the stream key.
func ingestEndpoint(url, key string) string {
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	return url + key
}

func ffmpegArgs(input, endpoint string, video bool) []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-re",
		"-i", input,
	}
	if video {
		args = append(args,
			"-c:v", "libx264",
			"-preset", "veryfast",
			"-b:v", "1000k",
		)
	} else {
		args = append(args, "-vn")
	}
	args = append(args,
		"-c:a", "aac",
		"-b:a", "128k",
		"-ar", "48000",
		"-f", "flv",
		endpoint,
	)
	return args
}
