package voice

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIngester struct {
	resolveErr error
	ingestErr  error
}

func (f *fakeIngester) ResolvePeer(_ context.Context, _ string) (tg.InputPeerClass, error) {
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return &tg.InputPeerChannel{ChannelID: 1}, nil
}

func (f *fakeIngester) RTMPIngest(_ context.Context, _ tg.InputPeerClass) (string, string, error) {
	if f.ingestErr != nil {
		return "", "", f.ingestErr
	}
	return "rtmps://dc4.rtmp.t.me/s", "key123", nil
}

// fakeFFmpeg writes an executable that ignores its arguments and sleeps for
// the given number of seconds before exiting.
func fakeFFmpeg(t *testing.T, sleepSeconds string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\nsleep " + sleepSeconds + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestIngestEndpoint(t *testing.T) {
	assert.Equal(t, "rtmps://dc4.rtmp.t.me/s/key123",
		ingestEndpoint("rtmps://dc4.rtmp.t.me/s", "key123"))
	assert.Equal(t, "rtmps://dc4.rtmp.t.me/s/key123",
		ingestEndpoint("rtmps://dc4.rtmp.t.me/s/", "key123"))
}

func TestFFmpegArgs(t *testing.T) {
	audio := ffmpegArgs("https://cdn/a.m4a", "rtmps://host/key", false)
	assert.Contains(t, audio, "-vn")
	assert.NotContains(t, audio, "libx264")
	assert.Equal(t, "rtmps://host/key", audio[len(audio)-1])
	assert.Contains(t, audio, "flv")

	video := ffmpegArgs("https://cdn/a.mp4", "rtmps://host/key", true)
	assert.Contains(t, video, "libx264")
	assert.NotContains(t, video, "-vn")
}

func TestStreamFiresEndCallback(t *testing.T) {
	e := NewEngine(&fakeIngester{}, fakeFFmpeg(t, "0"))

	ended := make(chan int64, 1)
	e.OnStreamEnd(func(chatID int64) { ended <- chatID })

	require.NoError(t, e.Stream(context.Background(), 100, "mychat", "https://cdn/a.m4a", false))

	select {
	case id := <-ended:
		assert.Equal(t, int64(100), id)
	case <-time.After(5 * time.Second):
		t.Fatal("end callback never fired")
	}
	assert.Empty(t, e.Active())
}

func TestStopSuppressesEndCallback(t *testing.T) {
	e := NewEngine(&fakeIngester{}, fakeFFmpeg(t, "30"))

	ended := make(chan int64, 1)
	e.OnStreamEnd(func(chatID int64) { ended <- chatID })

	require.NoError(t, e.Stream(context.Background(), 100, "mychat", "https://cdn/a.m4a", false))
	assert.Equal(t, []int64{100}, e.Active())

	require.NoError(t, e.Stop(100))

	select {
	case <-ended:
		t.Fatal("stopped stream must not fire the end callback")
	case <-time.After(500 * time.Millisecond):
	}
	assert.Empty(t, e.Active())
}

func TestStreamReplacesExisting(t *testing.T) {
	e := NewEngine(&fakeIngester{}, fakeFFmpeg(t, "30"))

	ended := make(chan int64, 1)
	e.OnStreamEnd(func(chatID int64) { ended <- chatID })

	ctx := context.Background()
	require.NoError(t, e.Stream(ctx, 100, "mychat", "https://cdn/a.m4a", false))
	require.NoError(t, e.Stream(ctx, 100, "mychat", "https://cdn/b.m4a", false))

	// Replacing a stream kills the old process without advancing the queue.
	select {
	case <-ended:
		t.Fatal("replaced stream must not fire the end callback")
	case <-time.After(500 * time.Millisecond):
	}
	assert.Equal(t, []int64{100}, e.Active())

	e.Shutdown()
	assert.Empty(t, e.Active())
}

func TestStreamResolveError(t *testing.T) {
	e := NewEngine(&fakeIngester{resolveErr: ErrNeedUsername}, "ffmpeg")

	err := e.Stream(context.Background(), 100, "", "https://cdn/a.m4a", false)
	assert.ErrorIs(t, err, ErrNeedUsername)
	assert.Empty(t, e.Active())
}

func TestStreamIngestError(t *testing.T) {
	e := NewEngine(&fakeIngester{ingestErr: ErrNoActiveCall}, "ffmpeg")

	err := e.Stream(context.Background(), 100, "mychat", "https://cdn/a.m4a", false)
	assert.ErrorIs(t, err, ErrNoActiveCall)
}
