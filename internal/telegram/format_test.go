package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/d3vil404/alice/internal/storage"
	"github.com/d3vil404/alice/internal/sysinfo"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0:00"},
		{-5, "0:00"},
		{59, "0:59"},
		{61, "1:01"},
		{600, "10:00"},
		{3661, "1:01:01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.in))
	}
}

func TestPlaylistMessage(t *testing.T) {
	songs := []storage.Song{
		{Title: "First", Duration: 184},
		{Title: "Second", Duration: 61},
	}
	out := PlaylistMessage("chill", songs)

	assert.Contains(t, out, "chill")
	assert.Contains(t, out, "1. First (3:04)")
	assert.Contains(t, out, "2. Second (1:01)")
	assert.Contains(t, out, "2 song(s)")

	empty := PlaylistMessage("empty", nil)
	assert.Contains(t, empty, "empty")
	assert.Contains(t, empty, "This playlist is empty.")
}

func TestPlaylistsOverview(t *testing.T) {
	playlists := []storage.Playlist{
		{Name: "chill", Songs: []storage.Song{{}, {}}},
		{Name: "gym"},
	}
	out := PlaylistsOverview(playlists)
	assert.Contains(t, out, "1. chill - 2 song(s)")
	assert.Contains(t, out, "2. gym - 0 song(s)")
}

func TestSysinfoMessage(t *testing.T) {
	snap := &sysinfo.Snapshot{
		Platform:    "ubuntu",
		Release:     "24.04",
		GoVersion:   "go1.23.5",
		CPUPercent:  12.3,
		CPUCores:    8,
		MemTotal:    16 * 1024 * 1024 * 1024,
		MemUsed:     4 * 1024 * 1024 * 1024,
		MemPercent:  25,
		DiskTotal:   100 * 1024 * 1024 * 1024,
		DiskUsed:    40 * 1024 * 1024 * 1024,
		DiskPercent: 40,
		Uptime:      90 * time.Minute,
	}
	out := SysinfoMessage(snap)

	assert.Contains(t, out, "ubuntu 24.04")
	assert.Contains(t, out, "go1.23.5")
	assert.Contains(t, out, "12.3% of 8 cores")
	assert.Contains(t, out, "4.00GB / 16.00GB")
	assert.Contains(t, out, "1h 30m 0s")
}

func TestActiveGroupsMessage(t *testing.T) {
	groups := []storage.GroupStat{
		{Group: storage.Group{Name: "Music Lovers"}, MemberCount: 42, ActiveStreams: 1},
	}
	out := ActiveGroupsMessage(groups)
	assert.Contains(t, out, "Music Lovers")
	assert.Contains(t, out, "Members: 42")
	assert.Contains(t, out, "Streams: 1")
}

func TestAllGroupsMessage(t *testing.T) {
	groups := []storage.GroupInfo{
		{Group: storage.Group{Name: "Active One"}, IsActive: true, MemberCount: 10, AddedByUsername: "admin"},
		{Group: storage.Group{Name: "Gone"}, IsActive: false, MemberCount: 3},
	}
	out := AllGroupsMessage(groups)
	assert.Contains(t, out, "Active One (active)")
	assert.Contains(t, out, "Gone (inactive)")
	assert.Contains(t, out, "Added by @admin")
}

func TestAllUsersMessage(t *testing.T) {
	users := []storage.UserStat{
		{User: storage.User{ID: 1, Username: "alice"}, IsAdmin: true, PlaylistCount: 3},
		{User: storage.User{ID: 2, FirstName: "Bob", LastName: "Smith"}},
		{User: storage.User{ID: 3}},
	}
	out := AllUsersMessage(users)
	assert.Contains(t, out, "@alice")
	assert.Contains(t, out, "admin")
	assert.Contains(t, out, "Bob Smith")
	assert.Contains(t, out, "id3")
	assert.Contains(t, out, "Playlists: 3")
}
