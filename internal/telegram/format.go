package telegram

import (
	"fmt"
	"strings"

	"github.com/d3vil404/alice/internal/storage"
	"github.com/d3vil404/alice/internal/sysinfo"
)

// FormatDuration renders a track length in seconds as M:SS or H:MM:SS.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func PlaylistMessage(name string, songs []storage.Song) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎵 Playlist: %s\n", name)
	if len(songs) == 0 {
		b.WriteString("\nThis playlist is empty.")
		return b.String()
	}
	b.WriteString("\n")
	for i, song := range songs {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, song.Title, FormatDuration(song.Duration))
	}
	fmt.Fprintf(&b, "\n%d song(s)", len(songs))
	return b.String()
}

func PlaylistsOverview(playlists []storage.Playlist) string {
	var b strings.Builder
	b.WriteString("🎵 Your playlists:\n\n")
	for i, pl := range playlists {
		fmt.Fprintf(&b, "%d. %s - %d song(s)\n", i+1, pl.Name, len(pl.Songs))
	}
	b.WriteString("\nUse /showplaylist <name> to see the songs.")
	return b.String()
}

func SysinfoMessage(snap *sysinfo.Snapshot) string {
	var b strings.Builder
	b.WriteString("🖥 System Info\n\n")
	fmt.Fprintf(&b, "OS: %s %s\n", snap.Platform, snap.Release)
	fmt.Fprintf(&b, "Go: %s\n\n", snap.GoVersion)
	fmt.Fprintf(&b, "CPU: %.1f%% of %d cores\n", snap.CPUPercent, snap.CPUCores)
	fmt.Fprintf(&b, "RAM: %s / %s (%.1f%%)\n",
		sysinfo.ReadableSize(snap.MemUsed), sysinfo.ReadableSize(snap.MemTotal), snap.MemPercent)
	fmt.Fprintf(&b, "Disk: %s / %s (%.1f%%)\n\n",
		sysinfo.ReadableSize(snap.DiskUsed), sysinfo.ReadableSize(snap.DiskTotal), snap.DiskPercent)
	fmt.Fprintf(&b, "Uptime: %s", sysinfo.ReadableDuration(snap.Uptime))
	return b.String()
}

func ActiveGroupsMessage(groups []storage.GroupStat) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📻 Active voice chats: %d\n\n", len(groups))
	for i, g := range groups {
		fmt.Fprintf(&b, "%d. %s\n   Members: %d | Streams: %d\n", i+1, g.Name, g.MemberCount, g.ActiveStreams)
	}
	return strings.TrimRight(b.String(), "\n")
}

func AllGroupsMessage(groups []storage.GroupInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 Groups: %d\n\n", len(groups))
	for i, g := range groups {
		state := "inactive"
		if g.IsActive {
			state = "active"
		}
		fmt.Fprintf(&b, "%d. %s (%s)\n   Members: %d", i+1, g.Name, state, g.MemberCount)
		if g.AddedByUsername != "" {
			fmt.Fprintf(&b, " | Added by @%s", g.AddedByUsername)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func AllUsersMessage(users []storage.UserStat) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👥 Users: %d\n\n", len(users))
	for i, u := range users {
		name := u.Username
		if name != "" {
			name = "@" + name
		} else {
			name = strings.TrimSpace(u.FirstName + " " + u.LastName)
		}
		if name == "" {
			name = fmt.Sprintf("id%d", u.ID)
		}
		fmt.Fprintf(&b, "%d. %s\n   Playlists: %d", i+1, name, u.PlaylistCount)
		if u.IsAdmin {
			b.WriteString(" | admin")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
