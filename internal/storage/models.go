package storage

import "time"

type User struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// UserStat is a user row joined with playlist and admin aggregates,
// served to /allusers.
type UserStat struct {
	User
	IsAdmin       bool
	PlaylistCount int
	LastActive    time.Time
}

// Song is a single playlist entry, stored as JSON inside the playlists row.
type Song struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Duration int    `json:"duration"`
	AddedAt  string `json:"added_at,omitempty"`
}

type Playlist struct {
	ID     int64
	UserID int64
	Name   string
	Songs  []Song
}

type Group struct {
	ID      int64
	Name    string
	AddedBy int64
}

// GroupStat is a group row with its live stream count, served to /activegc.
type GroupStat struct {
	Group
	MemberCount   int
	ActiveStreams int
	LastActive    time.Time
}

// GroupInfo is a group row with the promoter's username, served to /allgclist.
type GroupInfo struct {
	Group
	MemberCount     int
	IsActive        bool
	AddedByUsername string
	CreatedAt       time.Time
}
