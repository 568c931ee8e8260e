package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// CreatePlaylist creates an empty playlist. Users are capped at
// cfg.MaxPlaylists playlists; duplicate names map to ErrPlaylistExists.
func (s *Store) CreatePlaylist(ctx context.Context, userID int64, name string) error {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM playlists WHERE user_id = ?", userID).Scan(&count)
	if err != nil {
		return err
	}
	if count >= s.cfg.MaxPlaylists {
		return ErrPlaylistLimit
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO playlists (user_id, playlist_name, songs) VALUES (?, ?, ?)",
		userID, name, "[]")
	if isDuplicateErr(err) {
		return ErrPlaylistExists
	}
	return err
}

// AddSong appends a song to the playlist inside a transaction, enforcing the
// song cap and rejecting duplicate URLs.
func (s *Store) AddSong(ctx context.Context, userID int64, name string, song Song) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var raw []byte
	err = tx.QueryRowContext(ctx,
		"SELECT songs FROM playlists WHERE user_id = ? AND playlist_name = ? FOR UPDATE",
		userID, name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPlaylistNotFound
	}
	if err != nil {
		return err
	}

	var songs []Song
	if err := json.Unmarshal(raw, &songs); err != nil {
		return fmt.Errorf("decode playlist songs: %w", err)
	}
	if len(songs) >= s.cfg.MaxPlaylistSongs {
		return ErrSongLimit
	}
	for _, existing := range songs {
		if existing.URL == song.URL {
			return ErrDuplicateSong
		}
	}
	songs = append(songs, song)

	updated, err := json.Marshal(songs)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE playlists SET songs = ? WHERE user_id = ? AND playlist_name = ?",
		updated, userID, name); err != nil {
		return err
	}
	return tx.Commit()
}

// GetPlaylist loads one playlist by name.
func (s *Store) GetPlaylist(ctx context.Context, userID int64, name string) (*Playlist, error) {
	var (
		p   Playlist
		raw []byte
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT playlist_id, user_id, playlist_name, songs FROM playlists WHERE user_id = ? AND playlist_name = ?",
		userID, name).Scan(&p.ID, &p.UserID, &p.Name, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlaylistNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &p.Songs); err != nil {
		return nil, fmt.Errorf("decode playlist songs: %w", err)
	}
	return &p, nil
}

// ListPlaylists returns all playlists owned by the user.
func (s *Store) ListPlaylists(ctx context.Context, userID int64) ([]Playlist, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT playlist_id, user_id, playlist_name, songs FROM playlists WHERE user_id = ? ORDER BY playlist_name",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var playlists []Playlist
	for rows.Next() {
		var (
			p   Playlist
			raw []byte
		)
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &p.Songs); err != nil {
			return nil, fmt.Errorf("decode playlist songs: %w", err)
		}
		playlists = append(playlists, p)
	}
	return playlists, rows.Err()
}

// RemoveSong deletes the song at index and returns it.
func (s *Store) RemoveSong(ctx context.Context, userID int64, name string, index int) (*Song, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var raw []byte
	err = tx.QueryRowContext(ctx,
		"SELECT songs FROM playlists WHERE user_id = ? AND playlist_name = ? FOR UPDATE",
		userID, name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlaylistNotFound
	}
	if err != nil {
		return nil, err
	}

	var songs []Song
	if err := json.Unmarshal(raw, &songs); err != nil {
		return nil, fmt.Errorf("decode playlist songs: %w", err)
	}
	if index < 0 || index >= len(songs) {
		return nil, ErrInvalidIndex
	}
	removed := songs[index]
	songs = append(songs[:index], songs[index+1:]...)

	updated, err := json.Marshal(songs)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE playlists SET songs = ? WHERE user_id = ? AND playlist_name = ?",
		updated, userID, name); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &removed, nil
}

// DeletePlaylist removes the playlist entirely.
func (s *Store) DeletePlaylist(ctx context.Context, userID int64, name string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM playlists WHERE user_id = ? AND playlist_name = ?", userID, name)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}
