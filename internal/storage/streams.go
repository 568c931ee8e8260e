package storage

import "context"

// SetActiveStream records what is playing in a group. One row per group:
// starting a new song replaces the previous one.
func (s *Store) SetActiveStream(ctx context.Context, groupID int64, song string, requestedBy int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO active_streams (group_id, current_song, requested_by)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE
			current_song = VALUES(current_song),
			requested_by = VALUES(requested_by),
			started_at = CURRENT_TIMESTAMP`,
		groupID, song, requestedBy)
	return err
}

// ClearActiveStream removes the stream row when playback stops.
func (s *Store) ClearActiveStream(ctx context.Context, groupID int64) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM active_streams WHERE group_id = ?", groupID)
	return err
}

// ActiveStreamCount returns how many groups are streaming right now.
func (s *Store) ActiveStreamCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM active_streams").Scan(&n)
	return n, err
}
