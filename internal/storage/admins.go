package storage

import "context"

// Privileges every freshly promoted admin receives.
const defaultPrivileges = `{"can_manage_vc": true, "can_manage_playlists": true, "can_view_stats": true}`

// IsAdmin reports whether the user was promoted as a bot admin.
func (s *Store) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM admins WHERE user_id = ?", userID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Promote records a new bot admin with default privileges. Promoting an
// existing admin fails with ErrAlreadyAdmin instead of duplicating the row.
func (s *Store) Promote(ctx context.Context, userID, promotedBy int64) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO admins (user_id, promoted_by, privileges) VALUES (?, ?, ?)",
		userID, promotedBy, defaultPrivileges)
	if isDuplicateErr(err) {
		return ErrAlreadyAdmin
	}
	return err
}

// Demote removes a bot admin. Removing a non-admin is a no-op.
func (s *Store) Demote(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM admins WHERE user_id = ?", userID)
	return err
}
