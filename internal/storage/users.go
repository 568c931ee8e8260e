package storage

import (
	"context"
	"database/sql"
)

// UpsertUser records a user sighting, refreshing profile fields on conflict.
func (s *Store) UpsertUser(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, username, first_name, last_name)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			username = VALUES(username),
			first_name = VALUES(first_name),
			last_name = VALUES(last_name)`,
		u.ID, u.Username, u.FirstName, u.LastName)
	return err
}

// TouchUser bumps last_active without changing profile fields.
func (s *Store) TouchUser(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET last_active = NOW() WHERE user_id = ?", userID)
	return err
}

// AllUsers returns every known user with playlist count and admin flag,
// most recently active first.
func (s *Store) AllUsers(ctx context.Context) ([]UserStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.user_id, u.username, u.first_name, u.last_name, u.last_active,
		       COUNT(DISTINCT p.playlist_id) AS playlist_count,
		       COUNT(DISTINCT a.admin_id) AS is_admin
		FROM users u
		LEFT JOIN playlists p ON u.user_id = p.user_id
		LEFT JOIN admins a ON u.user_id = a.user_id
		GROUP BY u.user_id
		ORDER BY u.last_active DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []UserStat
	for rows.Next() {
		var (
			u         UserStat
			username  sql.NullString
			firstName sql.NullString
			lastName  sql.NullString
			admin     int
		)
		if err := rows.Scan(&u.ID, &username, &firstName, &lastName,
			&u.LastActive, &u.PlaylistCount, &admin); err != nil {
			return nil, err
		}
		u.Username = username.String
		u.FirstName = firstName.String
		u.LastName = lastName.String
		u.IsAdmin = admin > 0
		users = append(users, u)
	}
	return users, rows.Err()
}
