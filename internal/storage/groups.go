package storage

import (
	"context"
	"database/sql"
)

// UpsertGroup records a group sighting, reactivating it when the bot was
// previously removed.
func (s *Store) UpsertGroup(ctx context.Context, g Group) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO `+"`groups`"+` (group_id, group_name, added_by)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE
			group_name = VALUES(group_name),
			is_active = TRUE`,
		g.ID, g.Name, g.AddedBy)
	return err
}

// SetMemberCount updates the cached member count for a group.
func (s *Store) SetMemberCount(ctx context.Context, groupID int64, count int) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE `groups` SET member_count = ? WHERE group_id = ?", count, groupID)
	return err
}

// DeactivateGroup marks a group the bot was kicked from.
func (s *Store) DeactivateGroup(ctx context.Context, groupID int64) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE `groups` SET is_active = FALSE WHERE group_id = ?", groupID)
	return err
}

// ActiveGroups lists active groups with their live stream counts, most
// recently active first.
func (s *Store) ActiveGroups(ctx context.Context) ([]GroupStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.group_id, g.group_name, g.member_count, g.last_active,
		       COUNT(DISTINCT a.stream_id) AS active_streams
		FROM `+"`groups`"+` g
		LEFT JOIN active_streams a ON g.group_id = a.group_id
		WHERE g.is_active = TRUE
		GROUP BY g.group_id
		ORDER BY g.last_active DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []GroupStat
	for rows.Next() {
		var (
			g    GroupStat
			name sql.NullString
		)
		if err := rows.Scan(&g.ID, &name, &g.MemberCount, &g.LastActive, &g.ActiveStreams); err != nil {
			return nil, err
		}
		g.Name = name.String
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// AllGroups lists every group the bot has seen, newest first, including who
// added it.
func (s *Store) AllGroups(ctx context.Context) ([]GroupInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.group_id, g.group_name, g.member_count, g.is_active, g.created_at,
		       u.username
		FROM `+"`groups`"+` g
		LEFT JOIN users u ON g.added_by = u.user_id
		ORDER BY g.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []GroupInfo
	for rows.Next() {
		var (
			g       GroupInfo
			name    sql.NullString
			addedBy sql.NullString
		)
		if err := rows.Scan(&g.ID, &name, &g.MemberCount, &g.IsActive, &g.CreatedAt, &addedBy); err != nil {
			return nil, err
		}
		g.Name = name.String
		g.AddedByUsername = addedBy.String
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
