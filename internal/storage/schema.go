package storage

import "context"

// Table DDL. Order matters: playlists, admins, groups and active_streams
// carry foreign keys into users and groups.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id BIGINT PRIMARY KEY,
		username VARCHAR(255),
		first_name VARCHAR(255),
		last_name VARCHAR(255),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_active TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS playlists (
		playlist_id INT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT,
		playlist_name VARCHAR(255),
		songs JSON,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE,
		UNIQUE KEY unique_playlist (user_id, playlist_name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS admins (
		admin_id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT,
		promoted_by BIGINT,
		privileges JSON,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE,
		UNIQUE KEY unique_admin (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	"CREATE TABLE IF NOT EXISTS `groups` (" + `
		group_id BIGINT PRIMARY KEY,
		group_name VARCHAR(255),
		added_by BIGINT,
		is_active BOOLEAN DEFAULT TRUE,
		member_count INT DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_active TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		FOREIGN KEY (added_by) REFERENCES users(user_id) ON DELETE SET NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS active_streams (
		stream_id INT AUTO_INCREMENT PRIMARY KEY,
		group_id BIGINT,
		current_song VARCHAR(255),
		requested_by BIGINT,
		started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (group_id) REFERENCES ` + "`groups`" + `(group_id) ON DELETE CASCADE,
		FOREIGN KEY (requested_by) REFERENCES users(user_id) ON DELETE SET NULL,
		UNIQUE KEY unique_stream (group_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// InitSchema creates all tables when they do not exist yet.
func (s *Store) InitSchema(ctx context.Context) error {
	for _, ddl := range schema {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}
