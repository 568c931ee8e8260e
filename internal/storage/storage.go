// Package storage persists bot state in MySQL: users, playlists, bot admins,
// known groups and the currently active streams.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

var (
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrPlaylistExists   = errors.New("playlist already exists")
	ErrPlaylistLimit    = errors.New("playlist limit reached")
	ErrSongLimit        = errors.New("playlist song limit reached")
	ErrDuplicateSong    = errors.New("song already in playlist")
	ErrInvalidIndex     = errors.New("invalid song index")
	ErrAlreadyAdmin     = errors.New("user is already an admin")
)

const (
	connectAttempts = 3
	connectDelay    = 5 * time.Second
)

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string

	MaxPlaylists     int
	MaxPlaylistSongs int
}

// Store wraps the MySQL pool and exposes the bot's repositories.
type Store struct {
	db  *sql.DB
	cfg Config
}

// Open connects to the MySQL server, creates the database when missing and
// returns a ready Store. Connection is retried the way the bot has always
// done, so a cold docker-compose stack has time to come up.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.MaxPlaylists <= 0 {
		cfg.MaxPlaylists = 5
	}
	if cfg.MaxPlaylistSongs <= 0 {
		cfg.MaxPlaylistSongs = 10
	}

	serverDSN := fmt.Sprintf("%s:%s@tcp(%s:%d)/?charset=utf8mb4&parseTime=true",
		cfg.User, cfg.Password, cfg.Host, cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		db, err := sql.Open("mysql", serverDSN)
		if err != nil {
			return nil, err
		}
		if err = db.PingContext(ctx); err == nil {
			if _, err = db.ExecContext(ctx, createDatabaseStmt(cfg.Name)); err == nil {
				_ = db.Close()
				return openDatabase(ctx, cfg)
			}
		}
		_ = db.Close()
		lastErr = err
		logrus.WithError(err).Warnf("mysql connect attempt %d/%d failed", attempt, connectAttempts)

		if attempt < connectAttempts {
			select {
			case <-time.After(connectDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("connect to mysql: %w", lastErr)
}

func openDatabase(ctx context.Context, cfg Config) (*Store, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Name, err)
	}
	logrus.Infof("connected to mysql database %s", cfg.Name)
	return &Store{db: db, cfg: cfg}, nil
}

// NewWithDB wraps an existing pool. Used by tests.
func NewWithDB(db *sql.DB, cfg Config) *Store {
	if cfg.MaxPlaylists <= 0 {
		cfg.MaxPlaylists = 5
	}
	if cfg.MaxPlaylistSongs <= 0 {
		cfg.MaxPlaylistSongs = 10
	}
	return &Store{db: db, cfg: cfg}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// createDatabaseStmt backtick-quotes the database name, same as the groups
// DDL, so an unusual DB_NAME cannot splice into the statement.
func createDatabaseStmt(name string) string {
	return "CREATE DATABASE IF NOT EXISTS `" + name + "` DEFAULT CHARSET utf8mb4"
}

// isDuplicateErr reports a MySQL 1062 duplicate-key violation.
func isDuplicateErr(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}
