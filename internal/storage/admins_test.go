package storage

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAdmin(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM admins WHERE user_id = ?")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := store.IsAdmin(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsAdminFalse(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM admins WHERE user_id = ?")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ok, err := store.IsAdmin(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPromote(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO admins (user_id, promoted_by, privileges) VALUES (?, ?, ?)")).
		WithArgs(int64(42), int64(1), defaultPrivileges).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.Promote(context.Background(), 42, 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPromoteAlreadyAdmin(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO admins")).
		WithArgs(int64(42), int64(1), defaultPrivileges).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := store.Promote(context.Background(), 42, 1)
	assert.ErrorIs(t, err, ErrAlreadyAdmin)
}

func TestDemote(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM admins WHERE user_id = ?")).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, store.Demote(context.Background(), 42))
}

func TestDemoteNonAdmin(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM admins WHERE user_id = ?")).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, store.Demote(context.Background(), 42))
}
