package repository

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-reservation/internal/utils"
)

func TestUserCreateHashesPassword(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepo(db)

	var storedHash string
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE username = ?")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("alice", hashCaptor{&storedHash}, "Alice", "Smith",
			"alice@example.com", "1 Main St", "555-0100", "customer").
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := repo.Create(context.Background(), NewUser{
		Username:  "  alice  ", // whitespace is trimmed before use
		Password:  "s3cret",
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "alice@example.com",
		Address:   "1 Main St",
		Phone:     "555-0100",
		Role:      "customer",
	}, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
	assert.NotEqual(t, "s3cret", storedHash)
	assert.True(t, utils.VerifyPassword(storedHash, "s3cret"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// hashCaptor matches any string argument and records it, so the test
// can verify the bcrypt hash without knowing its salt.
type hashCaptor struct{ dst *string }

func (h hashCaptor) Match(v driver.Value) bool {
	s, ok := v.(string)
	if ok {
		*h.dst = s
	}
	return ok
}

func TestUserCreateTakenUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE username = ?")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err = repo.Create(context.Background(), NewUser{Username: "alice", Password: "x", Role: "customer"}, 4)
	assert.ErrorIs(t, err, ErrUsernameExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByUsernameNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = ?")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "username", "password_hash", "first_name", "last_name",
			"email", "address", "phone", "role", "created_at",
		}))

	_, err = repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserProfileOmitsSecrets(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewUserRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = ?")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "username", "password_hash", "first_name", "last_name",
			"email", "address", "phone", "role", "created_at",
		}).AddRow(7, "alice", "$2a$10$hash", "Alice", "Smith",
			"alice@example.com", "1 Main St", "555-0100", "customer", time.Now()))

	p, err := repo.Profile(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, "Alice", p.FirstName)
	assert.Equal(t, "alice@example.com", p.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}
