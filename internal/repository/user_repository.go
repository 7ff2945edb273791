package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/movie-ticket-reservation/internal/model"
	"github.com/iliyamo/movie-ticket-reservation/internal/utils"
)

// UserRepo manages persistence for application users.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// NewUser carries the sign-up fields for Create. The role is assigned
// by the caller, not the registrant; sign-up always produces customers.
type NewUser struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
	Address   string
	Phone     string
	Role      string
}

// Create hashes the password with bcrypt and inserts the user,
// returning its generated ID. A taken username yields
// ErrUsernameExists; the pre-insert count check is backstopped by the
// UNIQUE key on username (MySQL error 1062) for concurrent sign-ups.
func (r *UserRepo) Create(ctx context.Context, nu NewUser, cost int) (uint64, error) {
	nu.Username = strings.TrimSpace(nu.Username)
	var count int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE username = ?", nu.Username).Scan(&count)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, ErrUsernameExists
	}
	hash, err := utils.HashPassword(nu.Password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, first_name, last_name, email, address, phone, role)
         VALUES (?,?,?,?,?,?,?,?)`,
		nu.Username, hash, nu.FirstName, nu.LastName, nu.Email, nu.Address, nu.Phone, nu.Role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by username. It returns ErrUserNotFound
// when no row matches.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	username = strings.TrimSpace(username)
	row := r.DB.QueryRowContext(ctx,
		"SELECT id, username, password_hash, first_name, last_name, email, address, phone, role, created_at FROM users WHERE username = ? LIMIT 1",
		username)
	return scanUser(row)
}

// GetByUsernameTx is GetByUsername within the scope of an existing
// transaction, used by the booking service so the whole book flow reads
// under one transaction.
func (r *UserRepo) GetByUsernameTx(ctx context.Context, tx *sql.Tx, username string) (*model.User, error) {
	username = strings.TrimSpace(username)
	row := tx.QueryRowContext(ctx,
		"SELECT id, username, password_hash, first_name, last_name, email, address, phone, role, created_at FROM users WHERE username = ? LIMIT 1",
		username)
	return scanUser(row)
}

// GetByID fetches a user by id. It returns ErrUserNotFound when no row
// matches.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT id, username, password_hash, first_name, last_name, email, address, phone, role, created_at FROM users WHERE id = ? LIMIT 1",
		id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Email, &u.Address, &u.Phone, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Profile returns the public profile view of a user, or ErrUserNotFound
// when the username is unknown.
func (r *UserRepo) Profile(ctx context.Context, username string) (*model.Profile, error) {
	u, err := r.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return &model.Profile{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Address:   u.Address,
		Phone:     u.Phone,
	}, nil
}
