// Package repository implements user persistence over PostgreSQL.
//
// Emails are stored lowercased; callers normalize before they get here
// and the table's CHECK enforces it as a last line of defense.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/apperr"
)

// User is one stored account.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Verified     bool
	Staff        bool
	CreatedAt    time.Time
}

// Repository defines the user data access boundary.
type Repository interface {
	Create(ctx context.Context, email, passwordHash string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// Tx variants participate in a caller-owned transaction (quote conversion).
	GetByEmailTx(ctx context.Context, tx pgx.Tx, email string) (User, error)
	CreateTx(ctx context.Context, tx pgx.Tx, email, passwordHash string) (User, error)
}

// Repo implements Repository over a pgx pool.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

const userColumns = `id, email, password_hash, verified, staff, created_at`

// Create inserts a new account. A duplicate email maps to a conflict.
func (r *Repo) Create(ctx context.Context, email, passwordHash string) (User, error) {
	return createUser(ctx, r.pool, email, passwordHash)
}

// CreateTx inserts a new account inside a caller-owned transaction.
func (r *Repo) CreateTx(ctx context.Context, tx pgx.Tx, email, passwordHash string) (User, error) {
	return createUser(ctx, tx, email, passwordHash)
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func createUser(ctx context.Context, q querier, email, passwordHash string) (User, error) {
	var u User
	err := q.QueryRow(ctx, `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING `+userColumns,
		email, passwordHash,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Verified, &u.Staff, &u.CreatedAt)
	if isUniqueViolation(err) {
		return User{}, apperr.Conflict("email already registered")
	}
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// GetByEmail fetches an account by its normalized email.
func (r *Repo) GetByEmail(ctx context.Context, email string) (User, error) {
	return getByEmail(ctx, r.pool, email)
}

// GetByEmailTx fetches an account by email inside a caller-owned transaction.
func (r *Repo) GetByEmailTx(ctx context.Context, tx pgx.Tx, email string) (User, error) {
	return getByEmail(ctx, tx, email)
}

func getByEmail(ctx context.Context, q querier, email string) (User, error) {
	var u User
	err := q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Verified, &u.Staff, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetByID fetches an account by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	var u User
	err := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Verified, &u.Staff, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFound("user not found")
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UpdatePassword replaces the stored hash.
func (r *Repo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
