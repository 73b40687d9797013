package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-product-api/internal/model"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password, fullname, email, tel, created_at, updated_at
		 FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Fullname, &u.Email, &u.Tel, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, storeError("find user by id", err)
	}
	return u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password, fullname, email, tel, created_at, updated_at
		 FROM users WHERE lower(username) = lower($1)`, strings.TrimSpace(username)).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Fullname, &u.Email, &u.Tel, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, storeError("find user by username", err)
	}
	return u, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE lower(username) = lower($1))`,
		strings.TrimSpace(username)).Scan(&exists)
	if err != nil {
		return false, storeError("check username exists", err)
	}
	return exists, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))`,
		strings.TrimSpace(email)).Scan(&exists)
	if err != nil {
		return false, storeError("check email exists", err)
	}
	return exists, nil
}

// Create inserts the account and fills in the store-assigned id and
// timestamps. A concurrent duplicate slips past the pre-checks in
// AuthService; the UNIQUE constraints catch it here.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (username, password, fullname, email, tel)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		u.Username, u.PasswordHash, u.Fullname, u.Email, u.Tel).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)

	if constraint, ok := uniqueViolation(err); ok {
		if strings.Contains(constraint, "email") {
			return model.ErrDuplicateEmail
		}
		return model.ErrDuplicateUsername
	}
	if err != nil {
		return storeError("create user", err)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.AccountInfo, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, username, fullname, email, tel, created_at, updated_at
		 FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, storeError("list users", err)
	}
	defer rows.Close()

	users := make([]model.AccountInfo, 0)
	for rows.Next() {
		var u model.AccountInfo
		if err := rows.Scan(&u.ID, &u.Username, &u.Fullname, &u.Email, &u.Tel, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, storeError("scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list users", err)
	}
	return users, nil
}
