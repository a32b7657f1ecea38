// Package user persists accounts in the relational store.
package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/peroute/hackwest-project/internal/db/sqldb"
	"github.com/peroute/hackwest-project/internal/domain"
	domuser "github.com/peroute/hackwest-project/internal/domain/user"
)

const userColumns = `id, username, email, hashed_password, is_active, is_admin, created_at, updated_at`

// Repo implements usecase/user.Repository.
type Repo struct {
	db *sqldb.DB
}

// New creates a user repository.
func New(d *sqldb.DB) *Repo {
	return &Repo{db: d}
}

// Create inserts a user and returns it with its assigned id.
func (r *Repo) Create(ctx context.Context, u *domuser.User) (domuser.User, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`
		INSERT INTO users (username, email, hashed_password, is_active, is_admin, created_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
		u.Username(), u.Email(), u.PasswordHash(), u.IsActive(), u.IsAdmin(), sqldb.Millis(u.CreatedAt()),
	).Scan(&id)
	if err != nil {
		if sqldb.IsUniqueViolation(err) {
			return domuser.User{}, fmt.Errorf("username or email: %w", domain.ErrAlreadyExists)
		}
		return domuser.User{}, fmt.Errorf("insert user: %w", err)
	}
	return domuser.Reconstruct(id, u.Username(), u.Email(), u.PasswordHash(),
		u.IsActive(), u.IsAdmin(), u.CreatedAt(), nil), nil
}

// Get returns a user by id.
func (r *Repo) Get(ctx context.Context, id int64) (domuser.User, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`), id)
	return scanUser(row)
}

// FindByUsername returns a user by exact username.
func (r *Repo) FindByUsername(ctx context.Context, username string) (domuser.User, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT `+userColumns+` FROM users WHERE username = ?`), username)
	return scanUser(row)
}

// FindByEmail returns a user by exact email.
func (r *Repo) FindByEmail(ctx context.Context, email string) (domuser.User, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT `+userColumns+` FROM users WHERE email = ?`), email)
	return scanUser(row)
}

// List returns users ordered by id.
func (r *Repo) List(ctx context.Context, skip, limit int) ([]domuser.User, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(
		`SELECT `+userColumns+` FROM users ORDER BY id LIMIT ? OFFSET ?`), limit, skip)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []domuser.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update overwrites the mutable fields of an existing user.
func (r *Repo) Update(ctx context.Context, u *domuser.User) error {
	var updated any
	if u.UpdatedAt() != nil {
		updated = sqldb.Millis(*u.UpdatedAt())
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE users SET username = ?, email = ?, hashed_password = ?, is_active = ?, is_admin = ?, updated_at = ?
		WHERE id = ?`),
		u.Username(), u.Email(), u.PasswordHash(), u.IsActive(), u.IsAdmin(), updated, u.ID(),
	)
	if err != nil {
		if sqldb.IsUniqueViolation(err) {
			return fmt.Errorf("username or email: %w", domain.ErrAlreadyExists)
		}
		return fmt.Errorf("update user %d: %w", u.ID(), err)
	}
	return expectOneRow(res)
}

// Delete removes a user and detaches their history.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{
		`UPDATE questions SET user_id = NULL WHERE user_id = ?`,
		`UPDATE search_logs SET user_id = NULL WHERE user_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, r.db.Rebind(q), id); err != nil {
			return fmt.Errorf("detach history: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	if err := expectOneRow(res); err != nil {
		return err
	}
	return tx.Commit()
}

// Count returns the number of users.
func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (domuser.User, error) {
	var (
		id                    int64
		username, email, hash string
		active, admin         bool
		createdAt             int64
		updatedAt             sql.NullInt64
	)
	err := s.Scan(&id, &username, &email, &hash, &active, &admin, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domuser.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domuser.User{}, fmt.Errorf("scan user: %w", err)
	}

	var upd *time.Time
	if updatedAt.Valid {
		t := sqldb.FromMillis(updatedAt.Int64)
		upd = &t
	}
	return domuser.Reconstruct(id, username, email, hash, active, admin, sqldb.FromMillis(createdAt), upd), nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
