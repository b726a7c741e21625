package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intconfig "backend/internal/config"
	dbx "backend/internal/db"
	"backend/internal/domain"
	"backend/internal/domain/models"
)

// UserRepo wraps DB access for back-office accounts.
type UserRepo struct {
	Q dbx.Queryer
}

func (r UserRepo) q() dbx.Queryer {
	if r.Q != nil {
		return r.Q
	}
	if intconfig.DB != nil {
		return intconfig.DB
	}
	return nil
}

func (r UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	q := r.q()
	if q == nil {
		return models.User{}, fmt.Errorf("db not available")
	}
	const query = `
		SELECT id, COALESCE(name,''), email, password_hash, role, status, created_at
		FROM users WHERE email=? LIMIT 1`
	var u models.User
	err := q.QueryRowContext(ctx, query, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
		}
		return models.User{}, err
	}
	return u, nil
}

func (r UserRepo) Create(ctx context.Context, u models.User) (int64, error) {
	q := r.q()
	if q == nil {
		return 0, fmt.Errorf("db not available")
	}
	res, err := q.ExecContext(ctx, `
		INSERT INTO users (name, email, password_hash, role, status) VALUES (?,?,?,?,?)`,
		u.Name, u.Email, u.PasswordHash, u.Role, u.Status,
	)
	if err != nil {
		if dbx.IsDuplicateKey(err) {
			return 0, domain.ConflictError{Resource: "user", Msg: "email already registered"}
		}
		return 0, err
	}
	return res.LastInsertId()
}
