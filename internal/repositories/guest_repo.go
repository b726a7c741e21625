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
	"backend/internal/utils"
)

// GuestRepo wraps DB access for guests keyed by unique email.
type GuestRepo struct {
	Q dbx.Queryer
}

func (r GuestRepo) q() dbx.Queryer {
	if r.Q != nil {
		return r.Q
	}
	if intconfig.DB != nil {
		return intconfig.DB
	}
	return nil
}

func (r GuestRepo) GetByID(ctx context.Context, id int64) (models.Guest, error) {
	q := r.q()
	if q == nil {
		return models.Guest{}, fmt.Errorf("db not available")
	}
	const query = `
		SELECT id, email, COALESCE(name,''), COALESCE(phone,''), created_at, COALESCE(updated_at, created_at)
		FROM guests WHERE id=? LIMIT 1`
	var g models.Guest
	err := q.QueryRowContext(ctx, query, id).
		Scan(&g.ID, &g.Email, &g.Name, &g.Phone, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Guest{}, domain.NotFoundError{Resource: "guest", Err: err}
		}
		return models.Guest{}, err
	}
	return g, nil
}

func (r GuestRepo) getByEmail(ctx context.Context, email string) (models.Guest, error) {
	q := r.q()
	const query = `
		SELECT id, email, COALESCE(name,''), COALESCE(phone,''), created_at, COALESCE(updated_at, created_at)
		FROM guests WHERE email=? LIMIT 1`
	var g models.Guest
	err := q.QueryRowContext(ctx, query, email).
		Scan(&g.ID, &g.Email, &g.Name, &g.Phone, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

// UpsertByEmail creates the guest when absent, else refreshes name/phone with
// any non-empty values supplied. A duplicate-key race on insert falls back to
// the row the other writer created.
func (r GuestRepo) UpsertByEmail(ctx context.Context, info models.GuestInfo) (models.Guest, error) {
	q := r.q()
	if q == nil {
		return models.Guest{}, fmt.Errorf("db not available")
	}

	email := utils.NormalizeEmail(info.Email)
	if email == "" {
		return models.Guest{}, domain.ValidationError{Field: "guestEmail", Msg: "email is required"}
	}
	name := utils.NormalizeSpace(info.Name)
	phone := utils.NormalizePhone(info.Phone)

	existing, err := r.getByEmail(ctx, email)
	switch {
	case err == nil:
		return r.refresh(ctx, existing, name, phone)
	case errors.Is(err, sql.ErrNoRows):
		// fall through to insert
	default:
		return models.Guest{}, err
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO guests (email, name, phone) VALUES (?,?,?)`,
		email, name, phone,
	)
	if err != nil {
		if dbx.IsDuplicateKey(err) {
			existing, err := r.getByEmail(ctx, email)
			if err != nil {
				return models.Guest{}, err
			}
			return r.refresh(ctx, existing, name, phone)
		}
		return models.Guest{}, err
	}

	created, err := r.getByEmail(ctx, email)
	if err != nil {
		return models.Guest{}, err
	}
	return created, nil
}

func (r GuestRepo) refresh(ctx context.Context, g models.Guest, name, phone string) (models.Guest, error) {
	sets := []string{}
	args := []any{}
	if name != "" && name != g.Name {
		sets = append(sets, "name=?")
		args = append(args, name)
		g.Name = name
	}
	if phone != "" && phone != g.Phone {
		sets = append(sets, "phone=?")
		args = append(args, phone)
		g.Phone = phone
	}
	if len(sets) == 0 {
		return g, nil
	}
	sets = append(sets, "updated_at=NOW()")
	args = append(args, g.ID)

	query := "UPDATE guests SET " + sets[0]
	for _, s := range sets[1:] {
		query += ", " + s
	}
	query += " WHERE id=?"

	if _, err := r.q().ExecContext(ctx, query, args...); err != nil {
		return models.Guest{}, err
	}
	return g, nil
}
