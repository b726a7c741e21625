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

// SnowmobileRepo wraps DB access for the rental fleet.
type SnowmobileRepo struct {
	Q dbx.Queryer
}

func (r SnowmobileRepo) q() dbx.Queryer {
	if r.Q != nil {
		return r.Q
	}
	if intconfig.DB != nil {
		return intconfig.DB
	}
	return nil
}

func (r SnowmobileRepo) GetByID(ctx context.Context, id int64) (models.Snowmobile, error) {
	q := r.q()
	if q == nil {
		return models.Snowmobile{}, fmt.Errorf("db not available")
	}
	const query = `
		SELECT id, code, COALESCE(model,''), daily_price, active, created_at
		FROM snowmobiles WHERE id=? LIMIT 1`
	var s models.Snowmobile
	err := q.QueryRowContext(ctx, query, id).
		Scan(&s.ID, &s.Code, &s.Model, &s.DailyPrice, &s.Active, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Snowmobile{}, domain.NotFoundError{Resource: "snowmobile", Err: err}
		}
		return models.Snowmobile{}, err
	}
	return s, nil
}

func (r SnowmobileRepo) List(ctx context.Context, activeOnly bool) ([]models.Snowmobile, error) {
	q := r.q()
	if q == nil {
		return nil, fmt.Errorf("db not available")
	}
	query := `
		SELECT id, code, COALESCE(model,''), daily_price, active, created_at
		FROM snowmobiles`
	if activeOnly {
		query += ` WHERE active=1`
	}
	query += ` ORDER BY code ASC`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Snowmobile{}
	for rows.Next() {
		var s models.Snowmobile
		if err := rows.Scan(&s.ID, &s.Code, &s.Model, &s.DailyPrice, &s.Active, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r SnowmobileRepo) Create(ctx context.Context, s models.Snowmobile) (int64, error) {
	q := r.q()
	if q == nil {
		return 0, fmt.Errorf("db not available")
	}
	res, err := q.ExecContext(ctx, `
		INSERT INTO snowmobiles (code, model, daily_price, active) VALUES (?,?,?,?)`,
		s.Code, s.Model, s.DailyPrice, s.Active,
	)
	if err != nil {
		if dbx.IsDuplicateKey(err) {
			return 0, domain.ConflictError{Resource: "snowmobile", Msg: "code already in use"}
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r SnowmobileRepo) Update(ctx context.Context, s models.Snowmobile) error {
	q := r.q()
	if q == nil {
		return fmt.Errorf("db not available")
	}
	res, err := q.ExecContext(ctx, `
		UPDATE snowmobiles SET code=?, model=?, daily_price=?, active=? WHERE id=?`,
		s.Code, s.Model, s.DailyPrice, s.Active, s.ID,
	)
	if err != nil {
		if dbx.IsDuplicateKey(err) {
			return domain.ConflictError{Resource: "snowmobile", Msg: "code already in use"}
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "snowmobile"}
	}
	return nil
}

func (r SnowmobileRepo) Delete(ctx context.Context, id int64) error {
	q := r.q()
	if q == nil {
		return fmt.Errorf("db not available")
	}
	res, err := q.ExecContext(ctx, `DELETE FROM snowmobiles WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "snowmobile"}
	}
	return nil
}
