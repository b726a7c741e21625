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

// PackageRepo wraps DB access for tour packages. Q may be a *sql.Tx when the
// caller runs inside a transaction; otherwise the shared pool is used.
type PackageRepo struct {
	Q dbx.Queryer
}

func (r PackageRepo) q() dbx.Queryer {
	if r.Q != nil {
		return r.Q
	}
	if intconfig.DB != nil {
		return intconfig.DB
	}
	return nil
}

func (r PackageRepo) GetByID(ctx context.Context, id int64) (models.TourPackage, error) {
	q := r.q()
	if q == nil {
		return models.TourPackage{}, fmt.Errorf("db not available")
	}
	const query = `
		SELECT id, slug, name, base_price, duration_minutes, capacity, active, created_at
		FROM packages WHERE id=? LIMIT 1`
	return r.scanOne(q.QueryRowContext(ctx, query, id))
}

func (r PackageRepo) GetBySlug(ctx context.Context, slug string) (models.TourPackage, error) {
	q := r.q()
	if q == nil {
		return models.TourPackage{}, fmt.Errorf("db not available")
	}
	const query = `
		SELECT id, slug, name, base_price, duration_minutes, capacity, active, created_at
		FROM packages WHERE slug=? LIMIT 1`
	return r.scanOne(q.QueryRowContext(ctx, query, slug))
}

func (r PackageRepo) scanOne(row *sql.Row) (models.TourPackage, error) {
	var p models.TourPackage
	err := row.Scan(&p.ID, &p.Slug, &p.Name, &p.BasePrice, &p.DurationMinutes, &p.Capacity, &p.Active, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.TourPackage{}, domain.NotFoundError{Resource: "package", Err: err}
		}
		return models.TourPackage{}, err
	}
	return p, nil
}

// ListActive returns packages visible on the customer site.
func (r PackageRepo) ListActive(ctx context.Context) ([]models.TourPackage, error) {
	return r.list(ctx, true)
}

// ListAll returns every package for the back office.
func (r PackageRepo) ListAll(ctx context.Context) ([]models.TourPackage, error) {
	return r.list(ctx, false)
}

func (r PackageRepo) list(ctx context.Context, activeOnly bool) ([]models.TourPackage, error) {
	q := r.q()
	if q == nil {
		return nil, fmt.Errorf("db not available")
	}
	query := `
		SELECT id, slug, name, base_price, duration_minutes, capacity, active, created_at
		FROM packages`
	if activeOnly {
		query += ` WHERE active=1`
	}
	query += ` ORDER BY name ASC`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.TourPackage{}
	for rows.Next() {
		var p models.TourPackage
		if err := rows.Scan(&p.ID, &p.Slug, &p.Name, &p.BasePrice, &p.DurationMinutes, &p.Capacity, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r PackageRepo) Create(ctx context.Context, p models.TourPackage) (int64, error) {
	q := r.q()
	if q == nil {
		return 0, fmt.Errorf("db not available")
	}
	res, err := q.ExecContext(ctx, `
		INSERT INTO packages (slug, name, base_price, duration_minutes, capacity, active)
		VALUES (?,?,?,?,?,?)`,
		p.Slug, p.Name, p.BasePrice, p.DurationMinutes, p.Capacity, p.Active,
	)
	if err != nil {
		if dbx.IsDuplicateKey(err) {
			return 0, domain.ConflictError{Resource: "package", Msg: "slug already in use"}
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r PackageRepo) Update(ctx context.Context, p models.TourPackage) error {
	q := r.q()
	if q == nil {
		return fmt.Errorf("db not available")
	}
	res, err := q.ExecContext(ctx, `
		UPDATE packages SET slug=?, name=?, base_price=?, duration_minutes=?, capacity=?, active=?
		WHERE id=?`,
		p.Slug, p.Name, p.BasePrice, p.DurationMinutes, p.Capacity, p.Active, p.ID,
	)
	if err != nil {
		if dbx.IsDuplicateKey(err) {
			return domain.ConflictError{Resource: "package", Msg: "slug already in use"}
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "package"}
	}
	return nil
}

func (r PackageRepo) Delete(ctx context.Context, id int64) error {
	q := r.q()
	if q == nil {
		return fmt.Errorf("db not available")
	}
	res, err := q.ExecContext(ctx, `DELETE FROM packages WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "package"}
	}
	return nil
}
