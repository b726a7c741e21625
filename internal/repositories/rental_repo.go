package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	intconfig "backend/internal/config"
	dbx "backend/internal/db"
	"backend/internal/domain"
	"backend/internal/domain/models"
)

// RentalRepo wraps DB access for snowmobile rentals.
type RentalRepo struct {
	Q dbx.Queryer
}

func (r RentalRepo) q() dbx.Queryer {
	if r.Q != nil {
		return r.Q
	}
	if intconfig.DB != nil {
		return intconfig.DB
	}
	return nil
}

func (r RentalRepo) Create(ctx context.Context, rental models.Rental) (int64, error) {
	q := r.q()
	if q == nil {
		return 0, fmt.Errorf("db not available")
	}
	res, err := q.ExecContext(ctx, `
		INSERT INTO rentals (guest_id, snowmobile_id, from_date, to_date, total_price, status)
		VALUES (?,?,?,?,?,?)`,
		rental.GuestID, rental.SnowmobileID, rental.FromDate, rental.ToDate, rental.TotalPrice, string(rental.Status),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r RentalRepo) GetByID(ctx context.Context, id int64) (models.Rental, error) {
	q := r.q()
	if q == nil {
		return models.Rental{}, fmt.Errorf("db not available")
	}
	const query = `
		SELECT id, guest_id, snowmobile_id, from_date, to_date, total_price, status, created_at
		FROM rentals WHERE id=? LIMIT 1`
	var rental models.Rental
	var status string
	err := q.QueryRowContext(ctx, query, id).Scan(
		&rental.ID, &rental.GuestID, &rental.SnowmobileID, &rental.FromDate, &rental.ToDate,
		&rental.TotalPrice, &status, &rental.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Rental{}, domain.NotFoundError{Resource: "rental", Err: err}
		}
		return models.Rental{}, err
	}
	rental.Status = models.RentalStatus(status)
	return rental, nil
}

// HasOverlap reports whether a non-cancelled rental for the unit intersects
// the inclusive [from, to] range.
func (r RentalRepo) HasOverlap(ctx context.Context, snowmobileID int64, from, to time.Time) (bool, error) {
	q := r.q()
	if q == nil {
		return false, fmt.Errorf("db not available")
	}
	const query = `
		SELECT COUNT(*) FROM rentals
		WHERE snowmobile_id=? AND status <> 'cancelled'
		  AND from_date <= ? AND to_date >= ?`
	var count int
	if err := q.QueryRowContext(ctx, query, snowmobileID, to, from).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r RentalRepo) UpdateStatus(ctx context.Context, id int64, status models.RentalStatus) error {
	q := r.q()
	if q == nil {
		return fmt.Errorf("db not available")
	}
	res, err := q.ExecContext(ctx, `UPDATE rentals SET status=? WHERE id=?`, string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "rental"}
	}
	return nil
}

// List returns recent rentals for the back office, newest first.
func (r RentalRepo) List(ctx context.Context, limit int) ([]models.Rental, error) {
	q := r.q()
	if q == nil {
		return nil, fmt.Errorf("db not available")
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := q.QueryContext(ctx, `
		SELECT id, guest_id, snowmobile_id, from_date, to_date, total_price, status, created_at
		FROM rentals ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Rental{}
	for rows.Next() {
		var rental models.Rental
		var status string
		if err := rows.Scan(&rental.ID, &rental.GuestID, &rental.SnowmobileID, &rental.FromDate,
			&rental.ToDate, &rental.TotalPrice, &status, &rental.CreatedAt); err != nil {
			return nil, err
		}
		rental.Status = models.RentalStatus(status)
		out = append(out, rental)
	}
	return out, rows.Err()
}
