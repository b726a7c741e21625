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

// BookingRepo wraps DB access for bookings.
type BookingRepo struct {
	Q dbx.Queryer
}

func (r BookingRepo) q() dbx.Queryer {
	if r.Q != nil {
		return r.Q
	}
	if intconfig.DB != nil {
		return intconfig.DB
	}
	return nil
}

func (r BookingRepo) Create(ctx context.Context, b models.Booking) (int64, error) {
	q := r.q()
	if q == nil {
		return 0, fmt.Errorf("db not available")
	}
	res, err := q.ExecContext(ctx, `
		INSERT INTO bookings (guest_id, departure_id, participants, total_price, status, notes)
		VALUES (?,?,?,?,?,?)`,
		b.GuestID, b.DepartureID, b.Participants, b.TotalPrice, string(b.Status), dbx.NullIfEmpty(b.Notes),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r BookingRepo) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	q := r.q()
	if q == nil {
		return models.Booking{}, fmt.Errorf("db not available")
	}
	const query = `
		SELECT id, guest_id, departure_id, participants, total_price, status, COALESCE(notes,''), created_at
		FROM bookings WHERE id=? LIMIT 1`
	var b models.Booking
	var status string
	err := q.QueryRowContext(ctx, query, id).
		Scan(&b.ID, &b.GuestID, &b.DepartureID, &b.Participants, &b.TotalPrice, &status, &b.Notes, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
		}
		return models.Booking{}, err
	}
	b.Status = models.BookingStatus(status)
	return b, nil
}

// GetDetail loads a booking with its guest, departure and package embedded.
func (r BookingRepo) GetDetail(ctx context.Context, id int64) (models.BookingDetail, error) {
	q := r.q()
	if q == nil {
		return models.BookingDetail{}, fmt.Errorf("db not available")
	}
	const query = `
		SELECT b.id, b.guest_id, b.departure_id, b.participants, b.total_price, b.status, COALESCE(b.notes,''), b.created_at,
		       g.id, g.email, COALESCE(g.name,''), COALESCE(g.phone,''), g.created_at, COALESCE(g.updated_at, g.created_at),
		       d.id, d.package_id, d.departs_at, d.capacity, d.reserved, d.created_at,
		       p.id, p.slug, p.name, p.base_price, p.duration_minutes, p.capacity, p.active, p.created_at
		FROM bookings b
		JOIN guests g ON g.id = b.guest_id
		JOIN departures d ON d.id = b.departure_id
		JOIN packages p ON p.id = d.package_id
		WHERE b.id=? LIMIT 1`

	var det models.BookingDetail
	var status string
	err := q.QueryRowContext(ctx, query, id).Scan(
		&det.Booking.ID, &det.Booking.GuestID, &det.Booking.DepartureID, &det.Booking.Participants,
		&det.Booking.TotalPrice, &status, &det.Booking.Notes, &det.Booking.CreatedAt,
		&det.Guest.ID, &det.Guest.Email, &det.Guest.Name, &det.Guest.Phone, &det.Guest.CreatedAt, &det.Guest.UpdatedAt,
		&det.Departure.ID, &det.Departure.PackageID, &det.Departure.DepartsAt, &det.Departure.Capacity,
		&det.Departure.Reserved, &det.Departure.CreatedAt,
		&det.Package.ID, &det.Package.Slug, &det.Package.Name, &det.Package.BasePrice,
		&det.Package.DurationMinutes, &det.Package.Capacity, &det.Package.Active, &det.Package.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.BookingDetail{}, domain.NotFoundError{Resource: "booking", Err: err}
		}
		return models.BookingDetail{}, err
	}
	det.Booking.Status = models.BookingStatus(status)
	return det, nil
}

// UpdateStatus moves a booking to a new status.
func (r BookingRepo) UpdateStatus(ctx context.Context, id int64, status models.BookingStatus) error {
	q := r.q()
	if q == nil {
		return fmt.Errorf("db not available")
	}
	res, err := q.ExecContext(ctx, `UPDATE bookings SET status=? WHERE id=?`, string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "booking"}
	}
	return nil
}

// List returns recent bookings for the back office, newest first.
func (r BookingRepo) List(ctx context.Context, limit int) ([]models.Booking, error) {
	q := r.q()
	if q == nil {
		return nil, fmt.Errorf("db not available")
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := q.QueryContext(ctx, `
		SELECT id, guest_id, departure_id, participants, total_price, status, COALESCE(notes,''), created_at
		FROM bookings ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		var b models.Booking
		var status string
		if err := rows.Scan(&b.ID, &b.GuestID, &b.DepartureID, &b.Participants, &b.TotalPrice, &status, &b.Notes, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.Status = models.BookingStatus(status)
		out = append(out, b)
	}
	return out, rows.Err()
}
