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

// DepartureFilter holds the optional predicates of an availability query.
// Absent fields are skipped when the WHERE clause is built.
type DepartureFilter struct {
	PackageID     *int64
	From          *time.Time // inclusive, on departs_at
	To            *time.Time // inclusive
	OnlyAvailable bool
}

// DepartureRepo wraps DB access for scheduled departures.
type DepartureRepo struct {
	Q dbx.Queryer
}

func (r DepartureRepo) q() dbx.Queryer {
	if r.Q != nil {
		return r.Q
	}
	if intconfig.DB != nil {
		return intconfig.DB
	}
	return nil
}

func (r DepartureRepo) GetByID(ctx context.Context, id int64) (models.Departure, error) {
	q := r.q()
	if q == nil {
		return models.Departure{}, fmt.Errorf("db not available")
	}
	const query = `
		SELECT id, package_id, departs_at, capacity, reserved, created_at
		FROM departures WHERE id=? LIMIT 1`
	var d models.Departure
	err := q.QueryRowContext(ctx, query, id).
		Scan(&d.ID, &d.PackageID, &d.DepartsAt, &d.Capacity, &d.Reserved, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Departure{}, domain.NotFoundError{Resource: "departure", Err: err}
		}
		return models.Departure{}, err
	}
	return d, nil
}

// buildDepartureWhere turns a filter into a WHERE fragment plus args. The
// fragment starts with " WHERE" when any predicate is present, else it is "".
func buildDepartureWhere(f DepartureFilter) (string, []any) {
	conds := []string{}
	args := []any{}

	if f.PackageID != nil {
		conds = append(conds, "d.package_id=?")
		args = append(args, *f.PackageID)
	}
	if f.From != nil {
		conds = append(conds, "d.departs_at>=?")
		args = append(args, *f.From)
	}
	if f.To != nil {
		conds = append(conds, "d.departs_at<=?")
		args = append(args, *f.To)
	}

	if len(conds) == 0 {
		return "", args
	}
	where := " WHERE " + conds[0]
	for _, c := range conds[1:] {
		where += " AND " + c
	}
	return where, args
}

// List answers availability queries ordered by departure time ascending.
// The default mode reads the denormalized reserved counter. OnlyAvailable
// recounts booked seats from non-cancelled bookings so the listing stays
// consistent with booking history, and drops full departures.
func (r DepartureRepo) List(ctx context.Context, f DepartureFilter) ([]models.DepartureAvailability, error) {
	q := r.q()
	if q == nil {
		return nil, fmt.Errorf("db not available")
	}

	where, args := buildDepartureWhere(f)

	var query string
	if f.OnlyAvailable {
		query = `
		SELECT d.id, d.package_id, d.departs_at, d.capacity, d.reserved, d.created_at,
		       d.capacity - COALESCE(b.taken, 0) AS remaining
		FROM departures d
		LEFT JOIN (
			SELECT departure_id, SUM(participants) AS taken
			FROM bookings
			WHERE status <> 'cancelled'
			GROUP BY departure_id
		) b ON b.departure_id = d.id` + where
		if where == "" {
			query += ` WHERE d.capacity - COALESCE(b.taken, 0) > 0`
		} else {
			query += ` AND d.capacity - COALESCE(b.taken, 0) > 0`
		}
	} else {
		query = `
		SELECT d.id, d.package_id, d.departs_at, d.capacity, d.reserved, d.created_at,
		       d.capacity - d.reserved AS remaining
		FROM departures d` + where
	}
	query += ` ORDER BY d.departs_at ASC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.DepartureAvailability{}
	for rows.Next() {
		var av models.DepartureAvailability
		d := &av.Departure
		if err := rows.Scan(&d.ID, &d.PackageID, &d.DepartsAt, &d.Capacity, &d.Reserved, &d.CreatedAt, &av.Remaining); err != nil {
			return nil, err
		}
		out = append(out, av)
	}
	return out, rows.Err()
}

// IncrementReserved adds count seats to the departure's running total. The
// statement refuses to push reserved past capacity; a zero-row update means
// the seats were gone by write time.
func (r DepartureRepo) IncrementReserved(ctx context.Context, id int64, count int) error {
	q := r.q()
	if q == nil {
		return fmt.Errorf("db not available")
	}
	res, err := q.ExecContext(ctx, `
		UPDATE departures SET reserved = reserved + ?
		WHERE id=? AND reserved + ? <= capacity`,
		count, id, count,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		d, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return domain.CapacityError{Remaining: d.Remaining()}
	}
	return nil
}

// DecrementReserved releases count seats, e.g. on cancellation.
func (r DepartureRepo) DecrementReserved(ctx context.Context, id int64, count int) error {
	q := r.q()
	if q == nil {
		return fmt.Errorf("db not available")
	}
	res, err := q.ExecContext(ctx, `
		UPDATE departures SET reserved = reserved - ?
		WHERE id=? AND reserved >= ?`,
		count, id, count,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.InternalError{Msg: "reserved counter out of sync", Err: fmt.Errorf("departure %d: cannot release %d seats", id, count)}
	}
	return nil
}

func (r DepartureRepo) Create(ctx context.Context, d models.Departure) (int64, error) {
	q := r.q()
	if q == nil {
		return 0, fmt.Errorf("db not available")
	}
	res, err := q.ExecContext(ctx, `
		INSERT INTO departures (package_id, departs_at, capacity, reserved)
		VALUES (?,?,?,?)`,
		d.PackageID, d.DepartsAt, d.Capacity, d.Reserved,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Update changes schedule fields only; reserved moves exclusively through
// Increment/DecrementReserved.
func (r DepartureRepo) Update(ctx context.Context, d models.Departure) error {
	q := r.q()
	if q == nil {
		return fmt.Errorf("db not available")
	}
	res, err := q.ExecContext(ctx, `
		UPDATE departures SET package_id=?, departs_at=?, capacity=?
		WHERE id=?`,
		d.PackageID, d.DepartsAt, d.Capacity, d.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "departure"}
	}
	return nil
}

func (r DepartureRepo) Delete(ctx context.Context, id int64) error {
	q := r.q()
	if q == nil {
		return fmt.Errorf("db not available")
	}
	res, err := q.ExecContext(ctx, `DELETE FROM departures WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "departure"}
	}
	return nil
}
