package services

import (
	"context"
	"database/sql"
	"fmt"

	intconfig "backend/internal/config"
	dbx "backend/internal/db"
	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/repositories"
	"backend/internal/utils"
)

// ReservationService owns the capacity invariant: for every departure,
// 0 <= reserved <= capacity at every commit. The whole read-check-write runs
// in one SERIALIZABLE transaction; the counter's owner is the database, not
// this process, since several instances may run at once.
type ReservationService struct {
	DB        *sql.DB
	RequestID string
}

func (s ReservationService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

type ReserveInput struct {
	// PackageID is optional; when set it must match the departure's package.
	PackageID    int64
	DepartureID  int64
	Participants int
	Guest        models.GuestInfo
	Notes        string
}

// Reserve books Participants seats on a departure, upserting the guest and
// fixing the total price at base_price * participants. Either all three writes
// commit or none do. Transient serialization aborts are retried by the
// transaction runner and never reach the caller as capacity errors.
func (s ReservationService) Reserve(ctx context.Context, in ReserveInput) (models.Booking, error) {
	if in.DepartureID <= 0 {
		return models.Booking{}, domain.InvalidReferenceError{}
	}
	if in.Participants <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "participants", Msg: "must be a positive integer"}
	}

	database := s.db()
	if database == nil {
		return models.Booking{}, domain.InternalError{Msg: "db not available"}
	}

	utils.LogEvent(s.RequestID, "reservation", "reserve",
		fmt.Sprintf("start departure_id=%d participants=%d", in.DepartureID, in.Participants))

	var booking models.Booking
	err := dbx.InSerializableTx(ctx, database, func(tx *sql.Tx) error {
		departures := repositories.DepartureRepo{Q: tx}
		packages := repositories.PackageRepo{Q: tx}
		guests := repositories.GuestRepo{Q: tx}
		bookings := repositories.BookingRepo{Q: tx}

		dep, err := departures.GetByID(ctx, in.DepartureID)
		if err != nil {
			if domain.IsNotFound(err) {
				return domain.InvalidReferenceError{Err: err}
			}
			return err
		}

		pkg, err := packages.GetByID(ctx, dep.PackageID)
		if err != nil {
			if domain.IsNotFound(err) {
				return domain.InvalidReferenceError{Err: err}
			}
			return err
		}
		if in.PackageID != 0 && in.PackageID != pkg.ID {
			return domain.InvalidReferenceError{}
		}

		if remaining := dep.Remaining(); remaining < in.Participants {
			return domain.CapacityError{Remaining: remaining}
		}

		guest, err := guests.UpsertByEmail(ctx, in.Guest)
		if err != nil {
			return err
		}

		b := models.Booking{
			GuestID:      guest.ID,
			DepartureID:  dep.ID,
			Participants: in.Participants,
			TotalPrice:   pkg.BasePrice * int64(in.Participants),
			Status:       models.BookingConfirmed,
			Notes:        in.Notes,
		}
		id, err := bookings.Create(ctx, b)
		if err != nil {
			return err
		}
		b.ID = id

		if err := departures.IncrementReserved(ctx, dep.ID, in.Participants); err != nil {
			return err
		}

		booking = b
		return nil
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "reservation", "reserve_error", err.Error())
		if dbx.IsRetryable(err) {
			return models.Booking{}, domain.InternalError{Msg: "reservation failed", Err: err}
		}
		return models.Booking{}, err
	}

	utils.LogEvent(s.RequestID, "reservation", "reserve_done",
		fmt.Sprintf("booking_id=%d departure_id=%d", booking.ID, in.DepartureID))
	return booking, nil
}

// Cancel marks a booking cancelled and releases its seats back to the
// departure. Runs under the same transactional rules as Reserve so the two
// writes commit together.
func (s ReservationService) Cancel(ctx context.Context, bookingID int64) (models.Booking, error) {
	if bookingID <= 0 {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}

	database := s.db()
	if database == nil {
		return models.Booking{}, domain.InternalError{Msg: "db not available"}
	}

	var booking models.Booking
	err := dbx.InSerializableTx(ctx, database, func(tx *sql.Tx) error {
		departures := repositories.DepartureRepo{Q: tx}
		bookings := repositories.BookingRepo{Q: tx}

		b, err := bookings.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.Status == models.BookingCancelled {
			return domain.ConflictError{Resource: "booking", Msg: "already cancelled"}
		}

		if err := bookings.UpdateStatus(ctx, b.ID, models.BookingCancelled); err != nil {
			return err
		}
		if err := departures.DecrementReserved(ctx, b.DepartureID, b.Participants); err != nil {
			return err
		}

		b.Status = models.BookingCancelled
		booking = b
		return nil
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "reservation", "cancel_error", err.Error())
		if dbx.IsRetryable(err) {
			return models.Booking{}, domain.InternalError{Msg: "cancellation failed", Err: err}
		}
		return models.Booking{}, err
	}

	utils.LogEvent(s.RequestID, "reservation", "cancel_done", fmt.Sprintf("booking_id=%d", bookingID))
	return booking, nil
}
