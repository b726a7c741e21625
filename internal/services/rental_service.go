package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	intconfig "backend/internal/config"
	dbx "backend/internal/db"
	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/repositories"
	"backend/internal/utils"
)

// RentalService books snowmobile units for date ranges. The contended resource
// here is the unit's calendar, so the overlap check and the insert run in the
// same serializable transaction as the reservation ledger does for seats.
type RentalService struct {
	DB        *sql.DB
	RequestID string
}

func (s RentalService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

type RentInput struct {
	SnowmobileID int64
	FromDate     time.Time
	ToDate       time.Time
	Guest        models.GuestInfo
}

// Rent books one unit for an inclusive date range, rejecting overlaps with
// existing non-cancelled rentals. Total price is daily_price * days, fixed at
// creation time.
func (s RentalService) Rent(ctx context.Context, in RentInput) (models.Rental, error) {
	if in.SnowmobileID <= 0 {
		return models.Rental{}, domain.NotFoundError{Resource: "snowmobile"}
	}
	if in.ToDate.Before(in.FromDate) {
		return models.Rental{}, domain.ValidationError{Field: "toDate", Msg: "must not be before fromDate"}
	}

	database := s.db()
	if database == nil {
		return models.Rental{}, domain.InternalError{Msg: "db not available"}
	}

	var rental models.Rental
	err := dbx.InSerializableTx(ctx, database, func(tx *sql.Tx) error {
		units := repositories.SnowmobileRepo{Q: tx}
		rentals := repositories.RentalRepo{Q: tx}
		guests := repositories.GuestRepo{Q: tx}

		unit, err := units.GetByID(ctx, in.SnowmobileID)
		if err != nil {
			return err
		}
		if !unit.Active {
			return domain.ConflictError{Resource: "snowmobile", Msg: "unit not available for rental"}
		}

		overlap, err := rentals.HasOverlap(ctx, unit.ID, in.FromDate, in.ToDate)
		if err != nil {
			return err
		}
		if overlap {
			return domain.ConflictError{Resource: "rental", Msg: "unit already rented for the selected dates"}
		}

		guest, err := guests.UpsertByEmail(ctx, in.Guest)
		if err != nil {
			return err
		}

		r := models.Rental{
			GuestID:      guest.ID,
			SnowmobileID: unit.ID,
			FromDate:     in.FromDate,
			ToDate:       in.ToDate,
			Status:       models.RentalConfirmed,
		}
		r.TotalPrice = unit.DailyPrice * int64(r.Days())

		id, err := rentals.Create(ctx, r)
		if err != nil {
			return err
		}
		r.ID = id
		rental = r
		return nil
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "rental", "rent_error", err.Error())
		if dbx.IsRetryable(err) {
			return models.Rental{}, domain.InternalError{Msg: "rental failed", Err: err}
		}
		return models.Rental{}, err
	}

	utils.LogEvent(s.RequestID, "rental", "rent_done",
		fmt.Sprintf("rental_id=%d snowmobile_id=%d", rental.ID, in.SnowmobileID))
	return rental, nil
}

// CancelRental marks a rental cancelled, freeing its dates.
func (s RentalService) CancelRental(ctx context.Context, rentalID int64) (models.Rental, error) {
	database := s.db()
	if database == nil {
		return models.Rental{}, domain.InternalError{Msg: "db not available"}
	}

	var rental models.Rental
	err := dbx.InSerializableTx(ctx, database, func(tx *sql.Tx) error {
		rentals := repositories.RentalRepo{Q: tx}

		r, err := rentals.GetByID(ctx, rentalID)
		if err != nil {
			return err
		}
		if r.Status == models.RentalCancelled {
			return domain.ConflictError{Resource: "rental", Msg: "already cancelled"}
		}
		if err := rentals.UpdateStatus(ctx, r.ID, models.RentalCancelled); err != nil {
			return err
		}
		r.Status = models.RentalCancelled
		rental = r
		return nil
	})
	if err != nil {
		if dbx.IsRetryable(err) {
			return models.Rental{}, domain.InternalError{Msg: "cancellation failed", Err: err}
		}
		return models.Rental{}, err
	}
	return rental, nil
}
