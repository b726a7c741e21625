package models

import "time"

// Snowmobile is a rentable unit. DailyPrice is euro cents per day.
type Snowmobile struct {
	ID         int64
	Code       string
	Model      string
	DailyPrice int64
	Active     bool
	CreatedAt  time.Time
}

type RentalStatus string

const (
	RentalConfirmed RentalStatus = "confirmed"
	RentalCancelled RentalStatus = "cancelled"
)

// Rental books one snowmobile for an inclusive date range. Two non-cancelled
// rentals for the same unit never overlap.
type Rental struct {
	ID           int64
	GuestID      int64
	SnowmobileID int64
	FromDate     time.Time
	ToDate       time.Time
	TotalPrice   int64
	Status       RentalStatus
	CreatedAt    time.Time
}

// Days is the billed day count for the inclusive range.
func (r Rental) Days() int {
	d := int(r.ToDate.Sub(r.FromDate).Hours()/24) + 1
	if d < 1 {
		return 1
	}
	return d
}
