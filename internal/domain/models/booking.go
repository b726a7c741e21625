package models

import "time"

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingPending   BookingStatus = "pending"
	BookingCancelled BookingStatus = "cancelled"
	BookingFailed    BookingStatus = "failed"
)

// Booking reserves Participants seats on one Departure for one Guest.
// TotalPrice is fixed at creation time (base_price * participants) and never
// re-derived from the package afterwards.
type Booking struct {
	ID           int64
	GuestID      int64
	DepartureID  int64
	Participants int
	TotalPrice   int64
	Status       BookingStatus
	Notes        string
	CreatedAt    time.Time
}

// BookingDetail embeds the related rows for detail responses and documents.
type BookingDetail struct {
	Booking   Booking
	Guest     Guest
	Departure Departure
	Package   TourPackage
}
