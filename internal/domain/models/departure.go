package models

import "time"

// Departure is one scheduled instance of a TourPackage. Reserved is the
// running participant total and only ever changes inside a reservation
// transaction; 0 <= Reserved <= Capacity holds at every commit.
type Departure struct {
	ID        int64
	PackageID int64
	DepartsAt time.Time
	Capacity  int
	Reserved  int
	CreatedAt time.Time
}

// Remaining is the denormalized seat count used for calendar reads.
func (d Departure) Remaining() int {
	return d.Capacity - d.Reserved
}

// Full reports whether no seats are left.
func (d Departure) Full() bool {
	return d.Reserved >= d.Capacity
}

// DepartureAvailability pairs a departure with its remaining seats, which may
// come from the counter or from a booking recount depending on the query mode.
type DepartureAvailability struct {
	Departure Departure
	Remaining int
}
