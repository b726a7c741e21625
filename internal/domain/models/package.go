package models

import "time"

// TourPackage is a bookable tour product (safari, aurora hunt, ...).
// BasePrice is euro cents per participant. Capacity is the nominal seat count
// used as the default when an admin schedules a departure without one.
type TourPackage struct {
	ID              int64
	Slug            string
	Name            string
	BasePrice       int64
	DurationMinutes int
	Capacity        int
	Active          bool
	CreatedAt       time.Time
}
