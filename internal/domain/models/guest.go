package models

import "time"

// Guest is a customer identified by unique email, upserted whenever a booking
// or rental is made.
type Guest struct {
	ID        int64
	Email     string
	Name      string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GuestInfo carries the contact fields accepted on booking/rental creation.
type GuestInfo struct {
	Email string
	Name  string
	Phone string
}
