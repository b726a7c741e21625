package models

import "time"

// User is a back-office account (admin or staff).
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Status       string
	CreatedAt    time.Time
}
