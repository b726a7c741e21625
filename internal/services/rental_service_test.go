package services

import (
	"context"
	"testing"
	"time"

	"backend/internal/domain"
	"backend/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func snowmobileRows(id int64, code string, dailyPrice int64, active bool, at time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "code", "model", "daily_price", "active", "created_at"}).
		AddRow(id, code, "Lynx Adventure", dailyPrice, active, at)
}

func TestRentSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM snowmobiles WHERE id=").WithArgs(int64(4)).
		WillReturnRows(snowmobileRows(4, "SM-04", 15000, true, now))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM rentals`).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectQuery("FROM guests WHERE email=").WithArgs("anna@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "phone", "created_at", "updated_at"}).
			AddRow(7, "anna@example.com", "Anna", "", now, now))
	mock.ExpectExec("INSERT INTO rentals").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()

	svc := RentalService{DB: db}
	rental, err := svc.Rent(context.Background(), RentInput{
		SnowmobileID: 4,
		FromDate:     from,
		ToDate:       to,
		Guest:        models.GuestInfo{Email: "anna@example.com", Name: "Anna"},
	})
	if err != nil {
		t.Fatalf("Rent returned error: %v", err)
	}
	// 3 inclusive days at 150,00 each
	if rental.TotalPrice != 45000 {
		t.Fatalf("total price: got %d want 45000", rental.TotalPrice)
	}
	if rental.ID != 11 {
		t.Fatalf("rental id: got %d want 11", rental.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRentOverlapRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM snowmobiles WHERE id=").WithArgs(int64(4)).
		WillReturnRows(snowmobileRows(4, "SM-04", 15000, true, now))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM rentals`).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectRollback()

	svc := RentalService{DB: db}
	_, err = svc.Rent(context.Background(), RentInput{
		SnowmobileID: 4,
		FromDate:     from,
		ToDate:       to,
		Guest:        models.GuestInfo{Email: "anna@example.com"},
	})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRentInactiveUnitRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM snowmobiles WHERE id=").WithArgs(int64(4)).
		WillReturnRows(snowmobileRows(4, "SM-04", 15000, false, now))
	mock.ExpectRollback()

	svc := RentalService{DB: db}
	_, err = svc.Rent(context.Background(), RentInput{
		SnowmobileID: 4,
		FromDate:     now,
		ToDate:       now,
		Guest:        models.GuestInfo{Email: "anna@example.com"},
	})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRentRejectsInvertedRange(t *testing.T) {
	svc := RentalService{}
	from := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.Rent(context.Background(), RentInput{SnowmobileID: 1, FromDate: from, ToDate: to})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
