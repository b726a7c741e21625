package services

import (
	"context"
	"testing"
	"time"

	"backend/internal/domain"
	"backend/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func departureRows(id, packageID int64, capacity, reserved int, at time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "package_id", "departs_at", "capacity", "reserved", "created_at"}).
		AddRow(id, packageID, at, capacity, reserved, at)
}

func packageRows(id int64, slug string, basePrice int64, at time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "slug", "name", "base_price", "duration_minutes", "capacity", "active", "created_at"}).
		AddRow(id, slug, "Northern Lights Tour", basePrice, 180, 8, true, at)
}

func guestRows(id int64, email, name, phone string, at time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "name", "phone", "created_at", "updated_at"}).
		AddRow(id, email, name, phone, at, at)
}

// TestReserveSuccessNewGuest covers the full happy path: guest is inserted,
// the booking lands with price fixed at base_price * participants, and the
// reserved counter moves inside the same transaction.
func TestReserveSuccessNewGuest(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM departures WHERE id=").WithArgs(int64(5)).
		WillReturnRows(departureRows(5, 2, 8, 3, now))
	mock.ExpectQuery("FROM packages WHERE id=").WithArgs(int64(2)).
		WillReturnRows(packageRows(2, "northern-lights", 12000, now))
	mock.ExpectQuery("FROM guests WHERE email=").WithArgs("anna@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "phone", "created_at", "updated_at"}))
	mock.ExpectExec("INSERT INTO guests").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery("FROM guests WHERE email=").WithArgs("anna@example.com").
		WillReturnRows(guestRows(7, "anna@example.com", "Anna", "", now))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("UPDATE departures SET reserved").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := ReservationService{DB: db}
	booking, err := svc.Reserve(context.Background(), ReserveInput{
		DepartureID:  5,
		Participants: 2,
		Guest:        models.GuestInfo{Email: "anna@example.com", Name: "Anna"},
	})
	if err != nil {
		t.Fatalf("Reserve returned error: %v", err)
	}
	if booking.ID != 42 {
		t.Fatalf("booking id: got %d want 42", booking.ID)
	}
	if booking.TotalPrice != 24000 {
		t.Fatalf("total price: got %d want 24000", booking.TotalPrice)
	}
	if booking.Status != models.BookingConfirmed {
		t.Fatalf("status: got %s want %s", booking.Status, models.BookingConfirmed)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// TestReserveCapacityExceeded: a full departure must answer with the exact
// remaining count and roll everything back before any write happens.
func TestReserveCapacityExceeded(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM departures WHERE id=").WithArgs(int64(5)).
		WillReturnRows(departureRows(5, 2, 4, 4, now))
	mock.ExpectQuery("FROM packages WHERE id=").WithArgs(int64(2)).
		WillReturnRows(packageRows(2, "northern-lights", 12000, now))
	mock.ExpectRollback()

	svc := ReservationService{DB: db}
	_, err = svc.Reserve(context.Background(), ReserveInput{
		DepartureID:  5,
		Participants: 1,
		Guest:        models.GuestInfo{Email: "anna@example.com"},
	})
	if !domain.IsCapacity(err) {
		t.Fatalf("expected capacity error, got %v", err)
	}
	if err.Error() != "Only 0 spots left" {
		t.Fatalf("capacity message: got %q", err.Error())
	}
	if ce, ok := domain.AsCapacity(err); !ok || ce.Remaining != 0 {
		t.Fatalf("remaining: got %+v", ce)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// TestReserveGuardRace: the reserved counter moved between the read and the
// write. The guarded UPDATE touches zero rows and the caller still gets a
// capacity answer computed from a fresh read.
func TestReserveGuardRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM departures WHERE id=").WithArgs(int64(5)).
		WillReturnRows(departureRows(5, 2, 8, 6, now))
	mock.ExpectQuery("FROM packages WHERE id=").WithArgs(int64(2)).
		WillReturnRows(packageRows(2, "northern-lights", 12000, now))
	mock.ExpectQuery("FROM guests WHERE email=").WithArgs("anna@example.com").
		WillReturnRows(guestRows(7, "anna@example.com", "Anna", "", now))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("UPDATE departures SET reserved").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM departures WHERE id=").WithArgs(int64(5)).
		WillReturnRows(departureRows(5, 2, 8, 7, now))
	mock.ExpectRollback()

	svc := ReservationService{DB: db}
	_, err = svc.Reserve(context.Background(), ReserveInput{
		DepartureID:  5,
		Participants: 2,
		Guest:        models.GuestInfo{Email: "anna@example.com", Name: "Anna"},
	})
	if !domain.IsCapacity(err) {
		t.Fatalf("expected capacity error, got %v", err)
	}
	if err.Error() != "Only 1 spots left" {
		t.Fatalf("capacity message: got %q", err.Error())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// TestReserveRetriesDeadlock: a deadlock on the first attempt is retried as a
// whole and succeeds the second time.
func TestReserveRetriesDeadlock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	deadlock := &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}

	// attempt 1 aborts
	mock.ExpectBegin()
	mock.ExpectQuery("FROM departures WHERE id=").WithArgs(int64(5)).
		WillReturnError(deadlock)
	mock.ExpectRollback()

	// attempt 2 goes through
	mock.ExpectBegin()
	mock.ExpectQuery("FROM departures WHERE id=").WithArgs(int64(5)).
		WillReturnRows(departureRows(5, 2, 8, 0, now))
	mock.ExpectQuery("FROM packages WHERE id=").WithArgs(int64(2)).
		WillReturnRows(packageRows(2, "northern-lights", 12000, now))
	mock.ExpectQuery("FROM guests WHERE email=").WithArgs("anna@example.com").
		WillReturnRows(guestRows(7, "anna@example.com", "Anna", "", now))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(43, 1))
	mock.ExpectExec("UPDATE departures SET reserved").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := ReservationService{DB: db}
	booking, err := svc.Reserve(context.Background(), ReserveInput{
		DepartureID:  5,
		Participants: 1,
		Guest:        models.GuestInfo{Email: "anna@example.com", Name: "Anna"},
	})
	if err != nil {
		t.Fatalf("Reserve returned error: %v", err)
	}
	if booking.ID != 43 {
		t.Fatalf("booking id: got %d want 43", booking.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// TestReserveDeadlockExhausted: when every attempt aborts, the caller gets an
// internal error, never a capacity one.
func TestReserveDeadlockExhausted(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	deadlock := &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}
	for i := 0; i < 3; i++ {
		mock.ExpectBegin()
		mock.ExpectQuery("FROM departures WHERE id=").WithArgs(int64(5)).
			WillReturnError(deadlock)
		mock.ExpectRollback()
	}

	svc := ReservationService{DB: db}
	_, err = svc.Reserve(context.Background(), ReserveInput{
		DepartureID:  5,
		Participants: 1,
		Guest:        models.GuestInfo{Email: "anna@example.com"},
	})
	if !domain.IsInternal(err) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if domain.IsCapacity(err) {
		t.Fatalf("exhausted retry must not look like a capacity error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReserveInvalidDeparture(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM departures WHERE id=").WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "package_id", "departs_at", "capacity", "reserved", "created_at"}))
	mock.ExpectRollback()

	svc := ReservationService{DB: db}
	_, err = svc.Reserve(context.Background(), ReserveInput{
		DepartureID:  99,
		Participants: 1,
		Guest:        models.GuestInfo{Email: "anna@example.com"},
	})
	if !domain.IsInvalidReference(err) {
		t.Fatalf("expected invalid reference, got %v", err)
	}
	if err.Error() != "Invalid package or departure" {
		t.Fatalf("message: got %q", err.Error())
	}
}

func TestReserveRejectsZeroParticipants(t *testing.T) {
	svc := ReservationService{}
	_, err := svc.Reserve(context.Background(), ReserveInput{DepartureID: 1, Participants: 0})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

// TestCancelRestoresCapacity: cancelling flips the status and releases the
// seats in one transaction.
func TestCancelRestoresCapacity(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "guest_id", "departure_id", "participants", "total_price", "status", "notes", "created_at"}).
			AddRow(42, 7, 5, 3, 36000, "confirmed", "", now))
	mock.ExpectExec("UPDATE bookings SET status=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE departures SET reserved").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := ReservationService{DB: db}
	booking, err := svc.Cancel(context.Background(), 42)
	if err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if booking.Status != models.BookingCancelled {
		t.Fatalf("status: got %s want %s", booking.Status, models.BookingCancelled)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelAlreadyCancelled(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "guest_id", "departure_id", "participants", "total_price", "status", "notes", "created_at"}).
			AddRow(42, 7, 5, 3, 36000, "cancelled", "", now))
	mock.ExpectRollback()

	svc := ReservationService{DB: db}
	_, err = svc.Cancel(context.Background(), 42)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
