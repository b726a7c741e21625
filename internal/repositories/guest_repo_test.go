package repositories

import (
	"context"
	"testing"
	"time"

	"backend/internal/domain"
	"backend/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func guestRow(id int64, email, name, phone string, at time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "name", "phone", "created_at", "updated_at"}).
		AddRow(id, email, name, phone, at, at)
}

// A repeat guest keyed by the same email must not gain a second row; changed
// contact fields are refreshed in place.
func TestGuestUpsert_ExistingRefreshed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()

	mock.ExpectQuery("FROM guests WHERE email=").WithArgs("anna@example.com").
		WillReturnRows(guestRow(7, "anna@example.com", "Anna", "", now))
	mock.ExpectExec("UPDATE guests SET phone=").WithArgs("+3545551234", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := GuestRepo{Q: db}
	g, err := repo.UpsertByEmail(context.Background(), models.GuestInfo{
		Email: "Anna@Example.com",
		Name:  "Anna",
		Phone: "+354 555 1234",
	})
	if err != nil {
		t.Fatalf("UpsertByEmail returned error: %v", err)
	}
	if g.ID != 7 {
		t.Fatalf("guest id: got %d want 7", g.ID)
	}
	if g.Phone != "+3545551234" {
		t.Fatalf("phone not refreshed: got %q", g.Phone)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGuestUpsert_ExistingUnchangedSkipsWrite(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()

	mock.ExpectQuery("FROM guests WHERE email=").WithArgs("anna@example.com").
		WillReturnRows(guestRow(7, "anna@example.com", "Anna", "+3545551234", now))

	repo := GuestRepo{Q: db}
	g, err := repo.UpsertByEmail(context.Background(), models.GuestInfo{
		Email: "anna@example.com",
		Name:  "Anna",
		Phone: "+354 555 1234",
	})
	if err != nil {
		t.Fatalf("UpsertByEmail returned error: %v", err)
	}
	if g.ID != 7 {
		t.Fatalf("guest id: got %d want 7", g.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGuestUpsert_InsertNew(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()

	mock.ExpectQuery("FROM guests WHERE email=").WithArgs("bjorn@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "phone", "created_at", "updated_at"}))
	mock.ExpectExec("INSERT INTO guests").WithArgs("bjorn@example.com", "Bjorn", "").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery("FROM guests WHERE email=").WithArgs("bjorn@example.com").
		WillReturnRows(guestRow(9, "bjorn@example.com", "Bjorn", "", now))

	repo := GuestRepo{Q: db}
	g, err := repo.UpsertByEmail(context.Background(), models.GuestInfo{
		Email: " bjorn@example.com ",
		Name:  "Bjorn",
	})
	if err != nil {
		t.Fatalf("UpsertByEmail returned error: %v", err)
	}
	if g.ID != 9 {
		t.Fatalf("guest id: got %d want 9", g.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// A concurrent writer wins the insert race; the duplicate-key error falls
// back to the row that writer created.
func TestGuestUpsert_DuplicateKeyRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}

	mock.ExpectQuery("FROM guests WHERE email=").WithArgs("anna@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "phone", "created_at", "updated_at"}))
	mock.ExpectExec("INSERT INTO guests").
		WillReturnError(dup)
	mock.ExpectQuery("FROM guests WHERE email=").WithArgs("anna@example.com").
		WillReturnRows(guestRow(7, "anna@example.com", "Anna", "", now))

	repo := GuestRepo{Q: db}
	g, err := repo.UpsertByEmail(context.Background(), models.GuestInfo{
		Email: "anna@example.com",
		Name:  "Anna",
	})
	if err != nil {
		t.Fatalf("UpsertByEmail returned error: %v", err)
	}
	if g.ID != 7 {
		t.Fatalf("guest id: got %d want 7", g.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGuestUpsert_EmailRequired(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := GuestRepo{Q: db}
	_, err = repo.UpsertByEmail(context.Background(), models.GuestInfo{Name: "Anna"})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
