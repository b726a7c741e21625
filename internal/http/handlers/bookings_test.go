package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	intconfig "backend/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func newBookingTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/bookings", CreateBooking)
	r.GET("/api/bookings/:id", GetBookingByID)
	return r
}

func TestCreateBookingRejectsMissingFields(t *testing.T) {
	r := newBookingTestRouter()

	cases := []struct {
		name string
		body string
	}{
		{"no departure", `{"participants":2,"guestEmail":"a@b.is"}`},
		{"zero participants", `{"departureId":5,"participants":0,"guestEmail":"a@b.is"}`},
		{"no email", `{"departureId":5,"participants":2}`},
		{"garbage body", `{"departureId":`},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(tc.body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status got %d want 400", tc.name, w.Code)
		}
	}
}

func TestCreateBookingCapacityExceededMapsTo400(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db
	defer func() { intconfig.DB = nil }()

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery("FROM departures WHERE id=").WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "package_id", "departs_at", "capacity", "reserved", "created_at"}).
			AddRow(5, 2, now, 4, 4, now))
	mock.ExpectQuery("FROM packages WHERE id=").WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug", "name", "base_price", "duration_minutes", "capacity", "active", "created_at"}).
			AddRow(2, "northern-lights", "Northern Lights Tour", 12000, 180, 4, true, now))
	mock.ExpectRollback()

	r := newBookingTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/bookings",
		strings.NewReader(`{"departureId":5,"participants":1,"guestEmail":"anna@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want 400", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if resp["code"] != "capacity_exceeded" {
		t.Fatalf("code: got %v", resp["code"])
	}
	if resp["error"] != "Only 0 spots left" {
		t.Fatalf("error: got %v", resp["error"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetBookingByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db
	defer func() { intconfig.DB = nil }()

	mock.ExpectQuery("FROM bookings b").WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	r := newBookingTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/bookings/99", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status: got %d want 404", w.Code)
	}
}
