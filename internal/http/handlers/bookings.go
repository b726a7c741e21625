package handlers

import (
	"net/http"

	"backend/internal/domain/models"
	"backend/internal/http/middleware"
	"backend/internal/repositories"
	"backend/internal/services"
	"backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type BookingDTO struct {
	ID           int64  `json:"id"`
	GuestID      int64  `json:"guestId"`
	DepartureID  int64  `json:"departureId"`
	Participants int    `json:"participants"`
	TotalPrice   int64  `json:"totalPrice"`
	Status       string `json:"status"`
	Notes        string `json:"notes,omitempty"`
	CreatedAt    string `json:"createdAt"`
}

func toBookingDTO(b models.Booking) BookingDTO {
	return BookingDTO{
		ID:           b.ID,
		GuestID:      b.GuestID,
		DepartureID:  b.DepartureID,
		Participants: b.Participants,
		TotalPrice:   b.TotalPrice,
		Status:       string(b.Status),
		Notes:        b.Notes,
		CreatedAt:    utils.FormatDateTime(b.CreatedAt),
	}
}

type GuestDTO struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

type BookingDetailDTO struct {
	BookingDTO
	Guest     GuestDTO     `json:"guest"`
	Departure DepartureDTO `json:"departure"`
	Package   PackageDTO   `json:"package"`
}

func toBookingDetailDTO(det models.BookingDetail) BookingDetailDTO {
	return BookingDetailDTO{
		BookingDTO: toBookingDTO(det.Booking),
		Guest: GuestDTO{
			ID:    det.Guest.ID,
			Email: det.Guest.Email,
			Name:  det.Guest.Name,
			Phone: det.Guest.Phone,
		},
		Departure: toDepartureDTO(models.DepartureAvailability{
			Departure: det.Departure,
			Remaining: det.Departure.Remaining(),
		}),
		Package: toPackageDTO(det.Package),
	}
}

type createBookingRequest struct {
	PackageID    int64  `json:"packageId"`
	DepartureID  int64  `json:"departureId"`
	Participants int    `json:"participants"`
	GuestEmail   string `json:"guestEmail"`
	GuestName    string `json:"guestName"`
	Phone        string `json:"phone"`
	Notes        string `json:"notes"`
}

// POST /api/bookings
func CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.DepartureID <= 0 {
		RespondError(c, http.StatusBadRequest, "departureId is required", nil)
		return
	}
	if req.Participants <= 0 {
		RespondError(c, http.StatusBadRequest, "participants must be a positive integer", nil)
		return
	}
	if utils.NormalizeEmail(req.GuestEmail) == "" {
		RespondError(c, http.StatusBadRequest, "guestEmail is required", nil)
		return
	}

	svc := services.ReservationService{RequestID: middleware.GetRequestID(c)}
	booking, err := svc.Reserve(c.Request.Context(), services.ReserveInput{
		PackageID:    req.PackageID,
		DepartureID:  req.DepartureID,
		Participants: req.Participants,
		Guest: models.GuestInfo{
			Email: req.GuestEmail,
			Name:  req.GuestName,
			Phone: req.Phone,
		},
		Notes: utils.TrimOrEmpty(req.Notes),
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingDTO(booking))
}

// GET /api/bookings/:id
func GetBookingByID(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	repo := repositories.BookingRepo{}
	det, err := repo.GetDetail(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingDetailDTO(det))
}

// POST /api/bookings/:id/cancel
func CancelBooking(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	svc := services.ReservationService{RequestID: middleware.GetRequestID(c)}
	booking, err := svc.Cancel(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingDTO(booking))
}

// GET /api/admin/bookings
func AdminListBookings(c *gin.Context) {
	repo := repositories.BookingRepo{}
	list, err := repo.List(c.Request.Context(), 100)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list bookings", err)
		return
	}
	out := make([]BookingDTO, 0, len(list))
	for _, b := range list {
		out = append(out, toBookingDTO(b))
	}
	c.JSON(http.StatusOK, out)
}
