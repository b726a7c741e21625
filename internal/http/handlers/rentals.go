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

type RentalDTO struct {
	ID           int64  `json:"id"`
	GuestID      int64  `json:"guestId"`
	SnowmobileID int64  `json:"snowmobileId"`
	FromDate     string `json:"fromDate"`
	ToDate       string `json:"toDate"`
	TotalPrice   int64  `json:"totalPrice"`
	Status       string `json:"status"`
	CreatedAt    string `json:"createdAt"`
}

func toRentalDTO(r models.Rental) RentalDTO {
	return RentalDTO{
		ID:           r.ID,
		GuestID:      r.GuestID,
		SnowmobileID: r.SnowmobileID,
		FromDate:     utils.FormatDate(r.FromDate),
		ToDate:       utils.FormatDate(r.ToDate),
		TotalPrice:   r.TotalPrice,
		Status:       string(r.Status),
		CreatedAt:    utils.FormatDateTime(r.CreatedAt),
	}
}

type createRentalRequest struct {
	SnowmobileID int64  `json:"snowmobileId"`
	FromDate     string `json:"fromDate"`
	ToDate       string `json:"toDate"`
	GuestEmail   string `json:"guestEmail"`
	GuestName    string `json:"guestName"`
	Phone        string `json:"phone"`
}

// POST /api/rentals
func CreateRental(c *gin.Context) {
	var req createRentalRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.SnowmobileID <= 0 {
		RespondError(c, http.StatusBadRequest, "snowmobileId is required", nil)
		return
	}
	if utils.NormalizeEmail(req.GuestEmail) == "" {
		RespondError(c, http.StatusBadRequest, "guestEmail is required", nil)
		return
	}
	from, err := utils.ParseDate(req.FromDate)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid fromDate, expected YYYY-MM-DD", err)
		return
	}
	to, err := utils.ParseDate(req.ToDate)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid toDate, expected YYYY-MM-DD", err)
		return
	}

	svc := services.RentalService{RequestID: middleware.GetRequestID(c)}
	rental, err := svc.Rent(c.Request.Context(), services.RentInput{
		SnowmobileID: req.SnowmobileID,
		FromDate:     from,
		ToDate:       to,
		Guest: models.GuestInfo{
			Email: req.GuestEmail,
			Name:  req.GuestName,
			Phone: req.Phone,
		},
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRentalDTO(rental))
}

// POST /api/rentals/:id/cancel
func CancelRental(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	svc := services.RentalService{RequestID: middleware.GetRequestID(c)}
	rental, err := svc.CancelRental(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRentalDTO(rental))
}

// GET /api/admin/rentals
func AdminListRentals(c *gin.Context) {
	repo := repositories.RentalRepo{}
	list, err := repo.List(c.Request.Context(), 100)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list rentals", err)
		return
	}
	out := make([]RentalDTO, 0, len(list))
	for _, r := range list {
		out = append(out, toRentalDTO(r))
	}
	c.JSON(http.StatusOK, out)
}
