package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"backend/internal/domain/models"
	"backend/internal/repositories"
	"backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type DepartureDTO struct {
	ID        int64  `json:"id"`
	PackageID int64  `json:"packageId"`
	DepartsAt string `json:"departsAt"`
	Capacity  int    `json:"capacity"`
	Reserved  int    `json:"reserved"`
	Remaining int    `json:"remaining"`
}

func toDepartureDTO(av models.DepartureAvailability) DepartureDTO {
	d := av.Departure
	return DepartureDTO{
		ID:        d.ID,
		PackageID: d.PackageID,
		DepartsAt: utils.FormatDateTime(d.DepartsAt),
		Capacity:  d.Capacity,
		Reserved:  d.Reserved,
		Remaining: av.Remaining,
	}
}

// GET /api/departures?packageId=&from=&to=&onlyAvailable=
func GetDepartures(c *gin.Context) {
	filter := repositories.DepartureFilter{}

	if raw := strings.TrimSpace(c.Query("packageId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			RespondError(c, http.StatusBadRequest, "invalid packageId", err)
			return
		}
		filter.PackageID = &id
	}
	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		t, err := utils.ParseDate(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD", err)
			return
		}
		filter.From = &t
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		t, err := utils.ParseDate(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD", err)
			return
		}
		// inclusive range: take the whole day
		end := t.AddDate(0, 0, 1).Add(-1)
		filter.To = &end
	}
	filter.OnlyAvailable = c.Query("onlyAvailable") == "true" || c.Query("onlyAvailable") == "1"

	repo := repositories.DepartureRepo{}
	list, err := repo.List(c.Request.Context(), filter)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list departures", err)
		return
	}

	out := make([]DepartureDTO, 0, len(list))
	for _, av := range list {
		out = append(out, toDepartureDTO(av))
	}
	c.JSON(http.StatusOK, out)
}

type departureRequest struct {
	PackageID int64  `json:"packageId"`
	DepartsAt string `json:"departsAt"`
	Capacity  int    `json:"capacity"`
}

// POST /api/admin/departures
// Capacity falls back to the package's nominal capacity when omitted.
func CreateDeparture(c *gin.Context) {
	var req departureRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.PackageID <= 0 {
		RespondError(c, http.StatusBadRequest, "packageId is required", nil)
		return
	}
	departsAt, err := utils.ParseDateTime(req.DepartsAt)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid departsAt, expected YYYY-MM-DD HH:MM:SS", err)
		return
	}
	if req.Capacity < 0 {
		RespondError(c, http.StatusBadRequest, "capacity must not be negative", nil)
		return
	}

	ctx := c.Request.Context()
	pkgRepo := repositories.PackageRepo{}
	pkg, err := pkgRepo.GetByID(ctx, req.PackageID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	capacity := req.Capacity
	if capacity == 0 {
		capacity = pkg.Capacity
	}

	depRepo := repositories.DepartureRepo{}
	d := models.Departure{
		PackageID: pkg.ID,
		DepartsAt: departsAt,
		Capacity:  capacity,
	}
	id, err := depRepo.Create(ctx, d)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to create departure", err)
		return
	}
	d.ID = id
	c.JSON(http.StatusCreated, toDepartureDTO(models.DepartureAvailability{Departure: d, Remaining: d.Remaining()}))
}

// PUT /api/admin/departures/:id
func UpdateDeparture(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	var req departureRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	ctx := c.Request.Context()
	repo := repositories.DepartureRepo{}
	existing, err := repo.GetByID(ctx, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	if req.PackageID > 0 {
		existing.PackageID = req.PackageID
	}
	if strings.TrimSpace(req.DepartsAt) != "" {
		departsAt, err := utils.ParseDateTime(req.DepartsAt)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid departsAt, expected YYYY-MM-DD HH:MM:SS", err)
			return
		}
		existing.DepartsAt = departsAt
	}
	if req.Capacity > 0 {
		if req.Capacity < existing.Reserved {
			RespondError(c, http.StatusBadRequest, "capacity cannot drop below seats already reserved", nil)
			return
		}
		existing.Capacity = req.Capacity
	}

	if err := repo.Update(ctx, existing); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDepartureDTO(models.DepartureAvailability{Departure: existing, Remaining: existing.Remaining()}))
}

// DELETE /api/admin/departures/:id
func DeleteDeparture(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	repo := repositories.DepartureRepo{}
	if err := repo.Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
