package handlers

import (
	"net/http"
	"strings"

	"backend/internal/domain/models"
	"backend/internal/repositories"
	"backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type SnowmobileDTO struct {
	ID             int64  `json:"id"`
	Code           string `json:"code"`
	Model          string `json:"model"`
	DailyPrice     int64  `json:"dailyPrice"`
	DailyPriceText string `json:"dailyPriceText"`
	Active         bool   `json:"active"`
}

func toSnowmobileDTO(s models.Snowmobile) SnowmobileDTO {
	return SnowmobileDTO{
		ID:             s.ID,
		Code:           s.Code,
		Model:          s.Model,
		DailyPrice:     s.DailyPrice,
		DailyPriceText: utils.FormatEuro(s.DailyPrice),
		Active:         s.Active,
	}
}

// GET /api/snowmobiles
func GetSnowmobiles(c *gin.Context) {
	repo := repositories.SnowmobileRepo{}
	list, err := repo.List(c.Request.Context(), true)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list snowmobiles", err)
		return
	}
	out := make([]SnowmobileDTO, 0, len(list))
	for _, s := range list {
		out = append(out, toSnowmobileDTO(s))
	}
	c.JSON(http.StatusOK, out)
}

type snowmobileRequest struct {
	Code       string `json:"code"`
	Model      string `json:"model"`
	DailyPrice int64  `json:"dailyPrice"`
	Active     *bool  `json:"active"`
}

func (r snowmobileRequest) toModel() (models.Snowmobile, string) {
	code := strings.ToUpper(strings.TrimSpace(r.Code))
	if code == "" {
		return models.Snowmobile{}, "code is required"
	}
	if r.DailyPrice < 0 {
		return models.Snowmobile{}, "dailyPrice must not be negative"
	}
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return models.Snowmobile{
		Code:       code,
		Model:      utils.NormalizeSpace(r.Model),
		DailyPrice: r.DailyPrice,
		Active:     active,
	}, ""
}

// GET /api/admin/snowmobiles
func AdminListSnowmobiles(c *gin.Context) {
	repo := repositories.SnowmobileRepo{}
	list, err := repo.List(c.Request.Context(), false)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list snowmobiles", err)
		return
	}
	out := make([]SnowmobileDTO, 0, len(list))
	for _, s := range list {
		out = append(out, toSnowmobileDTO(s))
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/admin/snowmobiles
func CreateSnowmobile(c *gin.Context) {
	var req snowmobileRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	s, msg := req.toModel()
	if msg != "" {
		RespondError(c, http.StatusBadRequest, msg, nil)
		return
	}
	repo := repositories.SnowmobileRepo{}
	id, err := repo.Create(c.Request.Context(), s)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	s.ID = id
	c.JSON(http.StatusCreated, toSnowmobileDTO(s))
}

// PUT /api/admin/snowmobiles/:id
func UpdateSnowmobile(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	var req snowmobileRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	s, msg := req.toModel()
	if msg != "" {
		RespondError(c, http.StatusBadRequest, msg, nil)
		return
	}
	s.ID = id
	repo := repositories.SnowmobileRepo{}
	if err := repo.Update(c.Request.Context(), s); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSnowmobileDTO(s))
}

// DELETE /api/admin/snowmobiles/:id
func DeleteSnowmobile(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	repo := repositories.SnowmobileRepo{}
	if err := repo.Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
