package handlers

import (
	"net/http"
	"strings"

	"backend/internal/domain/models"
	"backend/internal/repositories"
	"backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type PackageDTO struct {
	ID              int64  `json:"id"`
	Slug            string `json:"slug"`
	Name            string `json:"name"`
	BasePrice       int64  `json:"basePrice"`
	BasePriceText   string `json:"basePriceText"`
	DurationMinutes int    `json:"durationMinutes"`
	Capacity        int    `json:"capacity"`
	Active          bool   `json:"active"`
	CreatedAt       string `json:"createdAt"`
}

func toPackageDTO(p models.TourPackage) PackageDTO {
	return PackageDTO{
		ID:              p.ID,
		Slug:            p.Slug,
		Name:            p.Name,
		BasePrice:       p.BasePrice,
		BasePriceText:   utils.FormatEuro(p.BasePrice),
		DurationMinutes: p.DurationMinutes,
		Capacity:        p.Capacity,
		Active:          p.Active,
		CreatedAt:       utils.FormatDateTime(p.CreatedAt),
	}
}

// GET /api/packages
func GetPackages(c *gin.Context) {
	repo := repositories.PackageRepo{}
	list, err := repo.ListActive(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list packages", err)
		return
	}
	out := make([]PackageDTO, 0, len(list))
	for _, p := range list {
		out = append(out, toPackageDTO(p))
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/packages/:slug
func GetPackageBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		RespondError(c, http.StatusBadRequest, "invalid slug", nil)
		return
	}
	repo := repositories.PackageRepo{}
	p, err := repo.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPackageDTO(p))
}

type packageRequest struct {
	Slug            string `json:"slug"`
	Name            string `json:"name"`
	BasePrice       int64  `json:"basePrice"`
	DurationMinutes int    `json:"durationMinutes"`
	Capacity        int    `json:"capacity"`
	Active          *bool  `json:"active"`
}

func (r packageRequest) toModel() (models.TourPackage, string) {
	slug := strings.ToLower(strings.TrimSpace(r.Slug))
	name := utils.NormalizeSpace(r.Name)
	switch {
	case slug == "":
		return models.TourPackage{}, "slug is required"
	case name == "":
		return models.TourPackage{}, "name is required"
	case r.BasePrice < 0:
		return models.TourPackage{}, "basePrice must not be negative"
	case r.Capacity < 0:
		return models.TourPackage{}, "capacity must not be negative"
	}
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return models.TourPackage{
		Slug:            slug,
		Name:            name,
		BasePrice:       r.BasePrice,
		DurationMinutes: r.DurationMinutes,
		Capacity:        r.Capacity,
		Active:          active,
	}, ""
}

// GET /api/admin/packages
func AdminListPackages(c *gin.Context) {
	repo := repositories.PackageRepo{}
	list, err := repo.ListAll(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list packages", err)
		return
	}
	out := make([]PackageDTO, 0, len(list))
	for _, p := range list {
		out = append(out, toPackageDTO(p))
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/admin/packages
func CreatePackage(c *gin.Context) {
	var req packageRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	p, msg := req.toModel()
	if msg != "" {
		RespondError(c, http.StatusBadRequest, msg, nil)
		return
	}

	repo := repositories.PackageRepo{}
	id, err := repo.Create(c.Request.Context(), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	p.ID = id
	c.JSON(http.StatusCreated, toPackageDTO(p))
}

// PUT /api/admin/packages/:id
func UpdatePackage(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	var req packageRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	p, msg := req.toModel()
	if msg != "" {
		RespondError(c, http.StatusBadRequest, msg, nil)
		return
	}
	p.ID = id

	repo := repositories.PackageRepo{}
	if err := repo.Update(c.Request.Context(), p); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPackageDTO(p))
}

// DELETE /api/admin/packages/:id
func DeletePackage(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	repo := repositories.PackageRepo{}
	if err := repo.Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
