package api

import (
	"log"
	stdhttp "net/http"

	intconfig "backend/internal/config"
	h "backend/internal/http/handlers"
	"backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		// Public catalog
		api.GET("/packages", h.GetPackages)
		api.GET("/packages/:slug", h.GetPackageBySlug)
		api.GET("/departures", h.GetDepartures)
		api.GET("/snowmobiles", h.GetSnowmobiles)

		// Bookings
		bookings := api.Group("/bookings")
		bookings.POST("", h.CreateBooking)
		bookings.GET("/:id", h.GetBookingByID)
		bookings.POST("/:id/cancel", h.CancelBooking)
		bookings.GET("/:id/voucher", h.GetBookingVoucherPDF)
		bookings.GET("/:id/invoice", h.GetBookingInvoicePDF)

		// Rentals
		rentals := api.Group("/rentals")
		rentals.POST("", h.CreateRental)
		rentals.POST("/:id/cancel", h.CancelRental)

		// Admin (staff or admin role)
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(h.JWTSecret()), middleware.RequireRoles("admin", "staff"))
		{
			admin.GET("/packages", h.AdminListPackages)
			admin.POST("/packages", h.CreatePackage)
			admin.PUT("/packages/:id", h.UpdatePackage)
			admin.DELETE("/packages/:id", h.DeletePackage)

			admin.POST("/departures", h.CreateDeparture)
			admin.PUT("/departures/:id", h.UpdateDeparture)
			admin.DELETE("/departures/:id", h.DeleteDeparture)

			admin.GET("/snowmobiles", h.AdminListSnowmobiles)
			admin.POST("/snowmobiles", h.CreateSnowmobile)
			admin.PUT("/snowmobiles/:id", h.UpdateSnowmobile)
			admin.DELETE("/snowmobiles/:id", h.DeleteSnowmobile)

			admin.GET("/bookings", h.AdminListBookings)
			admin.GET("/rentals", h.AdminListRentals)
		}
	}

	return r
}
