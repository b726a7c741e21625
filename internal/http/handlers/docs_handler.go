package handlers

import (
	"net/http"

	"backend/internal/http/middleware"
	"backend/internal/repositories"
	"backend/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/bookings/:id/voucher
func GetBookingVoucherPDF(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	svc := services.DocsService{
		BookingRepo: repositories.BookingRepo{},
		RequestID:   middleware.GetRequestID(c),
	}
	pdf, filename, err := svc.GenerateVoucher(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	servePDF(c, pdf, filename)
}

// GET /api/bookings/:id/invoice
func GetBookingInvoicePDF(c *gin.Context) {
	id, ok := ParamID(c)
	if !ok {
		return
	}
	svc := services.DocsService{
		BookingRepo: repositories.BookingRepo{},
		RequestID:   middleware.GetRequestID(c),
	}
	pdf, filename, err := svc.GenerateInvoice(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	servePDF(c, pdf, filename)
}

func servePDF(c *gin.Context, pdf []byte, filename string) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
