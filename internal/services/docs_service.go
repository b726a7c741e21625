package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"backend/internal/repositories"
	"backend/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders booking vouchers and invoices as PDFs.
type DocsService struct {
	BookingRepo repositories.BookingRepo
	RequestID   string
	Loader      func(context.Context, int64) (bookingDocData, error)
}

type bookingDocData struct {
	BookingID    int64
	GuestName    string
	GuestEmail   string
	GuestPhone   string
	PackageName  string
	DepartsAt    time.Time
	Participants int
	TotalPrice   int64
	Status       string
	Notes        string
}

func (s DocsService) GenerateVoucher(ctx context.Context, bookingID int64) ([]byte, string, error) {
	data, err := s.loadBookingDocData(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_voucher", fmt.Sprintf("booking_id=%d", bookingID))
	return buildVoucherPDF(data)
}

func (s DocsService) GenerateInvoice(ctx context.Context, bookingID int64) ([]byte, string, error) {
	data, err := s.loadBookingDocData(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_invoice", fmt.Sprintf("booking_id=%d", bookingID))
	return buildInvoicePDF(data)
}

func (s DocsService) loadBookingDocData(ctx context.Context, bookingID int64) (bookingDocData, error) {
	if s.Loader != nil {
		return s.Loader(ctx, bookingID)
	}
	det, err := s.BookingRepo.GetDetail(ctx, bookingID)
	if err != nil {
		return bookingDocData{}, err
	}
	return bookingDocData{
		BookingID:    det.Booking.ID,
		GuestName:    det.Guest.Name,
		GuestEmail:   det.Guest.Email,
		GuestPhone:   det.Guest.Phone,
		PackageName:  det.Package.Name,
		DepartsAt:    det.Departure.DepartsAt,
		Participants: det.Booking.Participants,
		TotalPrice:   det.Booking.TotalPrice,
		Status:       string(det.Booking.Status),
		Notes:        det.Booking.Notes,
	}, nil
}

func buildVoucherPDF(d bookingDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Voucher", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING VOUCHER")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Guest        : %s", safe(d.GuestName, "-")),
		fmt.Sprintf("Email        : %s", safe(d.GuestEmail, "-")),
		fmt.Sprintf("Phone        : %s", safe(d.GuestPhone, "-")),
		fmt.Sprintf("Tour         : %s", safe(d.PackageName, "-")),
		fmt.Sprintf("Departure    : %s", utils.FormatDateTime(d.DepartsAt)),
		fmt.Sprintf("Participants : %d", d.Participants),
		fmt.Sprintf("Status       : %s", safe(d.Status, "-")),
		fmt.Sprintf("Booking Ref  : #%d", d.BookingID),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	if strings.TrimSpace(d.Notes) != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, "Notes: "+d.Notes, "", "", false)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please present this voucher at the meeting point. Dress warmly.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("VOUCHER_%d_%s.pdf", d.BookingID, safeFilenamePart(d.GuestName))
	return buf.Bytes(), filename, nil
}

func buildInvoicePDF(d bookingDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Invoice No : INV-%d", d.BookingID))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Date       : "+time.Now().UTC().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Name  : %s", safe(d.GuestName, "-")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Email : %s", safe(d.GuestEmail, "-")))
	pdf.Ln(10)

	desc := fmt.Sprintf("%s on %s, %d participant(s)",
		safe(d.PackageName, "-"), utils.FormatDateTime(d.DepartsAt), d.Participants)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Items:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, "1) "+desc, "", "", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+utils.FormatEuro(d.TotalPrice))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "The amount was charged at booking time.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("INVOICE_%d_%s.pdf", d.BookingID, safeFilenamePart(d.GuestName))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
