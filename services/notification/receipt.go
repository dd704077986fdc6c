package notification

import (
	"bytes"
	"fmt"

	"bookastay/models"

	"github.com/jung-kurt/gofpdf"
)

// buildReceiptPDF renders a one-page booking receipt.
func buildReceiptPDF(res *models.Reservation) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, "Booking Receipt")
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "", 11)
	line := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(50, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}

	line("Booking ID", res.ID)
	line("Transaction Ref", res.TransactionRef)
	line("Guest", res.Name)
	line("Email", res.Email)
	line("Room", roomLabel(res.RoomType))
	line("Check-in", res.CheckIn)
	line("Check-out", res.CheckOut)
	line("Guests", fmt.Sprintf("%d", res.Guests))
	line("Status", res.Status)

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 13)
	line("Amount Paid", fmt.Sprintf("NGN %.2f", res.PaidAmount))

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, "Thank you for booking with us. Check-in opens at 2:00 PM on your arrival date.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

func roomLabel(roomType string) string {
	switch roomType {
	case "entire":
		return "Entire Apartment"
	case "room1":
		return "Room 1"
	case "room2":
		return "Room 2"
	default:
		return roomType
	}
}
