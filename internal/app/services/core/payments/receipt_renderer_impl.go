package payments

import (
	"bytes"
	"fmt"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

type receiptRenderer struct {
	IssuerName string
	Currency   string
}

func NewReceiptRenderer(issuerName, currency string) contracts.ReceiptRenderer {
	return &receiptRenderer{IssuerName: issuerName, Currency: currency}
}

// Render builds the receipt from stored appointment fields only. provider may
// be nil when the provider row is gone.
func (r *receiptRenderer) Render(appointment *models.Appointment, provider *models.Provider) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, r.IssuerName, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Appointment Receipt", "1", 1, "C", false, 0, "")

	providerName := "-"
	providerAddress := "-"
	if provider != nil {
		providerName = provider.Name
		providerAddress = provider.Address
	}

	addDetail(pdf, "Receipt No.", appointment.ID, true)
	addDetail(pdf, "Issued", time.Now().UTC().Format(constvars.DateLayout), false)
	addDetail(pdf, "Patient", appointment.UserName, false)
	addDetail(pdf, "Phone", appointment.Phone, false)
	addDetail(pdf, "Provider", providerName, false)
	addDetail(pdf, "Address", providerAddress, false)
	addDetail(pdf, "Date", appointment.Date.Format(constvars.DateLayout), false)
	addDetail(pdf, "Time", appointment.Time, false)
	addDetail(pdf, "Purpose", appointment.Purpose, false)
	addDetail(pdf, "Status", strings.ToUpper(string(appointment.Status)), false)
	if appointment.PaymentOrderID != "" {
		addDetail(pdf, "Payment Order", appointment.PaymentOrderID, false)
	}

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 12, fmt.Sprintf("Amount Paid: %s %s", r.Currency, formatAmount(appointment.Price)), "", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 10, "This is a computer generated receipt", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, exceptions.ErrRenderReceipt(err)
	}
	return buf.Bytes(), nil
}

func addDetail(pdf *gofpdf.Fpdf, label, value string, isHeader bool) {
	if isHeader {
		pdf.SetFont("Arial", "B", 11)
	} else {
		pdf.SetFont("Arial", "", 10)
	}
	pdf.CellFormat(45, 9, label, "1", 0, "", false, 0, "")
	pdf.CellFormat(0, 9, value, "1", 1, "", false, 0, "")
}

// formatAmount renders minor units as a decimal amount, 50000 -> 500.00.
func formatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
