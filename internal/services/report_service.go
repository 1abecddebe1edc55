package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/xuri/excelize/v2"

	"rental-backend/internal/billing"
	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

var rentalExportHeader = []string{"Client Name", "Client Phone", "Product", "Start Date", "End Date", "Status", "Days Left"}

type ReportService struct {
	Format billing.Formatter
	Now    func() time.Time
}

func NewReportService(format billing.Formatter) *ReportService {
	return &ReportService{Format: format, Now: timeutil.Now}
}

// Export is a rendered report file
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportRentals renders already annotated rentals in the requested format
func (s *ReportService) ExportRentals(rentals []*models.Rental, format string) (*Export, error) {
	stamp := s.Now().Format("2006-01-02")
	switch format {
	case "", FormatCSV:
		data, err := s.GenerateRentalsCSV(rentals)
		return &Export{Filename: "rentals_" + stamp + ".csv", ContentType: "text/csv", Data: data}, err
	case FormatPDF:
		data, err := s.GenerateRentalsPDF(rentals)
		return &Export{Filename: "rentals_" + stamp + ".pdf", ContentType: "application/pdf", Data: data}, err
	case FormatXLSX:
		data, err := s.GenerateRentalsXLSX(rentals)
		return &Export{
			Filename:    "rentals_" + stamp + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, err
	}
	return nil, models.NewValidationError("format", "must be csv, pdf or xlsx")
}

func rentalExportRow(r *models.Rental) []string {
	return []string{
		r.ClientName,
		r.ClientPhone,
		r.ProductName(),
		timeutil.FormatDisplay(r.StartDate),
		timeutil.FormatDisplay(r.EndDate),
		string(r.Status),
		strconv.Itoa(r.DaysRemaining),
	}
}

// GenerateRentalsCSV writes one row per rental under a fixed header
func (s *ReportService) GenerateRentalsCSV(rentals []*models.Rental) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(rentalExportHeader); err != nil {
		return nil, err
	}
	for _, r := range rentals {
		if err := w.Write(rentalExportRow(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateRentalsPDF renders the rentals table on A4 landscape pages
func (s *ReportService) GenerateRentalsPDF(rentals []*models.Rental) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)
	widths := []float64{55, 35, 60, 30, 30, 30, 27}

	header := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range rentalExportHeader {
			pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 9, "Rentals Report", "", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", s.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
		pdf.Ln(2)
		header()
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, r := range rentals {
		for i, v := range rentalExportRow(r) {
			align := "L"
			if i >= 3 {
				align = "C"
			}
			pdf.CellFormat(widths[i], 6, tr(v), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(rentals) == 0 {
		pdf.CellFormat(0, 8, "No rentals match the selected filters.", "1", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateRentalsXLSX writes a single sheet workbook with the rentals table
// and the booked total charge
func (s *ReportService) GenerateRentalsXLSX(rentals []*models.Rental) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Rentals"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	header := make([]interface{}, 0, len(rentalExportHeader)+1)
	for _, h := range rentalExportHeader {
		header = append(header, h)
	}
	header = append(header, "Total Charge")
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", "H1", bold); err != nil {
		return nil, err
	}

	for i, r := range rentals {
		row := make([]interface{}, 0, len(header))
		for _, v := range rentalExportRow(r)[:6] {
			row = append(row, v)
		}
		row = append(row, r.DaysRemaining, r.TotalCharge.InexactFloat64())

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(sheet, "A", "C", 24); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
