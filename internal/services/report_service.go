package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"strconv"
	"strings"

	"qc-backend/internal/archive"
	"qc-backend/internal/models"
	"qc-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// ShiftReportData holds all data for a shift report
type ShiftReportData struct {
	Shift      *models.Shift
	Records    []*models.ControlRecord
	Statistics *models.ShiftStatistics
}

// ReportService handles shift report generation
type ReportService struct {
	Shifts   *ShiftService
	Controls *ControlService
	Stats    *StatisticsService
	Archive  *archive.Uploader
}

// NewReportService creates a new report service
func NewReportService(shifts *ShiftService, controls *ControlService, stats *StatisticsService) *ReportService {
	return &ReportService{Shifts: shifts, Controls: controls, Stats: stats}
}

// SetArchive wires the optional report archive uploader
func (s *ReportService) SetArchive(u *archive.Uploader) {
	s.Archive = u
}

// GetShiftReportData fetches everything the report needs for one shift
func (s *ReportService) GetShiftReportData(ctx context.Context, shiftID int) (*ShiftReportData, error) {
	shift, err := s.Shifts.GetShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, fmt.Errorf("shift %d not found", shiftID)
	}

	records, err := s.Controls.GetRecordsByShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	stats, err := s.Stats.GetShiftStatistics(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	return &ShiftReportData{Shift: shift, Records: records, Statistics: stats}, nil
}

// GenerateShiftPDF renders a shift quality report as PDF
func (s *ReportService) GenerateShiftPDF(data *ShiftReportData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Foundry QC - Shift Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Shift info
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Shift Information", "1", 1, "L", true, 0, "")

	endTime := "-"
	if data.Shift.EndTime != nil {
		endTime = *data.Shift.EndTime
	}
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Date: %s", data.Shift.Date), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Shift: %d", data.Shift.ShiftNumber), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Start: %s", data.Shift.StartTime), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("End: %s", endTime), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Status: %s", data.Shift.Status), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Controllers: %s", strings.Join(data.Shift.ControllerNames, ", ")), "RB", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Control records table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Control Records", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(35, 7, "Card No", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Cast", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Accepted", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Defects", "1", 0, "C", true, 0, "")
	pdf.CellFormat(65, 7, "Controller", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, rec := range data.Records {
		pdf.CellFormat(35, 6, rec.CardNumber, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, strconv.Itoa(rec.TotalCast), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, strconv.Itoa(rec.TotalAccepted), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, strconv.Itoa(rec.TotalCast-rec.TotalAccepted), "1", 0, "C", false, 0, "")
		pdf.CellFormat(65, 6, rec.ControllerName, "1", 1, "L", false, 0, "")
	}
	if len(data.Records) == 0 {
		pdf.CellFormat(190, 6, "No control records", "1", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	// Statistics summary
	st := data.Statistics
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Shift Statistics", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(63, 8, fmt.Sprintf("Total Cast: %d", st.TotalCast), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, fmt.Sprintf("Total Accepted: %d", st.TotalAccepted), "1", 0, "C", false, 0, "")
	pdf.CellFormat(64, 8, fmt.Sprintf("Total Defects: %d", st.TotalDefects), "1", 1, "C", false, 0, "")
	pdf.CellFormat(95, 8, fmt.Sprintf("Quality Rate: %.2f%%", st.QualityRate), "1", 0, "C", false, 0, "")
	pdf.CellFormat(95, 8, fmt.Sprintf("Reject Rate: %.2f%%", st.RejectRate), "1", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Defect breakdown
	if len(st.DefectsBreakdown) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(190, 8, "Defect Breakdown", "1", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(60, 7, "Category", "1", 0, "C", true, 0, "")
		pdf.CellFormat(90, 7, "Defect Type", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 7, "Count", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, d := range st.DefectsBreakdown {
			pdf.CellFormat(60, 6, d.Category, "1", 0, "L", false, 0, "")
			pdf.CellFormat(90, 6, d.DefectName, "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 6, strconv.Itoa(d.Count), "1", 1, "C", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateShiftCSV renders the same report data as CSV
func (s *ReportService) GenerateShiftCSV(data *ShiftReportData) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"Shift Date", "Shift Number", "Status", "Controllers"})
	w.Write([]string{
		data.Shift.Date,
		strconv.Itoa(data.Shift.ShiftNumber),
		data.Shift.Status,
		strings.Join(data.Shift.ControllerNames, "; "),
	})
	w.Write(nil)

	w.Write([]string{"Card No", "Total Cast", "Total Accepted", "Defects", "Controller", "Recorded At"})
	for _, rec := range data.Records {
		w.Write([]string{
			rec.CardNumber,
			strconv.Itoa(rec.TotalCast),
			strconv.Itoa(rec.TotalAccepted),
			strconv.Itoa(rec.TotalCast - rec.TotalAccepted),
			rec.ControllerName,
			rec.CreatedAt.In(timeutil.Plant).Format("2006-01-02 15:04"),
		})
	}
	w.Write(nil)

	st := data.Statistics
	w.Write([]string{"Total Cast", "Total Accepted", "Total Defects", "Quality Rate %", "Reject Rate %"})
	w.Write([]string{
		strconv.Itoa(st.TotalCast),
		strconv.Itoa(st.TotalAccepted),
		strconv.Itoa(st.TotalDefects),
		fmt.Sprintf("%.2f", st.QualityRate),
		fmt.Sprintf("%.2f", st.RejectRate),
	})

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateShiftBundle zips the PDF and CSV variants of one shift report
func (s *ReportService) GenerateShiftBundle(data *ShiftReportData) ([]byte, error) {
	pdfBytes, err := s.GenerateShiftPDF(data)
	if err != nil {
		return nil, err
	}
	csvBytes, err := s.GenerateShiftCSV(data)
	if err != nil {
		return nil, err
	}

	base := fmt.Sprintf("shift_%s_%d", data.Shift.Date, data.Shift.ShiftNumber)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string][]byte{
		base + ".pdf": pdfBytes,
		base + ".csv": csvBytes,
	} {
		f, err := zw.Create(name)
		if err != nil {
			zw.Close()
			return nil, err
		}
		if _, err := f.Write(content); err != nil {
			zw.Close()
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ArchiveShiftReport uploads the PDF report to the archive bucket.
// Failures are logged, never surfaced to the download path.
func (s *ReportService) ArchiveShiftReport(ctx context.Context, data *ShiftReportData, pdfBytes []byte) {
	if s.Archive == nil {
		return
	}
	key := fmt.Sprintf("shift-reports/%s/shift_%d.pdf", data.Shift.Date, data.Shift.ShiftNumber)
	if err := s.Archive.Upload(ctx, key, "application/pdf", pdfBytes); err != nil {
		log.Printf("[Report] Archive upload failed for shift %d: %v", data.Shift.ID, err)
	}
}
