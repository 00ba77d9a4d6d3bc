package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/paulster44/Muse-Contracts/internal/model"
)

const fontName = "Helvetica"

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders an engagement contract as a single-page A4 PDF.
func (g *Generator) Generate(doc model.ContractDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	c := doc.Contract

	pdf.SetFont(fontName, "B", 14)
	pdf.CellFormat(0, 10, "Musicians' Union Engagement Contract", "", 1, "C", false, 0, "")

	pdf.SetFont(fontName, "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Scale: %s", doc.ScaleName), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Contract %s - %s", c.ID, strings.ToUpper(string(c.Status))), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	sectionTitle(pdf, "Engagement")
	keyValue(pdf, "Date", safeValue(c.EngagementDate))
	keyValue(pdf, "Time", timeRange(c.StartTime, c.EndTime))
	keyValue(pdf, "Venue", safeValue(c.VenueName))
	keyValue(pdf, "Borough", safeValue(c.LocationBorough))
	keyValue(pdf, "Type", safeValue(c.EngagementType))
	keyValue(pdf, "Band / Group", safeValue(c.BandName))
	keyValue(pdf, "Engagement hours", formatAmount(c.ActualHoursEngagement, 2))
	if c.HasRehearsal {
		keyValue(pdf, "Rehearsal hours", formatAmount(c.ActualHoursRehearsal, 2))
	}
	if c.PreHeatHours > 0 {
		keyValue(pdf, "Pre-heat hours", formatAmount(c.PreHeatHours, 2))
	}
	keyValue(pdf, "Recorded", yesNo(c.IsRecorded))
	pdf.Ln(2)

	sectionTitle(pdf, "Leader")
	keyValue(pdf, "Name", safeValue(c.LeaderName))
	keyValue(pdf, "Card no.", safeValue(c.LeaderCardNo))
	keyValue(pdf, "SSN / EIN", safeValue(c.LeaderSSNEIN))
	keyValue(pdf, "Address", safeValue(c.LeaderAddress))
	keyValue(pdf, "Phone", safeValue(c.LeaderPhone))
	keyValue(pdf, "Incorporated", yesNo(c.LeaderIsIncorporated))
	pdf.Ln(2)

	sectionTitle(pdf, fmt.Sprintf("Side musicians (%d)", len(doc.Musicians)))
	if len(doc.Musicians) == 0 {
		pdf.SetFont(fontName, "I", 10)
		pdf.CellFormat(0, 6, "None", "", 1, "L", false, 0, "")
	} else {
		headers := []string{"#", "Name", "Instrument", "Card no.", "Doubling", "Cartage"}
		widths := []float64{10, 55, 45, 30, 20, 20}
		drawTableRow(pdf, headers, widths, true)
		for i, m := range doc.Musicians {
			row := []string{
				fmt.Sprintf("%d", i+1),
				m.Name,
				safeValue(m.Instrument),
				safeValue(m.CardNo),
				yesNo(m.IsDoubling),
				yesNo(m.HasCartage),
			}
			drawTableRow(pdf, row, widths, false)
		}
	}
	pdf.Ln(4)

	sectionTitle(pdf, "Compensation")
	keyValue(pdf, "Musicians paid", fmt.Sprintf("%d", c.NumMusicians))
	keyValue(pdf, "Total gross scale wages", "$ "+formatAmount(c.TotalGrossComp, 2))
	keyValue(pdf, "Work dues", "$ "+formatAmount(c.TotalWorkDues, 2))
	keyValue(pdf, "Pension contribution", "$ "+formatAmount(c.TotalPension, 2))
	keyValue(pdf, "Health contribution", "$ "+formatAmount(c.TotalHealth, 2))
	pdf.Ln(6)

	pdf.SetFont(fontName, "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Leader: ______________________ /%s/", safeValue(c.LeaderName)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Employer: ______________________", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func keyValue(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont(fontName, "", 10)
	pdf.CellFormat(50, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func drawTableRow(pdf *gofpdf.Fpdf, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 9)
	for i, col := range cols {
		pdf.CellFormat(widths[i], 7, col, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}

func timeRange(start, end string) string {
	if start == "" && end == "" {
		return "-"
	}
	return fmt.Sprintf("%s - %s", safeValue(start), safeValue(end))
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func formatAmount(value float64, precision int) string {
	format := fmt.Sprintf("%%.%df", precision)
	return fmt.Sprintf(format, value)
}
