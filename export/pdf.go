package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/period"
)

// columnWidths in mm, landscape A4 (277mm usable).
var columnWidths = []float64{12, 22, 22, 22, 20, 16, 24, 20, 24, 24, 20, 20, 24}

// WritePDF renders a period report: title, employee, the export table and a
// totals line.
func WritePDF(w io.Writer, emp payroll.Employee, p period.PayPeriod, totals period.Totals) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Payroll Period Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s (%s)", emp.Name, emp.ID))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Employment type: %s", emp.Type))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s to %s", p.StartDate.ExportString(), p.EndDate.ExportString()))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 8)
	for i, title := range Header() {
		pdf.CellFormat(columnWidths[i], 8, title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, row := range Rows(p) {
		for i, cell := range row.Strings() {
			align := "R"
			if i >= 1 && i <= 3 {
				align = "C"
			}
			pdf.CellFormat(columnWidths[i], 7, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 7, fmt.Sprintf("Calculated: %s   Recorded: %s   Variance: %s",
		payroll.FormatMoney(totals.CalculatedPay),
		payroll.FormatMoney(totals.RecordedPay),
		payroll.FormatMoney(totals.Variance)))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("NIS employee: %s   NIS employer: %s   Total NIS: %s   Net pay: %s",
		payroll.FormatMoney(totals.NISEmployee),
		payroll.FormatMoney(totals.NISEmployer),
		payroll.FormatMoney(totals.TotalNIS),
		payroll.FormatMoney(totals.NetPay)))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
