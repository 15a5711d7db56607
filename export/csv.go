package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/warp/payroll-engine/period"
)

// WriteCSV writes the header and one row per week of p.
func WriteCSV(w io.Writer, p period.PayPeriod) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range Rows(p) {
		if err := cw.Write(row.Strings()); err != nil {
			return fmt.Errorf("write week %d: %w", row.WeekNumber, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FileName is the suggested download name for a period export.
func FileName(p period.PayPeriod, ext string) string {
	return fmt.Sprintf("payroll_%s_%s_%s.%s", p.EmployeeID, p.StartDate, p.EndDate, ext)
}
