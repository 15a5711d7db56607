/*
Package export renders pay periods into export files.

PURPOSE:
  Owns the column contract of a period export and its two renderings: a
  raw CSV file and a printable PDF report. The engine never writes files;
  the host calls these with a period it already holds.

COLUMN ORDER (fixed):
   1 Week                  8 NIS Employee
   2 Week Start            9 Pay Less NIS (calculated pay - NIS employee)
   3 Week End             10 Recorded Pay
   4 Pay Day              11 NIS Employer
   5 Daily Rate (8hr)     12 Total NIS (employee + employer)
   6 Days Worked          13 Net Pay
   7 Calculated Pay

FORMATS:
  Dates:    DD/MM/YYYY
  Currency: 2 decimal places, no thousands separator

SEE ALSO:
  - csv.go: CSV writer
  - pdf.go: PDF report
*/
package export

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/period"
)

// Row is one exported week.
type Row struct {
	WeekNumber    int
	WeekStart     period.Date
	WeekEnd       period.Date
	PayDay        period.Date
	DailyRate8Hr  decimal.Decimal
	DaysWorked    decimal.Decimal
	CalculatedPay decimal.Decimal
	NISEmployee   decimal.Decimal
	PayLessNIS    decimal.Decimal
	RecordedPay   decimal.Decimal
	NISEmployer   decimal.Decimal
	TotalNIS      decimal.Decimal
	NetPay        decimal.Decimal
}

// Header returns the column titles in export order.
func Header() []string {
	return []string{
		"Week",
		"Week Start",
		"Week End",
		"Pay Day",
		"Daily Rate (8hr)",
		"Days Worked",
		"Calculated Pay",
		"NIS Employee",
		"Pay Less NIS",
		"Recorded Pay",
		"NIS Employer",
		"Total NIS",
		"Net Pay",
	}
}

// Rows maps every week of p to an export row, in week order.
func Rows(p period.PayPeriod) []Row {
	rows := make([]Row, len(p.Weeks))
	for i, w := range p.Weeks {
		rows[i] = Row{
			WeekNumber:    w.WeekNumber,
			WeekStart:     w.WeekStart,
			WeekEnd:       w.WeekEnd,
			PayDay:        w.PayDay,
			DailyRate8Hr:  w.DailyRate8Hr,
			DaysWorked:    w.RecordedDaysWorked,
			CalculatedPay: w.CalculatedPay,
			NISEmployee:   w.NISEmployee,
			PayLessNIS:    w.PayLessNIS(),
			RecordedPay:   w.RecordedPay,
			NISEmployer:   w.NISEmployer,
			TotalNIS:      w.TotalNIS(),
			NetPay:        w.NetPay,
		}
	}
	return rows
}

// Strings formats the row in column order.
func (r Row) Strings() []string {
	return []string{
		strconv.Itoa(r.WeekNumber),
		r.WeekStart.ExportString(),
		r.WeekEnd.ExportString(),
		r.PayDay.ExportString(),
		payroll.FormatMoney(r.DailyRate8Hr),
		r.DaysWorked.String(),
		payroll.FormatMoney(r.CalculatedPay),
		payroll.FormatMoney(r.NISEmployee),
		payroll.FormatMoney(r.PayLessNIS),
		payroll.FormatMoney(r.RecordedPay),
		payroll.FormatMoney(r.NISEmployer),
		payroll.FormatMoney(r.TotalNIS),
		payroll.FormatMoney(r.NetPay),
	}
}
