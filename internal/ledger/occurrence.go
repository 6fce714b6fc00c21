package ledger

import (
	"fmt"
	"time"

	"fintrack/internal/models"
)

// Occurrence is an expense as it appears in one reporting month.
type Occurrence struct {
	Date            time.Time
	InstallmentInfo string
}

// OccurrenceInMonth reports whether the expense appears in the month that
// starts at monthStart, and where.
//
// A row stored with type installments stands for a whole series whose first
// occurrence is the row's date: it appears in each of the following
// installmentTotal months with its stored (already divided) amount. Every
// other row appears only in the month of its own date.
func OccurrenceInMonth(e models.Expense, monthStart time.Time) (Occurrence, bool) {
	monthStart = StartOfMonth(monthStart)
	date := e.Date.In(monthStart.Location())

	if e.Type == models.ExpenseTypeInstallments && e.InstallmentTotal != nil && *e.InstallmentTotal > 0 {
		total := *e.InstallmentTotal
		k := MonthsBetween(date, monthStart)
		if k < 0 || k >= total {
			return Occurrence{}, false
		}
		return Occurrence{
			Date:            AddMonths(date, k),
			InstallmentInfo: fmt.Sprintf("%d/%d", k+1, total),
		}, true
	}

	if !SameMonth(date, monthStart) {
		return Occurrence{}, false
	}
	occ := Occurrence{Date: date}
	if e.InstallmentNumber != nil && e.InstallmentTotal != nil {
		occ.InstallmentInfo = fmt.Sprintf("%d/%d", *e.InstallmentNumber, *e.InstallmentTotal)
	}
	return occ, true
}
