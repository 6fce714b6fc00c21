package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/uuid"
)

// MaxSeriesRows bounds both installment counts and monthly recurrence spans.
const MaxSeriesRows = 480

// ExpenseDraft is a validated expense creation request whose account or card
// and category have already been resolved.
type ExpenseDraft struct {
	UserID            string
	CategoryID        string
	Target            Target
	Amount            decimal.Decimal
	Description       string
	Date              time.Time
	Type              models.ExpenseType
	Installments      *int
	Recurrence        models.Recurrence
	RecurrenceEndDate *time.Time
}

// IsInstallments reports whether the draft describes an installment series.
func (d ExpenseDraft) IsInstallments() bool {
	return d.Type == models.ExpenseTypeInstallments
}

// IsMonthlyRecurrence reports whether the draft describes a monthly series.
func (d ExpenseDraft) IsMonthlyRecurrence() bool {
	return d.Type == models.ExpenseTypeFixed &&
		d.Recurrence == models.RecurrenceMonthly &&
		d.RecurrenceEndDate != nil
}

// Validate checks the draft shape before expansion.
func (d ExpenseDraft) Validate() error {
	if d.Target == nil {
		return apperrors.ErrInvalidTarget
	}
	if !d.Amount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if d.Date.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}
	switch d.Type {
	case models.ExpenseTypeFixed, models.ExpenseTypeInstallments:
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be fixed or installments")
	}
	switch d.Recurrence {
	case "", models.RecurrenceOneTime, models.RecurrenceMonthly:
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "recurrence must be one-time or monthly")
	}
	if d.IsInstallments() && d.Installments != nil {
		if *d.Installments < 1 {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "installments must be at least 1")
		}
		if *d.Installments > MaxSeriesRows {
			return apperrors.WithMessage(apperrors.ErrInvalidInput,
				fmt.Sprintf("installments must be at most %d", MaxSeriesRows))
		}
	}
	if d.IsMonthlyRecurrence() {
		span := MonthSpan(d.Date, *d.RecurrenceEndDate)
		if span == 0 {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "recurrence_end_date must not be before date")
		}
		if span > MaxSeriesRows {
			return apperrors.WithMessage(apperrors.ErrInvalidInput,
				fmt.Sprintf("a monthly recurrence may span at most %d months", MaxSeriesRows))
		}
	}
	return nil
}

// Expand turns a draft into the ordered rows to persist: one row for a plain
// expense, n rows for an installment series, one row per calendar month for a
// monthly recurrence. Balance effects are not applied here.
func Expand(d ExpenseDraft) ([]models.Expense, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	switch {
	case d.IsInstallments():
		return expandInstallments(d), nil
	case d.IsMonthlyRecurrence():
		return expandMonthly(d), nil
	}

	recurrence := d.Recurrence
	if recurrence == "" {
		recurrence = models.RecurrenceOneTime
	}
	row := d.baseRow()
	row.Amount = d.Amount
	row.Date = d.Date
	row.Type = d.Type
	row.Recurrence = recurrence
	row.Description = d.Description
	return []models.Expense{row}, nil
}

// InstallmentAmount is the per-row amount of an n-way split, rounded to cents.
func InstallmentAmount(amount decimal.Decimal, n int) decimal.Decimal {
	return amount.Div(decimal.NewFromInt(int64(n))).Round(2)
}

func expandInstallments(d ExpenseDraft) []models.Expense {
	n := 1
	if d.Installments != nil {
		n = *d.Installments
	}
	perRow := InstallmentAmount(d.Amount, n)
	groupID := uuid.New()

	rows := make([]models.Expense, 0, n)
	for i := 0; i < n; i++ {
		number, total, group := i+1, n, groupID
		row := d.baseRow()
		row.Amount = perRow
		row.Date = AddMonths(d.Date, i)
		row.Type = models.ExpenseTypeFixed
		row.Recurrence = models.RecurrenceOneTime
		row.Description = fmt.Sprintf("%s (%d/%d)", d.Description, number, total)
		row.InstallmentNumber = &number
		row.InstallmentTotal = &total
		row.InstallmentGroupID = &group
		rows = append(rows, row)
	}
	return rows
}

func expandMonthly(d ExpenseDraft) []models.Expense {
	count := MonthSpan(d.Date, *d.RecurrenceEndDate)
	groupID := uuid.New()
	end := *d.RecurrenceEndDate

	rows := make([]models.Expense, 0, count)
	for i := 0; i < count; i++ {
		group, endDate := groupID, end
		row := d.baseRow()
		row.Amount = d.Amount
		row.Date = AddMonths(d.Date, i)
		row.Type = models.ExpenseTypeFixed
		row.Recurrence = models.RecurrenceOneTime
		row.Description = d.Description
		row.RecurrenceGroupID = &group
		row.RecurrenceEndDate = &endDate
		rows = append(rows, row)
	}
	return rows
}

func (d ExpenseDraft) baseRow() models.Expense {
	row := models.Expense{
		UserID:     d.UserID,
		CategoryID: d.CategoryID,
	}
	AssignTarget(&row, d.Target)
	return row
}

// CreationCharge is the amount deducted from the target when the rows of a
// draft are created. Accounts are charged the nominal amount once for an
// installment series and once per occurrence for a monthly series. Cards are
// charged the nominal amount once in every case.
func CreationCharge(d ExpenseDraft, rows []models.Expense) decimal.Decimal {
	if _, ok := d.Target.(AccountTarget); ok && d.IsMonthlyRecurrence() {
		return d.Amount.Mul(decimal.NewFromInt(int64(len(rows))))
	}
	return d.Amount
}
