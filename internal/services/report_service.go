package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/ledger"
	"fintrack/internal/models"
)

// Report transaction kinds.
const (
	ReportTypeExpense = "expense"
	ReportTypeEarning = "earning"
)

// ReportSource kinds.
const (
	SourceAccount = "account"
	SourceCard    = "card"
)

// CategorySummary is the category shown next to a report line.
type CategorySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ReportSource is the account or card a report line belongs to.
type ReportSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// ReportTransaction is one expense occurrence or earning in a monthly report.
type ReportTransaction struct {
	Type            string           `json:"type"`
	ID              string           `json:"id"`
	Description     string           `json:"description"`
	Amount          decimal.Decimal  `json:"amount"`
	Date            time.Time        `json:"date"`
	Category        *CategorySummary `json:"category,omitempty"`
	Source          *ReportSource    `json:"source,omitempty"`
	IsPaid          *bool            `json:"is_paid,omitempty"`
	InstallmentInfo string           `json:"installment_info,omitempty"`
}

// MonthlyReport lists a month's transactions with their totals.
type MonthlyReport struct {
	Month         int                 `json:"month"`
	Year          int                 `json:"year"`
	Transactions  []ReportTransaction `json:"transactions"`
	TotalEarnings decimal.Decimal     `json:"total_earnings"`
	TotalExpenses decimal.Decimal     `json:"total_expenses"`
	Balance       decimal.Decimal     `json:"balance"`
}

// ReportRange is the span of months worth offering in a report picker.
type ReportRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// CardMonthlyExpenses is a card's statement for one month.
type CardMonthlyExpenses struct {
	CardID   string           `json:"card_id"`
	Month    int              `json:"month"`
	Year     int              `json:"year"`
	Expenses []models.Expense `json:"expenses"`
	Total    decimal.Decimal  `json:"total"`
}

// reportService builds read-only monthly views over expenses and earnings.
type reportService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db, now: time.Now}
}

// GetMonthlyReport merges the month's earnings and expense occurrences.
func (s *reportService) GetMonthlyReport(ctx context.Context, userID string, month, year int) (*MonthlyReport, error) {
	if err := validateMonth(month, year); err != nil {
		return nil, err
	}
	start, end := ledger.MonthWindow(year, time.Month(month))

	var earnings []models.Earning
	var expenses []models.Expense

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := s.db.WithContext(gctx).
			Preload("Category").Preload("Account").
			Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
			Order("date ASC").
			Find(&earnings).Error
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	g.Go(func() error {
		// Virtual installment series start before the window, so their rows
		// are fetched by start date alone and filtered in memory.
		err := s.db.WithContext(gctx).
			Preload("Category").Preload("Account").Preload("Card").
			Where("user_id = ?", userID).
			Where("(date >= ? AND date <= ?) OR (type = ? AND date <= ?)",
				start, end, models.ExpenseTypeInstallments, end).
			Order("date ASC").
			Find(&expenses).Error
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &MonthlyReport{
		Month:         month,
		Year:          year,
		Transactions:  make([]ReportTransaction, 0, len(earnings)+len(expenses)),
		TotalEarnings: decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	for i := range earnings {
		e := &earnings[i]
		report.Transactions = append(report.Transactions, earningLine(e))
		report.TotalEarnings = report.TotalEarnings.Add(e.Amount)
	}
	for i := range expenses {
		e := &expenses[i]
		occ, ok := ledger.OccurrenceInMonth(*e, start)
		if !ok {
			continue
		}
		report.Transactions = append(report.Transactions, expenseLine(e, occ))
		report.TotalExpenses = report.TotalExpenses.Add(e.Amount)
	}

	sort.SliceStable(report.Transactions, func(i, j int) bool {
		return report.Transactions[i].Date.Before(report.Transactions[j].Date)
	})
	report.Balance = report.TotalEarnings.Sub(report.TotalExpenses)

	return report, nil
}

// GetReportRange spans the user's data, always covering this month and the next.
func (s *reportService) GetReportRange(ctx context.Context, userID string) (*ReportRange, error) {
	now := s.now().UTC()
	earliest := now
	latest := ledger.AddMonths(now, 1)

	db := s.db.WithContext(ctx)
	for _, model := range []interface{}{&models.Expense{}, &models.Earning{}} {
		first, err := boundaryDate(db, model, userID, "date ASC")
		if err != nil {
			return nil, err
		}
		if first != nil && first.Before(earliest) {
			earliest = *first
		}

		last, err := boundaryDate(db, model, userID, "date DESC")
		if err != nil {
			return nil, err
		}
		if last != nil && last.After(latest) {
			latest = *last
		}
	}

	return &ReportRange{
		Start: ledger.StartOfMonth(earliest.UTC()),
		End:   ledger.EndOfMonth(latest.UTC()),
	}, nil
}

// GetCardMonthlyExpenses returns the card's expenses dated in the month.
// An unknown card yields an empty statement.
func (s *reportService) GetCardMonthlyExpenses(ctx context.Context, userID, cardID string, month, year int) (*CardMonthlyExpenses, error) {
	if err := validateMonth(month, year); err != nil {
		return nil, err
	}
	start, end := ledger.MonthWindow(year, time.Month(month))

	var expenses []models.Expense
	if err := s.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ? AND card_id = ? AND date >= ? AND date <= ?", userID, cardID, start, end).
		Order("date ASC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	total := decimal.Zero
	for i := range expenses {
		total = total.Add(expenses[i].Amount)
	}

	return &CardMonthlyExpenses{
		CardID:   cardID,
		Month:    month,
		Year:     year,
		Expenses: expenses,
		Total:    total,
	}, nil
}

func validateMonth(month, year int) error {
	if month < 1 || month > 12 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}
	if year < 1 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "year must be positive")
	}
	return nil
}

// boundaryDate returns the first date of the user's rows in the given order,
// or nil when there are none.
func boundaryDate(db *gorm.DB, model interface{}, userID, order string) (*time.Time, error) {
	var dates []time.Time
	if err := db.Model(model).
		Where("user_id = ?", userID).
		Order(order).
		Limit(1).
		Pluck("date", &dates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(dates) == 0 {
		return nil, nil
	}
	return &dates[0], nil
}

func earningLine(e *models.Earning) ReportTransaction {
	line := ReportTransaction{
		Type:        ReportTypeEarning,
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		Date:        e.Date,
	}
	if e.Category != nil {
		line.Category = &CategorySummary{ID: e.Category.ID, Name: e.Category.Name}
	}
	if e.Account != nil {
		line.Source = &ReportSource{ID: e.Account.ID, Name: e.Account.Name, Kind: SourceAccount}
	}
	return line
}

func expenseLine(e *models.Expense, occ ledger.Occurrence) ReportTransaction {
	paid := e.IsPaid
	line := ReportTransaction{
		Type:            ReportTypeExpense,
		ID:              e.ID,
		Description:     e.Description,
		Amount:          e.Amount,
		Date:            occ.Date,
		IsPaid:          &paid,
		InstallmentInfo: occ.InstallmentInfo,
	}
	if e.Category != nil {
		line.Category = &CategorySummary{ID: e.Category.ID, Name: e.Category.Name}
	}
	switch {
	case e.Account != nil:
		line.Source = &ReportSource{ID: e.Account.ID, Name: e.Account.Name, Kind: SourceAccount}
	case e.Card != nil:
		line.Source = &ReportSource{ID: e.Card.ID, Name: e.Card.Name, Kind: SourceCard}
	}
	return line
}
