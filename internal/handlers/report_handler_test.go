package handlers

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/export"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

type mockReportService struct {
	getMonthlyReportFn       func(ctx context.Context, userID string, month, year int) (*services.MonthlyReport, error)
	getReportRangeFn         func(ctx context.Context, userID string) (*services.ReportRange, error)
	getCardMonthlyExpensesFn func(ctx context.Context, userID, cardID string, month, year int) (*services.CardMonthlyExpenses, error)
}

func (m *mockReportService) GetMonthlyReport(ctx context.Context, userID string, month, year int) (*services.MonthlyReport, error) {
	if m.getMonthlyReportFn != nil {
		return m.getMonthlyReportFn(ctx, userID, month, year)
	}
	return &services.MonthlyReport{Month: month, Year: year, Transactions: []services.ReportTransaction{}}, nil
}

func (m *mockReportService) GetReportRange(ctx context.Context, userID string) (*services.ReportRange, error) {
	if m.getReportRangeFn != nil {
		return m.getReportRangeFn(ctx, userID)
	}
	return &services.ReportRange{}, nil
}

func (m *mockReportService) GetCardMonthlyExpenses(ctx context.Context, userID, cardID string, month, year int) (*services.CardMonthlyExpenses, error) {
	if m.getCardMonthlyExpensesFn != nil {
		return m.getCardMonthlyExpensesFn(ctx, userID, cardID, month, year)
	}
	return &services.CardMonthlyExpenses{CardID: cardID, Month: month, Year: year, Expenses: []models.Expense{}}, nil
}

var _ services.ReportServicer = (*mockReportService)(nil)

func setupReportRouter(handler *ReportHandler) *gin.Engine {
	r := newTestEngine()
	auth := r.Group("", injectUserID(testUserID))
	auth.GET("/reports/monthly", handler.GetMonthlyReport)
	auth.GET("/reports/monthly/export", handler.ExportMonthlyReport)
	auth.GET("/reports/range", handler.GetReportRange)
	auth.GET("/reports/cards/:id", handler.GetCardMonthlyExpenses)
	return r
}

func sampleReport(month, year int) *services.MonthlyReport {
	return &services.MonthlyReport{
		Month: month,
		Year:  year,
		Transactions: []services.ReportTransaction{
			{Type: services.ReportTypeEarning, ID: "e1", Description: "Salary", Amount: decimal.NewFromInt(1000), Date: time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)},
			{Type: services.ReportTypeExpense, ID: "x1", Description: "Rent", Amount: decimal.NewFromInt(400), Date: time.Date(year, time.Month(month), 5, 0, 0, 0, 0, time.UTC)},
		},
		TotalEarnings: decimal.NewFromInt(1000),
		TotalExpenses: decimal.NewFromInt(400),
		Balance:       decimal.NewFromInt(600),
	}
}

func TestReportHandler_GetMonthlyReport(t *testing.T) {
	t.Run("returns 200 with totals", func(t *testing.T) {
		var gotMonth, gotYear int
		svc := &mockReportService{
			getMonthlyReportFn: func(_ context.Context, userID string, month, year int) (*services.MonthlyReport, error) {
				assert.Equal(t, testUserID, userID)
				gotMonth, gotYear = month, year
				return sampleReport(month, year), nil
			},
		}
		r := setupReportRouter(NewReportHandler(svc))

		rec := doRequest(r, "GET", "/reports/monthly?month=2&year=2025", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, 2, gotMonth)
		assert.Equal(t, 2025, gotYear)

		body := parseJSON(t, rec)
		assert.Equal(t, "600", body["balance"])
		assert.Len(t, body["transactions"], 2)
	})

	t.Run("defaults to current month", func(t *testing.T) {
		var gotMonth, gotYear int
		svc := &mockReportService{
			getMonthlyReportFn: func(_ context.Context, _ string, month, year int) (*services.MonthlyReport, error) {
				gotMonth, gotYear = month, year
				return sampleReport(month, year), nil
			},
		}
		r := setupReportRouter(NewReportHandler(svc))

		now := time.Now().UTC()
		rec := doRequest(r, "GET", "/reports/monthly", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int(now.Month()), gotMonth)
		assert.Equal(t, now.Year(), gotYear)
	})

	t.Run("returns 400 on non numeric month", func(t *testing.T) {
		r := setupReportRouter(NewReportHandler(&mockReportService{}))
		rec := doRequest(r, "GET", "/reports/monthly?month=feb", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("passes service validation errors through", func(t *testing.T) {
		svc := &mockReportService{
			getMonthlyReportFn: func(context.Context, string, int, int) (*services.MonthlyReport, error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
			},
		}
		r := setupReportRouter(NewReportHandler(svc))
		rec := doRequest(r, "GET", "/reports/monthly?month=13&year=2025", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestReportHandler_ExportMonthlyReport(t *testing.T) {
	t.Run("returns workbook attachment", func(t *testing.T) {
		svc := &mockReportService{
			getMonthlyReportFn: func(_ context.Context, _ string, month, year int) (*services.MonthlyReport, error) {
				return sampleReport(month, year), nil
			},
		}
		r := setupReportRouter(NewReportHandler(svc))

		rec := doRequest(r, "GET", "/reports/monthly/export?month=3&year=2025", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, export.ContentTypeXLSX, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "report_2025_03.xlsx")

		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows("Transactions")
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})

	t.Run("returns 500 when report fails", func(t *testing.T) {
		svc := &mockReportService{
			getMonthlyReportFn: func(context.Context, string, int, int) (*services.MonthlyReport, error) {
				return nil, apperrors.ErrInternalServer
			},
		}
		r := setupReportRouter(NewReportHandler(svc))
		rec := doRequest(r, "GET", "/reports/monthly/export?month=3&year=2025", "")
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestReportHandler_GetReportRange(t *testing.T) {
	start := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 31, 23, 59, 59, 0, time.UTC)
	svc := &mockReportService{
		getReportRangeFn: func(context.Context, string) (*services.ReportRange, error) {
			return &services.ReportRange{Start: start, End: end}, nil
		},
	}
	r := setupReportRouter(NewReportHandler(svc))

	rec := doRequest(r, "GET", "/reports/range", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := parseJSON(t, rec)
	assert.Equal(t, start.Format(time.RFC3339), body["start"])
	assert.Equal(t, end.Format(time.RFC3339), body["end"])
}

func TestReportHandler_GetCardMonthlyExpenses(t *testing.T) {
	t.Run("returns statement", func(t *testing.T) {
		var gotCard string
		svc := &mockReportService{
			getCardMonthlyExpensesFn: func(_ context.Context, _ string, cardID string, month, year int) (*services.CardMonthlyExpenses, error) {
				gotCard = cardID
				return &services.CardMonthlyExpenses{CardID: cardID, Month: month, Year: year, Expenses: []models.Expense{}, Total: decimal.NewFromInt(400)}, nil
			},
		}
		r := setupReportRouter(NewReportHandler(svc))

		rec := doRequest(r, "GET", "/reports/cards/"+testCardID+"?month=2&year=2025", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, testCardID, gotCard)
		assert.Equal(t, "400", parseJSON(t, rec)["total"])
	})

	t.Run("returns 400 on bad card id", func(t *testing.T) {
		r := setupReportRouter(NewReportHandler(&mockReportService{}))
		rec := doRequest(r, "GET", "/reports/cards/abc", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
