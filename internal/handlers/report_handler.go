package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/export"
	"fintrack/internal/services"
)

// ReportHandler serves the monthly reports.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// parseMonthYear reads month and year query parameters, defaulting to the
// current UTC month.
func parseMonthYear(c *gin.Context) (month, year int, err error) {
	now := time.Now().UTC()
	month, year = int(now.Month()), now.Year()

	if v := c.Query("month"); v != "" {
		if month, err = strconv.Atoi(v); err != nil {
			return 0, 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid month")
		}
	}
	if v := c.Query("year"); v != "" {
		if year, err = strconv.Atoi(v); err != nil {
			return 0, 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid year")
		}
	}
	return month, year, nil
}

// GetMonthlyReport returns the month's transactions and totals
// @Summary     Monthly report
// @Description Earnings and expense occurrences of a month, sorted by date, with totals
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       month query int false "Month (1-12), defaults to the current month"
// @Param       year  query int false "Year, defaults to the current year"
// @Success     200 {object} services.MonthlyReport "Monthly report"
// @Failure     400 {object} ErrorResponse "Invalid month or year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/monthly [get]
func (h *ReportHandler) GetMonthlyReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, year, err := parseMonthYear(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.GetMonthlyReport(c.Request.Context(), userID, month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ExportMonthlyReport downloads the monthly report as a spreadsheet
// @Summary     Export monthly report
// @Description Monthly report as an .xlsx workbook with a transactions sheet and a totals sheet
// @Tags        reports
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       month query int false "Month (1-12), defaults to the current month"
// @Param       year  query int false "Year, defaults to the current year"
// @Success     200 {file}   file "Workbook"
// @Failure     400 {object} ErrorResponse "Invalid month or year"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/monthly/export [get]
func (h *ReportHandler) ExportMonthlyReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, year, err := parseMonthYear(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.GetMonthlyReport(c.Request.Context(), userID, month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteMonthlyReport(&buf, report); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.MonthlyReportFileName(report)))
	c.Data(http.StatusOK, export.ContentTypeXLSX, buf.Bytes())
}

// GetReportRange returns the span of months that have data
// @Summary     Report range
// @Description First and last instant worth reporting on; always covers the current and the next month
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.ReportRange "Report range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/range [get]
func (h *ReportHandler) GetReportRange(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	r, err := h.reportService.GetReportRange(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

// GetCardMonthlyExpenses returns a card's expenses for a month
// @Summary     Card monthly expenses
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string true  "Card ID"
// @Param       month query int    false "Month (1-12), defaults to the current month"
// @Param       year  query int    false "Year, defaults to the current year"
// @Success     200 {object} services.CardMonthlyExpenses "Card statement"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/cards/{id} [get]
func (h *ReportHandler) GetCardMonthlyExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, year, err := parseMonthYear(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	statement, err := h.reportService.GetCardMonthlyExpenses(c.Request.Context(), userID, cardID, month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, statement)
}
