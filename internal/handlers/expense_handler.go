package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

// ExpenseHandler handles expense requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// CreateExpenseRequest represents the request payload for creating an expense.
// Exactly one of account_id and card_id must be set.
type CreateExpenseRequest struct {
	Amount            *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string"`
	Date              string           `json:"date" binding:"required"`
	CategoryID        string           `json:"category_id" binding:"required,uuid"`
	AccountID         *string          `json:"account_id" binding:"omitempty,uuid"`
	CardID            *string          `json:"card_id" binding:"omitempty,uuid"`
	Type              string           `json:"type" binding:"required,expense_type"`
	Installments      *int             `json:"installments" binding:"omitempty,min=1,max=480"`
	Recurrence        string           `json:"recurrence" binding:"omitempty,recurrence"`
	RecurrenceEndDate *string          `json:"recurrence_end_date"`
	Description       string           `json:"description" binding:"max=255"`
}

// UpdateExpenseRequest holds the optional expense fields to change.
type UpdateExpenseRequest struct {
	Amount            *decimal.Decimal `json:"amount" swaggertype:"string"`
	Date              *string          `json:"date"`
	CategoryID        *string          `json:"category_id" binding:"omitempty,uuid"`
	AccountID         *string          `json:"account_id" binding:"omitempty,uuid"`
	CardID            *string          `json:"card_id" binding:"omitempty,uuid"`
	RecurrenceEndDate *string          `json:"recurrence_end_date"`
	Description       *string          `json:"description" binding:"omitempty,max=255"`
}

// PayExpensesRequest lists the expenses to mark as paid.
type PayExpensesRequest struct {
	ExpenseIDs []string `json:"expense_ids" binding:"required,min=1,dive,uuid"`
}

// ExpenseResponse represents an expense row in the response.
type ExpenseResponse struct {
	ID                 string  `json:"id"`
	AccountID          *string `json:"account_id,omitempty"`
	CardID             *string `json:"card_id,omitempty"`
	CategoryID         string  `json:"category_id"`
	Amount             string  `json:"amount"`
	Description        string  `json:"description"`
	Date               string  `json:"date"`
	Type               string  `json:"type"`
	Recurrence         string  `json:"recurrence"`
	InstallmentNumber  *int    `json:"installment_number,omitempty"`
	InstallmentTotal   *int    `json:"installment_total,omitempty"`
	InstallmentGroupID *string `json:"installment_group_id,omitempty"`
	RecurrenceGroupID  *string `json:"recurrence_group_id,omitempty"`
	IsPaid             bool    `json:"is_paid"`
}

// ExpenseEnvelope wraps a single expense.
type ExpenseEnvelope struct {
	Expense ExpenseResponse `json:"expense"`
}

// ExpenseListEnvelope wraps a list of expense rows.
type ExpenseListEnvelope struct {
	Expenses []ExpenseResponse `json:"expenses"`
}

// CreateExpense handles expense creation
// @Summary     Create an expense
// @Description Create a single expense, an installment series or a monthly recurrence series, charging the account or card
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} ExpenseListEnvelope "Generated expense rows"
// @Failure     400 {object} ErrorResponse "Invalid input or target"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account, card or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseFlexibleTime(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date format, use RFC3339 or YYYY-MM-DD"))
		return
	}
	endDate, err := parseOptionalTime(req.RecurrenceEndDate, "recurrence_end_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	rows, err := h.expenseService.CreateExpense(userID, services.CreateExpenseInput{
		AccountID:         req.AccountID,
		CardID:            req.CardID,
		CategoryID:        req.CategoryID,
		Amount:            *req.Amount,
		Description:       req.Description,
		Date:              date,
		Type:              models.ExpenseType(req.Type),
		Installments:      req.Installments,
		Recurrence:        models.Recurrence(req.Recurrence),
		RecurrenceEndDate: endDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EXPENSE", "expense", rows[0].ID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount.String(), "type": req.Type, "rows": len(rows)})

	c.JSON(http.StatusCreated, gin.H{"expenses": rows})
}

// GetUserExpenses lists expenses
// @Summary     Get expenses
// @Description List the user's expense rows, newest first
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       from_date   query string false "From date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date     query string false "To date (RFC3339 or YYYY-MM-DD)"
// @Param       category_id query string false "Category ID"
// @Param       account_id  query string false "Account ID"
// @Param       card_id     query string false "Card ID"
// @Param       is_paid     query bool   false "Paid state"
// @Param       page        query int    false "Page number"
// @Param       page_size   query int    false "Page size"
// @Success     200 {object} pagination.PageResponse[ExpenseResponse] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetUserExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	page, err := bindPage(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := parseExpenseFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.expenseService.GetUserExpenses(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseExpenseFilter(c *gin.Context) (services.ExpenseFilter, error) {
	var filter services.ExpenseFilter
	var err error

	if filter.FromDate, filter.ToDate, err = parseDateRange(c); err != nil {
		return filter, err
	}
	if filter.CategoryID, err = parseQueryID(c, "category_id"); err != nil {
		return filter, err
	}
	if filter.AccountID, err = parseQueryID(c, "account_id"); err != nil {
		return filter, err
	}
	if filter.CardID, err = parseQueryID(c, "card_id"); err != nil {
		return filter, err
	}
	if v := c.Query("is_paid"); v != "" {
		paid, parseErr := strconv.ParseBool(v)
		if parseErr != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid is_paid")
		}
		filter.IsPaid = &paid
	}

	return filter, nil
}

// GetExpenseByID returns one expense row
// @Summary     Get expense by ID
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} ExpenseEnvelope "Expense details"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpenseByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(userID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense patches one expense row
// @Summary     Update expense
// @Description Patch an expense row; for unpaid rows the account or card hold follows the new amount and target
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Fields to change"
// @Success     200 {object} ExpenseEnvelope "Expense updated"
// @Failure     400 {object} ErrorResponse "Invalid input or target"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense, account, card or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [patch]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseOptionalTime(req.Date, "date")
	if err != nil {
		respondWithError(c, err)
		return
	}
	endDate, err := parseOptionalTime(req.RecurrenceEndDate, "recurrence_end_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.UpdateExpense(userID, expenseID, services.ExpensePatch{
		Description:       req.Description,
		Amount:            req.Amount,
		Date:              date,
		CategoryID:        req.CategoryID,
		AccountID:         req.AccountID,
		CardID:            req.CardID,
		RecurrenceEndDate: endDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]interface{}{}
	if req.Amount != nil {
		changes["amount"] = req.Amount.String()
	}
	if req.AccountID != nil {
		changes["account_id"] = *req.AccountID
	}
	if req.CardID != nil {
		changes["card_id"] = *req.CardID
	}
	h.auditService.Log(userID, "UPDATE_EXPENSE", "expense", expense.ID, c.ClientIP(), changes)

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense removes one expense row
// @Summary     Delete expense
// @Description Delete a single expense row; an unpaid row gives its amount back to the account, or to the card within the current month
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.RemoveExpense(userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_EXPENSE", "expense", expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}

// PayExpenses marks expenses as paid
// @Summary     Pay expenses
// @Description Mark expenses as paid, releasing their hold on the account or card; already paid expenses are skipped
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body PayExpensesRequest true "Expense IDs"
// @Success     200 {object} ExpenseListEnvelope "Expenses that became paid"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/pay [patch]
func (h *ExpenseHandler) PayExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PayExpensesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	paid, err := h.expenseService.MarkAsPaid(userID, req.ExpenseIDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	for i := range paid {
		h.auditService.Log(userID, "PAY_EXPENSE", "expense", paid[i].ID, c.ClientIP(),
			map[string]interface{}{"amount": paid[i].Amount.String()})
	}

	c.JSON(http.StatusOK, gin.H{"expenses": paid})
}
