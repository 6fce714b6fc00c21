package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/services"
)

// EarningHandler handles earning requests.
type EarningHandler struct {
	earningService services.EarningServicer
	auditService   services.AuditServicer
}

// NewEarningHandler creates a new EarningHandler.
func NewEarningHandler(earningService services.EarningServicer, auditService services.AuditServicer) *EarningHandler {
	return &EarningHandler{earningService: earningService, auditService: auditService}
}

// CreateEarningRequest represents the request payload for recording an earning.
type CreateEarningRequest struct {
	AccountID   string           `json:"account_id" binding:"required,uuid"`
	CategoryID  string           `json:"category_id" binding:"required,uuid"`
	Amount      *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string"`
	Description string           `json:"description" binding:"max=255"`
	Date        *string          `json:"date"`
}

// UpdateEarningRequest holds the optional earning fields to change.
type UpdateEarningRequest struct {
	AccountID   *string          `json:"account_id" binding:"omitempty,uuid"`
	CategoryID  *string          `json:"category_id" binding:"omitempty,uuid"`
	Amount      *decimal.Decimal `json:"amount" swaggertype:"string"`
	Description *string          `json:"description" binding:"omitempty,max=255"`
	Date        *string          `json:"date"`
}

// EarningResponse represents an earning in the response.
type EarningResponse struct {
	ID          string `json:"id"`
	AccountID   string `json:"account_id"`
	CategoryID  string `json:"category_id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// EarningEnvelope wraps a single earning.
type EarningEnvelope struct {
	Earning EarningResponse `json:"earning"`
}

// CreateEarning records an earning
// @Summary     Create an earning
// @Description Record money received into an account; the account balance grows by the amount
// @Tags        earnings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateEarningRequest true "Earning details"
// @Success     201 {object} EarningEnvelope "Earning created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /earnings [post]
func (h *EarningHandler) CreateEarning(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateEarningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseOptionalTime(req.Date, "date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	input := services.EarningInput{
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Amount:      *req.Amount,
		Description: req.Description,
	}
	if date != nil {
		input.Date = *date
	}

	earning, err := h.earningService.CreateEarning(userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EARNING", "earning", earning.ID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount.String(), "account_id": req.AccountID})

	c.JSON(http.StatusCreated, gin.H{"earning": earning})
}

// GetUserEarnings lists earnings
// @Summary     Get earnings
// @Tags        earnings
// @Produce     json
// @Security    BearerAuth
// @Param       from_date   query string false "From date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date     query string false "To date (RFC3339 or YYYY-MM-DD)"
// @Param       category_id query string false "Category ID"
// @Param       account_id  query string false "Account ID"
// @Param       page        query int    false "Page number"
// @Param       page_size   query int    false "Page size"
// @Success     200 {object} pagination.PageResponse[EarningResponse] "Paginated earnings"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /earnings [get]
func (h *EarningHandler) GetUserEarnings(c *gin.Context) {
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

	var filter services.EarningFilter
	if filter.FromDate, filter.ToDate, err = parseDateRange(c); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.CategoryID, err = parseQueryID(c, "category_id"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.AccountID, err = parseQueryID(c, "account_id"); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.earningService.GetUserEarnings(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetEarningByID returns one earning
// @Summary     Get earning by ID
// @Tags        earnings
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Earning ID"
// @Success     200 {object} EarningEnvelope "Earning details"
// @Failure     400 {object} ErrorResponse "Invalid earning ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Earning not found"
// @Router      /earnings/{id} [get]
func (h *EarningHandler) GetEarningByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	earningID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	earning, err := h.earningService.GetEarningByID(userID, earningID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"earning": earning})
}

// UpdateEarning patches an earning
// @Summary     Update earning
// @Description Patch an earning; balances follow amount changes and moves between accounts
// @Tags        earnings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Earning ID"
// @Param       request body UpdateEarningRequest true "Fields to change"
// @Success     200 {object} EarningEnvelope "Earning updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Earning, account or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /earnings/{id} [patch]
func (h *EarningHandler) UpdateEarning(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	earningID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateEarningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseOptionalTime(req.Date, "date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	earning, err := h.earningService.UpdateEarning(userID, earningID, services.EarningPatch{
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EARNING", "earning", earning.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"earning": earning})
}

// DeleteEarning deletes an earning
// @Summary     Delete earning
// @Description Delete an earning; its amount is taken back from the account
// @Tags        earnings
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Earning ID"
// @Success     200 {object} MessageResponse "Earning deleted"
// @Failure     400 {object} ErrorResponse "Invalid earning ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Earning not found"
// @Router      /earnings/{id} [delete]
func (h *EarningHandler) DeleteEarning(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	earningID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.earningService.DeleteEarning(userID, earningID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_EARNING", "earning", earningID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Earning deleted successfully"})
}
