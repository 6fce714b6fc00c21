package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/services"
)

// CardHandler handles credit card requests.
type CardHandler struct {
	cardService  services.CardServicer
	auditService services.AuditServicer
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardService services.CardServicer, auditService services.AuditServicer) *CardHandler {
	return &CardHandler{cardService: cardService, auditService: auditService}
}

// CreateCardRequest represents the request payload for creating a card.
type CreateCardRequest struct {
	Name       string           `json:"name" binding:"required,min=1,max=100"`
	Limit      *decimal.Decimal `json:"limit" binding:"required" swaggertype:"string"`
	ClosingDay int              `json:"closing_day" binding:"required,min=1,max=31"`
	DueDay     int              `json:"due_day" binding:"required,min=1,max=31"`
}

// UpdateCardRequest holds the optional card fields to change.
type UpdateCardRequest struct {
	Name       *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Limit      *decimal.Decimal `json:"limit" swaggertype:"string"`
	ClosingDay *int             `json:"closing_day" binding:"omitempty,min=1,max=31"`
	DueDay     *int             `json:"due_day" binding:"omitempty,min=1,max=31"`
}

// CardResponse represents a card in the response.
type CardResponse struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Limit        string `json:"limit"`
	CurrentLimit string `json:"current_limit"`
	ClosingDay   int    `json:"closing_day"`
	DueDay       int    `json:"due_day"`
}

// CardEnvelope wraps a single card.
type CardEnvelope struct {
	Card CardResponse `json:"card"`
}

// CreateCard handles the creation of a credit card
// @Summary     Create a card
// @Description Create a credit card; its current limit starts at the full limit
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCardRequest true "Card details"
// @Success     201 {object} CardEnvelope "Card created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards [post]
func (h *CardHandler) CreateCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	card, err := h.cardService.CreateCard(userID, services.CardInput{
		Name:       req.Name,
		Limit:      *req.Limit,
		ClosingDay: req.ClosingDay,
		DueDay:     req.DueDay,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_CARD", "card", card.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "limit": req.Limit.String()})

	c.JSON(http.StatusCreated, gin.H{"card": card})
}

// GetUserCards lists the user's cards
// @Summary     Get all cards
// @Tags        cards
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[CardResponse] "Paginated cards"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards [get]
func (h *CardHandler) GetUserCards(c *gin.Context) {
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

	result, err := h.cardService.GetUserCards(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCardByID returns a single card
// @Summary     Get card by ID
// @Tags        cards
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Card ID"
// @Success     200 {object} CardEnvelope "Card details"
// @Failure     400 {object} ErrorResponse "Invalid card ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Router      /cards/{id} [get]
func (h *CardHandler) GetCardByID(c *gin.Context) {
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

	card, err := h.cardService.GetCardByID(userID, cardID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"card": card})
}

// UpdateCard patches a card
// @Summary     Update card
// @Description Patch card fields; changing the limit moves the current limit by the same amount
// @Tags        cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Card ID"
// @Param       request body UpdateCardRequest true "Fields to change"
// @Success     200 {object} CardEnvelope "Card updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cards/{id} [patch]
func (h *CardHandler) UpdateCard(c *gin.Context) {
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

	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	card, err := h.cardService.UpdateCard(userID, cardID, services.CardPatch{
		Name:       req.Name,
		Limit:      req.Limit,
		ClosingDay: req.ClosingDay,
		DueDay:     req.DueDay,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_CARD", "card", card.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"card": card})
}

// DeleteCard deletes a card
// @Summary     Delete card
// @Tags        cards
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Card ID"
// @Success     200 {object} MessageResponse "Card deleted"
// @Failure     400 {object} ErrorResponse "Invalid card ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Card not found"
// @Router      /cards/{id} [delete]
func (h *CardHandler) DeleteCard(c *gin.Context) {
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

	if err := h.cardService.DeleteCard(userID, cardID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_CARD", "card", cardID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Card deleted successfully"})
}
