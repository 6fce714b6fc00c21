package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// cardService handles credit card business logic.
type cardService struct {
	db *gorm.DB
}

// NewCardService creates a new CardServicer.
func NewCardService(db *gorm.DB) CardServicer {
	return &cardService{db: db}
}

// CreateCard creates a card whose available limit starts at its full limit.
func (s *cardService) CreateCard(userID string, input CardInput) (*models.Card, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "card name is required")
	}
	if input.Limit.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must not be negative")
	}
	if err := validateCardDays(input.ClosingDay, input.DueDay); err != nil {
		return nil, err
	}

	limit := input.Limit.Round(2)
	card := &models.Card{
		UserID:       userID,
		Name:         name,
		Limit:        limit,
		CurrentLimit: limit,
		ClosingDay:   input.ClosingDay,
		DueDay:       input.DueDay,
	}
	if err := s.db.Create(card).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return card, nil
}

// GetUserCards retrieves a paginated list of the user's cards.
func (s *cardService) GetUserCards(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Card], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Card{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var cards []models.Card
	if err := base.Order("name ASC").Scopes(pagination.Paginate(page)).Find(&cards).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(cards, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCardByID retrieves a card owned by the user.
func (s *cardService) GetCardByID(userID, cardID string) (*models.Card, error) {
	return findCard(s.db, userID, cardID)
}

// UpdateCard applies a sparse patch. Changing the limit shifts the available
// limit by the same amount so outstanding charges are preserved.
func (s *cardService) UpdateCard(userID, cardID string, patch CardPatch) (*models.Card, error) {
	card, err := findCard(s.db, userID, cardID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "card name must not be empty")
		}
		updates["name"] = name
		card.Name = name
	}
	if patch.Limit != nil {
		if patch.Limit.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must not be negative")
		}
		limit := patch.Limit.Round(2)
		delta := limit.Sub(card.Limit)
		card.Limit = limit
		card.CurrentLimit = card.CurrentLimit.Add(delta)
		updates["credit_limit"] = card.Limit
		updates["current_limit"] = card.CurrentLimit
	}

	closingDay, dueDay := card.ClosingDay, card.DueDay
	if patch.ClosingDay != nil {
		closingDay = *patch.ClosingDay
	}
	if patch.DueDay != nil {
		dueDay = *patch.DueDay
	}
	if err := validateCardDays(closingDay, dueDay); err != nil {
		return nil, err
	}
	if patch.ClosingDay != nil {
		updates["closing_day"] = closingDay
		card.ClosingDay = closingDay
	}
	if patch.DueDay != nil {
		updates["due_day"] = dueDay
		card.DueDay = dueDay
	}

	if len(updates) > 0 {
		if err := s.db.Model(card).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return card, nil
}

// DeleteCard soft-deletes a card. Expenses already charged to it keep their reference.
func (s *cardService) DeleteCard(userID, cardID string) error {
	card, err := findCard(s.db, userID, cardID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(card).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func validateCardDays(closingDay, dueDay int) error {
	if closingDay < 1 || closingDay > 31 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "closing_day must be between 1 and 31")
	}
	if dueDay < 1 || dueDay > 31 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "due_day must be between 1 and 31")
	}
	return nil
}

// findCard loads a card owned by the user.
func findCard(db *gorm.DB, userID, cardID string) (*models.Card, error) {
	var card models.Card
	if err := db.Where("id = ? AND user_id = ?", cardID, userID).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCardNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &card, nil
}

// saveCardLimit persists only the available limit of the card.
func saveCardLimit(tx *gorm.DB, card *models.Card) error {
	if err := tx.Model(card).Update("current_limit", card.CurrentLimit).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
