package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a user-owned category. The name must not collide with
// a default category or another of the user's categories of the same type.
func (s *categoryService) CreateCategory(userID, name string, categoryType models.CategoryType) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if err := validateCategoryType(categoryType); err != nil {
		return nil, err
	}

	if err := s.ensureUniqueName(userID, "", name, categoryType); err != nil {
		return nil, err
	}

	owner := userID
	category := &models.Category{
		UserID: &owner,
		Name:   name,
		Type:   categoryType,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// GetUserCategories lists the user's own categories together with the
// default ones, optionally narrowed to one type.
func (s *categoryService) GetUserCategories(userID string, categoryType *models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error) {
	page.Defaults()

	base := s.db.Model(&models.Category{}).Where("(user_id = ? OR is_default = ?)", userID, true)
	if categoryType != nil {
		if err := validateCategoryType(*categoryType); err != nil {
			return nil, err
		}
		base = base.Where("type = ?", *categoryType)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := base.Order("is_default DESC, name ASC").Scopes(pagination.Paginate(page)).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(categories, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCategoryByID retrieves a category that is default or owned by the user.
func (s *categoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	return findVisibleCategory(s.db, userID, categoryID)
}

// UpdateCategory renames a user-owned category.
func (s *categoryService) UpdateCategory(userID, categoryID, name string) (*models.Category, error) {
	category, err := s.findMutableCategory(userID, categoryID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if name == category.Name {
		return category, nil
	}
	if err := s.ensureUniqueName(userID, category.ID, name, category.Type); err != nil {
		return nil, err
	}

	if err := s.db.Model(category).Update("name", name).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	category.Name = name
	return category, nil
}

// DeleteCategory soft-deletes a user-owned category.
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	category, err := s.findMutableCategory(userID, categoryID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// findMutableCategory returns the category only if the user may change it.
// Default categories are visible but read-only.
func (s *categoryService) findMutableCategory(userID, categoryID string) (*models.Category, error) {
	category, err := findVisibleCategory(s.db, userID, categoryID)
	if err != nil {
		return nil, err
	}
	if category.IsDefault {
		return nil, apperrors.ErrDefaultCategory
	}
	return category, nil
}

func (s *categoryService) ensureUniqueName(userID, excludeID, name string, categoryType models.CategoryType) error {
	query := s.db.Model(&models.Category{}).
		Where("(user_id = ? OR is_default = ?)", userID, true).
		Where("LOWER(name) = ? AND type = ?", strings.ToLower(name), categoryType)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateCategory
	}
	return nil
}

func validateCategoryType(categoryType models.CategoryType) error {
	switch categoryType {
	case models.CategoryTypeExpense, models.CategoryTypeIncome:
		return nil
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category type must be income or expense")
	}
}

// findVisibleCategory loads a category the user can reference: a default
// category or one of their own.
func findVisibleCategory(db *gorm.DB, userID, categoryID string) (*models.Category, error) {
	var category models.Category
	err := db.Where("id = ?", categoryID).
		Where("(user_id = ? OR is_default = ?)", userID, true).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}
