package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "spendpal/internal/errors"
	"spendpal/internal/models"
	"spendpal/internal/pagination"
)

// wishlistService handles wishlist business logic.
type wishlistService struct {
	db *gorm.DB
}

// NewWishlistService creates a new WishlistServicer.
func NewWishlistService(db *gorm.DB) WishlistServicer {
	return &wishlistService{db: db}
}

// AddItem creates a new wishlist item.
func (s *wishlistService) AddItem(userID string, amount int64, category models.ExpenseCategory, description string) (*models.WishlistItem, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if !models.IsValidCategory(category) {
		return nil, apperrors.ErrInvalidCategory
	}
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}

	item := &models.WishlistItem{
		UserID:      userID,
		Amount:      amount,
		Category:    category,
		Description: description,
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return item, nil
}

// GetItems returns a paginated list of the user's wishlist items.
func (s *wishlistService) GetItems(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.WishlistItem], error) {
	page.Defaults()

	base := s.db.Model(&models.WishlistItem{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var items []models.WishlistItem
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(items, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// DeleteItem soft-deletes a wishlist item.
func (s *wishlistService) DeleteItem(userID, itemID string) error {
	item, err := s.getItemByID(userID, itemID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(item).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Convert turns a wishlist item into an expense dated now, consuming the
// item. Both steps happen in one transaction.
func (s *wishlistService) Convert(userID, itemID string, now time.Time) (*models.Expense, error) {
	item, err := s.getItemByID(userID, itemID)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		UserID:      userID,
		Amount:      item.Amount,
		Category:    item.Category,
		Description: item.Description,
		OccurredAt:  now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(expense).Error; err != nil {
			return err
		}
		return tx.Delete(item).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

func (s *wishlistService) getItemByID(userID, itemID string) (*models.WishlistItem, error) {
	var item models.WishlistItem
	if err := s.db.Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWishlistItemNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &item, nil
}
