package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cv-builder/internal/models"
)

type ThemeRepository interface {
	Create(theme *models.Theme) error
	FindByID(id, userID uuid.UUID) (*models.Theme, error)
	FindByUser(userID uuid.UUID) ([]models.Theme, error)
	Delete(id, userID uuid.UUID) error
}

type themeRepository struct {
	db *gorm.DB
}

func NewThemeRepository(db *gorm.DB) ThemeRepository {
	return &themeRepository{db: db}
}

func (r *themeRepository) Create(theme *models.Theme) error {
	if err := r.db.Create(theme).Error; err != nil {
		return fmt.Errorf("failed to create theme: %w", err)
	}
	return nil
}

func (r *themeRepository) FindByID(id, userID uuid.UUID) (*models.Theme, error) {
	var theme models.Theme
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&theme).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("theme not found: %w", err)
		}
		return nil, fmt.Errorf("failed to find theme: %w", err)
	}
	return &theme, nil
}

func (r *themeRepository) FindByUser(userID uuid.UUID) ([]models.Theme, error) {
	var themes []models.Theme
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&themes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list themes: %w", err)
	}
	return themes, nil
}

func (r *themeRepository) Delete(id, userID uuid.UUID) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Theme{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete theme: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("theme not found: %w", gorm.ErrRecordNotFound)
	}
	return nil
}
