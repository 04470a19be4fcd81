package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cv-builder/internal/models"
)

var ErrNotFound = gorm.ErrRecordNotFound

// CVRepository persists CV rows with single-row semantics. Concurrent edits
// to the same row race and the last write wins; no version check is applied.
type CVRepository interface {
	Create(cv *models.CV) error
	FindByID(id, userID uuid.UUID) (*models.CV, error)
	FindByUser(userID uuid.UUID) ([]models.CV, error)
	Update(cv *models.CV) error
	Delete(id, userID uuid.UUID) error
}

type cvRepository struct {
	db *gorm.DB
}

func NewCVRepository(db *gorm.DB) CVRepository {
	return &cvRepository{db: db}
}

func (r *cvRepository) Create(cv *models.CV) error {
	if err := r.db.Create(cv).Error; err != nil {
		return fmt.Errorf("failed to create cv: %w", err)
	}
	return nil
}

func (r *cvRepository) FindByID(id, userID uuid.UUID) (*models.CV, error) {
	var cv models.CV
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&cv).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("cv not found: %w", err)
		}
		return nil, fmt.Errorf("failed to find cv: %w", err)
	}
	return &cv, nil
}

func (r *cvRepository) FindByUser(userID uuid.UUID) ([]models.CV, error) {
	var cvs []models.CV
	err := r.db.
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&cvs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cvs: %w", err)
	}
	return cvs, nil
}

// Update requires an explicit id; a save without one goes through Create.
// The row is matched on id AND owner so one user can never overwrite
// another's record.
func (r *cvRepository) Update(cv *models.CV) error {
	result := r.db.Model(&models.CV{}).
		Where("id = ? AND user_id = ?", cv.ID, cv.UserID).
		Updates(map[string]interface{}{
			"title":      cv.Title,
			"data":       cv.Data,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update cv: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("cv not found: %w", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *cvRepository) Delete(id, userID uuid.UUID) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.CV{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete cv: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("cv not found: %w", gorm.ErrRecordNotFound)
	}
	return nil
}
