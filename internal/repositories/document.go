package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cv-builder/internal/models"
)

type DocumentRepository interface {
	Create(document *models.Document) error
	FindByID(id, userID uuid.UUID) (*models.Document, error)
	Delete(id, userID uuid.UUID) error
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Create implements DocumentRepository.
func (d *documentRepository) Create(document *models.Document) error {
	if err := d.db.Create(&document).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

// FindByID implements DocumentRepository.
func (d *documentRepository) FindByID(id, userID uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := d.db.Where("id = ? AND user_id = ?", id, userID).First(&doc).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("document not found: %w", err)
		}

		return nil, fmt.Errorf("failed to find document: %w", err)
	}

	return &doc, nil
}

// Delete implements DocumentRepository.
func (d *documentRepository) Delete(id, userID uuid.UUID) error {
	result := d.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Document{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete document: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("document not found")
	}
	return nil
}
