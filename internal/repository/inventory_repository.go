package repository

import (
	"errors"

	"github.com/khetsetu/stubble-hub/internal/models"
	"gorm.io/gorm"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) Create(tx *gorm.DB, entry *models.InventoryEntry) error {
	return tx.Create(entry).Error
}

func (r *InventoryRepository) FindByHub(hubID uint) ([]models.InventoryEntry, error) {
	var entries []models.InventoryEntry
	err := r.db.Where("hub_id = ?", hubID).Order("created_at DESC").Find(&entries).Error
	return entries, err
}

// FindBySourceAssignment returns nil when no entry references the
// assignment yet.
func (r *InventoryRepository) FindBySourceAssignment(tx *gorm.DB, assignmentID uint) (*models.InventoryEntry, error) {
	var entry models.InventoryEntry
	err := tx.Where("source_assignment_id = ?", assignmentID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// CurrentStock computes hub stock as inbound minus outbound. It is never
// stored, so it cannot drift from the entries.
func (r *InventoryRepository) CurrentStock(hubID uint) (float64, error) {
	var stock float64
	err := r.db.Model(&models.InventoryEntry{}).
		Select("COALESCE(SUM(CASE WHEN direction = ? THEN quantity_tonnes ELSE -quantity_tonnes END), 0)", models.InventoryInbound).
		Where("hub_id = ?", hubID).
		Scan(&stock).Error
	return stock, err
}
