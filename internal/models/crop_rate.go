package models

import (
	"gorm.io/gorm"
)

// CropRate is the per-crop price table consumed read-only by booking
// estimation and the completion reconciler's final price computation.
// Rates are rupees per tonne.
type CropRate struct {
	gorm.Model
	CropType      string  `gorm:"uniqueIndex;not null" json:"crop_type"`
	PricePerTonne float64 `gorm:"not null" json:"price_per_tonne"`
	YieldPerAcre  float64 `gorm:"not null" json:"yield_per_acre"`
	ResidueRatio  float64 `gorm:"not null" json:"residue_ratio"`
}

// EstimateTonnes is the stateless area -> tonnage estimate used when a
// booking is created.
func (r *CropRate) EstimateTonnes(areaAcres float64) float64 {
	return areaAcres * r.YieldPerAcre * r.ResidueRatio
}
