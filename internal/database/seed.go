package database

import (
	"log"

	"github.com/khetsetu/stubble-hub/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// defaultCropRates is the bootstrap price table. Rates are rupees per
// tonne; yield is tonnes of grain per acre, residue ratio converts grain
// yield to stubble tonnage.
var defaultCropRates = []models.CropRate{
	{CropType: "paddy", PricePerTonne: 2000, YieldPerAcre: 0.8, ResidueRatio: 1.5},
	{CropType: "wheat", PricePerTonne: 1800, YieldPerAcre: 0.7, ResidueRatio: 1.2},
	{CropType: "maize", PricePerTonne: 1500, YieldPerAcre: 0.9, ResidueRatio: 1.0},
	{CropType: "sugarcane", PricePerTonne: 1200, YieldPerAcre: 2.5, ResidueRatio: 0.3},
}

// SeedCropRates inserts the default price table, leaving existing rows
// untouched so hub-edited rates survive restarts.
func SeedCropRates(db *gorm.DB) error {
	for _, rate := range defaultCropRates {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "crop_type"}},
			DoNothing: true,
		}).Create(&rate).Error
		if err != nil {
			return err
		}
	}

	log.Println("Crop rate table seeded")
	return nil
}
