package models

import (
	"gorm.io/gorm"
)

type PayoutStatus string

const (
	PayoutPending   PayoutStatus = "pending"
	PayoutCompleted PayoutStatus = "completed"
)

// Payout is a computed disbursement to a farmer covering one or more
// completed bookings. Covered bookings point back via Booking.PayoutID,
// which is what prevents the same booking from entering two payouts.
type Payout struct {
	gorm.Model
	Reference           string       `gorm:"uniqueIndex;not null" json:"reference"`
	FarmerID            uint         `gorm:"not null;index" json:"farmer_id"`
	TotalQuantityTonnes float64      `gorm:"not null" json:"total_quantity_tonnes"`
	BaseAmount          float64      `gorm:"not null" json:"base_amount"`
	Subsidy             float64      `gorm:"not null" json:"subsidy"`
	BalingCost          float64      `gorm:"not null" json:"baling_cost"`
	LogisticsDeduction  float64      `gorm:"not null" json:"logistics_deduction"`
	NetPayable          float64      `gorm:"not null" json:"net_payable"`
	Status              PayoutStatus `gorm:"type:varchar(20);default:'pending';not null" json:"status"`
	Bookings            []Booking    `gorm:"foreignKey:PayoutID" json:"bookings,omitempty"`
}
