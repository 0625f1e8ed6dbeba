package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingScheduled  BookingStatus = "scheduled"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

// Booking is a farmer's request to have stubble collected from one plot.
// It is never deleted; cancellation is a terminal status.
type Booking struct {
	gorm.Model
	Reference         string        `gorm:"uniqueIndex;not null" json:"reference"`
	FarmerID          uint          `gorm:"not null;index" json:"farmer_id"`
	FarmPlotID        uint          `gorm:"not null" json:"farm_plot_id"`
	CropType          string        `gorm:"not null" json:"crop_type"`
	AreaAcres         float64       `gorm:"not null" json:"area_acres"`
	EstimatedTonnes   float64       `gorm:"not null" json:"estimated_tonnes"`
	EstimatedPrice    float64       `gorm:"not null" json:"estimated_price"`
	HarvestEndDate    time.Time     `json:"harvest_end_date"`
	PickupWindowStart time.Time     `json:"pickup_window_start"`
	PickupWindowEnd   time.Time     `json:"pickup_window_end"`
	Status            BookingStatus `gorm:"type:varchar(20);default:'pending';not null;index" json:"status"`
	ActualTonnes      *float64      `json:"actual_tonnes,omitempty"`
	FinalPrice        *float64      `json:"final_price,omitempty"`
	// PayoutID is set when the booking is covered by a committed payout.
	// It is the persisted guard against paying a booking twice.
	PayoutID *uint `gorm:"index" json:"payout_id,omitempty"`
}

// Assignable reports whether a dispatcher may still create an assignment
// for this booking.
func (b *Booking) Assignable() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// Cancellable is true only before any equipment has been assigned.
func (b *Booking) Cancellable() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}
