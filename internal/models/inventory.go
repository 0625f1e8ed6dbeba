package models

import (
	"gorm.io/gorm"
)

type InventoryDirection string

const (
	InventoryInbound  InventoryDirection = "inbound"
	InventoryOutbound InventoryDirection = "outbound"
)

// InventoryEntry is one tonnage movement at a hub. Inbound entries sourced
// from a tracked pickup carry SourceAssignmentID; the unique index makes a
// retried RecordInbound unable to double-count stock.
type InventoryEntry struct {
	gorm.Model
	HubID              uint               `gorm:"not null;index" json:"hub_id"`
	Direction          InventoryDirection `gorm:"type:varchar(10);not null" json:"direction"`
	QuantityTonnes     float64            `gorm:"not null" json:"quantity_tonnes"`
	SourceAssignmentID *uint              `gorm:"uniqueIndex" json:"source_assignment_id,omitempty"`
	CounterpartyName   string             `gorm:"not null" json:"counterparty_name"`
	VehicleNumber      *string            `json:"vehicle_number,omitempty"`
	Notes              string             `json:"notes"`
}
