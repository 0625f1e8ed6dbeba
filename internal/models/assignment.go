package models

import (
	"time"

	"gorm.io/gorm"
)

// AssignmentStatus is the hub-facing track. It reaches completed only
// through hub approval, never directly from the operator's self-report.
type AssignmentStatus string

const (
	AssignmentAssigned   AssignmentStatus = "assigned"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentCompleted  AssignmentStatus = "completed"
)

// OperatorStatus is the field-operator-facing track.
type OperatorStatus string

const (
	OperatorPending      OperatorStatus = "pending"
	OperatorAccepted     OperatorStatus = "accepted"
	OperatorRejected     OperatorStatus = "rejected"
	OperatorEnRoute      OperatorStatus = "en_route"
	OperatorArrived      OperatorStatus = "arrived"
	OperatorWorkStarted  OperatorStatus = "work_started"
	OperatorWorkComplete OperatorStatus = "work_complete"
	OperatorDelivered    OperatorStatus = "delivered"
)

// operatorNext is the single source of truth for the operator track.
// Transitions are linear; anything not listed here is rejected.
var operatorNext = map[OperatorStatus]OperatorStatus{
	OperatorPending:      OperatorAccepted,
	OperatorAccepted:     OperatorEnRoute,
	OperatorEnRoute:      OperatorArrived,
	OperatorArrived:      OperatorWorkStarted,
	OperatorWorkStarted:  OperatorWorkComplete,
	OperatorWorkComplete: OperatorDelivered,
}

// CanTransition reports whether from -> to is a legal operator-track step.
// rejected is reachable only from pending.
func CanTransition(from, to OperatorStatus) bool {
	if to == OperatorRejected {
		return from == OperatorPending
	}
	return operatorNext[from] == to
}

// Terminal operator states admit no further transitions.
func (s OperatorStatus) Terminal() bool {
	return s == OperatorRejected || s == OperatorDelivered
}

// Photos groups the completion-report photo references. Blobs live in
// external object storage; only opaque URLs are kept here.
type Photos struct {
	Before         []string `json:"before,omitempty"`
	After          []string `json:"after,omitempty"`
	FieldCondition []string `json:"field_condition,omitempty"`
}

// Assignment binds a booking to one baler and optionally one truck, and
// records the execution of the pickup. Exactly one non-terminal assignment
// may exist per booking.
type Assignment struct {
	gorm.Model
	BookingID      uint             `gorm:"not null;index" json:"booking_id"`
	Booking        Booking          `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
	BalerVehicleID uint             `gorm:"not null;index" json:"baler_vehicle_id"`
	BalerVehicle   Vehicle          `gorm:"foreignKey:BalerVehicleID" json:"baler_vehicle,omitempty"`
	TruckVehicleID *uint            `gorm:"index" json:"truck_vehicle_id,omitempty"`
	TruckVehicle   *Vehicle         `gorm:"foreignKey:TruckVehicleID" json:"truck_vehicle,omitempty"`
	HubID          uint             `gorm:"not null;index" json:"hub_id"`
	Status         AssignmentStatus `gorm:"type:varchar(20);default:'assigned';not null" json:"status"`
	OperatorStatus OperatorStatus   `gorm:"type:varchar(20);default:'pending';not null" json:"operator_status"`
	AssignedAt     time.Time        `json:"assigned_at"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty"`

	// Completion report, submitted by the operator, reconciled by the hub.
	ActualQuantityTonnes *float64 `json:"actual_quantity_tonnes,omitempty"`
	TimeRequiredMinutes  *int     `json:"time_required_minutes,omitempty"`
	MoistureContent      *float64 `json:"moisture_content,omitempty"`
	BaleCount            *int     `json:"bale_count,omitempty"`
	OperatorRemarks      *string  `json:"operator_remarks,omitempty"`
	Photos               *Photos  `gorm:"serializer:json" json:"photos,omitempty"`
	FarmerSignature      *string  `json:"farmer_signature,omitempty"`
	HubNotes             *string  `json:"hub_notes,omitempty"`
}

// Active assignments hold their vehicles busy. An assignment stops being
// active on operator rejection or hub approval; the delivered step happens
// after approval and never re-activates it.
func (a *Assignment) Active() bool {
	return a.Status != AssignmentCompleted && a.OperatorStatus != OperatorRejected
}

// VehicleIDs returns the baler and, if present, the truck.
func (a *Assignment) VehicleIDs() []uint {
	ids := []uint{a.BalerVehicleID}
	if a.TruckVehicleID != nil {
		ids = append(ids, *a.TruckVehicleID)
	}
	return ids
}
