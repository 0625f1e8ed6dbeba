package models

import (
	"gorm.io/gorm"
)

type VehicleType string

const (
	VehicleBaler VehicleType = "baler"
	VehicleTruck VehicleType = "truck"
	VehicleBoth  VehicleType = "both"
)

type VehicleAvailability string

const (
	VehicleAvailable VehicleAvailability = "available"
	VehicleBusy      VehicleAvailability = "busy"
)

// Vehicle is a piece of hub equipment together with its operator.
// Availability must be busy iff the vehicle is referenced by an active
// assignment; the dispatch and completion services maintain that in the
// same transaction as the assignment write.
type Vehicle struct {
	gorm.Model
	HubID               uint                `gorm:"not null;index" json:"hub_id"`
	RegistrationNo      string              `gorm:"uniqueIndex;not null" json:"registration_no"`
	Type                VehicleType         `gorm:"type:varchar(10);not null" json:"type"`
	OperatorID          uint                `gorm:"not null;index" json:"operator_id"`
	Availability        VehicleAvailability `gorm:"type:varchar(10);default:'available';not null" json:"availability"`
	TimePerTonneMinutes float64             `json:"time_per_tonne_minutes"`
	CapacityTonnes      float64             `json:"capacity_tonnes"`
}

func (v *Vehicle) CanBale() bool {
	return v.Type == VehicleBaler || v.Type == VehicleBoth
}

func (v *Vehicle) CanHaul() bool {
	return v.Type == VehicleTruck || v.Type == VehicleBoth
}
