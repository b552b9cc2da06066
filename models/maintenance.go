package models

import "time"

// MaintenanceStatus is the closed set of maintenance request states.
type MaintenanceStatus string

const (
	MaintenanceOpen       MaintenanceStatus = "open"
	MaintenanceInProgress MaintenanceStatus = "in-progress"
	MaintenanceClosed     MaintenanceStatus = "closed"
)

func (s MaintenanceStatus) Valid() bool {
	switch s {
	case MaintenanceOpen, MaintenanceInProgress, MaintenanceClosed:
		return true
	}
	return false
}

// MaintenanceRequest tracks repair work on a property. UpdatedAt is
// refreshed on every status or vendor change.
type MaintenanceRequest struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	PropertyID  uint              `gorm:"not null;index" json:"property_id"`
	Property    *Property         `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Description string            `gorm:"type:varchar(255);not null" json:"description"`
	Status      MaintenanceStatus `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	Vendor      string            `gorm:"type:varchar(120)" json:"vendor,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
