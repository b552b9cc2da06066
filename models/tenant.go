package models

import "time"

// Tenant represents a lease holder on a single property.
type Tenant struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	PropertyID  uint       `gorm:"not null;index" json:"property_id"`
	Property    *Property  `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	FullName    string     `gorm:"type:varchar(120);not null" json:"full_name"`
	Contact     string     `gorm:"type:varchar(80);not null" json:"contact"`
	LeaseStart  time.Time  `gorm:"not null" json:"lease_start"`
	LeaseEnd    *time.Time `json:"lease_end,omitempty"`
	MonthlyRent float64    `gorm:"not null" json:"monthly_rent"`
	IsAirbnb    bool       `gorm:"not null;default:false" json:"is_airbnb"`

	RentInvoices []RentInvoice `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE" json:"rent_invoices,omitempty"`
}
