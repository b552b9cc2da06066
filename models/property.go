package models

// Property is the root of ownership for tenants, maintenance requests
// and guest bookings. Deleting a property cascades to all of them.
type Property struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(120);not null" json:"name"`
	Category string `gorm:"type:varchar(40);not null" json:"category"` // e.g. "Airbnb", "Long-term"
	Location string `gorm:"type:varchar(120);not null" json:"location"`
	Units    int    `gorm:"not null;default:1" json:"units"`

	Tenants             []Tenant             `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"tenants,omitempty"`
	MaintenanceRequests []MaintenanceRequest `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"maintenance_requests,omitempty"`
	GuestBookings       []GuestBooking       `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"guest_bookings,omitempty"`
}
