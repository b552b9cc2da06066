package models

import "time"

// GuestBooking records a short-stay reservation on a property.
// CheckOut is strictly after CheckIn.
type GuestBooking struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PropertyID uint      `gorm:"not null;index" json:"property_id"`
	Property   *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	GuestName  string    `gorm:"type:varchar(120);not null" json:"guest_name"`
	CheckIn    time.Time `gorm:"not null" json:"check_in"`
	CheckOut   time.Time `gorm:"not null" json:"check_out"`
	Payout     float64   `gorm:"not null" json:"payout"`
}
