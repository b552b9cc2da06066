package models

import "time"

// InvoiceStatus is the closed set of rent invoice states. Aggregation
// only distinguishes paid from everything else; "overdue" is kept for
// callers that persist their own classification.
type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "pending"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoicePending, InvoicePaid, InvoiceOverdue:
		return true
	}
	return false
}

// RentInvoice bills a tenant for one period. PaidDate is non-nil
// exactly when Status is InvoicePaid.
type RentInvoice struct {
	ID       uint          `gorm:"primaryKey" json:"id"`
	TenantID uint          `gorm:"not null;index" json:"tenant_id"`
	Tenant   *Tenant       `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Amount   float64       `gorm:"not null" json:"amount"`
	DueDate  time.Time     `gorm:"not null" json:"due_date"`
	Status   InvoiceStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaidDate *time.Time    `json:"paid_date,omitempty"`
}
