package models

import "time"

// ComplianceStatus is the closed set of compliance task states. No
// transition order is enforced; callers treat "done" as terminal.
type ComplianceStatus string

const (
	CompliancePending ComplianceStatus = "pending"
	ComplianceDone    ComplianceStatus = "done"
	ComplianceOverdue ComplianceStatus = "overdue"
)

func (s ComplianceStatus) Valid() bool {
	switch s {
	case CompliancePending, ComplianceDone, ComplianceOverdue:
		return true
	}
	return false
}

// ComplianceTask is a free-standing worklist item (filings, permits,
// inspections).
type ComplianceTask struct {
	ID       uint             `gorm:"primaryKey" json:"id"`
	Title    string           `gorm:"type:varchar(160);not null" json:"title"`
	Category string           `gorm:"type:varchar(40);not null" json:"category"`
	DueDate  time.Time        `gorm:"not null" json:"due_date"`
	Status   ComplianceStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
}
