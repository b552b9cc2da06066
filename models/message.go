package models

import "time"

// MessageStatus is the closed set of scheduled message states. Sent
// and failed are terminal.
type MessageStatus string

const (
	MessageScheduled MessageStatus = "scheduled"
	MessageSent      MessageStatus = "sent"
	MessageFailed    MessageStatus = "failed"
)

func (s MessageStatus) Valid() bool {
	switch s {
	case MessageScheduled, MessageSent, MessageFailed:
		return true
	}
	return false
}

// Terminal reports whether no further status change is allowed.
func (s MessageStatus) Terminal() bool {
	return s == MessageSent || s == MessageFailed
}

// ScheduledMessage is a free-standing outbound reminder. Delivery is
// owned by an external messaging collaborator; this record only tracks
// the dispatch outcome.
type ScheduledMessage struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Recipient string        `gorm:"type:varchar(80);not null" json:"recipient"`
	Channel   string        `gorm:"type:varchar(20);not null" json:"channel"` // e.g. "sms", "whatsapp"
	Template  string        `gorm:"type:varchar(120);not null" json:"template"`
	SendAt    time.Time     `gorm:"not null" json:"send_at"`
	Status    MessageStatus `gorm:"type:varchar(20);not null;default:'scheduled'" json:"status"`
}
