package models

// Registry lists every persisted model, parents before children, for
// schema initialization.
var Registry = []interface{}{
	&Property{},
	&Tenant{},
	&RentInvoice{},
	&MaintenanceRequest{},
	&ScheduledMessage{},
	&ComplianceTask{},
	&GuestBooking{},
}
