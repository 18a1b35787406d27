package models

import "time"

// Support ticket lifecycle states.
const (
	TicketStatusOpen       = "OPEN"
	TicketStatusDispatched = "DISPATCHED"
)

// SupportTicket is a help request submitted from the support form.
type SupportTicket struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Subject   string    `bson:"subject" json:"subject"`
	Message   string    `bson:"message" json:"message"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
