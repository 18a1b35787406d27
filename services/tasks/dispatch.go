package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TypeTicketDispatch = "ticket:dispatch"

// TicketDispatchPayload carries the minimum a dispatcher needs to forward a
// support ticket.
type TicketDispatchPayload struct {
	TicketID string `json:"ticketId"`
	Email    string `json:"email"`
	Subject  string `json:"subject"`
}

func NewTicketDispatchTask(payload TicketDispatchPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeTicketDispatch, b)
	opts := []asynq.Option{asynq.MaxRetry(3)}

	return task, opts, nil
}
