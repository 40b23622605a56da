package dispatch

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskOutboxDue asks the worker to deliver one outbox row.
const TaskOutboxDue = "notification.outbox.due"

// OutboxDuePayload identifies the outbox row to deliver.
type OutboxDuePayload struct {
	OutboxID string `json:"outboxId"`
}

// NewOutboxDueTask builds the asynq task for one outbox row.
func NewOutboxDueTask(payload OutboxDuePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOutboxDue, data), nil
}

// ParseOutboxDuePayload decodes the task payload.
func ParseOutboxDuePayload(task *asynq.Task) (OutboxDuePayload, error) {
	var payload OutboxDuePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return OutboxDuePayload{}, err
	}
	return payload, nil
}
