package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// Actions carried by an Event.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Resource names carried by an Event.
const (
	ResourceAccount     = "account"
	ResourceCategory    = "category"
	ResourceTransaction = "transaction"
	ResourceSettings    = "settings"
	ResourceUser        = "user"
)

// Event announces a committed change. Consumers fetch current state from
// the store; the event only says what changed.
type Event struct {
	Resource  string    `json:"resource"`
	Action    string    `json:"action"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEvent(resource, action, id string) *Event {
	return &Event{
		Resource:  resource,
		Action:    action,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON decodes and checks an event body.
func EventFromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if e.Resource == "" || e.ID == "" {
		return nil, errors.New("event missing resource or id")
	}
	switch e.Action {
	case ActionCreated, ActionUpdated, ActionDeleted:
	default:
		return nil, errors.New("event has unknown action " + e.Action)
	}
	return &e, nil
}
