// Package notify delivers fire-and-forget events to connected users over
// websockets, optionally fanned out across instances through Redis.
package notify

import (
	"context"
	"time"
)

type EventType string

const (
	EventNewJoinRequest      EventType = "newJoinRequest"
	EventJoinRequestResolved EventType = "joinRequestResolved"
	EventRaceUpdated         EventType = "raceUpdated"
)

// Event is the frame written to a client. Data is any JSON-encodable value.
type Event struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data"`
	At   time.Time   `json:"at"`
}

// NewEvent stamps an event with the current time.
func NewEvent(t EventType, data interface{}) Event {
	return Event{Type: t, Data: data, At: time.Now().UTC()}
}

// Notifier sends an event to one recipient. Implementations never block on,
// or report, an unreachable recipient.
type Notifier interface {
	Notify(ctx context.Context, recipientID uint64, event Event)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Notify(context.Context, uint64, Event) {}

// JoinRequestPayload is the data of join request events.
type JoinRequestPayload struct {
	RequestID uint64    `json:"requestId"`
	GroupID   uint64    `json:"groupId"`
	GroupName string    `json:"groupName"`
	UserID    uint64    `json:"userId"`
	Username  string    `json:"username"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// RaceUpdatedPayload tells group members that progress changed.
type RaceUpdatedPayload struct {
	GroupID uint64 `json:"groupId"`
	UserID  uint64 `json:"userId"`
	TaskID  uint64 `json:"taskId"`
}
