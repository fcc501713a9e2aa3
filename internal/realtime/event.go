package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Tables that emit change events
const (
	TableDonations      = "donations"
	TablePickupRequests = "pickup_requests"
	TableUserReports    = "user_reports"
	TableMessages       = "messages"
)

// KnownTables lists every table a client may subscribe to
var KnownTables = []string{TableDonations, TablePickupRequests, TableUserReports, TableMessages}

type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// Event describes one row change. Clients replace their copy of the row
// identified by Table and ID with Record, or drop it for DELETE.
type Event struct {
	Table     string          `json:"table"`
	Type      EventType       `json:"type"`
	ID        string          `json:"id"`
	Record    json.RawMessage `json:"record,omitempty"`
	Audience  []string        `json:"audience,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEvent builds an event, encoding record once so it can cross process
// boundaries unchanged. DELETE events carry no record.
func NewEvent(table string, eventType EventType, id string, record interface{}) (Event, error) {
	ev := Event{
		Table:     table,
		Type:      eventType,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
	if record != nil && eventType != EventDelete {
		raw, err := json.Marshal(record)
		if err != nil {
			return Event{}, fmt.Errorf("encode %s record: %w", table, err)
		}
		ev.Record = raw
	}
	return ev, nil
}

// To restricts delivery to the given users. Admins always receive events.
func (e Event) To(userIDs ...string) Event {
	e.Audience = append([]string(nil), userIDs...)
	return e
}

// Publisher delivers change events to subscribers
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop discards events
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
