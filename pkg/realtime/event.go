// Package realtime fans change events out to in-process subscribers, either
// from a local channel or from PostgreSQL LISTEN/NOTIFY when several API
// instances share a database.
package realtime

import (
	"context"
	"errors"
)

// Topics published by the services.
const (
	TopicAttendance  = "attendance"
	TopicEnrollments = "enrollments"
	// TopicAll is delivered to every subscriber, e.g. after a broker reconnect
	// where notifications may have been lost.
	TopicAll = "*"
)

// Event describes a change. Subscribers reload their view instead of
// applying deltas, so the event only needs to say where something changed.
type Event struct {
	Topic    string `json:"topic"`
	ClassID  string `json:"class_id,omitempty"`
	EntityID string `json:"entity_id,omitempty"`
	Action   string `json:"action,omitempty"`
}

// Filter selects the events a subscriber receives.
type Filter struct {
	Topic   string
	ClassID string
}

// Matches reports whether evt is relevant for the filter. An empty ClassID
// matches every class.
func (f Filter) Matches(evt Event) bool {
	if evt.Topic == TopicAll {
		return true
	}
	if f.Topic != "" && f.Topic != evt.Topic {
		return false
	}
	return f.ClassID == "" || evt.ClassID == "" || f.ClassID == evt.ClassID
}

// ErrBrokerFull is returned when a local broker cannot buffer more events.
var ErrBrokerFull = errors.New("realtime: broker buffer full")

// Broker transports events between publishers and the hub.
type Broker interface {
	Publish(ctx context.Context, evt Event) error
	Events() <-chan Event
	Close() error
}
