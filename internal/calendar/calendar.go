// Package calendar picks the single calendar event the console surfaces and
// keeps it fresh from a calendar provider.
package calendar

import (
	"context"
	"time"
)

// Event is the event shown on the home page. It is replaced wholesale on
// every poll cycle.
type Event struct {
	Title       string
	DisplayTime string
	Start       time.Time
	// JoinURL is the device-native quick-join link, empty when the event has
	// no recognised conferencing URL.
	JoinURL string
}

// Entry is one provider event before ranking. Start and End are nil when
// the provider gives no concrete instant (all-day events, malformed data).
type Entry struct {
	ID             string
	Title          string
	Status         string
	Start          *time.Time
	End            *time.Time
	Attendees      []Attendee
	ConferenceURLs []string
}

type Attendee struct {
	Email          string
	ResponseStatus string
	Self           bool
}

// Source lists the events overlapping [from, to).
type Source interface {
	Events(ctx context.Context, from, to time.Time) ([]Entry, error)
}
