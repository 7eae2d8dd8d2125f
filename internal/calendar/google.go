package calendar

import (
	"context"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleSource lists events from one Google calendar. Authentication is
// whatever the client options carry, normally a credentials file.
type GoogleSource struct {
	svc        *gcal.Service
	calendarID string
}

func NewGoogleSource(ctx context.Context, calendarID string, opts ...option.ClientOption) (*GoogleSource, error) {
	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &GoogleSource{svc: svc, calendarID: calendarID}, nil
}

// NewGoogleSourceFromFile authenticates with a service account or
// authorized-user credentials file, read-only.
func NewGoogleSourceFromFile(ctx context.Context, calendarID, credentialsFile string) (*GoogleSource, error) {
	return NewGoogleSource(ctx, calendarID,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gcal.CalendarReadonlyScope),
	)
}

func (g *GoogleSource) Events(ctx context.Context, from, to time.Time) ([]Entry, error) {
	call := g.svc.Events.List(g.calendarID).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		MaxResults(250)

	var entries []Entry
	err := call.Pages(ctx, func(page *gcal.Events) error {
		for _, item := range page.Items {
			entries = append(entries, entryFromGoogle(item))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list events %s: %w", g.calendarID, err)
	}
	return entries, nil
}

func entryFromGoogle(item *gcal.Event) Entry {
	e := Entry{
		ID:     item.Id,
		Title:  item.Summary,
		Status: item.Status,
		Start:  parseInstant(item.Start),
		End:    parseInstant(item.End),
	}

	for _, a := range item.Attendees {
		if a == nil {
			continue
		}
		e.Attendees = append(e.Attendees, Attendee{
			Email:          a.Email,
			ResponseStatus: a.ResponseStatus,
			Self:           a.Self,
		})
	}

	if item.ConferenceData != nil {
		for _, ep := range item.ConferenceData.EntryPoints {
			if ep == nil {
				continue
			}
			if ep.Uri != "" {
				e.ConferenceURLs = append(e.ConferenceURLs, ep.Uri)
			}
			if ep.Label != "" {
				e.ConferenceURLs = append(e.ConferenceURLs, ep.Label)
			}
		}
	}
	if item.Location != "" {
		e.ConferenceURLs = append(e.ConferenceURLs, item.Location)
	}

	return e
}

// parseInstant returns nil for all-day events (date only) and for
// timestamps that do not parse.
func parseInstant(dt *gcal.EventDateTime) *time.Time {
	if dt == nil || dt.DateTime == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, dt.DateTime)
	if err != nil {
		return nil
	}
	return &t
}
