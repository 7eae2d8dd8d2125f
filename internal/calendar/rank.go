package calendar

import (
	"fmt"
	"time"
)

const (
	statusCancelled = "cancelled"

	responseAccepted    = "accepted"
	responseDeclined    = "declined"
	responseTentative   = "tentative"
	responseNeedsAction = "needsAction"

	acceptedBonus   = 5.0
	unansweredMalus = 10.0
)

// Rank picks the event to surface at now.
//
// An entry is dropped when it has no start or end instant, is cancelled, was
// declined by the calendar owner, or is more than three quarters over.
// Among the remaining entries the earliest start wins. Entries starting at
// the same instant are ordered by score (shorter and accepted meetings score
// higher); on a full tie the entry listed first wins.
func Rank(entries []Entry, now time.Time) (Event, bool) {
	var (
		best      *Entry
		bestScore float64
	)

	for i := range entries {
		e := &entries[i]
		s, ok := score(e, now)
		if !ok {
			continue
		}
		if best != nil {
			if e.Start.After(*best.Start) {
				continue
			}
			if e.Start.Equal(*best.Start) && s <= bestScore {
				continue
			}
		}
		best, bestScore = e, s
	}

	if best == nil {
		return Event{}, false
	}

	loc := now.Location()
	return Event{
		Title:       best.Title,
		DisplayTime: fmt.Sprintf("%s - %s", best.Start.In(loc).Format("3:04pm"), best.End.In(loc).Format("3:04pm")),
		Start:       *best.Start,
		JoinURL:     joinURL(best.ConferenceURLs),
	}, true
}

// score returns the ranking score of e, or false when e must not be shown.
func score(e *Entry, now time.Time) (float64, bool) {
	if e.Start == nil || e.End == nil || !e.End.After(*e.Start) {
		return 0, false
	}
	if e.Status == statusCancelled {
		return 0, false
	}

	length := e.End.Sub(*e.Start)
	elapsed := now.Sub(*e.Start)
	// elapsed/length > 3/4, kept in integer nanoseconds to make 0.75 exact.
	if 4*elapsed > 3*length {
		return 0, false
	}

	s := -length.Minutes() / 30
	for _, a := range e.Attendees {
		if !a.Self {
			continue
		}
		switch a.ResponseStatus {
		case responseAccepted:
			s += acceptedBonus
		case responseDeclined:
			return 0, false
		case responseTentative, responseNeedsAction:
			s -= unansweredMalus
		}
	}
	return s, true
}

func joinURL(urls []string) string {
	for _, u := range urls {
		if q, ok := QuickJoinURL(u); ok {
			return q
		}
	}
	return ""
}
