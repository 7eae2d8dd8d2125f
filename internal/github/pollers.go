package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// PullRequestList names one of the pull request lists shown on the pull
// requests page.
type PullRequestList int

const (
	ListOpen PullRequestList = iota
	ListClosed
	ListReview
)

// PullRequestLists is the fetch and display order.
var PullRequestLists = []PullRequestList{ListOpen, ListClosed, ListReview}

func (l PullRequestList) String() string {
	switch l {
	case ListOpen:
		return "open"
	case ListClosed:
		return "closed"
	case ListReview:
		return "review"
	default:
		return "unknown"
	}
}

// Query returns the search query for l on behalf of user.
func (l PullRequestList) Query(user string) string {
	switch l {
	case ListClosed:
		return fmt.Sprintf("is:pr author:%s is:closed", user)
	case ListReview:
		return fmt.Sprintf("is:pr review-requested:%s is:open", user)
	default:
		return fmt.Sprintf("is:pr author:%s is:open", user)
	}
}

type NotificationLister interface {
	ListNotifications(ctx context.Context) ([]Notification, error)
}

type NotificationPublisher interface {
	SetNotifications(items []Notification)
}

type NotificationPoller struct {
	src      NotificationLister
	pub      NotificationPublisher
	interval time.Duration
	logger   *slog.Logger
}

func NewNotificationPoller(src NotificationLister, pub NotificationPublisher, interval time.Duration, logger *slog.Logger) *NotificationPoller {
	return &NotificationPoller{src: src, pub: pub, interval: interval, logger: logger}
}

func (p *NotificationPoller) Name() string            { return "notifications" }
func (p *NotificationPoller) Interval() time.Duration { return p.interval }

func (p *NotificationPoller) Poll(ctx context.Context) error {
	items, err := p.src.ListNotifications(ctx)
	if err != nil {
		return err
	}
	p.pub.SetNotifications(items)
	p.logger.Debug("published notifications", "count", len(items))
	return nil
}

type PullRequestSearcher interface {
	SearchPullRequests(ctx context.Context, query string) ([]PullRequest, error)
}

type PullRequestPublisher interface {
	SetPullRequests(list PullRequestList, prs []PullRequest)
}

// PullRequestPoller refreshes every list in turn. A failed query leaves
// that list untouched and does not stop the remaining ones.
type PullRequestPoller struct {
	src      PullRequestSearcher
	pub      PullRequestPublisher
	user     string
	interval time.Duration
	logger   *slog.Logger
}

func NewPullRequestPoller(src PullRequestSearcher, pub PullRequestPublisher, user string, interval time.Duration, logger *slog.Logger) *PullRequestPoller {
	return &PullRequestPoller{src: src, pub: pub, user: user, interval: interval, logger: logger}
}

func (p *PullRequestPoller) Name() string            { return "pulls" }
func (p *PullRequestPoller) Interval() time.Duration { return p.interval }

func (p *PullRequestPoller) Poll(ctx context.Context) error {
	var errs []error
	for _, list := range PullRequestLists {
		prs, err := p.src.SearchPullRequests(ctx, list.Query(p.user))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s pull requests: %w", list, err))
			continue
		}
		p.pub.SetPullRequests(list, prs)
		p.logger.Debug("published pull requests", "list", list, "count", len(prs))
	}
	return errors.Join(errs...)
}
