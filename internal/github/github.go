package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v58/github"
)

type Client struct {
	api    *gh.Client
	user   string
	logger *slog.Logger
}

// NewClient returns a client authenticated with token. apiURL overrides the
// REST endpoint (GitHub Enterprise, tests); empty means api.github.com.
func NewClient(token, user, apiURL string, logger *slog.Logger) (*Client, error) {
	api := gh.NewClient(nil).WithAuthToken(token)
	if apiURL != "" {
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		u, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("parse api url %q: %w", apiURL, err)
		}
		api.BaseURL = u
	}
	return &Client{api: api, user: user, logger: logger}, nil
}

type Notification struct {
	Title      string
	Action     string // notification reason, e.g. "comment", "review_requested"
	Repository string
	UpdatedAt  time.Time
	URL        string
}

type PullRequest struct {
	Title     string
	URL       string
	UpdatedAt time.Time
	RepoName  string
}

// Reasons that never reach the console.
var droppedReasons = map[string]bool{
	"state_change": true,
	"team_mention": true,
	"assign":       true,
}

// ListNotifications returns participating notifications, newest first,
// minus dropped reasons and items without a web URL.
func (c *Client) ListNotifications(ctx context.Context) ([]Notification, error) {
	opts := &gh.NotificationListOptions{
		Participating: true,
		ListOptions:   gh.ListOptions{PerPage: 100},
	}

	c.logger.Debug("github", "call", "notifications")
	items, _, err := c.api.Activity.ListNotifications(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	out := make([]Notification, 0, len(items))
	for _, item := range items {
		if n, ok := convertNotification(item); ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func convertNotification(n *gh.Notification) (Notification, bool) {
	reason := n.GetReason()
	if droppedReasons[reason] {
		return Notification{}, false
	}
	if n.UpdatedAt == nil {
		return Notification{}, false
	}
	web := WebURL(n.GetSubject().GetURL())
	if web == "" {
		return Notification{}, false
	}
	return Notification{
		Title:      n.GetSubject().GetTitle(),
		Action:     reason,
		Repository: n.GetRepository().GetName(),
		UpdatedAt:  n.GetUpdatedAt().Time,
		URL:        web,
	}, true
}

// WebURL turns a REST subject URL into the page a browser should open:
// https://api.github.com/repos/o/r/pulls/7 becomes https://github.com/o/r/pull/7.
func WebURL(apiURL string) string {
	if apiURL == "" {
		return ""
	}
	u := strings.Replace(apiURL, "api.github.com/repos", "github.com", 1)
	u = strings.Replace(u, "/api/v3/repos/", "/", 1)
	return strings.Replace(u, "/pulls/", "/pull/", 1)
}

// SearchPullRequests runs an issue search query restricted to pull
// requests, most recently updated first.
func (c *Client) SearchPullRequests(ctx context.Context, query string) ([]PullRequest, error) {
	opts := &gh.SearchOptions{
		Sort:        "updated",
		Order:       "desc",
		ListOptions: gh.ListOptions{PerPage: 50},
	}

	c.logger.Debug("github", "call", "search", "q", query)
	res, _, err := c.api.Search.Issues(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	out := make([]PullRequest, 0, len(res.Issues))
	for _, is := range res.Issues {
		if is.GetHTMLURL() == "" {
			continue
		}
		out = append(out, PullRequest{
			Title:     is.GetTitle(),
			URL:       is.GetHTMLURL(),
			UpdatedAt: is.GetUpdatedAt().Time,
			RepoName:  RepoName(is.GetHTMLURL()),
		})
	}
	return out, nil
}

// RepoName returns the second path segment of a pull request URL
// (https://github.com/owner/repo/pull/1 → "repo").
func RepoName(webURL string) string {
	u, err := url.Parse(webURL)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// User is the login pull request queries are built for.
func (c *Client) User() string {
	return c.user
}
