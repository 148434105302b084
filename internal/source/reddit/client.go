package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"pmlbot/internal/domain"
)

// Config holds Reddit client configuration.
type Config struct {
	BaseURL        string
	UserAgent      string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Client is a minimal Reddit API client covering what the bot needs: session
// login, a user's recent comments, submission lookup by fullname and post
// body replacement.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	userAgent      string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger

	modhash string
}

// New creates a new Reddit client.
func New(cfg Config, logger *slog.Logger) *Client {
	jar, _ := cookiejar.New(nil)

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
		},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:      cfg.UserAgent,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("source", "reddit"),
	}
}

// Login authenticates the bot account. The session cookie lands in the
// client's cookie jar; the modhash is kept for write calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{
		"api_type": {"json"},
		"user":     {username},
		"passwd":   {password},
	}

	var resp loginResponse
	err := c.postForm(ctx, "/api/login", form, &resp)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if len(resp.JSON.Errors) > 0 {
		return fmt.Errorf("login rejected: %v", resp.JSON.Errors[0])
	}
	if resp.JSON.Data.Modhash == "" {
		return fmt.Errorf("login response missing modhash")
	}

	c.modhash = resp.JSON.Data.Modhash
	c.logger.Info("logged in", "username", username)
	return nil
}

// UserComments fetches up to limit of the user's most recent comments.
func (c *Client) UserComments(ctx context.Context, user string, limit int) ([]domain.Comment, error) {
	path := fmt.Sprintf("/user/%s/comments.json?limit=%d", url.PathEscape(user), limit)

	var resp listing
	if err := c.getWithRetry(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetch comments for %s: %w", user, err)
	}

	comments := make([]domain.Comment, 0, len(resp.Data.Children))
	for _, ch := range resp.Data.Children {
		if ch.Kind != "t1" {
			continue
		}
		comments = append(comments, domain.Comment{
			ID:     ch.Data.ID,
			Author: ch.Data.Author,
			Body:   ch.Data.Body,
			Score:  ch.Data.Score,
			LinkID: ch.Data.LinkID,
		})
	}

	c.logger.Debug("fetched comments", "user", user, "count", len(comments))
	return comments, nil
}

// Submission looks up a submission by fullname (e.g. "t3_2bzehq").
func (c *Client) Submission(ctx context.Context, fullname string) (*domain.Submission, error) {
	path := "/api/info.json?id=" + url.QueryEscape(fullname)

	var resp listing
	if err := c.getWithRetry(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetch submission %s: %w", fullname, err)
	}

	for _, ch := range resp.Data.Children {
		if ch.Kind != "t3" {
			continue
		}
		return &domain.Submission{
			ID:    ch.Data.ID,
			Score: ch.Data.Score,
		}, nil
	}

	return nil, fmt.Errorf("submission %s not found", fullname)
}

// EditPost replaces the body of the given submission id with body.
func (c *Client) EditPost(ctx context.Context, postID string, body string) error {
	if c.modhash == "" {
		return fmt.Errorf("edit post %s: not logged in", postID)
	}

	form := url.Values{
		"api_type": {"json"},
		"thing_id": {"t3_" + postID},
		"text":     {body},
		"uh":       {c.modhash},
	}

	var resp editResponse
	if err := c.postForm(ctx, "/api/editusertext", form, &resp); err != nil {
		return fmt.Errorf("edit post %s: %w", postID, err)
	}

	if len(resp.JSON.Errors) > 0 {
		return fmt.Errorf("edit post %s rejected: %v", postID, resp.JSON.Errors[0])
	}

	c.logger.Debug("edited post", "post_id", postID, "bytes", len(body))
	return nil
}

func (c *Client) getWithRetry(ctx context.Context, path string, v any) error {
	var err error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		err = c.doRequest(ctx, http.MethodGet, path, nil, v)
		if err == nil {
			return nil
		}

		if attempt == c.maxAttempts {
			break
		}

		backoff := c.calculateBackoff(attempt)
		c.logger.Warn("request failed, retrying",
			"path", path,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return fmt.Errorf("after %d attempts: %w", c.maxAttempts, err)
}

// postForm does not retry: write calls are not safely repeatable and the
// caller's skip-and-log handling covers failures.
func (c *Client) postForm(ctx context.Context, path string, form url.Values, v any) error {
	return c.doRequest(ctx, http.MethodPost, path, strings.NewReader(form.Encode()), v)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader, v any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > c.maxBackoff {
		backoff = c.maxBackoff
	}
	return backoff
}
