// Package widget is the embedding-side client: it keeps a widget access
// token fresh and attaches it as a bearer credential to query calls.
package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const defaultRefreshSkew = 60 * time.Second

// Client exchanges the app secret for an access token ahead of each query
// and refreshes it before it expires. Configure the skew strictly below
// the server's token TTL, or every call refreshes.
type Client struct {
	baseURL string
	secret  string
	httpc   *http.Client
	skew    time.Duration
	now     func() time.Time

	mu       sync.Mutex
	token    string
	expireAt time.Time
}

type Option func(*Client)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(c *http.Client) Option { return func(w *Client) { w.httpc = c } }

// WithRefreshSkew sets the lead time before expiry at which the token is
// treated as stale. Must be shorter than the server-side token TTL.
func WithRefreshSkew(d time.Duration) Option { return func(w *Client) { w.skew = d } }

func New(baseURL, secret string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		secret:  secret,
		httpc:   http.DefaultClient,
		skew:    defaultRefreshSkew,
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Send ensures a fresh token, then posts the query with the bearer
// credential. The token fetch completes (or fails) before any query is
// dispatched; failures surface as errors, never as unauthenticated calls.
func (c *Client) Send(ctx context.Context, query string) (string, error) {
	tok, err := c.ensureToken(ctx)
	if err != nil {
		return "", err
	}

	body, _ := json.Marshal(map[string]string{"query": query})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/widget/query", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)

	res, err := c.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	raw, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("query failed: %d %s", res.StatusCode, raw)
	}
	var out struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("invalid query response: %w", err)
	}
	return out.Answer, nil
}

// ensureToken serializes refresh-then-send per client: concurrent callers
// block on the mutex, and at most one fetches while the rest reuse it.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.stale() {
		return c.token, nil
	}
	if err := c.fetchToken(ctx); err != nil {
		return "", err
	}
	return c.token, nil
}

// stale when no token is held or now has entered the skew window.
func (c *Client) stale() bool {
	return c.token == "" || !c.now().Before(c.expireAt.Add(-c.skew))
}

func (c *Client) fetchToken(ctx context.Context) error {
	body, _ := json.Marshal(map[string]string{"secret": c.secret})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/widget/token", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	raw, _ := io.ReadAll(res.Body)
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("token request failed: %d %s", res.StatusCode, raw)
	}
	var out struct {
		Token    string    `json:"token"`
		ExpireAt time.Time `json:"expireAt"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("invalid token response: %w", err)
	}
	if out.Token == "" || out.ExpireAt.IsZero() {
		return fmt.Errorf("invalid token response: missing token or expiry")
	}
	c.token = out.Token
	c.expireAt = out.ExpireAt
	return nil
}
