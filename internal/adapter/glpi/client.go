package glpi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/deskpulse/deskpulse/infrastructure/service/logger"
	"github.com/deskpulse/deskpulse/internal/domain"
)

// Fetch windows requested from GLPI.
const (
	TicketRange   = "0-999"
	CategoryRange = "0-99"
	UserRange     = "0-199"
	GroupRange    = "0-99"
)

const (
	maxBodyBytes   = 32 << 20
	maxErrorBody   = 512
	killTimeout    = 5 * time.Second
	defaultTimeout = 30 * time.Second
)

// Config is the connection configuration of the client.
type Config struct {
	APIURL    string
	AppToken  string
	UserToken string
	// KeepSession caches the session token across calls. When false every
	// fetch opens its own session and tears it down afterwards.
	KeepSession bool
	Timeout     time.Duration
}

// Client talks to the GLPI REST API. It is safe for concurrent use.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     logger.Logger
	metrics    *Metrics

	mu           sync.Mutex
	sessionToken string

	// pending tracks asynchronous session teardowns.
	pending sync.WaitGroup
}

// NewClient creates a GLPI client. metrics may be nil.
func NewClient(config Config, log logger.Logger, metrics *Metrics) *Client {
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     log.WithFields(map[string]interface{}{"component": "glpi"}),
		metrics:    metrics,
	}
}

// ConfiguredVars reports which connection variables are set.
func (c *Client) ConfiguredVars() map[string]bool {
	return map[string]bool{
		"GLPI_API_URL":    c.config.APIURL != "",
		"GLPI_APP_TOKEN":  c.config.AppToken != "",
		"GLPI_USER_TOKEN": c.config.UserToken != "",
	}
}

func (c *Client) configured() bool {
	return c.config.APIURL != "" && c.config.AppToken != "" && c.config.UserToken != ""
}

// Tickets fetches the first TicketRange tickets. Records without an id are
// skipped; negative delay metrics are dropped.
func (c *Client) Tickets(ctx context.Context) ([]domain.Ticket, error) {
	start := time.Now()
	body, err := c.fetch(ctx, "Ticket", "/Ticket/?range="+TicketRange)
	if err != nil {
		return nil, err
	}

	var raw []rawTicket
	if err := decodeList(body, &raw); err != nil {
		return nil, err
	}

	tickets := make([]domain.Ticket, 0, len(raw))
	for i := range raw {
		t, dropped, err := raw[i].toDomain()
		if err != nil {
			c.logger.Debug(ctx, "Skipping GLPI ticket", map[string]interface{}{"reason": err.Error(), "index": i})
			continue
		}
		if len(dropped) > 0 {
			c.logger.Debug(ctx, "Dropped negative delay metrics", map[string]interface{}{"ticket_id": t.ID, "fields": dropped})
		}
		tickets = append(tickets, t)
	}

	logger.LogPerformance(ctx, c.logger, "glpi.tickets", time.Since(start), map[string]interface{}{"count": len(tickets)})
	return tickets, nil
}

// Ticket returns the raw GLPI document of one ticket.
func (c *Client) Ticket(ctx context.Context, id int) (json.RawMessage, error) {
	if id <= 0 {
		return nil, domain.NewValidationError("ticket id must be a positive integer")
	}
	body, err := c.fetch(ctx, "Ticket", "/Ticket/"+strconv.Itoa(id))
	if err != nil {
		var upstream *UpstreamError
		if errors.As(err, &upstream) && upstream.Status == http.StatusNotFound {
			return nil, domain.ErrTicketNotFound
		}
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("GLPI returned an invalid ticket document")
	}
	return json.RawMessage(body), nil
}

// Categories fetches ITIL categories.
func (c *Client) Categories(ctx context.Context) ([]domain.LookupItem, error) {
	body, err := c.fetch(ctx, "ITILCategory", "/ITILCategory/?range="+CategoryRange)
	if err != nil {
		return nil, err
	}
	var raw []rawCategory
	if err := decodeList(body, &raw); err != nil {
		return nil, err
	}
	return categoryItems(raw), nil
}

// Users fetches active users.
func (c *Client) Users(ctx context.Context) ([]domain.LookupItem, error) {
	body, err := c.fetch(ctx, "User", "/User/?range="+UserRange)
	if err != nil {
		return nil, err
	}
	var raw []rawUser
	if err := decodeList(body, &raw); err != nil {
		return nil, err
	}
	return userItems(raw), nil
}

// Groups fetches groups.
func (c *Client) Groups(ctx context.Context) ([]domain.LookupItem, error) {
	body, err := c.fetch(ctx, "Group", "/Group/?range="+GroupRange)
	if err != nil {
		return nil, err
	}
	var raw []rawGroup
	if err := decodeList(body, &raw); err != nil {
		return nil, err
	}
	return groupItems(raw), nil
}

// KillSession ends the cached session, if any. It never fails: errors are
// logged and the token is forgotten regardless.
func (c *Client) KillSession(ctx context.Context) {
	c.mu.Lock()
	token := c.sessionToken
	c.sessionToken = ""
	c.mu.Unlock()

	if token != "" {
		c.kill(ctx, token)
	}
}

// Close ends the cached session and waits for pending teardowns.
func (c *Client) Close(ctx context.Context) {
	c.KillSession(ctx)
	c.pending.Wait()
}

// fetch performs an authenticated GET. A 401 drops the session and the
// request is retried exactly once with a new one.
func (c *Client) fetch(ctx context.Context, resource, path string) ([]byte, error) {
	if !c.configured() {
		return nil, ErrMissingConfiguration
	}

	for attempt := 0; ; attempt++ {
		token, err := c.acquire(ctx)
		if err != nil {
			return nil, err
		}

		body, status, err := c.get(ctx, resource, path, token)
		c.release(token)
		if err != nil {
			return nil, err
		}

		switch {
		case status == http.StatusOK || status == http.StatusPartialContent:
			return body, nil
		case status == http.StatusUnauthorized && attempt == 0:
			c.invalidate(token)
			c.metrics.sessionRefresh.Inc()
			c.logger.Warn(ctx, "GLPI session rejected, re-authenticating", map[string]interface{}{"resource": resource})
			continue
		case status == http.StatusUnauthorized:
			c.invalidate(token)
			return nil, ErrUpstreamUnauthorized
		default:
			return nil, &UpstreamError{Resource: resource, Status: status, Body: truncate(body)}
		}
	}
}

// acquire returns the cached session, opening one when needed. Without
// KeepSession every call opens a fresh session.
func (c *Client) acquire(ctx context.Context) (string, error) {
	if !c.config.KeepSession {
		return c.initSession(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sessionToken != "" {
		return c.sessionToken, nil
	}
	token, err := c.initSession(ctx)
	if err != nil {
		return "", err
	}
	c.sessionToken = token
	return token, nil
}

// release tears down per-call sessions in the background.
func (c *Client) release(token string) {
	if c.config.KeepSession {
		return
	}
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		c.kill(context.Background(), token)
	}()
}

func (c *Client) invalidate(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sessionToken == token {
		c.sessionToken = ""
	}
}

func (c *Client) initSession(ctx context.Context) (string, error) {
	req, err := c.newRequest(ctx, "/initSession")
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "user_token "+c.config.UserToken)

	body, status, err := c.do(req, "initSession")
	if err != nil {
		return "", fmt.Errorf("failed to init GLPI session: %w", err)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("failed to init GLPI session: %w", &UpstreamError{Resource: "initSession", Status: status, Body: truncate(body)})
	}

	var payload struct {
		SessionToken string `json:"session_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.SessionToken == "" {
		return "", fmt.Errorf("failed to init GLPI session: response carried no session token")
	}
	return payload.SessionToken, nil
}

// kill calls killSession with its own timeout and only logs failures.
func (c *Client) kill(ctx context.Context, token string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), killTimeout)
	defer cancel()

	req, err := c.newRequest(ctx, "/killSession")
	if err != nil {
		return
	}
	req.Header.Set("Session-Token", token)

	_, status, err := c.do(req, "killSession")
	if err != nil {
		c.logger.Warn(ctx, "Failed to kill GLPI session", map[string]interface{}{"error": err.Error()})
		return
	}
	if status != http.StatusOK {
		c.logger.Debug(ctx, "GLPI killSession returned non-OK status", map[string]interface{}{"status": status})
	}
}

func (c *Client) get(ctx context.Context, resource, path, token string) ([]byte, int, error) {
	req, err := c.newRequest(ctx, path)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Session-Token", token)
	return c.do(req, resource)
}

func (c *Client) newRequest(ctx context.Context, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.APIURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build GLPI request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("App-Token", c.config.AppToken)
	return req, nil
}

// do executes req and records metrics under resource.
func (c *Client) do(req *http.Request, resource string) ([]byte, int, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.duration.WithLabelValues(resource).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.requests.WithLabelValues(resource, "error").Inc()
		return nil, 0, fmt.Errorf("GLPI %s request failed: %w", resource, err)
	}
	defer resp.Body.Close()

	c.metrics.requests.WithLabelValues(resource, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read GLPI %s response: %w", resource, err)
	}
	return body, resp.StatusCode, nil
}

func truncate(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody])
	}
	return string(body)
}
