package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sampurna-d/budget-buddy/internal/finance"
)

const defaultTimeout = 10 * time.Second

// ClientConfig configures the record store client.
type ClientConfig struct {
	// BaseURL is the backend project URL, without the /rest/v1 suffix.
	BaseURL string
	// APIKey is the backend key, sent both as the apikey header and as a
	// bearer token.
	APIKey  string
	Timeout time.Duration
}

// Client reads financial records from the hosted backend's REST interface.
// Every table query is scoped to a single user id; the client never writes.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a record store client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("store base URL required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("store API key required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (c *Client) Transactions(ctx context.Context, userID string) ([]finance.Transaction, error) {
	var out []finance.Transaction
	if err := c.getRows(ctx, "transactions", userID, "date.desc", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Budgets(ctx context.Context, userID string) ([]finance.Budget, error) {
	var out []finance.Budget
	if err := c.getRows(ctx, "budgets", userID, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) BillReminders(ctx context.Context, userID string) ([]finance.BillReminder, error) {
	var out []finance.BillReminder
	if err := c.getRows(ctx, "bill_reminders", userID, "due_date.asc", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// getRows fetches every row of a table belonging to one user and decodes the
// JSON array into dst.
func (c *Client) getRows(ctx context.Context, table, userID, order string, dst any) error {
	if userID == "" {
		return fmt.Errorf("user id required")
	}

	query := url.Values{}
	query.Set("select", "*")
	query.Set("user_id", "eq."+userID)
	if order != "" {
		query.Set("order", order)
	}

	reqURL := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, table, query.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("apikey", c.apiKey)
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("store request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("store error (%d) on %s: %s", resp.StatusCode, table, string(respBody))
	}

	if err := json.Unmarshal(respBody, dst); err != nil {
		return fmt.Errorf("failed to parse %s rows: %w", table, err)
	}
	return nil
}

var _ Store = (*Client)(nil)
