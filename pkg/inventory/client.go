// Package inventory fetches item snapshots from the remote food-inventory
// API. The expiry scheduler never fetches by itself; commands use this client
// and hand the resulting snapshot over.
package inventory

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

type Client struct {
	BaseURL string
	UserID  string
	Token   string

	http *retryablehttp.Client
}

// NewClient validates the user id up front; the backend rejects non-UUID user
// ids with a 400, so there is no point sending one.
func NewClient(baseURL, userID, token string) (*Client, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("invalid user id %q: must be a UUID", userID)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = stdlog.New(io.Discard, "", 0)
	retryClient.RetryMax = 3

	return &Client{
		BaseURL: baseURL,
		UserID:  userID,
		Token:   token,
		http:    retryClient,
	}, nil
}

// Expiring returns items expiring within the next `days` days, soonest first
// (the backend orders by expiry date ascending and the scheduler preserves
// input order, so alerts fire soonest-first too).
func (c *Client) Expiring(ctx context.Context, days int) ([]ItemSnapshot, error) {
	q := url.Values{}
	q.Set("user_id", c.UserID)
	q.Set("days", strconv.Itoa(days))
	body, err := c.get(ctx, "/api/inventory/expiring", q)
	if err != nil {
		return nil, err
	}
	return parseItems(body), nil
}

// Items returns the full inventory list.
func (c *Client) Items(ctx context.Context) ([]ItemSnapshot, error) {
	q := url.Values{}
	q.Set("user_id", c.UserID)
	body, err := c.get(ctx, "/api/inventory/items", q)
	if err != nil {
		return nil, err
	}
	// The list endpoint wraps items in a paginated envelope.
	return parseItemsFrom(gjson.Get(body, "items")), nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("inventory API request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("inventory API returned status %d for %s", resp.StatusCode, path)
	}
	return string(bodyBytes), nil
}

func parseItems(body string) []ItemSnapshot {
	return parseItemsFrom(gjson.Parse(body))
}

func parseItemsFrom(list gjson.Result) []ItemSnapshot {
	var items []ItemSnapshot
	list.ForEach(func(_, v gjson.Result) bool {
		items = append(items, ItemSnapshot{
			ID:          v.Get("inventory_id").String(),
			DisplayName: v.Get("food_name").String(),
			ExpiryDate:  v.Get("expiry_date").String(),
			Quantity:    v.Get("quantity").Float(),
			Unit:        v.Get("unit").String(),
		})
		return true
	})
	return items
}
