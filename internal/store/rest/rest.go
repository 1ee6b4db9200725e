// Package rest stores accepted hosts in a table exposed over a
// PostgREST-style HTTP API (the shape hosted backends like Supabase use).
package rest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Muhammaduzair321/ip-checker/internal/domain"
)

type record struct {
	Host string `json:"host"`
}

type Client struct {
	http  *resty.Client
	table string
}

// NewClient talks to baseURL/table. apiKey, when set, is sent both as
// the "apikey" header and as a bearer token.
func NewClient(baseURL, table, apiKey string) *Client {
	c := resty.New().
		// Make sure we don’t end up with "//hosts" in the final URL.
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(30*time.Second).
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		c.SetHeader("apikey", apiKey).SetAuthToken(apiKey)
	}
	return &Client{http: c, table: table}
}

// ListRecent implements store.Store.
// It calls GET /{table}?select=host&order=created_at.desc&limit=N.
func (c *Client) ListRecent(ctx context.Context, limit int) ([]domain.CanonicalHost, error) {
	var rows []record
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"select": "host",
			"order":  "created_at.desc",
			"limit":  strconv.Itoa(limit),
		}).
		SetResult(&rows).
		Get("/" + c.table)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status())
	}

	hosts := make([]domain.CanonicalHost, 0, len(rows))
	for _, r := range rows {
		hosts = append(hosts, domain.CanonicalHost(r.Host))
	}
	return domain.Truncate(hosts, limit), nil
}

// Append implements store.Store. The server assigns created_at.
func (c *Client) Append(ctx context.Context, host domain.CanonicalHost) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "return=minimal").
		SetBody(record{Host: string(host)}).
		Post("/" + c.table)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	default:
		return fmt.Errorf("unexpected status: %s", resp.Status())
	}
}

func (c *Client) Close() error { return nil }
