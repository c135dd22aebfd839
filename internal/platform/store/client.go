package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pcbridge/internal/platform/config"
)

// TableName is fixed for this deployment; the bridge writes to a single table.
const TableName = "Test"

type Client struct {
	baseURL string
	apiKey  string
	table   string
	client  *http.Client
}

func New(cfg config.AirtableConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/") + "/" + cfg.BaseID,
		apiKey:  cfg.APIKey,
		table:   TableName,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type Record struct {
	ID     string                 `json:"id,omitempty"`
	Fields map[string]interface{} `json:"fields"`
}

type SortField struct {
	Field     string
	Direction string // "asc" or "desc"
}

type ListOptions struct {
	MaxRecords      int
	View            string
	FilterByFormula string
	Sort            []SortField
}

// APIError is the store's own error, propagated unchanged to the caller.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("store: HTTP %d: %s: %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("store: HTTP %d: %s", e.StatusCode, e.Message)
}

// Create submits one or more records in a single batch. The returned records
// carry the store-assigned identifiers. A failed call surfaces immediately;
// there is no retry.
func (c *Client) Create(ctx context.Context, records []Record) ([]Record, error) {
	body, err := json.Marshal(struct {
		Records []Record `json:"records"`
	}{Records: records})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tableURL(), bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}

	var result struct {
		Records []Record `json:"records"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result.Records, nil
}

// List retrieves records, draining the store's pagination cursor until the
// table is exhausted or opts.MaxRecords is reached. Records come back in the
// store's own ordering (or the requested sort).
func (c *Client) List(ctx context.Context, opts ListOptions) ([]Record, error) {
	var all []Record
	offset := ""

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.tableURL()+"?"+c.listQuery(opts, offset), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusOK {
			err := readAPIError(resp)
			resp.Body.Close()
			return nil, err
		}

		var page struct {
			Records []Record `json:"records"`
			Offset  string   `json:"offset"`
		}
		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		all = append(all, page.Records...)

		if opts.MaxRecords > 0 && len(all) >= opts.MaxRecords {
			return all[:opts.MaxRecords], nil
		}
		if page.Offset == "" {
			return all, nil
		}
		offset = page.Offset
	}
}

func (c *Client) tableURL() string {
	return c.baseURL + "/" + url.PathEscape(c.table)
}

func (c *Client) listQuery(opts ListOptions, offset string) string {
	q := url.Values{}
	if opts.MaxRecords > 0 {
		q.Set("maxRecords", strconv.Itoa(opts.MaxRecords))
	}
	if opts.View != "" {
		q.Set("view", opts.View)
	}
	if opts.FilterByFormula != "" {
		q.Set("filterByFormula", opts.FilterByFormula)
	}
	for i, s := range opts.Sort {
		q.Set(fmt.Sprintf("sort[%d][field]", i), s.Field)
		direction := s.Direction
		if direction == "" {
			direction = "asc"
		}
		q.Set(fmt.Sprintf("sort[%d][direction]", i), direction)
	}
	if offset != "" {
		q.Set("offset", offset)
	}
	return q.Encode()
}

// readAPIError extracts the store's error envelope. The error field is either
// an object {type, message} or a bare string depending on the failure.
func readAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(body, &envelope) == nil && len(envelope.Error) > 0 {
		var detail struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}
		if json.Unmarshal(envelope.Error, &detail) == nil && detail.Message != "" {
			apiErr.Type = detail.Type
			apiErr.Message = detail.Message
		} else {
			var msg string
			if json.Unmarshal(envelope.Error, &msg) == nil {
				apiErr.Message = msg
			}
		}
	}
	return apiErr
}
