package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pcbridge/internal/platform/config"
)

func newTestClient(baseURL string) *Client {
	return New(config.AirtableConfig{
		APIKey:  "test-key",
		BaseID:  "appTEST",
		BaseURL: baseURL,
	})
}

func TestClient_Create(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/appTEST/Test" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Unexpected auth header %q", auth)
		}

		var req struct {
			Records []Record `json:"records"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request body: %v", err)
		}
		if len(req.Records) != 1 || req.Records[0].Fields["Name"] != "Jane Doe" {
			t.Errorf("Unexpected request records: %+v", req.Records)
		}

		req.Records[0].ID = "rec123"
		json.NewEncoder(w).Encode(struct {
			Records []Record `json:"records"`
		}{Records: req.Records})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	created, err := client.Create(context.Background(), []Record{
		{Fields: map[string]interface{}{"Name": "Jane Doe"}},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(created) != 1 || created[0].ID != "rec123" {
		t.Errorf("Expected created record with store id, got %+v", created)
	}
}

func TestClient_CreateError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"error":{"type":"INVALID_VALUE_FOR_COLUMN","message":"Status is not a valid select option"}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Create(context.Background(), []Record{{Fields: map[string]interface{}{}}})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d", apiErr.StatusCode)
	}
	if apiErr.Type != "INVALID_VALUE_FOR_COLUMN" || apiErr.Message != "Status is not a valid select option" {
		t.Errorf("Upstream error not propagated: %+v", apiErr)
	}
}

func TestClient_ListDrainsPages(t *testing.T) {
	page := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("maxRecords") != "10" {
			t.Errorf("Expected maxRecords=10, got %q", q.Get("maxRecords"))
		}
		if q.Get("view") != "Grid view" {
			t.Errorf("Expected view to be passed through, got %q", q.Get("view"))
		}
		if q.Get("sort[0][field]") != "Name" || q.Get("sort[0][direction]") != "asc" {
			t.Errorf("Expected sort params, got %v", q)
		}

		page++
		switch page {
		case 1:
			if q.Get("offset") != "" {
				t.Errorf("First page must not carry an offset, got %q", q.Get("offset"))
			}
			fmt.Fprint(w, `{"records":[{"id":"rec1","fields":{}},{"id":"rec2","fields":{}}],"offset":"cursor1"}`)
		case 2:
			if q.Get("offset") != "cursor1" {
				t.Errorf("Expected offset cursor1, got %q", q.Get("offset"))
			}
			fmt.Fprint(w, `{"records":[{"id":"rec3","fields":{}}]}`)
		default:
			t.Errorf("Unexpected extra page request %d", page)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	records, err := client.List(context.Background(), ListOptions{
		MaxRecords: 10,
		View:       "Grid view",
		Sort:       []SortField{{Field: "Name"}},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	for i, expected := range []string{"rec1", "rec2", "rec3"} {
		if records[i].ID != expected {
			t.Errorf("Expected record %d to be %s, got %s", i, expected, records[i].ID)
		}
	}
}

func TestClient_ListHonorsMaxRecords(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{"records":[{"id":"rec1","fields":{}},{"id":"rec2","fields":{}},{"id":"rec3","fields":{}}],"offset":"more"}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	records, err := client.List(context.Background(), ListOptions{MaxRecords: 2})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Expected the result capped at 2, got %d", len(records))
	}
	if requests != 1 {
		t.Errorf("Expected a single page request, got %d", requests)
	}
}

func TestClient_ListError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"AUTHENTICATION_REQUIRED"}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.List(context.Background(), ListOptions{})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Message != "AUTHENTICATION_REQUIRED" {
		t.Errorf("Unexpected error detail: %+v", apiErr)
	}
}
