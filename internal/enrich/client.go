// Package enrich looks up contextual reference snippets for a term in
// an external vector store. The store is an optional collaborator: any
// failure degrades to empty results and never aborts the build.
package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const maxResponseSize = 4 << 20 // 4 MB

// Record is one stored reference document.
type Record struct {
	Title    string
	Text     string
	URL      string
	Keywords []string
}

// Store abstracts the external vector store's paginated scroll API.
// A nil next offset means the store has no further pages.
type Store interface {
	Scroll(ctx context.Context, limit int, offset json.RawMessage) (records []Record, next json.RawMessage, err error)
}

// Client talks to a Qdrant-compatible vector store over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	collection string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a store client. The limiter keeps scroll
// pagination from hammering the store during the initial cache load.
func NewClient(baseURL, apiKey, collection string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		collection: collection,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(5), 1),
	}
}

// scrollRequest is the wire format of one scroll page request.
type scrollRequest struct {
	Limit       int             `json:"limit"`
	Offset      json.RawMessage `json:"offset,omitempty"`
	WithPayload bool            `json:"with_payload"`
}

// scrollResponse is the wire format of one scroll page response.
type scrollResponse struct {
	Result struct {
		Points []struct {
			Payload struct {
				Title string   `json:"title"`
				Text  string   `json:"text"`
				URL   string   `json:"url"`
				Tags  []string `json:"tags"`
			} `json:"payload"`
		} `json:"points"`
		NextPageOffset json.RawMessage `json:"next_page_offset"`
	} `json:"result"`
}

// Scroll fetches one page of records starting at offset. A nil offset
// starts from the beginning of the collection.
func (c *Client) Scroll(ctx context.Context, limit int, offset json.RawMessage) ([]Record, json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}

	body, err := json.Marshal(scrollRequest{Limit: limit, Offset: offset, WithPayload: true})
	if err != nil {
		return nil, nil, fmt.Errorf("encoding scroll request: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points/scroll", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("creating scroll request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("scrolling %s: %w", c.collection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, nil, fmt.Errorf("scrolling %s: HTTP %d", c.collection, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, nil, fmt.Errorf("reading scroll response: %w", err)
	}

	var parsed scrollResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, nil, fmt.Errorf("parsing scroll response: %w", err)
	}

	records := make([]Record, 0, len(parsed.Result.Points))
	for _, p := range parsed.Result.Points {
		records = append(records, Record{
			Title:    p.Payload.Title,
			Text:     p.Payload.Text,
			URL:      p.Payload.URL,
			Keywords: p.Payload.Tags,
		})
	}

	next := parsed.Result.NextPageOffset
	if isJSONNull(next) {
		next = nil
	}
	return records, next, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
