package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientScroll(t *testing.T) {
	var gotBody scrollRequest
	var gotKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/collections/refs/points/scroll", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotKey = r.Header.Get("api-key")

		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &gotBody))

		fmt.Fprint(w, `{
			"result": {
				"points": [
					{"payload": {"title": "Lieferantenwechsel", "text": "t", "url": "u", "tags": ["a"]}}
				],
				"next_page_offset": "cursor-2"
			}
		}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", "refs")
	records, next, err := c.Scroll(context.Background(), 256, nil)
	require.NoError(t, err)

	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, 256, gotBody.Limit)
	assert.True(t, gotBody.WithPayload)
	assert.Nil(t, gotBody.Offset)

	require.Len(t, records, 1)
	assert.Equal(t, Record{Title: "Lieferantenwechsel", Text: "t", URL: "u", Keywords: []string{"a"}}, records[0])
	assert.Equal(t, json.RawMessage(`"cursor-2"`), next)
}

func TestClientScrollPassesOffset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		var req scrollRequest
		require.NoError(t, json.Unmarshal(data, &req))
		assert.Equal(t, json.RawMessage(`"cursor-2"`), req.Offset)
		fmt.Fprint(w, `{"result": {"points": [], "next_page_offset": null}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "refs")
	records, next, err := c.Scroll(context.Background(), 10, json.RawMessage(`"cursor-2"`))
	require.NoError(t, err)
	assert.Empty(t, records)
	// A null offset marks the end of the collection.
	assert.Nil(t, next)
}

func TestClientScrollNoAPIKeyHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.Header["Api-Key"]
		assert.False(t, present)
		fmt.Fprint(w, `{"result": {"points": []}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "refs")
	_, _, err := c.Scroll(context.Background(), 1, nil)
	require.NoError(t, err)
}

func TestClientScrollHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "wrong", "refs")
	_, _, err := c.Scroll(context.Background(), 1, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestIsJSONNull(t *testing.T) {
	assert.True(t, isJSONNull(nil))
	assert.True(t, isJSONNull(json.RawMessage("null")))
	assert.True(t, isJSONNull(json.RawMessage(" null ")))
	assert.False(t, isJSONNull(json.RawMessage(`"cursor"`)))
	assert.False(t, isJSONNull(json.RawMessage("0")))
}
