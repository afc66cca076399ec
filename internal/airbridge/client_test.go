package airbridge

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bobadash/internal/platform/config"
	"bobadash/pkg/platform/sentinel"
)

func newTestClient(t *testing.T, upstream http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)
	return New(config.AirbridgeConfig{
		BaseURL:  srv.URL,
		BaseName: "Boba Club Dashboard",
		APIKey:   "test-key",
		Timeout:  timeout,
	}, slog.New(slog.DiscardHandler))
}

func TestListParsesRecordContainers(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{
			name: "records container",
			body: `{"records":[{"id":"rec1","fields":{"Name":"A"}},{"id":"rec2","fields":{"Name":"B"}}]}`,
			want: 2,
		},
		{
			name: "data container",
			body: `{"data":[{"id":"rec1","fields":{"Name":"A"}}]}`,
			want: 1,
		},
		{
			name: "bare array with flattened fields",
			body: `[{"id":"rec1","Name":"A"}]`,
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}, time.Second)

			records, err := client.List(context.Background(), "Websites", Query{Fields: []string{"Name"}})
			require.NoError(t, err)
			assert.Len(t, records, tt.want)
			assert.Equal(t, "rec1", records[0].ID)
			assert.Equal(t, "A", records[0].Str("Name", "name"))
		})
	}
}

func TestListEncodesSelectQuery(t *testing.T) {
	var gotSelect, gotAuthKey string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotSelect = r.URL.Query().Get("select")
		gotAuthKey = r.URL.Query().Get("authKey")
		_, _ = w.Write([]byte(`{"records":[]}`))
	}, time.Second)

	_, err := client.List(context.Background(), "Event Codes", Query{
		Fields:          []string{"Event Code", "Status"},
		FilterByFormula: "{Event Code} = 'ABC123'",
	})
	require.NoError(t, err)
	assert.Equal(t, "test-key", gotAuthKey)

	var decoded Query
	require.NoError(t, json.Unmarshal([]byte(gotSelect), &decoded))
	assert.Equal(t, []string{"Event Code", "Status"}, decoded.Fields)
	assert.Equal(t, "{Event Code} = 'ABC123'", decoded.FilterByFormula)
}

func TestListFailures(t *testing.T) {
	t.Run("timeout is abandoned and reported", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
		}, 50*time.Millisecond)

		_, err := client.List(context.Background(), "Websites", Query{})
		require.ErrorIs(t, err, sentinel.ErrTimeout)
	})

	t.Run("non-JSON body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>upstream broke</html>"))
		}, time.Second)

		_, err := client.List(context.Background(), "Websites", Query{})
		require.ErrorIs(t, err, sentinel.ErrBadPayload)
	})

	t.Run("JSON without a records container", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"message":"ok"}`))
		}, time.Second)

		_, err := client.List(context.Background(), "Websites", Query{})
		require.ErrorIs(t, err, sentinel.ErrBadPayload)
	})

	t.Run("upstream error status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":"down"}`))
		}, time.Second)

		_, err := client.List(context.Background(), "Websites", Query{})
		require.ErrorIs(t, err, sentinel.ErrUnavailable)
	})

	t.Run("missing api key", func(t *testing.T) {
		client := New(config.AirbridgeConfig{BaseURL: "http://localhost:0", Timeout: time.Second},
			slog.New(slog.DiscardHandler))

		_, err := client.List(context.Background(), "Websites", Query{})
		require.ErrorIs(t, err, sentinel.ErrUnavailable)
	})
}

func TestEscapeFormulaValue(t *testing.T) {
	assert.Equal(t, `ABC123`, EscapeFormulaValue("ABC123"))
	assert.Equal(t, `O\'Brien`, EscapeFormulaValue("O'Brien"))

	// Escaped value must survive URL encoding round trips.
	escaped := url.QueryEscape(EscapeFormulaValue("a'b"))
	unescaped, err := url.QueryUnescape(escaped)
	require.NoError(t, err)
	assert.Equal(t, `a\'b`, unescaped)
}
