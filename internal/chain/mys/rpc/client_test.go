package rpc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(handler func(*http.Request) (*http.Response, error)) *Client {
	client := NewClient("http://rpc.local/", time.Second, slog.Default())
	client.httpClient = &http.Client{Transport: roundTripFunc(handler)}
	return client
}

func jsonHTTPResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestGetCheckpoint_DecodesStringAndNumberFields(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/checkpoints/101", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		return jsonHTTPResponse(http.StatusOK, `{
			"sequence_number": "101",
			"timestamp_ms": 1700000000000,
			"transactions": [{
				"digest": "D1",
				"events": [{"type": "0x2::profile::ProfileCreatedEvent", "sender": "0xa", "event_seq": "0", "parsed_json": {"owner": "0xA"}}]
			}]
		}`), nil
	})

	cp, err := client.GetCheckpoint(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, int64(101), cp.SequenceNumber.Int64())
	assert.Equal(t, int64(1700000000000), cp.TimestampMs.Int64())
	require.Len(t, cp.Transactions, 1)
	require.Len(t, cp.Transactions[0].Events, 1)
	assert.JSONEq(t, `{"owner":"0xA"}`, string(cp.Transactions[0].Events[0].ParsedJSON))
}

func TestGetCheckpoint_NotFound(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		return jsonHTTPResponse(http.StatusNotFound, `{"error":"not found"}`), nil
	})

	_, err := client.GetCheckpoint(context.Background(), 9)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetCheckpoint_HTTPErrorCarriesStatus(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		return jsonHTTPResponse(http.StatusServiceUnavailable, "overloaded\n"), nil
	})

	_, err := client.GetCheckpoint(context.Background(), 9)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, 503, httpErr.HTTPStatus())
	assert.Equal(t, "overloaded", httpErr.Body)
}

func TestGetCheckpoint_MalformedBody(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		return jsonHTTPResponse(http.StatusOK, `{"sequence_number": "abc"}`), nil
	})

	_, err := client.GetCheckpoint(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestGetCheckpoint_TransportError(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	_, err := client.GetCheckpoint(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestGetLatestCheckpointSequence_HTTPTest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/checkpoints/latest" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sequence_number": 4242}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, slog.Default())
	latest, err := client.GetLatestCheckpointSequence(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4242), latest)
}
