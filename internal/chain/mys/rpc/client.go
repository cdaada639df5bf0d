package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned for a 404 from the checkpoint endpoint.
var ErrNotFound = errors.New("checkpoint not found")

const maxErrorBody = 512

type RPCClient interface {
	GetCheckpoint(ctx context.Context, seq int64) (*CheckpointResponse, error)
	GetLatestCheckpointSequence(ctx context.Context) (int64, error)
}

// HTTPError is a non-2xx response other than a checkpoint 404.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http status %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPError) HTTPStatus() int {
	return e.StatusCode
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

func (c *Client) GetCheckpoint(ctx context.Context, seq int64) (*CheckpointResponse, error) {
	var resp CheckpointResponse
	if err := c.get(ctx, "/checkpoints/"+strconv.FormatInt(seq, 10), &resp); err != nil {
		return nil, fmt.Errorf("get checkpoint %d: %w", seq, err)
	}
	return &resp, nil
}

func (c *Client) GetLatestCheckpointSequence(ctx context.Context) (int64, error) {
	var resp LatestResponse
	if err := c.get(ctx, "/checkpoints/latest", &resp); err != nil {
		return 0, fmt.Errorf("get latest checkpoint: %w", err)
	}
	return resp.SequenceNumber.Int64(), nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrNotFound
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
