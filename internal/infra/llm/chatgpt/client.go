package chatgpt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Slothdemon22/CampusMinus/pkg/metrics"
)

const defaultBaseURL = "https://api.openai.com/v1"

// EmbeddingRequest is the payload sent to the embeddings endpoint.
type EmbeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// EmbeddingResponse captures the embeddings API response shape.
type EmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Usage metrics.TokenUsage `json:"usage"`
}

// StatusError reports a non-2xx response from the remote model.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("embedding request failed: status=%d body=%s", e.Status, e.Body)
}

// DecodeError reports a 2xx response whose body was not parseable.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "decode embedding response: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Client performs HTTP requests against an OpenAI-compatible API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a client. An empty API key is rejected here so
// misconfiguration fails at wiring time, not on the first request.
func NewClient(apiKey, baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("embedding api key cannot be empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// CreateEmbedding performs a single embeddings call. No retries: the
// retry policy, if any, belongs to the caller.
func (c *Client) CreateEmbedding(ctx context.Context, req EmbeddingRequest) (EmbeddingResponse, error) {
	var out EmbeddingResponse

	payload, err := json.Marshal(req)
	if err != nil {
		return out, fmt.Errorf("encode embedding request: %w", err)
	}
	endpoint := c.baseURL + "/embeddings"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return out, fmt.Errorf("build embedding request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return out, fmt.Errorf("request embedding: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return out, &StatusError{Status: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, fmt.Errorf("read embedding response: %w", err)
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, &DecodeError{Err: err}
	}
	return out, nil
}
