package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"toolrental-console/internal/config"
	"toolrental-console/internal/domain"
	"toolrental-console/internal/logger"
)

const requestIDHeader = "X-Request-ID"

// Client performs JSON requests against the backend REST API
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a backend client. A nil httpClient gets a default one using
// the configured timeout; zero timeout leaves the transport defaults in place.
func NewClient(cfg config.APIConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
		if cfg.TimeoutSeconds > 0 {
			httpClient.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
	}
}

// NewHTTPGateway wires all resource gateways to one backend client
func NewHTTPGateway(cfg config.APIConfig, httpClient *http.Client) *Gateway {
	c := NewClient(cfg, httpClient)
	return &Gateway{
		Tools:   &toolGateway{c: c},
		Clients: &clientGateway{c: c},
		Loans:   &loanGateway{c: c},
		Kardex:  &kardexGateway{c: c},
	}
}

type errorBody struct {
	Message string `json:"message"`
}

func (c *Client) request(ctx context.Context, resource, operation, method, path string, in any, out any) error {
	requestID := uuid.NewString()
	logger.GatewayCall(resource, operation, "method", method, "path", path, "request_id", requestID)

	err := c.do(ctx, requestID, method, path, in, out)
	logger.GatewayResult(resource, operation, err, "request_id", requestID)
	return err
}

func (c *Client) do(ctx context.Context, requestID, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return NewNetworkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewNetworkError(err)
	}

	if resp.StatusCode >= 400 {
		return statusError(resp.StatusCode, payload)
	}
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &Error{Kind: KindServer, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func statusError(status int, payload []byte) error {
	var eb errorBody
	// Non-JSON bodies leave the message empty so callers fall back to their generic text
	_ = json.Unmarshal(payload, &eb)
	msg := strings.TrimSpace(eb.Message)

	switch status {
	case http.StatusNotFound:
		return &Error{Kind: KindNotFound, Status: status, Message: msg}
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return NewServerValidationError(status, msg)
	default:
		return NewServerError(status, msg)
	}
}

func rangeQuery(r domain.DateRange) url.Values {
	q := url.Values{}
	if r.From != nil {
		q.Set("from", r.From.String())
	}
	if r.To != nil {
		q.Set("to", r.To.String())
	}
	return q
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
