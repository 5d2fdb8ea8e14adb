// Package storefront is a Go client for the Mandlimart API. It owns the signed-in session,
// the cascading address picker, order stream subscriptions and a local order cache.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 4 << 20

	idempotencyHeader = "Idempotency-Key"
)

// Config configures a Client. BaseURL is the server root, e.g. https://api.mandlimart.in.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Dialer     *websocket.Dialer
	Session    *Session
	UserAgent  string
}

// Client calls the storefront API on behalf of one session.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	dialer     *websocket.Dialer
	session    *Session
	userAgent  string
}

func New(cfg Config) (*Client, error) {
	raw := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if raw == "" {
		return nil, errors.New("base url is required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("unsupported base url scheme %q", base.Scheme)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	dialer := cfg.Dialer
	if dialer == nil {
		dialer = &websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	}
	session := cfg.Session
	if session == nil {
		session = NewSession(nil)
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "mandlimart-go"
	}
	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		dialer:     dialer,
		session:    session,
		userAgent:  userAgent,
	}, nil
}

// Session returns the holder this client writes to.
func (c *Client) Session() *Session {
	return c.session
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	headers http.Header

	// noRefresh disables the one-shot token refresh on 401.
	noRefresh bool
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (c *Client) send(ctx context.Context, req request) (*response, error) {
	var payload []byte
	if req.body != nil {
		encoded, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		payload = encoded
	}

	resp, err := c.roundTrip(ctx, req, payload)
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusUnauthorized || req.noRefresh || c.session.RefreshToken() == "" {
		return resp, nil
	}
	if err := c.Refresh(ctx); err != nil {
		return resp, nil
	}
	return c.roundTrip(ctx, req, payload)
}

func (c *Client) roundTrip(ctx context.Context, req request, payload []byte) (*response, error) {
	target := c.baseURL.JoinPath(req.path)
	if len(req.query) > 0 {
		target.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.AccessToken(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	for key, values := range req.headers {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &response{status: httpResp.StatusCode, header: httpResp.Header, body: data}, nil
}

// do sends req and decodes the success envelope into out. A 207 decodes the data into out and
// returns the envelope error as *APIError.
func (c *Client) do(ctx context.Context, req request, out any) error {
	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	return decodeEnvelope(resp, out)
}

func decodeEnvelope(resp *response, out any) error {
	switch {
	case resp.status == http.StatusMultiStatus:
		var envelope struct {
			Data  json.RawMessage `json:"data"`
			Error APIError        `json:"error"`
		}
		if err := json.Unmarshal(resp.body, &envelope); err != nil {
			return fmt.Errorf("decode partial response: %w", err)
		}
		if out != nil && len(envelope.Data) > 0 {
			if err := json.Unmarshal(envelope.Data, out); err != nil {
				return fmt.Errorf("decode partial data: %w", err)
			}
		}
		apiErr := envelope.Error
		apiErr.Status = resp.status
		return &apiErr
	case resp.status >= 200 && resp.status < 300:
		if out == nil || resp.status == http.StatusNoContent || len(resp.body) == 0 {
			return nil
		}
		envelope := struct {
			Data any `json:"data"`
		}{Data: out}
		if err := json.Unmarshal(resp.body, &envelope); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	default:
		return decodeError(resp)
	}
}

func decodeError(resp *response) error {
	var envelope struct {
		Error APIError `json:"error"`
	}
	if err := json.Unmarshal(resp.body, &envelope); err != nil || envelope.Error.Code == "" {
		return &APIError{
			Status:  resp.status,
			Code:    "HTTP_" + fmt.Sprint(resp.status),
			Message: strings.TrimSpace(string(resp.body)),
		}
	}
	apiErr := envelope.Error
	apiErr.Status = resp.status
	return &apiErr
}
