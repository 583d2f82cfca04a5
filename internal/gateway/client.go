// Package gateway is the typed HTTP client for the exam platform API.
// All operations attach the stored bearer token, stamp a request ID,
// and decode the standard response envelope.
package gateway

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

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quizdeck/quizdeck-client/internal/config"
	"github.com/quizdeck/quizdeck-client/internal/credential"
	"github.com/quizdeck/quizdeck-client/internal/response"
)

// APIError is a structured error decoded from the gateway's envelope.
type APIError struct {
	Status  int
	Code    response.ErrCode
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("gateway error %d (%s)", e.Status, e.Code)
}

// IsCode reports whether err is an APIError carrying the given code.
func IsCode(err error, code response.ErrCode) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// ErrUnauthorized is returned on 401 responses, after the stored
// credential has been cleared.
var ErrUnauthorized = errors.New("not authenticated")

// Client talks to the exam platform gateway.
type Client struct {
	baseURL string
	http    *http.Client
	creds   credential.Store
	log     zerolog.Logger
}

// New builds a Client from configuration and a credential store.
func New(cfg *config.Config, creds credential.Store, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		http:    &http.Client{Timeout: cfg.HTTPTimeout},
		creds:   creds,
		log:     log.With().Str("component", "gateway").Logger(),
	}
}

// get issues a GET with optional query parameters.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// do issues one JSON request and decodes the envelope into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

// send finishes headers, executes the request and decodes the envelope.
func (c *Client) send(req *http.Request, out any) error {
	reqID := uuid.New().String()
	req.Header.Set(response.HeaderRequestID, reqID)

	var hasToken bool
	if token, err := c.creds.Token(); err == nil {
		req.Header.Set("Authorization", "Bearer "+token)
		hasToken = true
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	// Mirror the browser client's 401 interceptor: a rejected token is
	// dropped so the next command starts from the login flow. A 401
	// without a token attached (failed sign-in) is a normal API error.
	if resp.StatusCode == http.StatusUnauthorized && hasToken {
		_ = c.creds.Clear()
		c.log.Debug().Str("path", req.URL.Path).Msg("Token rejected, credential cleared")
		return ErrUnauthorized
	}

	var env struct {
		Data  json.RawMessage     `json:"data"`
		Error *response.ErrorBody `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: decode envelope: %w", req.Method, req.URL.Path, err)
	}

	if env.Error != nil {
		return &APIError{
			Status:  resp.StatusCode,
			Code:    env.Error.Code,
			Message: env.Error.Message,
			Fields:  env.Error.Fields,
		}
	}
	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Code: response.ErrInternal}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%s %s: decode data: %w", req.Method, req.URL.Path, err)
		}
	}
	return nil
}
