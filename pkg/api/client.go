package api

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

	"github.com/charmbracelet/log"

	"github.com/matzehuels/organogram/pkg/diagram"
	orgerrors "github.com/matzehuels/organogram/pkg/errors"
	"github.com/matzehuels/organogram/pkg/observability"
	"github.com/matzehuels/organogram/pkg/snapshot"
)

// DefaultTimeout bounds a single request when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Second

const (
	savePath     = "save-organogram/"
	validatePath = "validate-structure/"

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 4 << 20
)

// Config configures a Client.
type Config struct {
	BaseURL   string        // e.g. https://console.example.com/admin/corporate/structure/api
	CSRFToken string        // sent as X-CSRFToken when set
	Timeout   time.Duration // per request; DefaultTimeout when zero

	// HTTPClient overrides the default client. Its timeout takes precedence.
	HTTPClient *http.Client
}

// Client talks to the structure API.
type Client struct {
	http    *http.Client
	base    *url.URL
	headers map[string]string
	logger  *log.Logger
}

// NewClient creates a client for cfg. A nil logger uses log.Default().
func NewClient(cfg Config, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, orgerrors.New(orgerrors.ErrCodeInvalidInput, "api base url is not configured")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, orgerrors.New(orgerrors.ErrCodeInvalidInput, "invalid api base url %q", cfg.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = log.Default()
	}

	headers := map[string]string{"Accept": "application/json"}
	if cfg.CSRFToken != "" {
		headers["X-CSRFToken"] = cfg.CSRFToken
	}
	return &Client{http: hc, base: base, headers: headers, logger: logger}, nil
}

// Save snapshots g and submits it under structureID.
func (c *Client) Save(ctx context.Context, structureID string, g *diagram.Graph) error {
	if err := checkStructureID(structureID); err != nil {
		return err
	}
	_, err := c.Submit(ctx, snapshot.NewSaveRequest(structureID, g))
	return err
}

// Submit posts an already built save request.
func (c *Client) Submit(ctx context.Context, req snapshot.SaveRequest) (SaveResponse, error) {
	if err := checkStructureID(req.StructureID); err != nil {
		return SaveResponse{}, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return SaveResponse{}, orgerrors.Wrap(orgerrors.ErrCodeInternal, err, "encode save request")
	}

	var resp SaveResponse
	if err := c.do(ctx, http.MethodPost, c.endpoint(savePath), body, &resp); err != nil {
		return resp, err
	}
	if !resp.Success {
		return resp, rejected("save", req.StructureID, resp.Error)
	}
	c.logger.Info("structure saved", "structure", req.StructureID, "nodes", len(req.Nodes), "edges", len(req.Edges))
	return resp, nil
}

// Validate asks the API to check the persisted structure.
func (c *Client) Validate(ctx context.Context, structureID string) (ValidationResults, error) {
	if err := checkStructureID(structureID); err != nil {
		return ValidationResults{}, err
	}

	var resp ValidateResponse
	if err := c.do(ctx, http.MethodGet, c.endpoint(validatePath, structureID)+"/", nil, &resp); err != nil {
		return ValidationResults{}, err
	}
	if !resp.Success {
		return ValidationResults{}, rejected("validate", structureID, resp.Error)
	}
	if resp.ValidationResults == nil {
		return ValidationResults{}, orgerrors.New(orgerrors.ErrCodeTransport, "validate %s: response has no results", structureID)
	}
	return *resp.ValidationResults, nil
}

func (c *Client) endpoint(elem ...string) string {
	return c.base.JoinPath(elem...).String()
}

// do issues one request and decodes the JSON body into v. A non-2xx status
// is a TRANSPORT error whatever the body says; the body's "error" text, if
// any, is kept in the message.
func (c *Client) do(ctx context.Context, method, rawURL string, body []byte, v any) error {
	path := urlPath(rawURL)
	hooks := observability.API()

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, rd)
	if err != nil {
		return orgerrors.Wrap(orgerrors.ErrCodeInternal, err, "build request")
	}
	for k, val := range c.headers {
		req.Header.Set(k, val)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hooks.OnRequest(ctx, method, path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		err = networkError(method, path, err)
		hooks.OnError(ctx, method, path, err)
		return err
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, method, path, resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		err = networkError(method, path, err)
		hooks.OnError(ctx, method, path, err)
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := statusError(method, path, resp.StatusCode, data)
		hooks.OnError(ctx, method, path, err)
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		err = orgerrors.Wrap(orgerrors.ErrCodeTransport, err, "%s %s: status %d, unreadable body", method, path, resp.StatusCode)
		hooks.OnError(ctx, method, path, err)
		return err
	}
	c.logger.Debug("api call", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))
	return nil
}

func networkError(method, path string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return orgerrors.Wrap(orgerrors.ErrCodeTimeout, err, "%s %s", method, path)
	}
	return orgerrors.Wrap(orgerrors.ErrCodeNetwork, err, "%s %s", method, path)
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

func statusError(method, path string, status int, body []byte) error {
	var e struct {
		Error string `json:"error"`
	}
	msg := http.StatusText(status)
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		msg = e.Error
	}
	return orgerrors.New(orgerrors.ErrCodeTransport, "%s %s: status %d: %s", method, path, status, msg)
}

func rejected(op, structureID, msg string) error {
	if msg == "" {
		msg = "unknown error"
	}
	return orgerrors.New(orgerrors.ErrCodeTransport, "%s structure %s: %s", op, structureID, msg)
}

func checkStructureID(id string) error {
	if strings.TrimSpace(id) == "" {
		return orgerrors.New(orgerrors.ErrCodeInvalidInput, "no structure id")
	}
	return orgerrors.ValidateStructureID(id)
}

func urlPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Path
}

// String identifies the client in logs.
func (c *Client) String() string { return fmt.Sprintf("api(%s)", c.base.Redacted()) }
