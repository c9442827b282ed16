// Package httpapi implements the remote boundaries over the task server's
// HTTP API using fasthttp.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdesk/client/api/transport"
	"github.com/taskdesk/client/domain"
	"github.com/taskdesk/client/pkg/logger"
	"github.com/taskdesk/client/pkg/reqid"
)

// Config controls the HTTP client behaviour.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	Name           string
}

// Client is a bearer-authenticated fasthttp client for the task server. It
// implements session.TokenSink; attaching a credential makes every
// subsequent request carry it as an Authorization header.
type Client struct {
	cfg    Config
	hc     *fasthttp.Client
	logger *zap.Logger

	mu    sync.RWMutex
	token string
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 5 * time.Second
	}
	if cfg.Name == "" {
		cfg.Name = "taskdesk-client"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		cfg: cfg,
		hc: &fasthttp.Client{
			Name:         cfg.Name,
			ReadTimeout:  cfg.RequestTimeout,
			WriteTimeout: cfg.RequestTimeout,
		},
		logger: log,
	}
}

// AttachCredential sets the bearer credential for outbound requests.
func (c *Client) AttachCredential(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// DetachCredential removes the bearer credential.
func (c *Client) DetachCredential() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

func (c *Client) credential() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Health pings the server's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, fasthttp.MethodGet, "/health", nil, nil)
}

// do performs one JSON round-trip and decodes the envelope data into out
// when out is non-nil. The context deadline bounds the request; fasthttp has
// no native context support, so cancellation is deadline-granular.
func (c *Client) do(ctx context.Context, method, uri string, body interface{}, out interface{}) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	requestID := reqid.New()
	ctx = logger.ContextWithRequestID(ctx, requestID)
	log := logger.WithRequestID(ctx, c.logger)

	req.SetRequestURI(c.cfg.BaseURL + uri)
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token := c.credential(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return domain.WrapError(domain.ErrCodeInternal, "request encode failed", err)
		}
		req.SetBody(payload)
	}

	deadline := time.Now().Add(c.cfg.RequestTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.hc.DoDeadline(req, resp, deadline); err != nil {
		log.Warn("request transport failure",
			zap.String("method", method),
			zap.String("uri", uri),
			zap.Error(err))
		return domain.WrapError(domain.ErrCodeRemote, "request failed", err)
	}

	status := resp.StatusCode()
	if status >= http.StatusBadRequest {
		return c.statusError(status, resp.Body())
	}
	if out == nil || status == http.StatusNoContent {
		return nil
	}

	var envelope transport.Envelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return domain.WrapError(domain.ErrCodeRemote, "response decode failed", err)
	}
	if !envelope.IsSuccess() {
		return domain.NewError(domain.ErrCodeRemote, "server reported failure: "+envelope.Code)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return domain.WrapError(domain.ErrCodeRemote, "payload decode failed", err)
	}
	return nil
}

func (c *Client) statusError(status int, body []byte) error {
	message := "request rejected"
	var envelope transport.Envelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		message = envelope.Error
	}

	switch {
	case status == http.StatusUnauthorized:
		return domain.NewError(domain.ErrCodeUnauthorized, message)
	case status == http.StatusForbidden:
		return domain.NewError(domain.ErrCodeForbidden, message)
	case status == http.StatusNotFound:
		return domain.NewError(domain.ErrCodeNotFound, message)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return domain.NewError(domain.ErrCodeInvalid, message)
	default:
		return domain.NewError(domain.ErrCodeRemote, message)
	}
}
