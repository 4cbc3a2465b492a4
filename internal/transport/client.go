// Package transport предоставляет общий HTTP-транспорт для обращения к REST API витрины.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/storefront/internal/metrics"
)

const (
	// DefaultTimeout задаёт таймаут одного запроса по умолчанию.
	DefaultTimeout = 10 * time.Second

	requestIDHeader = "X-Request-ID"
)

// TokenSource возвращает текущий токен доступа. Пустая строка означает отсутствие токена.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Request описывает один запрос к API.
type Request struct {
	Method string
	// Path задаётся относительно базового адреса, например "/cart/add/".
	Path string
	// Route задаёт шаблон пути для метрик, например "/cart/update/{id}/". Пустой означает Path.
	Route string
	Query url.Values
	Body  any
	// Public отключает передачу токена доступа.
	Public bool
}

// Client инкапсулирует HTTP-взаимодействие с REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *zap.Logger
}

// Option настраивает Client.
type Option func(*Client)

// WithTimeout задаёт таймаут одного запроса.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger задаёт логгер транспорта.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient создаёт транспорт для указанного базового адреса API.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	base := strings.TrimRight(baseURL, "/")
	if base != "" && !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	c := &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		tokens: tokens,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do выполняет запрос и декодирует JSON-ответ в out, если out не nil.
// Ошибки сети и HTTP-статусы >= 400 возвращаются как *Error.
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	if c == nil || c.baseURL == "" {
		return fmt.Errorf("api client not configured")
	}

	route := r.Route
	if route == "" {
		route = r.Path
	}

	start := time.Now()
	status, err := c.do(ctx, r, out)
	metrics.APIRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	metrics.APIRequestsTotal.WithLabelValues(r.Method, route, resultLabel(status, err)).Inc()

	return err
}

func (c *Client) do(ctx context.Context, r Request, out any) (int, error) {
	u := c.baseURL + r.Path
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, u, body)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)

	if !r.Public && c.tokens != nil {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return 0, fmt.Errorf("read access token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api request failed",
			zap.String("method", r.Method),
			zap.String("path", r.Path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return 0, &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, &Error{Kind: KindNetwork, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("api request",
		zap.String("method", r.Method),
		zap.String("path", r.Path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID))

	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, newStatusError(resp.StatusCode, data)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}

	// Пустой ответ там, где ожидается тело, нельзя принять за нулевое значение.
	if len(bytes.TrimSpace(data)) == 0 {
		return resp.StatusCode, &Error{Kind: KindUnexpected, StatusCode: resp.StatusCode, Err: errors.New("empty response body")}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, &Error{Kind: KindUnexpected, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	return resp.StatusCode, nil
}

func resultLabel(status int, err error) string {
	if status == 0 && err != nil {
		return "error"
	}
	return strconv.Itoa(status)
}
