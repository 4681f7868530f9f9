// Package parkingapi is the HTTP client for the remote Parking Service.
//
// Every failure is returned as an *errors.StandardError whose Message can be
// shown to the user as is. Callers never see raw transport errors.
package parkingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"parkvision-client/internal/common/cache"
	apperrors "parkvision-client/internal/common/errors"
	commonhttp "parkvision-client/internal/common/http"
	"parkvision-client/internal/common/logger"
	"parkvision-client/internal/common/observability"
	"parkvision-client/internal/models"
)

const maxBodyBytes = 4 << 20

type Client struct {
	baseURL string
	http    *commonhttp.Client
	cache   *cache.RedisCache
	obs     *observability.Observability
	logger  logger.Logger

	mu       sync.Mutex
	spotLots map[models.SpotID]models.LotID
}

type Option func(*Client)

// WithCache enables the read-through cache for lot and spot listings.
func WithCache(c *cache.RedisCache) Option {
	return func(cl *Client) { cl.cache = c }
}

// WithObservability records call counts and latency per operation.
func WithObservability(o *observability.Observability) Option {
	return func(cl *Client) { cl.obs = o }
}

func New(baseURL string, httpClient *commonhttp.Client, log logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     httpClient,
		logger:   log.WithFields(map[string]interface{}{"component": "parkingapi"}),
		spotLots: make(map[models.SpotID]models.LotID),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call performs one request and records it. out may be nil.
func (c *Client) call(ctx context.Context, op, method, path string, body, out interface{}, failMsg string) error {
	start := time.Now()
	status, err := c.do(ctx, method, path, body, out, failMsg)

	outcome := "success"
	fields := map[string]interface{}{
		"operation":  op,
		"path":       path,
		"status":     status,
		"durationMs": time.Since(start).Milliseconds(),
	}
	if err != nil {
		stdErr := apperrors.AsStandard(err, failMsg)
		outcome = string(stdErr.Code)
		fields["errorCode"] = stdErr.Code
		fields["details"] = stdErr.Details
		c.logger.Warn("parking service call failed", fields)
	} else {
		c.logger.Debug("parking service call", fields)
	}
	c.obs.RecordServiceCall(ctx, op, outcome, time.Since(start))
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, failMsg string) (int, error) {
	req, err := commonhttp.NewJSONRequest(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, apperrors.NewRemoteError(failMsg, err.Error(), 0)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return 0, apperrors.NewServiceTimeoutError(failMsg, err)
		}
		return 0, apperrors.NewServiceUnavailableError(failMsg, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if isTimeout(ctx, err) {
			return resp.StatusCode, apperrors.NewServiceTimeoutError(failMsg, err)
		}
		return resp.StatusCode, apperrors.NewServiceUnavailableError(failMsg, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		details := serverError(raw)
		if details == "" {
			details = http.StatusText(resp.StatusCode)
		}
		return resp.StatusCode, apperrors.NewRemoteError(failMsg, details, resp.StatusCode)
	}

	if details := serverError(raw); details != "" {
		return resp.StatusCode, apperrors.NewRemoteError(failMsg, details, resp.StatusCode)
	}

	if out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, apperrors.NewInvalidResponseError(failMsg, err)
		}
	}
	return resp.StatusCode, nil
}

// serverError extracts the "error" field of an object payload. The server
// sends either a message string or true with details under errorMessage.
func serverError(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ""
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return ""
	}
	field, ok := payload["error"]
	if !ok {
		return ""
	}

	var msg string
	if err := json.Unmarshal(field, &msg); err == nil {
		return msg
	}
	var flag bool
	if err := json.Unmarshal(field, &flag); err == nil {
		if !flag {
			return ""
		}
		if detail, ok := payload["errorMessage"]; ok {
			return string(detail)
		}
		return "server reported an error"
	}
	if string(field) == "null" {
		return ""
	}
	return string(field)
}

func isTimeout(ctx context.Context, err error) bool {
	if ctx.Err() == context.DeadlineExceeded || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func lotSpotsKey(lotID models.LotID) string {
	return fmt.Sprintf("lot:%d:spots", lotID)
}

const allLotsKey = "lots:all"

// cached runs a read-through lookup. Cache failures are logged and the call
// goes to the server.
func (c *Client) cached(ctx context.Context, key string, dest interface{}, fetch func() error) error {
	if c.cache != nil {
		hit, err := c.cache.GetJSON(ctx, key, dest)
		if err != nil {
			c.logger.Warn("cache read failed", map[string]interface{}{
				"key":   key,
				"error": apperrors.NewCacheFailedError("get", err).Details,
			})
		} else if hit {
			c.logger.Debug("cache hit", map[string]interface{}{"key": key})
			return nil
		}
	}

	if err := fetch(); err != nil {
		return err
	}
	c.store(ctx, key, dest)
	return nil
}

func (c *Client) store(ctx context.Context, key string, value interface{}) {
	if c.cache == nil {
		return
	}
	if err := c.cache.SetJSON(ctx, key, value); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{
			"key":   key,
			"error": apperrors.NewCacheFailedError("set", err).Details,
		})
	}
}

// invalidateSpot drops the cached listing of the lot that owns spotID.
func (c *Client) invalidateSpot(ctx context.Context, spotID models.SpotID) {
	if c.cache == nil {
		return
	}
	c.mu.Lock()
	lotID, ok := c.spotLots[spotID]
	c.mu.Unlock()
	if !ok {
		return
	}
	if err := c.cache.Del(ctx, lotSpotsKey(lotID)); err != nil {
		c.logger.Warn("cache invalidation failed", map[string]interface{}{
			"lotId": lotID,
			"error": apperrors.NewCacheFailedError("del", err).Details,
		})
	}
}

func (c *Client) rememberSpots(lotID models.LotID, spots []models.ParkingSpot) {
	c.mu.Lock()
	for _, s := range spots {
		c.spotLots[s.ID] = lotID
	}
	c.mu.Unlock()
}
