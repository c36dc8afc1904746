package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/witcher-command-center/backend/internal/metrics"
	"github.com/witcher-command-center/backend/pkg/utils"
)

// maxBodyBytes caps how much of an upstream response body is read.
const maxBodyBytes = 4 << 20

// ErrResponseTooLarge is returned when a successful response body exceeds maxBodyBytes.
var ErrResponseTooLarge = errors.New("response too large")

// Executor performs single-attempt upstream HTTP calls. Query parameters named in
// secretParams are masked in every log line and returned error.
type Executor struct {
	logger       *zap.Logger
	http         *http.Client
	upstreamTag  string
	secretParams []string
	errorHandler func(status int, body []byte) error
}

// New creates an Executor. errorHandler is called on non-2xx responses to produce an
// upstream-specific error. If nil, a *StatusError is returned.
func New(
	logger *zap.Logger,
	httpClient *http.Client,
	upstreamTag string,
	errorHandler func(status int, body []byte) error,
	secretParams ...string,
) *Executor {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Executor{
		logger:       logger,
		http:         httpClient,
		upstreamTag:  upstreamTag,
		secretParams: secretParams,
		errorHandler: errorHandler,
	}
}

// StatusError is returned for upstream error statuses when no error handler is set.
type StatusError struct {
	Status int
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned %d", e.Status)
}

// Do executes req exactly once and returns the response body of a 2xx response.
// Every other status, redirects included, goes to the error handler.
// endpoint labels the request in metrics.
func (e *Executor) Do(ctx context.Context, req *http.Request, endpoint string) ([]byte, error) {
	req = req.WithContext(ctx)
	safeURL := e.redact(req.URL.String())

	start := time.Now()
	resp, err := e.http.Do(req)
	metrics.ObserveDuration(metrics.SteamRequestDuration, start, endpoint)
	if err != nil {
		metrics.IncSteamRequest(endpoint, "error")
		err = e.redactErr(err)
		e.logger.Warn(e.upstreamTag+".http_failed",
			zap.String("url", safeURL),
			zap.Error(err))
		return nil, fmt.Errorf("%s request: %w", e.upstreamTag, err)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.IncSteamRequest(endpoint, strconv.Itoa(resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%s read body: %w", e.upstreamTag, e.redactErr(err))
	}
	tooLarge := len(body) > maxBodyBytes
	if tooLarge {
		body = body[:maxBodyBytes]
	}
	elapsed := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e.logger.Warn(e.upstreamTag+".upstream_error",
			zap.Int("status", resp.StatusCode),
			zap.String("url", safeURL),
			zap.Duration("latency", elapsed),
			zap.String("body", truncate(body, 512)))
		if e.errorHandler != nil {
			return nil, e.errorHandler(resp.StatusCode, body)
		}
		return nil, &StatusError{Status: resp.StatusCode, Body: body}
	}

	if tooLarge {
		e.logger.Warn(e.upstreamTag+".response_too_large",
			zap.String("url", safeURL),
			zap.Int("limit_bytes", maxBodyBytes))
		return nil, fmt.Errorf("%s: %w (over %d bytes)", e.upstreamTag, ErrResponseTooLarge, maxBodyBytes)
	}

	e.logger.Debug(e.upstreamTag+".http_success",
		zap.String("url", safeURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed))

	return body, nil
}

func (e *Executor) redact(raw string) string {
	for _, p := range e.secretParams {
		raw = utils.MaskQueryParam(raw, p)
	}
	return raw
}

// redactErr rewrites the URL carried by a *url.Error so the error text is safe to
// log and hand to callers.
func (e *Executor) redactErr(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}
	return &url.Error{Op: uerr.Op, URL: e.redact(uerr.URL), Err: uerr.Err}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
