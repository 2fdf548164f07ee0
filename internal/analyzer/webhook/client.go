// Package webhook calls an HTTP workflow endpoint that runs the résumé analysis.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"

	"resume-tailor/internal/analyzer"
	"resume-tailor/internal/shared/metrics"
	"resume-tailor/internal/shared/telemetry"
)

// Options configures the webhook client.
type Options struct {
	URL                 string
	Timeout             time.Duration
	BreakerFailureRatio float64
	BreakerMinRequests  uint32
	BreakerTimeout      time.Duration
}

// Client posts multipart submissions to the analysis webhook.
type Client struct {
	url  string
	http *resty.Client
	cb   *gobreaker.CircuitBreaker[analyzer.Result]
}

// StatusError carries the HTTP status of a non-success response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d", e.Code)
}

// errCallerGone marks a call that ended because the caller's context did.
var errCallerGone = errors.New("caller context done")

// countsAsHealthy keeps caller-side outcomes out of the shared breaker: the
// caller cancelling or timing out, and 4xx answers to one caller's input.
// 408 and 429 still count because they signal an overloaded service.
func countsAsHealthy(err error) bool {
	if err == nil || errors.Is(err, errCallerGone) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 400 && se.Code < 500 &&
			se.Code != http.StatusRequestTimeout && se.Code != http.StatusTooManyRequests
	}
	return false
}

type response struct {
	AnalysisID string          `json:"analysisId"`
	Analysis   json.RawMessage `json:"analysis,omitempty"`
}

// New builds a Client. The URL is required.
func New(opts Options) (*Client, error) {
	url := strings.TrimSpace(opts.URL)
	if url == "" {
		return nil, errors.New("analysis webhook url is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 120 * time.Second
	}
	if opts.BreakerFailureRatio <= 0 {
		opts.BreakerFailureRatio = 0.6
	}
	if opts.BreakerMinRequests == 0 {
		opts.BreakerMinRequests = 5
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = 30 * time.Second
	}

	httpClient := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json")

	settings := gobreaker.Settings{
		Name:         "analysis-webhook",
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      opts.BreakerTimeout,
		IsSuccessful: countsAsHealthy,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= opts.BreakerMinRequests && failureRatio >= opts.BreakerFailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			telemetry.Warn("analysis.breaker_state", map[string]any{
				"name": name,
				"from": from.String(),
				"to":   to.String(),
			})
		},
	}

	return &Client{
		url:  url,
		http: httpClient,
		cb:   gobreaker.NewCircuitBreaker[analyzer.Result](settings),
	}, nil
}

// Analyze submits the résumé and job details. Any non-2xx status or a body
// without an analysis id is a failure.
func (c *Client) Analyze(ctx context.Context, req analyzer.Request) (analyzer.Result, error) {
	start := time.Now()
	res, err := c.cb.Execute(func() (analyzer.Result, error) {
		return c.post(ctx, req)
	})
	metrics.ObserveAnalysisService(time.Since(start))
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return analyzer.Result{}, fmt.Errorf("%w: %v", analyzer.ErrUnavailable, err)
	}
	return res, err
}

func (c *Client) post(ctx context.Context, req analyzer.Request) (analyzer.Result, error) {
	name := req.Resume.Name
	if name == "" {
		name = "resume"
	}
	contentType := req.Resume.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	r := c.http.R().
		SetContext(ctx).
		SetMultipartField("resume", name, contentType, bytes.NewReader(req.Resume.Data)).
		SetMultipartFormData(map[string]string{
			"jobTitle":       req.JobTitle,
			"jobDescription": req.JobDescription,
			"userId":         req.UserID,
		})

	resp, err := r.Post(c.url)
	if err != nil {
		if ctx.Err() != nil {
			return analyzer.Result{}, fmt.Errorf("%w: %w: %v", analyzer.ErrServiceFailed, errCallerGone, err)
		}
		return analyzer.Result{}, fmt.Errorf("%w: %v", analyzer.ErrServiceFailed, err)
	}
	if !resp.IsSuccess() {
		return analyzer.Result{}, fmt.Errorf("%w: %w", analyzer.ErrServiceFailed, &StatusError{Code: resp.StatusCode()})
	}

	var body response
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return analyzer.Result{}, fmt.Errorf("%w: %v", analyzer.ErrMalformedResponse, err)
	}
	id := strings.TrimSpace(body.AnalysisID)
	if id == "" {
		return analyzer.Result{}, fmt.Errorf("%w: missing analysisId", analyzer.ErrMalformedResponse)
	}
	out := analyzer.Result{AnalysisID: id}
	if len(body.Analysis) > 0 && string(body.Analysis) != "null" {
		out.Analysis = body.Analysis
	}
	return out, nil
}
