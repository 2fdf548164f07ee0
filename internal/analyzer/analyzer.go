// Package analyzer defines the contract of the external résumé analysis service.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	// ErrServiceFailed covers transport errors and non-success responses.
	ErrServiceFailed = errors.New("analysis service failed")
	// ErrMalformedResponse is a success response without an analysis id.
	ErrMalformedResponse = errors.New("analysis service returned malformed response")
	// ErrUnavailable is returned while the client refuses calls after repeated failures.
	ErrUnavailable = errors.New("analysis service unavailable")
)

// File is an uploaded résumé.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Request is one analysis submission.
type Request struct {
	UserID         string
	JobTitle       string
	JobDescription string
	Resume         File
}

// Result is a successful analysis. Analysis is the inline payload when the
// service returns one.
type Result struct {
	AnalysisID string
	Analysis   json.RawMessage
}

// Client submits analyses to the external service.
type Client interface {
	Analyze(ctx context.Context, req Request) (Result, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, req Request) (Result, error)

func (f ClientFunc) Analyze(ctx context.Context, req Request) (Result, error) {
	return f(ctx, req)
}

// Unconfigured fails every call. It stands in when no service URL is set.
var Unconfigured Client = ClientFunc(func(ctx context.Context, req Request) (Result, error) {
	return Result{}, errors.Join(ErrServiceFailed, errors.New("analysis service url not configured"))
})
