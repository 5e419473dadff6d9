package query

import (
	"errors"
	"fmt"

	"github.com/app-sre/scalyr-mcp/pkg/models"
)

// HTTPError is returned when the query API responds with a non-2xx status.
type HTTPError struct {
	Code    int
	Reason  string
	Details any
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Reason)
}

// TransportError is returned when the request never produced a response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("URL Error: %s", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("Unexpected error: %s", e.Err)
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}

// ErrorResult converts an error returned by Do into the error result shape.
// Only HTTP errors carry details.
func ErrorResult(err error) models.Result {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return models.NewErrorResultWithDetails(httpErr.Error(), httpErr.Details)
	}
	return models.NewErrorResult(err.Error())
}
