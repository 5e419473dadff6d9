package query

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

	"github.com/app-sre/scalyr-mcp/pkg/env"
	"github.com/app-sre/scalyr-mcp/pkg/env/scalyr"
	"github.com/app-sre/scalyr-mcp/pkg/models"
	"github.com/app-sre/scalyr-mcp/pkg/version"
)

// Invoker sends log queries to the Scalyr query API. It holds no per-call
// state and is safe for concurrent use.
type Invoker struct {
	ScalyrEnv *scalyr.Env

	client *http.Client
}

type Option func(*Invoker)

func WithHTTPClient(client *http.Client) Option {
	return func(i *Invoker) {
		i.SetHTTPClient(client)
	}
}

func NewInvoker(se *scalyr.Env, options ...Option) *Invoker {
	i := &Invoker{ScalyrEnv: se}

	// A zero Timeout leaves the transport defaults in charge.
	i.client = &http.Client{Transport: defaultTransport()}
	if se != nil {
		i.client.Timeout = se.Timeout
	}

	for _, option := range options {
		option(i)
	}

	return i
}

// defaultTransport clones the default transport so the invoker keeps its own
// connection pool. When the default has been replaced (HTTP mocking in tests)
// the replacement is used as is.
func defaultTransport() http.RoundTripper {
	if t, ok := http.DefaultTransport.(*http.Transport); ok {
		return t.Clone()
	}
	return http.DefaultTransport
}

func (i *Invoker) SetHTTPClient(client *http.Client) {
	i.client = client
}

// Execute runs the query once and always returns a result: either the
// decoded API response or an error result.
func (i *Invoker) Execute(ctx context.Context, q *models.Query) models.Result {
	result, err := i.Do(ctx, q)
	if err != nil {
		return ErrorResult(err)
	}
	return result
}

func (i *Invoker) Do(ctx context.Context, q *models.Query) (models.Result, error) {
	if i.ScalyrEnv == nil || !i.ScalyrEnv.HasToken() {
		return nil, &env.Error{Name: scalyr.TokenKey}
	}

	content, err := json.Marshal(models.NewQueryRequest(i.ScalyrEnv.Token, q))
	if err != nil {
		return nil, &UnexpectedError{Err: fmt.Errorf("unable to marshal Scalyr query: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.ScalyrEnv.Endpoint, bytes.NewReader(content))
	if err != nil {
		return nil, &UnexpectedError{Err: fmt.Errorf("unable to create request to Scalyr: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", fmt.Sprintf("scalyr-mcp/%s", version.Version()))

	resp, err := i.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return nil, &TransportError{Err: urlErr.Err}
		}
		return nil, &UnexpectedError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// A body that cannot be read is reported as empty details.
		return nil, &HTTPError{
			Code:    resp.StatusCode,
			Reason:  statusReason(resp),
			Details: errorDetails(body),
		}
	}

	if err != nil {
		return nil, &UnexpectedError{Err: fmt.Errorf("unable to read Scalyr response body: %w", err)}
	}

	result, err := decodeResult(body)
	if err != nil {
		return nil, &UnexpectedError{Err: fmt.Errorf("unable to unmarshal Scalyr response: %w", err)}
	}

	return result, nil
}

func decodeResult(body []byte) (models.Result, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var result models.Result
	if err := decoder.Decode(&result); err != nil {
		return nil, err
	}
	if result == nil {
		return nil, errors.New("response is not a JSON object")
	}
	if decoder.More() {
		return nil, errors.New("unexpected data after JSON object")
	}

	return result, nil
}

// Structured details when the body is JSON, the raw text otherwise.
func errorDetails(body []byte) any {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var details any
	if err := decoder.Decode(&details); err != nil || decoder.More() {
		return string(body)
	}

	return details
}

func statusReason(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" || reason == resp.Status {
		return http.StatusText(resp.StatusCode)
	}
	return reason
}
