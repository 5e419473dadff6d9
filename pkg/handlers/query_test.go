package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/app-sre/scalyr-mcp/internal/test"
	scalyrmcp "github.com/app-sre/scalyr-mcp/pkg"
	"github.com/app-sre/scalyr-mcp/pkg/env/scalyr"
	"github.com/app-sre/scalyr-mcp/pkg/models"
	"github.com/app-sre/scalyr-mcp/pkg/query"
)

func TestQueryTool(t *testing.T) {
	t.Parallel()

	tool := QueryTool()

	assert.Equal(t, "dataset_scalyr_query", tool.Name)
	assert.Equal(t, "Dataset_scalyr_query", tool.Annotations.Title)
	require.NotNil(t, tool.Annotations.ReadOnlyHint)
	assert.True(t, *tool.Annotations.ReadOnlyHint)

	assert.Equal(t, []string{"filter"}, tool.InputSchema.Required)
	assert.Len(t, tool.InputSchema.Properties, 6)

	cases := []struct {
		description string
		property    string
		kind        string
		value       any
	}{
		{"start time defaults to four hours ago", "start_time", "string", "4h"},
		{"end time defaults to now", "end_time", "string", "0h"},
		{"max count defaults to one hundred", "max_count", "number", float64(100)},
		{"columns default to all columns", "columns", "string", ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()

			property, ok := tool.InputSchema.Properties[tc.property].(map[string]any)
			require.True(t, ok)

			assert.Equal(t, tc.kind, property["type"])
			assert.Equal(t, tc.value, property["default"])
		})
	}
}

func TestQuery(t *testing.T) {
	t.Parallel()

	cases := []struct {
		description string
		arguments   map[string]any
		code        int
		response    string
		request     string
		isError     bool
		result      string
		log         string
	}{
		{
			"query with only a filter uses defaults",
			map[string]any{"filter": "'error'"},
			200,
			`{"status":"success","matches":[{"message":"error"}]}`,
			`{"token":"test","queryType":"log","filter":"'error'","startTime":"4h","endTime":"0h","maxCount":100,"columns":""}`,
			false,
			`{"status":"success","matches":[{"message":"error"}]}`,
			``,
		},
		{
			"query with every argument",
			map[string]any{
				"filter":             "$serverHost = 'web-1'",
				"start_time":         "1700000000",
				"end_time":           "1700003600",
				"max_count":          float64(20),
				"columns":            "timestamp,message",
				"continuation_token": "abc",
			},
			200,
			`{"status":"success","matches":[],"continuationToken":"def"}`,
			`{"token":"test","queryType":"log","filter":"$serverHost = 'web-1'","startTime":"1700000000","endTime":"1700003600","maxCount":20,"columns":"timestamp,message","continuationToken":"abc"}`,
			false,
			`{"status":"success","matches":[],"continuationToken":"def"}`,
			``,
		},
		{
			"query rejected by Scalyr",
			map[string]any{"filter": "bad("},
			400,
			`{"status":"error/client/badParam","message":"Could not parse filter"}`,
			`{"token":"test","queryType":"log","filter":"bad(","startTime":"4h","endTime":"0h","maxCount":100,"columns":""}`,
			true,
			`{"error":"HTTP 400: Bad Request","details":{"status":"error/client/badParam","message":"Could not parse filter"}}`,
			`Unable to query Scalyr: HTTP 400: Bad Request`,
		},
		{
			"query with a malformed response",
			map[string]any{"filter": "'error'"},
			200,
			`not json`,
			`{"token":"test","queryType":"log","filter":"'error'","startTime":"4h","endTime":"0h","maxCount":100,"columns":""}`,
			true,
			``,
			`Unable to query Scalyr: Unexpected error: unable to unmarshal Scalyr response`,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()

			var (
				output bytes.Buffer
				body   []byte
			)

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, _ = io.ReadAll(r.Body)
				w.WriteHeader(tc.code)
				_, _ = io.WriteString(w, tc.response)
			}))
			defer server.Close()

			env := &scalyr.Env{Token: "test", Endpoint: server.URL}
			logger := test.DummyLogger(&output).Sugar()
			cfg := &scalyrmcp.Config{
				ScalyrEnv: env,
				Invoker:   query.NewInvoker(env),
				Logger:    logger,
			}

			request := test.ToolRequest(QueryToolName, tc.arguments)

			actual, err := Query(cfg)(context.Background(), request)

			require.NoError(t, err)
			require.NotNil(t, actual)
			require.Len(t, actual.Content, 1)

			text, ok := mcp.AsTextContent(actual.Content[0])
			require.True(t, ok)

			assert.JSONEq(t, tc.request, string(body))
			assert.Equal(t, tc.isError, actual.IsError)
			assert.IsType(t, models.Result{}, actual.StructuredContent)
			if tc.result != "" {
				assert.JSONEq(t, tc.result, text.Text)
			} else {
				assert.Contains(t, text.Text, `"error"`)
			}
			assert.Contains(t, output.String(), tc.log)
		})
	}
}

func TestQueryMissingFilter(t *testing.T) {
	t.Parallel()

	var output bytes.Buffer

	env := &scalyr.Env{Token: "test", Endpoint: "http://127.0.0.1:1"}
	cfg := &scalyrmcp.Config{
		ScalyrEnv: env,
		Invoker:   query.NewInvoker(env),
		Logger:    test.DummyLogger(&output).Sugar(),
	}

	request := test.ToolRequest(QueryToolName, map[string]any{"start_time": "1h"})

	actual, err := Query(cfg)(context.Background(), request)

	require.NoError(t, err)
	require.NotNil(t, actual)
	require.Len(t, actual.Content, 1)

	text, ok := mcp.AsTextContent(actual.Content[0])
	require.True(t, ok)

	assert.True(t, actual.IsError)
	assert.Contains(t, text.Text, "filter")
}

func TestQueryMissingToken(t *testing.T) {
	t.Parallel()

	var output bytes.Buffer

	env := &scalyr.Env{Endpoint: "http://127.0.0.1:1"}
	cfg := &scalyrmcp.Config{
		ScalyrEnv: env,
		Invoker:   query.NewInvoker(env),
		Logger:    test.DummyLogger(&output).Sugar(),
	}

	request := test.ToolRequest(QueryToolName, map[string]any{"filter": "'error'"})

	actual, err := Query(cfg)(context.Background(), request)

	require.NoError(t, err)
	require.NotNil(t, actual)
	require.Len(t, actual.Content, 1)

	text, ok := mcp.AsTextContent(actual.Content[0])
	require.True(t, ok)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &result))

	assert.True(t, actual.IsError)
	assert.Equal(t, map[string]any{"error": "unable to access environment variable: SCALYR_API_TOKEN"}, result)
	assert.Contains(t, output.String(), "Unable to query Scalyr")
}

func TestQueryInvalidArguments(t *testing.T) {
	t.Parallel()

	cases := []struct {
		description string
		arguments   map[string]any
		want        string
	}{
		{
			"numeric start time",
			map[string]any{"filter": "x", "start_time": float64(1700000000)},
			`argument "start_time" must be a string, got float64`,
		},
		{
			"numeric end time",
			map[string]any{"filter": "x", "end_time": float64(1700003600)},
			`argument "end_time" must be a string, got float64`,
		},
		{
			"numeric continuation token",
			map[string]any{"filter": "x", "continuation_token": float64(42)},
			`argument "continuation_token" must be a string, got float64`,
		},
		{
			"list of columns",
			map[string]any{"filter": "x", "columns": []any{"timestamp", "message"}},
			`argument "columns" must be a string, got []interface {}`,
		},
		{
			"fractional max count",
			map[string]any{"filter": "x", "max_count": 250.9},
			`argument "max_count" must be an integer, got 250.9`,
		},
		{
			"non numeric max count",
			map[string]any{"filter": "x", "max_count": "many"},
			`argument "max_count" must be an integer, got "many"`,
		},
		{
			"boolean max count",
			map[string]any{"filter": "x", "max_count": true},
			`argument "max_count" must be an integer, got bool`,
		},
		{
			"numeric filter",
			map[string]any{"filter": float64(1)},
			`filter`,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()

			var (
				output bytes.Buffer
				calls  atomic.Int32
			)

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				_, _ = io.WriteString(w, `{"status":"success"}`)
			}))
			defer server.Close()

			env := &scalyr.Env{Token: "test", Endpoint: server.URL}
			cfg := &scalyrmcp.Config{
				ScalyrEnv: env,
				Invoker:   query.NewInvoker(env),
				Logger:    test.DummyLogger(&output).Sugar(),
			}

			actual, err := Query(cfg)(context.Background(), test.ToolRequest(QueryToolName, tc.arguments))

			require.NoError(t, err)
			require.NotNil(t, actual)
			require.Len(t, actual.Content, 1)

			text, ok := mcp.AsTextContent(actual.Content[0])
			require.True(t, ok)

			assert.True(t, actual.IsError)
			assert.Contains(t, text.Text, tc.want)
			assert.Zero(t, calls.Load())
			assert.Contains(t, output.String(), "Invalid arguments for tool dataset_scalyr_query")
		})
	}
}
