package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuery(t *testing.T) {
	actual := NewQuery("error")

	require.NotNil(t, actual)
	assert.Equal(t, &Query{Filter: "error", StartTime: "4h", EndTime: "0h", MaxCount: 100}, actual)
}

func TestQueryRequestMarshal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		description string
		given       *Query
		want        string
	}{
		{
			"default parameters omit continuation token",
			NewQuery("test"),
			`{"token":"test123","queryType":"log","filter":"test","startTime":"4h","endTime":"0h","maxCount":100,"columns":""}`,
		},
		{
			"custom parameters with continuation token",
			&Query{Filter: "error", StartTime: "1h", EndTime: "0h", MaxCount: 200, Columns: "timestamp,message", ContinuationToken: "token-123"},
			`{"token":"test123","queryType":"log","filter":"error","startTime":"1h","endTime":"0h","maxCount":200,"columns":"timestamp,message","continuationToken":"token-123"}`,
		},
		{
			"out of range max count is passed through",
			&Query{Filter: "test", StartTime: "4h", EndTime: "0h", MaxCount: 10000},
			`{"token":"test123","queryType":"log","filter":"test","startTime":"4h","endTime":"0h","maxCount":10000,"columns":""}`,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.description, func(t *testing.T) {
			t.Parallel()

			actual, err := json.Marshal(NewQueryRequest("test123", tc.given))

			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(actual))
		})
	}
}

func TestNewErrorResult(t *testing.T) {
	actual := NewErrorResult("URL Error: Network unreachable")

	assert.Equal(t, Result{"error": "URL Error: Network unreachable"}, actual)
	assert.NotContains(t, actual, DetailsKey)

	actual = NewErrorResultWithDetails("HTTP 500: Internal Server Error", "Non-JSON error response")

	assert.Equal(t, Result{"error": "HTTP 500: Internal Server Error", "details": "Non-JSON error response"}, actual)
}
