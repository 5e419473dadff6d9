package models

const (
	DefaultStartTime = "4h"
	DefaultEndTime   = "0h"
	DefaultMaxCount  = 100

	QueryTypeLog = "log"
)

// Tool call argument names.
const (
	ArgFilter            = "filter"
	ArgStartTime         = "start_time"
	ArgEndTime           = "end_time"
	ArgMaxCount          = "max_count"
	ArgColumns           = "columns"
	ArgContinuationToken = "continuation_token"
)

// Query holds the caller supplied parameters of a single log search.
type Query struct {
	Filter            string
	StartTime         string
	EndTime           string
	MaxCount          int
	Columns           string
	ContinuationToken string
}

func NewQuery(filter string) *Query {
	return &Query{
		Filter:    filter,
		StartTime: DefaultStartTime,
		EndTime:   DefaultEndTime,
		MaxCount:  DefaultMaxCount,
	}
}

// QueryRequest is the JSON body sent to the Scalyr query API.
type QueryRequest struct {
	Token             string `json:"token"`
	QueryType         string `json:"queryType"`
	Filter            string `json:"filter"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	MaxCount          int    `json:"maxCount"`
	Columns           string `json:"columns"`
	ContinuationToken string `json:"continuationToken,omitempty"`
}

func NewQueryRequest(token string, q *Query) *QueryRequest {
	return &QueryRequest{
		Token:             token,
		QueryType:         QueryTypeLog,
		Filter:            q.Filter,
		StartTime:         q.StartTime,
		EndTime:           q.EndTime,
		MaxCount:          q.MaxCount,
		Columns:           q.Columns,
		ContinuationToken: q.ContinuationToken,
	}
}

// Result is either the verbatim response of the query API or an error
// result carrying the "error" and optional "details" keys.
type Result map[string]any

const (
	ErrorKey   = "error"
	DetailsKey = "details"
)

func NewErrorResult(message string) Result {
	return Result{ErrorKey: message}
}

func NewErrorResultWithDetails(message string, details any) Result {
	return Result{ErrorKey: message, DetailsKey: details}
}
