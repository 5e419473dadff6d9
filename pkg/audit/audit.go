package audit

import "context"

type Audit interface {
	Write(context.Context, *QueryData) error
}

// QueryData describes a single log query issued through the tool.
type QueryData struct {
	Filter    string
	StartTime string
	EndTime   string
	User      string
	Timestamp int64
}
