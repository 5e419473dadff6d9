package handlers

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	scalyrmcp "github.com/app-sre/scalyr-mcp/pkg"
	"github.com/app-sre/scalyr-mcp/pkg/models"
	"github.com/app-sre/scalyr-mcp/pkg/query"
)

const (
	QueryToolName  = "dataset_scalyr_query"
	QueryToolTitle = "Dataset_scalyr_query"
)

func QueryTool() mcp.Tool {
	return mcp.NewTool(QueryToolName,
		mcp.WithDescription("Search logs stored in Scalyr (DataSet). Returns the parsed response of the Scalyr query API."),
		mcp.WithTitleAnnotation(QueryToolTitle),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString(models.ArgFilter,
			mcp.Required(),
			mcp.Description("Events to match, in the syntax of the Expression field of the Scalyr query UI, "+
				"e.g. Environment = 'staging' Project = 'backend' 'error'."),
		),
		mcp.WithString(models.ArgStartTime,
			mcp.DefaultString(models.DefaultStartTime),
			mcp.Description("Start of the time range. A relative value such as 4h, or a timestamp in seconds, "+
				"milliseconds or nanoseconds since 1970-01-01."),
		),
		mcp.WithString(models.ArgEndTime,
			mcp.DefaultString(models.DefaultEndTime),
			mcp.Description("End of the time range. Same formats as start_time."),
		),
		mcp.WithNumber(models.ArgMaxCount,
			mcp.DefaultNumber(float64(models.DefaultMaxCount)),
			mcp.Description("Maximum number of records to return, from 1 to 5000."),
		),
		mcp.WithString(models.ArgColumns,
			mcp.DefaultString(""),
			mcp.Description("Comma-delimited list of fields to return for each record, e.g. timestamp,message. "+
				"Empty returns all fields."),
		),
		mcp.WithString(models.ArgContinuationToken,
			mcp.Description("Token returned by a previous call, used to fetch the next page of matches. "+
				"Omit it on the first call and repeat the same filter, start_time and end_time afterwards. "+
				"Use absolute start_time and end_time values when paging: a relative range drifts between "+
				"calls and the query fails once the token points outside of it."),
		),
	)
}

func Query(cfg *scalyrmcp.Config) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q, err := queryFromRequest(request)
		if err != nil {
			cfg.Logger.Errorf("Invalid arguments for tool %s: %s", request.Params.Name, err)
			return mcp.NewToolResultError(err.Error()), nil
		}

		cfg.Logger.Debugf("Querying Scalyr (start: %s, end: %s, max count: %d)", q.StartTime, q.EndTime, q.MaxCount)

		result, err := cfg.Invoker.Do(ctx, q)
		if err != nil {
			cfg.Logger.Errorf("Unable to query Scalyr: %s", err)
			result = query.ErrorResult(err)
		}

		content, merr := json.Marshal(result)
		if merr != nil {
			return mcp.NewToolResultErrorFromErr("Unable to marshal Scalyr result", merr), nil
		}

		r := mcp.NewToolResultStructured(result, string(content))
		r.IsError = err != nil

		return r, nil
	}
}
