package handlers

import (
	"fmt"
	"math"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/app-sre/scalyr-mcp/pkg/models"
)

// An argument of the wrong type is rejected. Falling back to the default
// would silently run a different query.
func queryFromRequest(request mcp.CallToolRequest) (*models.Query, error) {
	filter, err := request.RequireString(models.ArgFilter)
	if err != nil {
		return nil, err
	}
	args := request.GetArguments()

	q := models.NewQuery(filter)
	if q.StartTime, err = stringArgument(args, models.ArgStartTime, models.DefaultStartTime); err != nil {
		return nil, err
	}
	if q.EndTime, err = stringArgument(args, models.ArgEndTime, models.DefaultEndTime); err != nil {
		return nil, err
	}
	if q.MaxCount, err = intArgument(args, models.ArgMaxCount, models.DefaultMaxCount); err != nil {
		return nil, err
	}
	if q.Columns, err = stringArgument(args, models.ArgColumns, ""); err != nil {
		return nil, err
	}
	if q.ContinuationToken, err = stringArgument(args, models.ArgContinuationToken, ""); err != nil {
		return nil, err
	}

	return q, nil
}

func stringArgument(args map[string]any, key, fallback string) (string, error) {
	value, ok := args[key]
	if !ok || value == nil {
		return fallback, nil
	}

	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string, got %T", key, value)
	}

	return s, nil
}

// Integral numbers and integer strings are accepted.
func intArgument(args map[string]any, key string, fallback int) (int, error) {
	value, ok := args[key]
	if !ok || value == nil {
		return fallback, nil
	}

	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || v > math.MaxInt32 || v < math.MinInt32 {
			return 0, fmt.Errorf("argument %q must be an integer, got %v", key, v)
		}
		return int(v), nil
	case string:
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("argument %q must be an integer, got %q", key, v)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("argument %q must be an integer, got %T", key, value)
	}
}
