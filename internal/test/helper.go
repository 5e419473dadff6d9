package test

import (
	"io"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func DummyLogger(w io.Writer) *zap.Logger {
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey: "message",
	})

	writer := zap.CombineWriteSyncers(zapcore.AddSync(os.Stderr), zapcore.AddSync(w))

	l := zap.New(zapcore.NewCore(encoder, writer, zapcore.DebugLevel))
	zap.RedirectStdLog(l)

	return l
}

// ToolRequest builds a tool call the way the MCP server hands it to a handler.
func ToolRequest(name string, arguments map[string]any) mcp.CallToolRequest {
	var request mcp.CallToolRequest

	request.Params.Name = name
	request.Params.Arguments = arguments

	return request
}
