package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ledgermind/ledgermind-engine/pkg/logging"
)

// MCPRequestLogger returns middleware that logs MCP JSON-RPC traffic on the
// streamable HTTP endpoint. It parses tool names and arguments from the
// request and distinguishes three outcomes in the response: success,
// protocol error, and tool error result (IsError=true inside a successful
// JSON-RPC envelope, which is how actionable tool failures are reported).
// Pass nil logger to disable logging.
func MCPRequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if logger == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bodyBytes, err := io.ReadAll(r.Body)
			if err != nil {
				logger.Error("Failed to read MCP request body", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

			var rpcReq jsonRPCRequest
			if err := json.Unmarshal(bodyBytes, &rpcReq); err != nil {
				logger.Debug("Failed to parse MCP request JSON", zap.Error(err))
			}

			toolName := rpcReq.Params.Name
			logger.Debug("MCP request",
				zap.String("method", rpcReq.Method),
				zap.String("tool", toolName),
				zap.Any("arguments", truncateArguments(rpcReq.Params.Arguments)),
			)

			recorder := &mcpResponseRecorder{
				ResponseWriter: w,
				body:           &bytes.Buffer{},
			}
			start := time.Now()

			next.ServeHTTP(recorder, r)

			duration := time.Since(start)

			var rpcResp jsonRPCResponse
			if err := json.Unmarshal(recorder.body.Bytes(), &rpcResp); err != nil {
				logger.Debug("Failed to parse MCP response JSON", zap.Error(err))
				return
			}

			switch {
			case rpcResp.Error != nil:
				logger.Debug("MCP response error",
					zap.String("tool", toolName),
					zap.Int("error_code", rpcResp.Error.Code),
					zap.String("error_message", rpcResp.Error.Message),
					zap.Duration("duration", duration),
				)
			case rpcResp.Result.IsError:
				logger.Debug("MCP tool error result",
					zap.String("tool", toolName),
					zap.Duration("duration", duration),
				)
			default:
				logger.Debug("MCP response success",
					zap.String("tool", toolName),
					zap.Duration("duration", duration),
				)
			}
		})
	}
}

type jsonRPCRequest struct {
	Method string `json:"method"`
	Params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	} `json:"params"`
}

type jsonRPCResponse struct {
	Result struct {
		IsError bool `json:"isError"`
	} `json:"result"`
	Error *jsonRPCError `json:"error"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// mcpResponseRecorder is a response writer that captures the response body.
type mcpResponseRecorder struct {
	http.ResponseWriter
	body *bytes.Buffer
}

func (r *mcpResponseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// truncateArguments shortens long string arguments before logging. Memory
// observations can run to paragraphs and would bloat the log stream.
func truncateArguments(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}

	result := make(map[string]any, len(args))
	for k, v := range args {
		if str, ok := v.(string); ok {
			result[k] = logging.TruncateString(str, 200)
		} else {
			result[k] = v
		}
	}
	return result
}
