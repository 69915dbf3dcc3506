package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/catapult-run/catapult/internal/domain"
)

// resolveJSONRequest implements json-request, supplementing the distilled
// resolver table with the HTTP action named in the overview's action list.
func resolveJSONRequest(ctx context.Context, ec domain.ExecutionContext, scope map[string]any, args map[string]any) (any, error) {
	url, _ := args["url"].(string)
	if url == "" {
		return nil, fmt.Errorf("json-request: requires url")
	}
	method, _ := args["method"].(string)
	if method == "" {
		method = http.MethodGet
	}
	allowError, _ := args["allow_error"].(bool)

	var body io.Reader
	if b, ok := args["body"]; ok && b != nil {
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("json-request: encode body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), url, body)
	if err != nil {
		return nil, fmt.Errorf("json-request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if headers, ok := args["headers"].(map[string]any); ok {
		for k, v := range headers {
			req.Header.Set(k, fmt.Sprintf("%v", v))
		}
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		if allowError {
			return map[string]any{"error": err.Error()}, nil
		}
		return nil, fmt.Errorf("json-request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("json-request: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if allowError {
			return map[string]any{"status": resp.StatusCode, "body": string(raw)}, nil
		}
		return nil, fmt.Errorf("json-request: %s returned status %d", url, resp.StatusCode)
	}

	var decoded any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return nil, fmt.Errorf("json-request: decode response: %w", err)
		}
	}
	return normalizeJSON(decoded), nil
}

// normalizeJSON converts encoding/json's map[string]interface{} decode
// result into the map[string]any the resolver's recursive evaluator and
// read-json expect (identical underlying type, kept explicit for clarity).
func normalizeJSON(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeJSON(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeJSON(val)
		}
		return out
	default:
		return v
	}
}
