package resolver

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/catapult-run/catapult/internal/domain"
)

// resolveReadJSON implements read-json: navigate a dotted path through a
// nested value (maps, []any, []any indices).
func resolveReadJSON(ctx context.Context, ec domain.ExecutionContext, scope map[string]any, args map[string]any) (any, error) {
	path, _ := args["path"].(string)
	if path == "" {
		return nil, fmt.Errorf("read-json: requires path")
	}

	current := args["value"]
	for _, part := range strings.Split(path, ".") {
		next, err := descend(current, part)
		if err != nil {
			return nil, fmt.Errorf("read-json: path %q: %w", path, err)
		}
		current = next
	}
	return current, nil
}

func descend(value any, part string) (any, error) {
	switch v := value.(type) {
	case map[string]any:
		child, ok := v[part]
		if !ok {
			return nil, fmt.Errorf("key %q not found", part)
		}
		return child, nil
	case []any:
		idx, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("expected array index, got %q", part)
		}
		if idx < 0 || idx >= len(v) {
			return nil, fmt.Errorf("index %d out of range (len %d)", idx, len(v))
		}
		return v[idx], nil
	default:
		return nil, fmt.Errorf("cannot index into %T", value)
	}
}

// resolveResolveJSON implements resolve-json: returns its argument
// verbatim. It exists so an already-recursively-resolved value can be
// passed through a value-expression position explicitly.
func resolveResolveJSON(ctx context.Context, ec domain.ExecutionContext, scope map[string]any, args map[string]any) (any, error) {
	return args["value"], nil
}
