// Package resolver implements the Value Resolver: recursive evaluation of
// literals, "{{ref}}" placeholder strings, and tagged resolver objects
// (arithmetic, ABI encode/pack, CREATE/CREATE2 address computation, RPC
// reads, JSON path extraction) against an ExecutionContext and local scope.
package resolver

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/catapult-run/catapult/internal/domain"
)

// handlerFunc implements one tagged resolver. args holds every field of the
// tagged object except "type", each already recursively resolved; when the
// object's "arguments" field is a mapping, its entries are lifted into args
// (top-level fields win on a name clash) and "arguments" itself is dropped.
type handlerFunc func(ctx context.Context, ec domain.ExecutionContext, scope map[string]any, args map[string]any) (any, error)

// Resolver is the engine's single Value Resolver implementation.
type Resolver struct {
	handlers map[string]handlerFunc
}

// New builds a Resolver with every built-in resolver tag registered.
func New() *Resolver {
	r := &Resolver{handlers: make(map[string]handlerFunc)}
	r.register("basic-arithmetic", resolveArithmetic)
	r.register("abi-encode", resolveABIEncode)
	r.register("abi-pack", resolveABIPack)
	r.register("constructor-encode", resolveConstructorEncode)
	r.register("compute-create", resolveComputeCreate)
	r.register("compute-create2", resolveComputeCreate2)
	r.register("read-balance", resolveReadBalance)
	r.register("call", resolveCall)
	r.register("contract-exists", resolveContractExists)
	r.register("job-completed", resolveJobCompleted)
	r.register("read-json", resolveReadJSON)
	r.register("resolve-json", resolveResolveJSON)
	r.register("json-request", resolveJSONRequest)
	return r
}

func (r *Resolver) register(tag string, h handlerFunc) {
	r.handlers[tag] = h
}

// Resolve recursively evaluates expr. scope may be nil (top-level, job
// scope) or hold template-argument bindings.
func (r *Resolver) Resolve(ctx context.Context, ec domain.ExecutionContext, scope map[string]any, expr any) (any, error) {
	switch v := expr.(type) {
	case nil, bool, int, int64, float64, string:
		if s, ok := v.(string); ok {
			return r.resolveString(ctx, ec, scope, s)
		}
		return v, nil

	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			resolved, err := r.Resolve(ctx, ec, scope, item)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil

	case map[string]any:
		return r.resolveMap(ctx, ec, scope, v)

	case map[any]any:
		// yaml.v3 decodes untyped maps with `any` keys; normalize to string keys.
		normalized := make(map[string]any, len(v))
		for k, val := range v {
			normalized[fmt.Sprintf("%v", k)] = val
		}
		return r.resolveMap(ctx, ec, scope, normalized)

	default:
		return v, nil
	}
}

func (r *Resolver) resolveMap(ctx context.Context, ec domain.ExecutionContext, scope map[string]any, m map[string]any) (any, error) {
	tag, _ := m["type"].(string)
	if tag != "" {
		if handler, ok := r.handlers[tag]; ok {
			args := make(map[string]any, len(m)-1)
			for k, v := range m {
				if k == "type" {
					continue
				}
				resolved, err := r.Resolve(ctx, ec, scope, v)
				if err != nil {
					return nil, fmt.Errorf("resolving %q.%s: %w", tag, k, err)
				}
				args[k] = resolved
			}
			if inner, ok := args["arguments"].(map[string]any); ok {
				delete(args, "arguments")
				for k, v := range inner {
					if _, exists := args[k]; !exists {
						args[k] = v
					}
				}
			}
			result, err := handler(ctx, ec, scope, args)
			if err != nil {
				return nil, fmt.Errorf("resolver %q: %w", tag, err)
			}
			return result, nil
		}
	}

	out := make(map[string]any, len(m))
	for k, v := range m {
		resolved, err := r.Resolve(ctx, ec, scope, v)
		if err != nil {
			return nil, err
		}
		out[k] = resolved
	}
	return out, nil
}

func (r *Resolver) resolveString(ctx context.Context, ec domain.ExecutionContext, scope map[string]any, s string) (any, error) {
	segments := splitReferences(s)
	if len(segments) == 0 {
		return s, nil
	}
	if len(segments) == 1 && !segments[0].isRef {
		return s, nil
	}

	if ident, ok := isSingleReference(segments); ok {
		return r.resolveIdentifier(ec, scope, ident)
	}

	var sb strings.Builder
	for _, seg := range segments {
		if !seg.isRef {
			sb.WriteString(seg.literal)
			continue
		}
		val, err := r.resolveIdentifier(ec, scope, seg.ident)
		if err != nil {
			return nil, err
		}
		sb.WriteString(stringify(val))
	}
	return sb.String(), nil
}

func (r *Resolver) resolveIdentifier(ec domain.ExecutionContext, scope map[string]any, ident string) (any, error) {
	if ident == "Network()" || strings.HasPrefix(ident, "Network().") {
		field := strings.TrimPrefix(ident, "Network().")
		if field == "Network()" {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnresolvedRef, ident)
		}
		val, ok := ec.Network().Field(field)
		if !ok {
			return nil, fmt.Errorf("%w: Network().%s", domain.ErrUnresolvedRef, field)
		}
		return val, nil
	}

	if scope != nil {
		if v, ok := scope[ident]; ok {
			return v, nil
		}
	}

	if v, ok := ec.GetOutput(ident); ok {
		return v, nil
	}

	return nil, fmt.Errorf("%w: %q", domain.ErrUnresolvedRef, ident)
}

// stringify renders a resolved value for textual interpolation into a
// reference string with surrounding literal text.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

var _ domain.Resolver = (*Resolver)(nil)
