package resolver

import (
	"context"
	"fmt"
	"math/big"

	"github.com/catapult-run/catapult/internal/domain"
)

// resolveArithmetic implements the basic-arithmetic tag: add/sub/mul/div
// return a decimal string; eq/neq/gt/lt/gte/lte return a bool.
func resolveArithmetic(ctx context.Context, ec domain.ExecutionContext, scope map[string]any, args map[string]any) (any, error) {
	op, _ := args["operation"].(string)
	if op == "" {
		return nil, fmt.Errorf("basic-arithmetic: missing operation")
	}

	rawValues, ok := args["values"].([]any)
	if !ok || len(rawValues) < 2 {
		return nil, fmt.Errorf("basic-arithmetic: requires at least 2 values")
	}

	values := make([]*big.Int, len(rawValues))
	for i, rv := range rawValues {
		n, err := toBigInt(rv)
		if err != nil {
			return nil, fmt.Errorf("basic-arithmetic: value %d: %w", i, err)
		}
		values[i] = n
	}

	acc := values[0]
	switch op {
	case "add":
		for _, v := range values[1:] {
			acc = new(big.Int).Add(acc, v)
		}
		return acc.String(), nil
	case "sub":
		for _, v := range values[1:] {
			acc = new(big.Int).Sub(acc, v)
		}
		return acc.String(), nil
	case "mul":
		for _, v := range values[1:] {
			acc = new(big.Int).Mul(acc, v)
		}
		return acc.String(), nil
	case "div":
		for _, v := range values[1:] {
			if v.Sign() == 0 {
				return nil, fmt.Errorf("basic-arithmetic: division by zero")
			}
			acc = new(big.Int).Div(acc, v)
		}
		return acc.String(), nil
	case "eq":
		return values[0].Cmp(values[1]) == 0, nil
	case "neq":
		return values[0].Cmp(values[1]) != 0, nil
	case "gt":
		return values[0].Cmp(values[1]) > 0, nil
	case "lt":
		return values[0].Cmp(values[1]) < 0, nil
	case "gte":
		return values[0].Cmp(values[1]) >= 0, nil
	case "lte":
		return values[0].Cmp(values[1]) <= 0, nil
	default:
		return nil, fmt.Errorf("basic-arithmetic: unknown operation %q", op)
	}
}

func toBigInt(v any) (*big.Int, error) {
	switch t := v.(type) {
	case *big.Int:
		return t, nil
	case string:
		n, ok := new(big.Int).SetString(t, 0)
		if !ok {
			return nil, fmt.Errorf("not a valid integer: %q", t)
		}
		return n, nil
	case int:
		return big.NewInt(int64(t)), nil
	case int64:
		return big.NewInt(t), nil
	case float64:
		return big.NewInt(int64(t)), nil
	case bool:
		if t {
			return big.NewInt(1), nil
		}
		return big.NewInt(0), nil
	default:
		return nil, fmt.Errorf("cannot convert %T to integer", v)
	}
}
