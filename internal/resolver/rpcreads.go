package resolver

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/catapult-run/catapult/internal/domain"
)

// resolveReadBalance implements read-balance: the account's wei balance as
// a decimal string.
func resolveReadBalance(ctx context.Context, ec domain.ExecutionContext, scope map[string]any, args map[string]any) (any, error) {
	addrRaw, _ := args["address"].(string)
	if addrRaw == "" {
		return nil, fmt.Errorf("read-balance: requires address")
	}

	balance, err := ec.RPC().GetBalance(ctx, common.HexToAddress(addrRaw))
	if err != nil {
		return nil, fmt.Errorf("read-balance: %w", err)
	}
	return balance.String(), nil
}

// resolveContractExists implements contract-exists: true iff eth_getCode
// returns non-empty bytecode for the address.
func resolveContractExists(ctx context.Context, ec domain.ExecutionContext, scope map[string]any, args map[string]any) (any, error) {
	addrRaw, _ := args["address"].(string)
	if addrRaw == "" {
		return nil, fmt.Errorf("contract-exists: requires address")
	}

	code, err := ec.RPC().GetCode(ctx, common.HexToAddress(addrRaw))
	if err != nil {
		return nil, fmt.Errorf("contract-exists: %w", err)
	}
	return len(code) > 0, nil
}

// resolveJobCompleted implements job-completed.
func resolveJobCompleted(ctx context.Context, ec domain.ExecutionContext, scope map[string]any, args map[string]any) (any, error) {
	name, _ := args["job"].(string)
	if name == "" {
		return nil, fmt.Errorf("job-completed: requires job")
	}
	return ec.JobCompleted(name), nil
}

// resolveCall implements call: a static call against an ABI-encoded
// function. It returns the raw return-data as a "0x"-prefixed hex string
// rather than an ABI-decoded value: args carries only the input signature,
// with no return-type information to decode against. Callers that need a
// typed result must decode it themselves (e.g. via a read template that
// knows the function's output types). For a target address omitted from
// args, the caller is expected to have resolved it beforehand and supplied
// it directly — the resolver itself does not infer enclosing action
// context.
func resolveCall(ctx context.Context, ec domain.ExecutionContext, scope map[string]any, args map[string]any) (any, error) {
	toRaw, _ := args["to"].(string)
	sig, _ := args["signature"].(string)
	if toRaw == "" || sig == "" {
		return nil, fmt.Errorf("call: requires to and signature")
	}
	values, _ := args["arguments"].([]any)

	encoded, err := resolveABIEncode(ctx, ec, scope, map[string]any{
		"signature": sig,
		"arguments": values,
	})
	if err != nil {
		return nil, fmt.Errorf("call: encode: %w", err)
	}

	data, err := decodeHex(encoded.(string))
	if err != nil {
		return nil, fmt.Errorf("call: %w", err)
	}

	result, err := ec.RPC().Call(ctx, common.HexToAddress(toRaw), data)
	if err != nil {
		return nil, fmt.Errorf("call: %w", err)
	}

	return "0x" + common.Bytes2Hex(result), nil
}
