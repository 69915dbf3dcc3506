package resolver

import (
	"context"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/catapult-run/catapult/internal/domain"
)

var signatureRe = regexp.MustCompile(`^([A-Za-z_$][A-Za-z0-9_$]*)\(([^)]*)\)$`)

// parseSignature splits "transfer(address,uint256)" into its name and
// comma-separated argument types. An empty parameter list is allowed.
func parseSignature(sig string) (name string, types []string, err error) {
	m := signatureRe.FindStringSubmatch(strings.TrimSpace(sig))
	if m == nil {
		return "", nil, fmt.Errorf("invalid signature %q", sig)
	}
	name = m[1]
	if strings.TrimSpace(m[2]) == "" {
		return name, nil, nil
	}
	for _, t := range strings.Split(m[2], ",") {
		types = append(types, strings.TrimSpace(t))
	}
	return name, types, nil
}

func buildArguments(types []string) (abi.Arguments, error) {
	args := make(abi.Arguments, len(types))
	for i, t := range types {
		abiType, err := abi.NewType(t, "", nil)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", t, err)
		}
		args[i] = abi.Argument{Type: abiType}
	}
	return args, nil
}

// resolveABIEncode implements abi-encode: selector + ABI-encoded arguments
// for a Solidity function signature.
func resolveABIEncode(ctx context.Context, ec domain.ExecutionContext, scope map[string]any, args map[string]any) (any, error) {
	sig, _ := args["signature"].(string)
	if sig == "" {
		return nil, fmt.Errorf("abi-encode: requires signature")
	}
	values, _ := args["arguments"].([]any)

	name, types, err := parseSignature(sig)
	if err != nil {
		return nil, err
	}
	if len(types) != len(values) {
		return nil, fmt.Errorf("abi-encode: signature %s expects %d arguments, got %d", sig, len(types), len(values))
	}

	canonical := name + "(" + strings.Join(types, ",") + ")"
	selector := crypto.Keccak256([]byte(canonical))[:4]

	arguments, err := buildArguments(types)
	if err != nil {
		return nil, fmt.Errorf("abi-encode: %w", err)
	}

	converted, err := convertAll(types, values)
	if err != nil {
		return nil, fmt.Errorf("abi-encode: %w", err)
	}

	packed, err := arguments.PackValues(converted)
	if err != nil {
		return nil, fmt.Errorf("abi-encode: pack: %w", err)
	}

	return "0x" + common.Bytes2Hex(append(selector, packed...)), nil
}

// resolveConstructorEncode implements constructor-encode: ABI-encoded
// constructor arguments, optionally appended to supplied creation code.
func resolveConstructorEncode(ctx context.Context, ec domain.ExecutionContext, scope map[string]any, args map[string]any) (any, error) {
	rawTypes, _ := args["types"].([]any)
	values, _ := args["arguments"].([]any)
	if len(rawTypes) != len(values) {
		return nil, fmt.Errorf("constructor-encode: types and arguments must have the same length")
	}

	types := make([]string, len(rawTypes))
	for i, t := range rawTypes {
		types[i], _ = t.(string)
	}

	arguments, err := buildArguments(types)
	if err != nil {
		return nil, fmt.Errorf("constructor-encode: %w", err)
	}

	converted, err := convertAll(types, values)
	if err != nil {
		return nil, fmt.Errorf("constructor-encode: %w", err)
	}

	packed, err := arguments.PackValues(converted)
	if err != nil {
		return nil, fmt.Errorf("constructor-encode: pack: %w", err)
	}

	creationCode, _ := args["creationCode"].(string)
	if creationCode == "" {
		return "0x" + common.Bytes2Hex(packed), nil
	}

	code, err := decodeHex(creationCode)
	if err != nil {
		return nil, fmt.Errorf("constructor-encode: creationCode: %w", err)
	}
	return "0x" + common.Bytes2Hex(append(code, packed...)), nil
}

// resolveABIPack implements abi-pack: Solidity abi.encodePacked-style
// concatenation of each value in its packed (unpadded, for dynamic types)
// form.
func resolveABIPack(ctx context.Context, ec domain.ExecutionContext, scope map[string]any, args map[string]any) (any, error) {
	rawItems, _ := args["values"].([]any)
	var out []byte

	for i, raw := range rawItems {
		item, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("abi-pack: values[%d] must be {type, value}", i)
		}
		t, _ := item["type"].(string)
		packed, err := packValue(t, item["value"])
		if err != nil {
			return nil, fmt.Errorf("abi-pack: values[%d]: %w", i, err)
		}
		out = append(out, packed...)
	}

	return "0x" + common.Bytes2Hex(out), nil
}

func packValue(t string, v any) ([]byte, error) {
	switch {
	case t == "address":
		s, _ := v.(string)
		return common.HexToAddress(s).Bytes(), nil
	case t == "bool":
		b, _ := v.(bool)
		if b {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case t == "string":
		s, _ := v.(string)
		return []byte(s), nil
	case t == "bytes":
		s, _ := v.(string)
		return decodeHex(s)
	case strings.HasPrefix(t, "bytesN") || strings.HasPrefix(t, "bytes"):
		s, _ := v.(string)
		b, err := decodeHex(s)
		if err != nil {
			return nil, err
		}
		return b, nil
	case strings.HasPrefix(t, "uint") || strings.HasPrefix(t, "int"):
		n, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		bits := 256
		digits := strings.TrimPrefix(strings.TrimPrefix(t, "uint"), "int")
		if digits != "" {
			if parsed, perr := strconv.Atoi(digits); perr == nil {
				bits = parsed
			}
		}
		size := bits / 8
		b := n.Bytes()
		if len(b) > size {
			return nil, fmt.Errorf("value overflows %s", t)
		}
		padded := make([]byte, size)
		copy(padded[size-len(b):], b)
		return padded, nil
	default:
		return nil, fmt.Errorf("unsupported packed type %q", t)
	}
}

// convertAll converts loosely-typed resolved values (strings, float64,
// bool, []any) into the Go types go-ethereum's abi.Arguments.PackValues
// expects for each Solidity type.
func convertAll(types []string, values []any) ([]any, error) {
	out := make([]any, len(values))
	for i, v := range values {
		converted, err := convertValue(types[i], v)
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i, types[i], err)
		}
		out[i] = converted
	}
	return out, nil
}

func convertValue(t string, v any) (any, error) {
	switch {
	case t == "address":
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected address string")
		}
		return common.HexToAddress(s), nil
	case t == "bool":
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool")
		}
		return b, nil
	case t == "string":
		s, _ := v.(string)
		return s, nil
	case t == "bytes":
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected hex string")
		}
		return decodeHex(s)
	case strings.HasPrefix(t, "uint") || strings.HasPrefix(t, "int"):
		n, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		return intForBits(t, n)
	default:
		return nil, fmt.Errorf("unsupported ABI type %q", t)
	}
}

// intForBits returns the Go representation abi.Arguments expects for a
// given uint/int bit width: fixed machine ints for 8, 16, 32 and 64 bits,
// *big.Int for every other width.
func intForBits(t string, n *big.Int) (any, error) {
	unsigned := strings.HasPrefix(t, "uint")
	digits := strings.TrimPrefix(strings.TrimPrefix(t, "uint"), "int")
	bits := 256
	if digits != "" {
		if parsed, err := strconv.Atoi(digits); err == nil {
			bits = parsed
		}
	}

	switch bits {
	case 8, 16, 32, 64:
	default:
		return n, nil
	}
	if unsigned {
		switch bits {
		case 8:
			return uint8(n.Uint64()), nil
		case 16:
			return uint16(n.Uint64()), nil
		case 32:
			return uint32(n.Uint64()), nil
		default:
			return n.Uint64(), nil
		}
	}
	switch bits {
	case 8:
		return int8(n.Int64()), nil
	case 16:
		return int16(n.Int64()), nil
	case 32:
		return int32(n.Int64()), nil
	default:
		return n.Int64(), nil
	}
}
