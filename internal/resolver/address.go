package resolver

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/catapult-run/catapult/internal/domain"
)

// resolveComputeCreate2 implements compute-create2: last 20 bytes of
// keccak256(0xff ++ deployer ++ salt ++ keccak256(initCode)).
func resolveComputeCreate2(ctx context.Context, ec domain.ExecutionContext, scope map[string]any, args map[string]any) (any, error) {
	deployerRaw, _ := args["deployerAddress"].(string)
	saltRaw, _ := args["salt"].(string)
	initCodeRaw, _ := args["initCode"].(string)
	if deployerRaw == "" || saltRaw == "" || initCodeRaw == "" {
		return nil, fmt.Errorf("compute-create2: requires deployerAddress, salt, initCode")
	}

	deployer := common.HexToAddress(deployerRaw)

	salt, err := hexToBytes(saltRaw, 32)
	if err != nil {
		return nil, fmt.Errorf("compute-create2: salt: %w", err)
	}

	initCode, err := hexToBytes(initCodeRaw, -1)
	if err != nil {
		return nil, fmt.Errorf("compute-create2: initCode: %w", err)
	}

	initCodeHash := crypto.Keccak256(initCode)

	preimage := make([]byte, 0, 1+20+32+32)
	preimage = append(preimage, 0xff)
	preimage = append(preimage, deployer.Bytes()...)
	preimage = append(preimage, salt...)
	preimage = append(preimage, initCodeHash...)

	hash := crypto.Keccak256(preimage)
	addr := common.BytesToAddress(hash[12:])
	return addr.Hex(), nil
}

// resolveComputeCreate implements compute-create: last 20 bytes of
// keccak256(rlp([deployer, nonce])).
func resolveComputeCreate(ctx context.Context, ec domain.ExecutionContext, scope map[string]any, args map[string]any) (any, error) {
	deployerRaw, _ := args["deployerAddress"].(string)
	if deployerRaw == "" {
		return nil, fmt.Errorf("compute-create: requires deployerAddress")
	}
	nonce, err := toUint64(args["nonce"])
	if err != nil {
		return nil, fmt.Errorf("compute-create: nonce: %w", err)
	}

	deployer := common.HexToAddress(deployerRaw)
	addr := crypto.CreateAddress(deployer, nonce)
	return addr.Hex(), nil
}

func toUint64(v any) (uint64, error) {
	n, err := toBigInt(v)
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// hexToBytes decodes a 0x-prefixed hex string. If want >= 0, the result is
// left-padded with zeros (or validated) to exactly want bytes.
func hexToBytes(s string, want int) ([]byte, error) {
	b, err := decodeHex(s)
	if err != nil {
		return nil, err
	}
	if want < 0 {
		return b, nil
	}
	if len(b) == want {
		return b, nil
	}
	if len(b) > want {
		return nil, fmt.Errorf("expected %d bytes, got %d", want, len(b))
	}
	out := make([]byte, want)
	copy(out[want-len(b):], b)
	return out, nil
}

func decodeHex(s string) ([]byte, error) {
	if len(s) < 2 || s[0:2] != "0x" {
		return nil, fmt.Errorf("not a hex string: %q", s)
	}
	return common.FromHex(s), nil
}
