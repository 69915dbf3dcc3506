package executor

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/catapult-run/catapult/internal/domain"
)

// primitiveSendTransaction implements send-transaction: sign and broadcast
// from the Context's signer, wait for inclusion, and report outcome. A
// nil/empty "to" is treated as a contract creation.
func (e *Executor) primitiveSendTransaction(ctx context.Context, ec domain.ExecutionContext, args map[string]any) (map[string]any, error) {
	req, err := buildTxRequest(args)
	if err != nil {
		return nil, fmt.Errorf("send-transaction: %w", err)
	}

	txHash, err := ec.RPC().SendTransaction(ctx, ec.Signer(), req)
	if err != nil {
		return nil, fmt.Errorf("send-transaction: %w", err)
	}
	ec.Emit(domain.Event{Type: domain.EventTransactionSent, Level: domain.LevelInfo, Timestamp: time.Now(), Data: txHash.Hex()})

	receipt, err := ec.RPC().WaitForReceipt(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("send-transaction: %w", err)
	}
	ec.Emit(domain.Event{Type: domain.EventTransactionConfirmed, Level: domain.LevelInfo, Timestamp: time.Now(), Data: receipt})

	out := map[string]any{
		"transactionHash": receipt.TxHash.Hex(),
		"success":         receipt.Success,
		"blockNumber":     receipt.BlockNumber,
	}
	if receipt.ContractAddress != nil {
		out["contractAddress"] = receipt.ContractAddress.Hex()
		ec.Emit(domain.Event{Type: domain.EventContractCreated, Level: domain.LevelInfo, Timestamp: time.Now(), Data: receipt.ContractAddress.Hex()})
	}
	return out, nil
}

// primitiveSendPresignedTransaction implements send-presigned-transaction:
// broadcast an already-signed raw transaction and wait for confirmation.
func (e *Executor) primitiveSendPresignedTransaction(ctx context.Context, ec domain.ExecutionContext, args map[string]any) (map[string]any, error) {
	rawHex, _ := args["rawTransaction"].(string)
	if rawHex == "" {
		return nil, fmt.Errorf("send-presigned-transaction: requires rawTransaction")
	}
	raw, err := decodeHexArg(rawHex)
	if err != nil {
		return nil, fmt.Errorf("send-presigned-transaction: %w", err)
	}

	txHash, err := ec.RPC().SendRawTransaction(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("send-presigned-transaction: %w", err)
	}
	ec.Emit(domain.Event{Type: domain.EventTransactionSent, Level: domain.LevelInfo, Timestamp: time.Now(), Data: txHash.Hex()})

	receipt, err := ec.RPC().WaitForReceipt(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("send-presigned-transaction: %w", err)
	}
	ec.Emit(domain.Event{Type: domain.EventTransactionConfirmed, Level: domain.LevelInfo, Timestamp: time.Now(), Data: receipt})

	out := map[string]any{
		"transactionHash": receipt.TxHash.Hex(),
		"success":         receipt.Success,
		"blockNumber":     receipt.BlockNumber,
	}
	if receipt.ContractAddress != nil {
		out["contractAddress"] = receipt.ContractAddress.Hex()
	}
	return out, nil
}

// primitiveVerifyContract implements verify-contract (SPEC_FULL.md
// §4.4.1): non-fatal source verification against the configured backend.
func (e *Executor) primitiveVerifyContract(ctx context.Context, ec domain.ExecutionContext, args map[string]any) (map[string]any, error) {
	if e.verifier == nil {
		return map[string]any{"status": "skipped", "reason": "no verification backend configured"}, nil
	}

	contractName, _ := args["contract"].(string)
	addrRaw, _ := args["address"].(string)
	if contractName == "" || addrRaw == "" {
		return nil, fmt.Errorf("verify-contract: requires contract and address")
	}

	artifact, ok := ec.Contracts().GetByName(contractName)
	if !ok {
		return map[string]any{"status": "skipped", "reason": fmt.Sprintf("artifact %q not found or ambiguous", contractName)}, nil
	}

	result, err := e.verifier.Verify(ctx, artifact, common.HexToAddress(addrRaw), ec.Network())
	if err != nil {
		ec.Emit(domain.Event{Type: domain.EventVerificationResult, Level: domain.LevelWarn, Timestamp: time.Now(), Data: err.Error()})
		return map[string]any{"status": "failed", "reason": err.Error()}, nil
	}

	ec.Emit(domain.Event{Type: domain.EventVerificationResult, Level: domain.LevelInfo, Timestamp: time.Now(), Data: result})
	return map[string]any{"status": result.Status, "explorerUrl": result.ExplorerURL, "reason": result.Reason}, nil
}

func buildTxRequest(args map[string]any) (domain.TxRequest, error) {
	var req domain.TxRequest

	if toRaw, ok := args["to"].(string); ok && toRaw != "" {
		addr := common.HexToAddress(toRaw)
		req.To = &addr
	}

	if valueRaw, ok := args["value"]; ok && valueRaw != nil {
		n, err := toBigIntArg(valueRaw)
		if err != nil {
			return req, fmt.Errorf("value: %w", err)
		}
		req.Value = n
	}

	if dataRaw, ok := args["data"].(string); ok && dataRaw != "" {
		b, err := decodeHexArg(dataRaw)
		if err != nil {
			return req, fmt.Errorf("data: %w", err)
		}
		req.Data = b
	}

	return req, nil
}

func toBigIntArg(v any) (*big.Int, error) {
	switch t := v.(type) {
	case string:
		n, ok := new(big.Int).SetString(t, 0)
		if !ok {
			return nil, fmt.Errorf("not an integer: %q", t)
		}
		return n, nil
	case float64:
		return big.NewInt(int64(t)), nil
	case int:
		return big.NewInt(int64(t)), nil
	default:
		return nil, fmt.Errorf("unsupported numeric type %T", v)
	}
}

func decodeHexArg(s string) ([]byte, error) {
	if len(s) < 2 || s[:2] != "0x" {
		return nil, fmt.Errorf("not a hex string: %q", s)
	}
	return common.FromHex(s), nil
}
