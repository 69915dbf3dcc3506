// Package rpc implements domain.RPCProvider over go-ethereum's ethclient,
// grounded on the teacher's blockchain checker adapter (dial, chain-id
// verification, CodeAt/TransactionReceipt probing).
package rpc

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/catapult-run/catapult/internal/domain"
)

const receiptPollInterval = 500 * time.Millisecond

// Client adapts an ethclient.Client to domain.RPCProvider.
type Client struct {
	client  *ethclient.Client
	chainID uint64
}

// Dial connects to rpcURL and verifies its chain ID matches expectedChainID
// (0 skips verification and adopts whatever the endpoint reports).
func Dial(ctx context.Context, rpcURL string, expectedChainID uint64) (*Client, error) {
	ec, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("rpc: dial %s: %w", rpcURL, err)
	}

	actual, err := ec.ChainID(ctx)
	if err != nil {
		ec.Close()
		return nil, fmt.Errorf("rpc: chain id: %w", err)
	}

	if expectedChainID != 0 && actual.Uint64() != expectedChainID {
		ec.Close()
		return nil, fmt.Errorf("rpc: chain id mismatch: expected %d, got %d", expectedChainID, actual.Uint64())
	}

	return &Client{client: ec, chainID: actual.Uint64()}, nil
}

func (c *Client) ChainID(ctx context.Context) (uint64, error) {
	return c.chainID, nil
}

func (c *Client) GetBalance(ctx context.Context, addr common.Address) (*big.Int, error) {
	return c.client.BalanceAt(ctx, addr, nil)
}

func (c *Client) GetCode(ctx context.Context, addr common.Address) ([]byte, error) {
	return c.client.CodeAt(ctx, addr, nil)
}

func (c *Client) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	msg := ethereum.CallMsg{To: &to, Data: data}
	return c.client.CallContract(ctx, msg, nil)
}

func (c *Client) PendingNonceAt(ctx context.Context, addr common.Address) (uint64, error) {
	return c.client.PendingNonceAt(ctx, addr)
}

func (c *Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return c.client.SuggestGasPrice(ctx)
}

func (c *Client) SendTransaction(ctx context.Context, signer domain.Signer, req domain.TxRequest) (common.Hash, error) {
	nonce, err := c.PendingNonceAt(ctx, signer.Address())
	if err != nil {
		return common.Hash{}, fmt.Errorf("rpc: nonce: %w", err)
	}

	gasPrice, err := c.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("rpc: gas price: %w", err)
	}

	raw, err := signer.SignTx(c.chainID, req, nonce, gasPrice)
	if err != nil {
		return common.Hash{}, fmt.Errorf("rpc: sign: %w", err)
	}

	return c.SendRawTransaction(ctx, raw)
}

func (c *Client) SendRawTransaction(ctx context.Context, rawTx []byte) (common.Hash, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(rawTx); err != nil {
		return common.Hash{}, fmt.Errorf("rpc: decode raw tx: %w", err)
	}
	if err := c.client.SendTransaction(ctx, tx); err != nil {
		return common.Hash{}, fmt.Errorf("rpc: broadcast: %w", err)
	}
	return tx.Hash(), nil
}

// WaitForReceipt polls until the transaction is mined or ctx is done.
func (c *Client) WaitForReceipt(ctx context.Context, txHash common.Hash) (*domain.Receipt, error) {
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.client.TransactionReceipt(ctx, txHash)
		if err == nil {
			var contractAddr *common.Address
			if receipt.ContractAddress != (common.Address{}) {
				addr := receipt.ContractAddress
				contractAddr = &addr
			}
			return &domain.Receipt{
				TxHash:          txHash,
				Success:         receipt.Status == types.ReceiptStatusSuccessful,
				BlockNumber:     receipt.BlockNumber.Uint64(),
				ContractAddress: contractAddr,
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("rpc: wait for receipt %s: %w", txHash, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *Client) Close() {
	c.client.Close()
}

var _ domain.RPCProvider = (*Client)(nil)
