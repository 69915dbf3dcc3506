// Package signer implements domain.Signer over a raw ECDSA private key,
// grounded on the teacher's parsePrivateKey/crypto.HexToECDSA pattern.
package signer

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/catapult-run/catapult/internal/domain"
)

// PrivateKeySigner signs transactions with an in-memory ECDSA key.
type PrivateKeySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// FromHex parses a hex-encoded private key (with or without 0x prefix).
func FromHex(privateKeyHex string) (*PrivateKeySigner, error) {
	trimmed := strings.TrimPrefix(privateKeyHex, "0x")
	key, err := crypto.HexToECDSA(trimmed)
	if err != nil {
		return nil, fmt.Errorf("signer: invalid private key: %w", err)
	}
	return &PrivateKeySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

func (s *PrivateKeySigner) Address() common.Address {
	return s.address
}

// SignTx builds and signs an EIP-155 legacy transaction for req,
// returning its RLP-encoded binary form.
func (s *PrivateKeySigner) SignTx(chainID uint64, req domain.TxRequest, nonce uint64, gasPrice *big.Int) ([]byte, error) {
	gasLimit := req.GasLimit
	if gasLimit == 0 {
		gasLimit = 3_000_000
	}

	value := req.Value
	if value == nil {
		value = big.NewInt(0)
	}

	txData := &types.LegacyTx{
		Nonce:    nonce,
		To:       req.To,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     req.Data,
	}

	tx := types.NewTx(txData)
	signer := types.NewEIP155Signer(new(big.Int).SetUint64(chainID))
	signed, err := types.SignTx(tx, signer, s.key)
	if err != nil {
		return nil, fmt.Errorf("signer: sign tx: %w", err)
	}

	return signed.MarshalBinary()
}

var _ domain.Signer = (*PrivateKeySigner)(nil)
