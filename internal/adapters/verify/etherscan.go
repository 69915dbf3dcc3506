// Package verify provides ContractVerifier backends. Neither is called by
// the core engine directly; both are reached only through the
// verify-contract primitive.
package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/catapult-run/catapult/internal/domain"
	"github.com/catapult-run/catapult/internal/domain/models"
)

// EtherscanVerifier submits source for verification against an
// Etherscan-family explorer API (Etherscan, basescan, arbiscan, ...).
type EtherscanVerifier struct {
	APIKey        string
	APIURLByChain map[uint64]string
	httpClient    *http.Client
}

func NewEtherscanVerifier(apiKey string, apiURLByChain map[uint64]string) *EtherscanVerifier {
	return &EtherscanVerifier{
		APIKey:        apiKey,
		APIURLByChain: apiURLByChain,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (v *EtherscanVerifier) Verify(ctx context.Context, artifact *models.Artifact, deployedAddress common.Address, network *models.Network) (domain.VerificationResult, error) {
	apiURL, ok := v.APIURLByChain[network.ChainID]
	if !ok {
		return domain.VerificationResult{Status: "skipped", Reason: fmt.Sprintf("no etherscan-family API configured for chain %d", network.ChainID)}, nil
	}

	form := map[string]string{
		"apikey":          v.APIKey,
		"module":          "contract",
		"action":          "verifysourcecode",
		"contractaddress": deployedAddress.Hex(),
		"sourceCode":      artifact.Source,
		"contractname":    artifact.Key(),
		"compilerversion": artifact.Compiler.Version,
	}
	body, err := json.Marshal(form)
	if err != nil {
		return domain.VerificationResult{}, fmt.Errorf("etherscan: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return domain.VerificationResult{}, fmt.Errorf("etherscan: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return domain.VerificationResult{Status: "failed", Reason: err.Error()}, nil
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return domain.VerificationResult{Status: "failed", Reason: fmt.Sprintf("etherscan returned %d: %s", resp.StatusCode, respBody)}, nil
	}

	var parsed struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Result  string `json:"result"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return domain.VerificationResult{Status: "failed", Reason: "unparseable etherscan response"}, nil
	}
	if parsed.Status != "1" {
		return domain.VerificationResult{Status: "failed", Reason: parsed.Result}, nil
	}

	return domain.VerificationResult{
		Status:      "verified",
		ExplorerURL: explorerContractURL(apiURL, deployedAddress),
	}, nil
}

func explorerContractURL(apiURL string, addr common.Address) string {
	return apiURL + "/address/" + addr.Hex()
}
