package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/catapult-run/catapult/internal/domain"
	"github.com/catapult-run/catapult/internal/domain/models"
)

const defaultSourcifyEndpoint = "https://sourcify.dev/server"

// SourcifyVerifier submits source to a Sourcify-compatible verification
// server, identified only by chain ID and address (no API key).
type SourcifyVerifier struct {
	Endpoint   string
	httpClient *http.Client
}

func NewSourcifyVerifier(endpoint string) *SourcifyVerifier {
	if endpoint == "" {
		endpoint = defaultSourcifyEndpoint
	}
	return &SourcifyVerifier{Endpoint: endpoint, httpClient: &http.Client{Timeout: 30 * time.Second}}
}

func (v *SourcifyVerifier) Verify(ctx context.Context, artifact *models.Artifact, deployedAddress common.Address, network *models.Network) (domain.VerificationResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("address", deployedAddress.Hex()); err != nil {
		return domain.VerificationResult{}, fmt.Errorf("sourcify: write address field: %w", err)
	}
	if err := writer.WriteField("chain", fmt.Sprintf("%d", network.ChainID)); err != nil {
		return domain.VerificationResult{}, fmt.Errorf("sourcify: write chain field: %w", err)
	}
	sourcePart, err := writer.CreateFormFile("files", artifact.SourceName+".sol")
	if err != nil {
		return domain.VerificationResult{}, fmt.Errorf("sourcify: create source part: %w", err)
	}
	if _, err := sourcePart.Write([]byte(artifact.Source)); err != nil {
		return domain.VerificationResult{}, fmt.Errorf("sourcify: write source part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return domain.VerificationResult{}, fmt.Errorf("sourcify: close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.Endpoint+"/verify", &buf)
	if err != nil {
		return domain.VerificationResult{}, fmt.Errorf("sourcify: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return domain.VerificationResult{Status: "failed", Reason: err.Error()}, nil
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return domain.VerificationResult{Status: "failed", Reason: fmt.Sprintf("sourcify returned %d: %s", resp.StatusCode, respBody)}, nil
	}

	var parsed struct {
		Result []struct {
			Status string `json:"status"`
		} `json:"result"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil || len(parsed.Result) == 0 {
		return domain.VerificationResult{Status: "failed", Reason: "unparseable sourcify response"}, nil
	}

	status := parsed.Result[0].Status
	if status != "perfect" && status != "partial" {
		return domain.VerificationResult{Status: "failed", Reason: "sourcify status: " + status}, nil
	}

	return domain.VerificationResult{
		Status:      "verified",
		ExplorerURL: fmt.Sprintf("%s/contracts/%s/%d/%s", v.Endpoint, status, network.ChainID, deployedAddress.Hex()),
	}, nil
}
