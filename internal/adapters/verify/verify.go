package verify

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"

	"github.com/catapult-run/catapult/internal/domain"
	"github.com/catapult-run/catapult/internal/domain/models"
)

// Composite dispatches to etherscan when a network advertises "etherscan"
// in Supports, falling back to sourcify otherwise.
type Composite struct {
	Etherscan *EtherscanVerifier
	Sourcify  *SourcifyVerifier
}

func NewComposite(etherscan *EtherscanVerifier, sourcify *SourcifyVerifier) *Composite {
	return &Composite{Etherscan: etherscan, Sourcify: sourcify}
}

func (c *Composite) Verify(ctx context.Context, artifact *models.Artifact, deployedAddress common.Address, network *models.Network) (domain.VerificationResult, error) {
	if lo.Contains(network.Supports, "etherscan") && c.Etherscan != nil {
		return c.Etherscan.Verify(ctx, artifact, deployedAddress, network)
	}
	return c.Sourcify.Verify(ctx, artifact, deployedAddress, network)
}
