// Package context implements the Execution Context: the per-network runtime
// owning a signer, RPC connection, output store, and a reference to the
// shared Contract Repository. The runner builds one context per network and
// shares it across every job on that network, so outputs of earlier jobs stay
// visible to later ones; it is disposed after the network's last job, not
// after each job.
package context

import (
	"fmt"
	"sync"

	"github.com/catapult-run/catapult/internal/domain"
	"github.com/catapult-run/catapult/internal/domain/models"
	"github.com/catapult-run/catapult/internal/events"
)

// ExecutionContext is the concrete domain.ExecutionContext implementation.
type ExecutionContext struct {
	runID     string
	network   *models.Network
	signer    domain.Signer
	rpc       domain.RPCProvider
	contracts domain.ContractRepository
	emitter   *events.Emitter

	mu        sync.RWMutex
	outputs   map[string]any
	completed map[string]bool
}

func New(runID string, network *models.Network, signer domain.Signer, rpc domain.RPCProvider, contracts domain.ContractRepository, emitter *events.Emitter) *ExecutionContext {
	return &ExecutionContext{
		runID:     runID,
		network:   network,
		signer:    signer,
		rpc:       rpc,
		contracts: contracts,
		emitter:   emitter,
		outputs:   make(map[string]any),
		completed: make(map[string]bool),
	}
}

func (c *ExecutionContext) Network() *models.Network             { return c.network }
func (c *ExecutionContext) Signer() domain.Signer                { return c.signer }
func (c *ExecutionContext) RPC() domain.RPCProvider              { return c.rpc }
func (c *ExecutionContext) Contracts() domain.ContractRepository { return c.contracts }
func (c *ExecutionContext) RunID() string                        { return c.runID }

func (c *ExecutionContext) GetOutput(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.outputs[key]
	return v, ok
}

// SetOutput stores value under key. Overwriting an existing key is fatal,
// per the output store's immutability invariant.
func (c *ExecutionContext) SetOutput(key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.outputs[key]; exists {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateKey, key)
	}
	c.outputs[key] = value
	return nil
}

func (c *ExecutionContext) Emit(e domain.Event) {
	e.RunID = c.runID
	c.emitter.Emit(e)
}

func (c *ExecutionContext) JobCompleted(jobName string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.completed[jobName]
}

func (c *ExecutionContext) MarkJobCompleted(jobName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.completed[jobName] = true
}

// Outputs returns a snapshot copy, used to build the run summary and to
// look up contract addresses deployed on this network.
func (c *ExecutionContext) Outputs() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]any, len(c.outputs))
	for k, v := range c.outputs {
		out[k] = v
	}
	return out
}

// Dispose releases the RPC connection. Errors are non-fatal: the caller
// emits a context_disposal_warning and continues.
func (c *ExecutionContext) Dispose() {
	if c.rpc != nil {
		c.rpc.Close()
	}
}

var _ domain.ExecutionContext = (*ExecutionContext)(nil)
