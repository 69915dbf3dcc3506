package domain

import (
	stdcontext "context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/catapult-run/catapult/internal/domain/models"
)

// ContractRepository looks up compiled artifacts by name, content hash, or
// source path. Name lookup is disabled for a name once a second artifact
// registers under it (see Add).
type ContractRepository interface {
	GetByName(name string) (*models.Artifact, bool)
	GetByHash(hash string) (*models.Artifact, bool)
	GetByPath(path string) (*models.Artifact, bool)
	Add(artifact *models.Artifact) error
	All() []*models.Artifact
}

// TxRequest is an unsigned transaction intent handed to a Signer/RPCProvider.
type TxRequest struct {
	To       *common.Address
	Value    *big.Int
	Data     []byte
	GasLimit uint64
}

// Receipt is the minimal post-inclusion data the engine cares about.
type Receipt struct {
	TxHash          common.Hash
	Success         bool
	BlockNumber     uint64
	ContractAddress *common.Address
}

// RPCProvider is the narrow abstraction over an EVM JSON-RPC endpoint,
// kept small so engine tests can substitute a fake implementation.
type RPCProvider interface {
	ChainID(ctx stdcontext.Context) (uint64, error)
	GetBalance(ctx stdcontext.Context, addr common.Address) (*big.Int, error)
	GetCode(ctx stdcontext.Context, addr common.Address) ([]byte, error)
	Call(ctx stdcontext.Context, to common.Address, data []byte) ([]byte, error)
	SendTransaction(ctx stdcontext.Context, signer Signer, req TxRequest) (common.Hash, error)
	SendRawTransaction(ctx stdcontext.Context, rawTx []byte) (common.Hash, error)
	WaitForReceipt(ctx stdcontext.Context, txHash common.Hash) (*Receipt, error)
	PendingNonceAt(ctx stdcontext.Context, addr common.Address) (uint64, error)
	SuggestGasPrice(ctx stdcontext.Context) (*big.Int, error)
	Close()
}

// Signer owns a private key and signs transactions on its behalf.
type Signer interface {
	Address() common.Address
	SignTx(chainID uint64, req TxRequest, nonce uint64, gasPrice *big.Int) ([]byte, error)
}

// ExecutionContext is the per-network runtime, shared by every job run on
// that network: signer, RPC, output store and contract repository.
// Implemented by internal/context.
type ExecutionContext interface {
	Network() *models.Network
	Signer() Signer
	RPC() RPCProvider
	Contracts() ContractRepository
	GetOutput(key string) (any, bool)
	SetOutput(key string, value any) error
	Emit(e Event)
	RunID() string
	// JobCompleted reports whether jobName has already finished
	// successfully on this Context's network, for the job-completed
	// resolver.
	JobCompleted(jobName string) bool
	// MarkJobCompleted records that jobName finished successfully.
	MarkJobCompleted(jobName string)
}

// PluginHandler is the signature every plugin-contributed action executes.
// args holds already-resolved argument values; the returned map becomes the
// action's intrinsic outputs (stored under "<action.name>.<key>").
type PluginHandler func(ctx stdcontext.Context, ec ExecutionContext, action models.Action, args map[string]any) (map[string]any, error)

// PluginActionDef is one action type a plugin contributes.
type PluginActionDef struct {
	Type    string
	Execute PluginHandler
}

// Plugin is a loaded extension contributing one or more action handlers.
type Plugin struct {
	Name      string
	Version   string
	Actions   []PluginActionDef
	LoadError error
}

// Resolver evaluates value expressions against an ExecutionContext and a
// local scope. Implemented by internal/resolver.
type Resolver interface {
	Resolve(ctx stdcontext.Context, ec ExecutionContext, scope map[string]any, expr any) (any, error)
}

// ContractVerifier submits a deployed contract for source verification.
// Non-fatal: failures are reported as warnings, never as job failures.
type ContractVerifier interface {
	Verify(ctx stdcontext.Context, artifact *models.Artifact, deployedAddress common.Address, network *models.Network) (VerificationResult, error)
}

type VerificationResult struct {
	Status      string
	ExplorerURL string
	Reason      string
}
