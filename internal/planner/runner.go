package planner

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/catapult-run/catapult/internal/adapters/network"
	catrpc "github.com/catapult-run/catapult/internal/adapters/rpc"
	catsigner "github.com/catapult-run/catapult/internal/adapters/signer"
	catcontext "github.com/catapult-run/catapult/internal/context"
	"github.com/catapult-run/catapult/internal/domain"
	"github.com/catapult-run/catapult/internal/domain/models"
	"github.com/catapult-run/catapult/internal/events"
	"github.com/catapult-run/catapult/internal/executor"
)

// ContextFactory builds a per-(network) Execution Context: dials RPC,
// resolves a signer, and wires the shared Contract Repository.
type ContextFactory func(ctx context.Context, runID string, net *models.Network) (*catcontext.ExecutionContext, error)

// Runner orchestrates job execution across one or more target networks.
type Runner struct {
	emitter    *events.Emitter
	executor   *executor.Executor
	newContext ContextFactory
	parallel   bool
}

func NewRunner(emitter *events.Emitter, exec *executor.Executor, factory ContextFactory, parallel bool) *Runner {
	return &Runner{emitter: emitter, executor: exec, newContext: factory, parallel: parallel}
}

// Run topologically orders project.Jobs, then executes them against every
// network in targetNetworks (or every declared network if empty).
func (r *Runner) Run(ctx context.Context, project *models.Project, targetNetworks []string) (*models.RunResult, error) {
	runID := uuid.NewString()
	r.emitter.Emit(domain.Event{Type: domain.EventRunStarted, Level: domain.LevelInfo, Timestamp: time.Now(), RunID: runID})

	ordered, err := TopoSort(project.Jobs)
	if err != nil {
		return nil, domain.NewError(domain.ErrKindConfiguration, err)
	}

	networks := targetNetworks
	if len(networks) == 0 {
		for name := range project.Networks {
			networks = append(networks, name)
		}
	}

	result := &models.RunResult{RunID: runID, ContractsDeployed: make(map[string]string)}

	run := func(name string) (*models.RunResult, error) {
		net, ok := project.Networks[name]
		if !ok {
			return nil, fmt.Errorf("unknown network %q", name)
		}
		return r.runNetwork(ctx, runID, net, ordered)
	}

	// Each network's partial result is merged into the shared result
	// sequentially, after every goroutine has finished, so concurrent
	// networks never write RunResult's slices/map at the same time.
	if r.parallel {
		partials := make([]*models.RunResult, len(networks))
		g, gctx := errgroup.WithContext(ctx)
		_ = gctx
		for i, name := range networks {
			i, name := i, name
			g.Go(func() error {
				partial, err := run(name)
				if err != nil {
					return err
				}
				partials[i] = partial
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		for _, partial := range partials {
			mergeRunResult(result, partial)
		}
	} else {
		for _, name := range networks {
			partial, err := run(name)
			if err != nil {
				return nil, err
			}
			mergeRunResult(result, partial)
		}
	}

	r.emitter.Emit(domain.Event{Type: domain.EventRunSummary, Level: domain.LevelInfo, Timestamp: time.Now(), RunID: runID, Data: result})
	if result.OK() {
		r.emitter.Emit(domain.Event{Type: domain.EventDeploymentCompleted, Level: domain.LevelInfo, Timestamp: time.Now(), RunID: runID, Data: result})
	} else {
		r.emitter.Emit(domain.Event{Type: domain.EventDeploymentFailed, Level: domain.LevelError, Timestamp: time.Now(), RunID: runID, Data: result})
	}
	return result, nil
}

// mergeRunResult folds partial (one network's results) into result. Called
// only after every concurrent runNetwork call has returned, so it never
// races with another merge or with a goroutine still populating partial.
func mergeRunResult(result *models.RunResult, partial *models.RunResult) {
	result.Succeeded = append(result.Succeeded, partial.Succeeded...)
	result.Failed = append(result.Failed, partial.Failed...)
	for key, addr := range partial.ContractsDeployed {
		result.ContractsDeployed[key] = addr
	}
}

// runNetwork executes jobs against net and returns this network's own
// RunResult, owned exclusively by the caller's goroutine — it must never
// be written to result directly so that parallel networks can run without
// a shared-state race (see mergeRunResult).
func (r *Runner) runNetwork(ctx context.Context, runID string, net *models.Network, jobs []*models.Job) (*models.RunResult, error) {
	result := &models.RunResult{RunID: runID, ContractsDeployed: make(map[string]string)}

	ec, err := r.newContext(ctx, runID, net)
	if err != nil {
		return nil, fmt.Errorf("network %q: %w", net.Name, err)
	}
	defer func() {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					ec.Emit(domain.Event{Type: domain.EventContextDisposalWarn, Level: domain.LevelWarn, Timestamp: time.Now(), Data: fmt.Sprintf("%v", rec)})
				}
			}()
			ec.Dispose()
		}()
	}()

	ec.Emit(domain.Event{Type: domain.EventNetworkStarted, Level: domain.LevelInfo, Timestamp: time.Now(), Data: net.Name})
	signerAddr := ec.Signer().Address()
	signerInfo := map[string]any{"address": signerAddr.Hex()}
	if balance, err := ec.RPC().GetBalance(ctx, signerAddr); err == nil {
		signerInfo["balanceWei"] = balance.String()
		signerInfo["balanceEth"] = new(big.Float).Quo(new(big.Float).SetInt(balance), big.NewFloat(1e18)).Text('f', 18)
	}
	ec.Emit(domain.Event{Type: domain.EventNetworkSignerInfo, Level: domain.LevelInfo, Timestamp: time.Now(), Data: signerInfo})

	for _, job := range jobs {
		if !appliesTo(job, net.Name) {
			continue
		}

		skip, err := r.evalJobSkip(ctx, ec, job)
		if err != nil {
			return nil, fmt.Errorf("job %q: %w", job.Name, err)
		}
		if skip {
			continue
		}

		ec.Emit(domain.Event{Type: domain.EventJobStarted, Level: domain.LevelInfo, Timestamp: time.Now(), Data: job.Name})

		if err := r.executor.Run(ctx, ec, nil, job.Actions); err != nil {
			result.Failed = append(result.Failed, models.FailedJob{
				JobName:     job.Name,
				NetworkName: net.Name,
				ChainID:     net.ChainID,
				Error:       err.Error(),
			})
			ec.Emit(domain.Event{Type: domain.EventJobExecutionFailed, Level: domain.LevelError, Timestamp: time.Now(), Data: map[string]any{"job": job.Name, "network": net.Name, "error": err.Error()}})
			continue
		}

		ec.MarkJobCompleted(job.Name)
		result.Succeeded = append(result.Succeeded, models.JobResult{JobName: job.Name, NetworkName: net.Name})
		ec.Emit(domain.Event{Type: domain.EventJobCompleted, Level: domain.LevelInfo, Timestamp: time.Now(), Data: job.Name})
	}

	for key, val := range ec.Outputs() {
		if addr, ok := val.(string); ok {
			result.ContractsDeployed[net.Name+"."+key] = addr
		}
	}

	return result, nil
}

func (r *Runner) evalJobSkip(ctx context.Context, ec domain.ExecutionContext, job *models.Job) (bool, error) {
	for _, cond := range job.SkipCondition {
		resolved, err := r.executor.ResolveForSkip(ctx, ec, cond)
		if err != nil {
			return false, err
		}
		if b, ok := resolved.(bool); ok && b {
			return true, nil
		}
	}
	return false, nil
}

// DefaultContextFactory builds a ContextFactory from the shared contract
// repository and a private-key resolver, dialing a fresh RPC connection
// and signer per network.
func DefaultContextFactory(repo domain.ContractRepository, keys *network.Resolver, emitter *events.Emitter, overrides map[string]string) ContextFactory {
	return func(ctx context.Context, runID string, net *models.Network) (*catcontext.ExecutionContext, error) {
		pk, err := keys.PrivateKeyFor(net.Name, overrides)
		if err != nil {
			return nil, err
		}
		signer, err := catsigner.FromHex(pk)
		if err != nil {
			return nil, err
		}
		rpcClient, err := catrpc.Dial(ctx, net.RPCURL, net.ChainID)
		if err != nil {
			return nil, err
		}
		return catcontext.New(runID, net, signer, rpcClient, repo, emitter), nil
	}
}
