// Package app assembles the engine's components into a runnable App, the
// dependency graph google/wire would otherwise generate.
package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/catapult-run/catapult/internal/adapters/network"
	"github.com/catapult-run/catapult/internal/adapters/project"
	"github.com/catapult-run/catapult/internal/adapters/verify"
	"github.com/catapult-run/catapult/internal/cli/render"
	"github.com/catapult-run/catapult/internal/domain/config"
	"github.com/catapult-run/catapult/internal/domain/models"
	"github.com/catapult-run/catapult/internal/events"
	"github.com/catapult-run/catapult/internal/executor"
	"github.com/catapult-run/catapult/internal/logging"
	"github.com/catapult-run/catapult/internal/planner"
	"github.com/catapult-run/catapult/internal/plugin"
	"github.com/catapult-run/catapult/internal/resolver"
)

// App is the fully-wired engine for one CLI invocation.
type App struct {
	Config   *config.RuntimeConfig
	Log      *slog.Logger
	Project  *models.Project
	Emitter  *events.Emitter
	Renderer *render.Renderer
	Runner   *planner.Runner
}

// NewApp builds an App from cfg, loading the project at cfg.ProjectRoot and
// wiring every adapter per SPEC_FULL.md §2's domain stack table. This is
// the hand-authored equivalent of a google/wire-generated wire_gen.go (see
// wire.go for the injector declaration wire would consume).
func NewApp(cfg *config.RuntimeConfig) (*App, error) {
	log := logging.NewLogger(cfg)
	emitter := events.NewEmitter()

	loader := project.NewLoader(log, emitter)
	proj, repo, err := loader.Load(cfg.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	keys, err := network.NewResolver(cfg.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("load network resolver: %w", err)
	}

	registry := plugin.NewRegistry()
	if proj.Config != nil && len(proj.Config.Plugins) > 0 {
		if err := registry.LoadConfigured(proj.Config.Plugins); err != nil {
			return nil, fmt.Errorf("load plugins: %w", err)
		}
	}

	verifier := verify.NewComposite(
		verify.NewEtherscanVerifier(os.Getenv("CATAPULT_ETHERSCAN_API_KEY"), etherscanAPIURLs),
		verify.NewSourcifyVerifier(os.Getenv("CATAPULT_SOURCIFY_URL")),
	)

	res := resolver.New()
	exec := executor.New(res, proj.Templates, registry, verifier)

	factory := planner.DefaultContextFactory(repo, keys, emitter, cfg.PrivateKeys)
	runner := planner.NewRunner(emitter, exec, factory, cfg.Parallel)

	renderer := render.NewRenderer(os.Stdout, cfg.Verbosity, cfg.NoColor)
	renderer.Attach(emitter)

	return &App{
		Config:   cfg,
		Log:      log,
		Project:  proj,
		Emitter:  emitter,
		Renderer: renderer,
		Runner:   runner,
	}, nil
}

// etherscanAPIURLs maps well-known chain IDs to their Etherscan-family API
// base URL. A network is routed to Etherscan or Sourcify by its supports
// list; the Etherscan verifier reports status "skipped" for a chain ID
// outside this table.
var etherscanAPIURLs = map[uint64]string{
	1:        "https://api.etherscan.io/api",
	11155111: "https://api-sepolia.etherscan.io/api",
	8453:     "https://api.basescan.org/api",
	42161:    "https://api.arbiscan.io/api",
	10:       "https://api-optimistic.etherscan.io/api",
	137:      "https://api.polygonscan.com/api",
}
