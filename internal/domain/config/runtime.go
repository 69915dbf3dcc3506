// Package config defines the runtime configuration resolved once per
// invocation from command-line flags, then threaded through dependency
// injection. The project's catapult.config file is loaded separately into
// models.ProjectConfig.
package config

// RuntimeConfig is the fully-resolved set of knobs the engine needs for one
// invocation, assembled by internal/cli from flags (spf13/pflag via cobra)
// and the NO_COLOR environment variable.
type RuntimeConfig struct {
	ProjectRoot string
	ConfigPath  string
	Networks    []string // names of networks to target, empty = all
	Jobs        []string // names of jobs to target, empty = all
	Verbosity   int      // 0-3, see domain.Verbosity
	DryRun      bool
	Parallel    bool // run target networks concurrently
	NoColor     bool
	PrivateKeys map[string]string // network name -> hex private key override, checked before the environment and .env
}
