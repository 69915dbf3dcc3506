//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/catapult-run/catapult/internal/domain/config"
)

// InitApp declares the dependency graph wire_gen.go hand-implements. It is
// never compiled (wireinject is never a build tag in this module) since
// there is no wire binary available to regenerate it from; wire_gen.go is
// kept in sync with this declaration by hand.
func InitApp(cfg *config.RuntimeConfig) (*App, error) {
	wire.Build(
		NewApp,
	)
	return nil, nil
}
