// Hand-maintained stand-in for the file wire would generate; see InitApp.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package app

import (
	"github.com/catapult-run/catapult/internal/domain/config"
)

// InitApp is the hand-maintained stand-in for wire's generated injector: it
// calls exactly the provider NewApp declares in wire.go's wire.Build list.
// Regenerate by hand whenever wire.go's provider set changes.
func InitApp(cfg *config.RuntimeConfig) (*App, error) {
	a, err := NewApp(cfg)
	if err != nil {
		return nil, err
	}
	return a, nil
}
