package plugin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catapult-run/catapult/internal/domain"
	"github.com/catapult-run/catapult/internal/domain/models"
)

func noopAction(actionType string) domain.PluginActionDef {
	return domain.PluginActionDef{
		Type: actionType,
		Execute: func(ctx context.Context, ec domain.ExecutionContext, action models.Action, args map[string]any) (map[string]any, error) {
			return nil, nil
		},
	}
}

func TestRegistryRegisterAndDispatch(t *testing.T) {
	r := NewRegistry()
	p := &domain.Plugin{Name: "safe", Actions: []domain.PluginActionDef{noopAction("safe-propose")}}
	require.NoError(t, r.Register(p))

	assert.True(t, r.HasHandler("safe-propose"))
	assert.False(t, r.HasHandler("unknown-type"))
	assert.Contains(t, r.ListTypes(), "safe-propose")
}

func TestRegistryCollisionRegistersNeitherHandler(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&domain.Plugin{Name: "plugin-a", Actions: []domain.PluginActionDef{noopAction("deploy")}}))

	err := r.Register(&domain.Plugin{Name: "plugin-b", Actions: []domain.PluginActionDef{noopAction("deploy"), noopAction("verify")}})
	assert.Error(t, err)

	// plugin-b's non-colliding "verify" type must not have been registered either.
	assert.False(t, r.HasHandler("verify"))
	assert.True(t, r.HasHandler("deploy"))
}

func TestRegistryUnregisterRemovesOnlyThatPluginsTypes(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&domain.Plugin{Name: "a", Actions: []domain.PluginActionDef{noopAction("type-a")}}))
	require.NoError(t, r.Register(&domain.Plugin{Name: "b", Actions: []domain.PluginActionDef{noopAction("type-b")}}))

	r.Unregister("a")

	assert.False(t, r.HasHandler("type-a"))
	assert.True(t, r.HasHandler("type-b"))
}

func TestLoadConfiguredUnknownPluginIsALoadError(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.LoadConfigured([]string{"not-compiled-in"}))

	var found *domain.Plugin
	for _, p := range r.Plugins() {
		if p.Name == "not-compiled-in" {
			found = p
		}
	}
	require.NotNil(t, found, "an unmatched plugin name must still be tracked")
	assert.Error(t, found.LoadError)
	assert.False(t, r.HasHandler("anything"), "a load-errored plugin contributes no handlers")
}

func TestLoadConfiguredResolvesACompiledInFactory(t *testing.T) {
	r := NewRegistry()
	MustRegisterFactory("test-only-registry-fixture", func() (*domain.Plugin, error) {
		return &domain.Plugin{Name: "test-only-registry-fixture", Actions: []domain.PluginActionDef{noopAction("fixture-action")}}, nil
	})

	require.NoError(t, r.LoadConfigured([]string{"test-only-registry-fixture"}))
	assert.True(t, r.HasHandler("fixture-action"))
}
