package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catcontext "github.com/catapult-run/catapult/internal/context"
	"github.com/catapult-run/catapult/internal/domain"
	"github.com/catapult-run/catapult/internal/domain/models"
	"github.com/catapult-run/catapult/internal/events"
	"github.com/catapult-run/catapult/internal/plugin"
	"github.com/catapult-run/catapult/internal/resolver"
)

func newTestContext() *catcontext.ExecutionContext {
	return catcontext.New("run-1", &models.Network{Name: "local"}, nil, nil, nil, events.NewEmitter())
}

// constPlugin registers a single action type, always returning a fixed
// "source" marker so tests can tell whether the plugin or a same-named
// primitive/template actually ran.
func constPlugin(actionType, source string) *domain.Plugin {
	return &domain.Plugin{
		Name: "test-plugin",
		Actions: []domain.PluginActionDef{
			{
				Type: actionType,
				Execute: func(ctx context.Context, ec domain.ExecutionContext, action models.Action, args map[string]any) (map[string]any, error) {
					return map[string]any{"source": source}, nil
				},
			},
		},
	}
}

func TestDispatchPrecedence(t *testing.T) {
	t.Run("plugin wins over a primitive of the same type", func(t *testing.T) {
		registry := plugin.NewRegistry()
		require.NoError(t, registry.Register(constPlugin("constant", "plugin")))

		e := New(resolver.New(), nil, registry, nil)
		ec := newTestContext()

		action := models.Action{Type: "constant", Name: "x", Arguments: map[string]any{"value": "ignored"}}
		require.NoError(t, e.Run(context.Background(), ec, nil, []models.Action{action}))

		v, ok := ec.GetOutput("x.source")
		require.True(t, ok)
		assert.Equal(t, "plugin", v)
	})

	t.Run("primitive wins over a template of the same type", func(t *testing.T) {
		templates := map[string]*models.Template{
			"constant": {Name: "constant", Outputs: map[string]any{"result": "from-template"}},
		}
		e := New(resolver.New(), templates, plugin.NewRegistry(), nil)
		ec := newTestContext()

		action := models.Action{Type: "constant", Name: "x", Arguments: map[string]any{"value": "primitive-value"}}
		require.NoError(t, e.Run(context.Background(), ec, nil, []models.Action{action}))

		v, ok := ec.GetOutput("x.result")
		require.True(t, ok)
		assert.Equal(t, "primitive-value", v)
	})

	t.Run("falls through to a template when no plugin or primitive matches", func(t *testing.T) {
		templates := map[string]*models.Template{
			"deploy-pair": {Name: "deploy-pair", Outputs: map[string]any{"label": "templated"}},
		}
		e := New(resolver.New(), templates, plugin.NewRegistry(), nil)
		ec := newTestContext()

		action := models.Action{Type: "deploy-pair", Name: "x"}
		require.NoError(t, e.Run(context.Background(), ec, nil, []models.Action{action}))

		v, ok := ec.GetOutput("x.label")
		require.True(t, ok)
		assert.Equal(t, "templated", v)
	})

	t.Run("unknown action type is an error", func(t *testing.T) {
		e := New(resolver.New(), nil, plugin.NewRegistry(), nil)
		ec := newTestContext()

		action := models.Action{Type: "does-not-exist", Name: "x"}
		err := e.Run(context.Background(), ec, nil, []models.Action{action})
		assert.Error(t, err)
	})
}

func TestSkipCondition(t *testing.T) {
	e := New(resolver.New(), nil, plugin.NewRegistry(), nil)
	ec := newTestContext()

	action := models.Action{
		Type:          "constant",
		Name:          "x",
		Arguments:     map[string]any{"value": "should-not-run"},
		SkipCondition: []any{true},
	}
	require.NoError(t, e.Run(context.Background(), ec, nil, []models.Action{action}))

	_, ok := ec.GetOutput("x.result")
	assert.False(t, ok, "a skipped action must not store any output")
}

func TestOutputMapping(t *testing.T) {
	e := New(resolver.New(), nil, plugin.NewRegistry(), nil)
	ec := newTestContext()

	action := models.Action{
		Type:      "constant",
		Name:      "x",
		Arguments: map[string]any{"value": "42"},
		Output: map[string]any{
			"doubled": map[string]any{
				"type":      "basic-arithmetic",
				"operation": "add",
				"values":    []any{"{{result}}", "{{result}}"},
			},
		},
	}
	require.NoError(t, e.Run(context.Background(), ec, nil, []models.Action{action}))

	v, ok := ec.GetOutput("x.doubled")
	require.True(t, ok)
	assert.Equal(t, "84", v)
}

func TestDuplicateActionNameIsADuplicateKeyError(t *testing.T) {
	e := New(resolver.New(), nil, plugin.NewRegistry(), nil)
	ec := newTestContext()

	actions := []models.Action{
		{Type: "constant", Name: "x", Arguments: map[string]any{"value": "1"}},
		{Type: "constant", Name: "x", Arguments: map[string]any{"value": "2"}},
	}
	err := e.Run(context.Background(), ec, nil, actions)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateKey)
}

func TestPluginRegistrationCollisionKeepsFirstHandler(t *testing.T) {
	registry := plugin.NewRegistry()
	require.NoError(t, registry.Register(constPlugin("custom-deploy", "first")))

	err := registry.Register(constPlugin("custom-deploy", "second"))
	assert.Error(t, err)

	// The second plugin's handler must not have clobbered the first's.
	h, ok := registry.GetHandler("custom-deploy")
	require.True(t, ok)
	out, err := h(context.Background(), nil, models.Action{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "first", out["source"])
}
