package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catapult-run/catapult/internal/domain"
	"github.com/catapult-run/catapult/internal/domain/models"
)

// fakeExecutionContext is a minimal domain.ExecutionContext for resolver
// tests, backed by a plain map instead of a real RPC/signer pair.
type fakeExecutionContext struct {
	network *models.Network
	outputs map[string]any
}

func newFakeContext(network *models.Network) *fakeExecutionContext {
	if network == nil {
		network = &models.Network{Name: "local", ChainID: 31337}
	}
	return &fakeExecutionContext{network: network, outputs: make(map[string]any)}
}

func (f *fakeExecutionContext) Network() *models.Network             { return f.network }
func (f *fakeExecutionContext) Signer() domain.Signer                { return nil }
func (f *fakeExecutionContext) RPC() domain.RPCProvider              { return nil }
func (f *fakeExecutionContext) Contracts() domain.ContractRepository { return nil }
func (f *fakeExecutionContext) Emit(domain.Event)                    {}
func (f *fakeExecutionContext) RunID() string                        { return "run-1" }
func (f *fakeExecutionContext) JobCompleted(string) bool             { return false }
func (f *fakeExecutionContext) MarkJobCompleted(string)              {}

func (f *fakeExecutionContext) GetOutput(key string) (any, bool) {
	v, ok := f.outputs[key]
	return v, ok
}

func (f *fakeExecutionContext) SetOutput(key string, value any) error {
	f.outputs[key] = value
	return nil
}

var _ domain.ExecutionContext = (*fakeExecutionContext)(nil)

func TestResolveLiterals(t *testing.T) {
	r := New()
	ec := newFakeContext(nil)

	v, err := r.Resolve(context.Background(), ec, nil, "plain string")
	require.NoError(t, err)
	assert.Equal(t, "plain string", v)

	v, err = r.Resolve(context.Background(), ec, nil, 42)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestResolvePlaceholderRoundTrip(t *testing.T) {
	r := New()
	ec := newFakeContext(nil)
	require.NoError(t, ec.SetOutput("token.address", "0xABCDEF"))

	t.Run("bare reference returns the native value", func(t *testing.T) {
		v, err := r.Resolve(context.Background(), ec, nil, "{{token.address}}")
		require.NoError(t, err)
		assert.Equal(t, "0xABCDEF", v)
	})

	t.Run("reference embedded in literal text is stringified", func(t *testing.T) {
		v, err := r.Resolve(context.Background(), ec, nil, "addr: {{token.address}}!")
		require.NoError(t, err)
		assert.Equal(t, "addr: 0xABCDEF!", v)
	})

	t.Run("scope bindings take precedence over the output store", func(t *testing.T) {
		scope := map[string]any{"token.address": "scoped-value"}
		v, err := r.Resolve(context.Background(), ec, scope, "{{token.address}}")
		require.NoError(t, err)
		assert.Equal(t, "scoped-value", v)
	})

	t.Run("unresolved reference is an error", func(t *testing.T) {
		_, err := r.Resolve(context.Background(), ec, nil, "{{nowhere.to.be.found}}")
		assert.ErrorIs(t, err, domain.ErrUnresolvedRef)
	})

	t.Run("Network() field access", func(t *testing.T) {
		ec := newFakeContext(&models.Network{Name: "sepolia", ChainID: 11155111})
		v, err := r.Resolve(context.Background(), ec, nil, "{{Network().chainId}}")
		require.NoError(t, err)
		assert.Equal(t, uint64(11155111), v)
	})
}

func TestResolveNestedStructures(t *testing.T) {
	r := New()
	ec := newFakeContext(nil)
	require.NoError(t, ec.SetOutput("deploy.address", "0xdead"))

	expr := map[string]any{
		"list": []any{"{{deploy.address}}", "literal"},
		"nested": map[string]any{
			"addr": "{{deploy.address}}",
		},
	}

	v, err := r.Resolve(context.Background(), ec, nil, expr)
	require.NoError(t, err)

	out, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"0xdead", "literal"}, out["list"])
	nested := out["nested"].(map[string]any)
	assert.Equal(t, "0xdead", nested["addr"])
}

func TestResolveTaggedArithmetic(t *testing.T) {
	r := New()
	ec := newFakeContext(nil)

	expr := map[string]any{
		"type":      "basic-arithmetic",
		"operation": "add",
		"values":    []any{"10", "32"},
	}

	v, err := r.Resolve(context.Background(), ec, nil, expr)
	require.NoError(t, err)
	assert.Equal(t, "42", v)
}

func TestResolveReadJSONDeepPath(t *testing.T) {
	r := New()
	ec := newFakeContext(nil)

	expr := map[string]any{
		"type": "read-json",
		"path": "result.items.1.name",
		"value": map[string]any{
			"result": map[string]any{
				"items": []any{
					map[string]any{"name": "first"},
					map[string]any{"name": "second"},
				},
			},
		},
	}

	v, err := r.Resolve(context.Background(), ec, nil, expr)
	require.NoError(t, err)
	assert.Equal(t, "second", v)
}
