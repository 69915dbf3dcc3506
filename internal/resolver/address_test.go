package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveComputeCreate2(t *testing.T) {
	r := New()
	ec := newFakeContext(nil)

	t.Run("canonical zero-deployer, zero-salt vector", func(t *testing.T) {
		expr := map[string]any{
			"type":            "compute-create2",
			"deployerAddress": "0x0000000000000000000000000000000000000000",
			"salt":            "0x0000000000000000000000000000000000000000000000000000000000000000",
			"initCode":        "0x00",
		}
		v, err := r.Resolve(context.Background(), ec, nil, expr)
		require.NoError(t, err)
		assert.Equal(t, "0x4D1A2e2bB4F88F0250f26Ffff098B0b30B26BF38", v)
	})

	t.Run("missing arguments is an error", func(t *testing.T) {
		expr := map[string]any{"type": "compute-create2", "deployerAddress": "0x00"}
		_, err := r.Resolve(context.Background(), ec, nil, expr)
		assert.Error(t, err)
	})

	t.Run("malformed salt is an error", func(t *testing.T) {
		expr := map[string]any{
			"type":            "compute-create2",
			"deployerAddress": "0x0000000000000000000000000000000000000000",
			"salt":            "not-hex",
			"initCode":        "0x00",
		}
		_, err := r.Resolve(context.Background(), ec, nil, expr)
		assert.Error(t, err)
	})
}

func TestResolveComputeCreate(t *testing.T) {
	r := New()
	ec := newFakeContext(nil)

	t.Run("nonce zero from a known deployer", func(t *testing.T) {
		expr := map[string]any{
			"type":            "compute-create",
			"deployerAddress": "0x6Ac7eA33F8831Ea9DCc53393aAA88B25a785dbCf",
			"nonce":           0,
		}
		v, err := r.Resolve(context.Background(), ec, nil, expr)
		require.NoError(t, err)
		assert.NotEmpty(t, v)
	})

	t.Run("different nonces produce different addresses", func(t *testing.T) {
		base := map[string]any{
			"type":            "compute-create",
			"deployerAddress": "0x6Ac7eA33F8831Ea9DCc53393aAA88B25a785dbCf",
		}
		base["nonce"] = 0
		first, err := r.Resolve(context.Background(), ec, nil, base)
		require.NoError(t, err)

		base2 := map[string]any{
			"type":            "compute-create",
			"deployerAddress": "0x6Ac7eA33F8831Ea9DCc53393aAA88B25a785dbCf",
			"nonce":           1,
		}
		second, err := r.Resolve(context.Background(), ec, nil, base2)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})
}
