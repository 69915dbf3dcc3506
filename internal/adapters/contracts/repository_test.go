package contracts

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catapult-run/catapult/internal/domain/models"
)

func newTestRepository() *Repository {
	return NewRepository(slog.Default(), nil)
}

func TestRepositoryLookups(t *testing.T) {
	repo := newTestRepository()
	a := &models.Artifact{ContractName: "Counter", SourceName: "src/Counter.sol", Path: "src/Counter.sol:Counter", Hash: "hash-1"}
	require.NoError(t, repo.Add(a))

	t.Run("by name", func(t *testing.T) {
		got, ok := repo.GetByName("Counter")
		require.True(t, ok)
		assert.Same(t, a, got)
	})

	t.Run("by hash", func(t *testing.T) {
		got, ok := repo.GetByHash("hash-1")
		require.True(t, ok)
		assert.Same(t, a, got)
	})

	t.Run("by path", func(t *testing.T) {
		got, ok := repo.GetByPath("src/Counter.sol:Counter")
		require.True(t, ok)
		assert.Same(t, a, got)
	})

	t.Run("miss is a permanent miss", func(t *testing.T) {
		_, ok := repo.GetByName("Ghost")
		assert.False(t, ok)
	})
}

func TestRepositoryDuplicateArtifactDisablesNameLookup(t *testing.T) {
	repo := newTestRepository()

	first := &models.Artifact{ContractName: "Token", SourceName: "src/TokenA.sol", Path: "src/TokenA.sol:Token", Hash: "hash-a"}
	second := &models.Artifact{ContractName: "Token", SourceName: "src/TokenB.sol", Path: "src/TokenB.sol:Token", Hash: "hash-b"}

	require.NoError(t, repo.Add(first))
	assert.False(t, repo.IsDuplicateName("Token"))

	require.NoError(t, repo.Add(second))
	assert.True(t, repo.IsDuplicateName("Token"))

	_, ok := repo.GetByName("Token")
	assert.False(t, ok, "name lookup must be disabled once a duplicate is registered")

	// Hash and path lookups remain unaffected by the name collision.
	gotA, ok := repo.GetByHash("hash-a")
	require.True(t, ok)
	assert.Same(t, first, gotA)

	gotB, ok := repo.GetByPath("src/TokenB.sol:Token")
	require.True(t, ok)
	assert.Same(t, second, gotB)
}

func TestRepositoryAddRejectsArtifactWithNoContractName(t *testing.T) {
	repo := newTestRepository()
	err := repo.Add(&models.Artifact{Path: "src/Unnamed.sol"})
	assert.Error(t, err)
}

func TestRepositoryAllReturnsEveryArtifact(t *testing.T) {
	repo := newTestRepository()
	require.NoError(t, repo.Add(&models.Artifact{ContractName: "A", Path: "a"}))
	require.NoError(t, repo.Add(&models.Artifact{ContractName: "B", Path: "b"}))

	assert.Len(t, repo.All(), 2)
}

func TestRepositoryInvokesOnDuplicateCallback(t *testing.T) {
	var notified []*models.Artifact
	repo := NewRepository(slog.Default(), func(a *models.Artifact) {
		notified = append(notified, a)
	})

	first := &models.Artifact{ContractName: "Token", Path: "src/TokenA.sol:Token"}
	second := &models.Artifact{ContractName: "Token", Path: "src/TokenB.sol:Token"}

	require.NoError(t, repo.Add(first))
	assert.Empty(t, notified, "the first artifact under a name is not a duplicate")

	require.NoError(t, repo.Add(second))
	require.Len(t, notified, 1)
	assert.Same(t, second, notified[0])
}
