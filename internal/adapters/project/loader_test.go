package project

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catapult-run/catapult/internal/domain"
	"github.com/catapult-run/catapult/internal/events"
)

const naiveArtifactJSON = `{"contractName":"Token","abi":[],"bytecode":"0x00"}`

func writeArtifact(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(naiveArtifactJSON), 0o644))
}

func TestLoadEmitsDuplicateArtifactWarning(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "out/TokenA.sol/Token.json")
	writeArtifact(t, root, "out/TokenB.sol/Token.json")

	emitter := events.NewEmitter()
	var received []domain.Event
	emitter.On(domain.EventDuplicateArtifact, func(e domain.Event) {
		received = append(received, e)
	})

	loader := NewLoader(slog.Default(), emitter)
	proj, repo, err := loader.Load(root)
	require.NoError(t, err)
	require.NotNil(t, proj)

	require.Len(t, received, 1, "a duplicate_artifact_warning must fire for the second Token artifact")
	assert.True(t, repo.IsDuplicateName("Token"))
}

func TestLoadWithoutEmitterStillLoads(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "out/TokenA.sol/Token.json")
	writeArtifact(t, root, "out/TokenB.sol/Token.json")

	loader := NewLoader(slog.Default(), nil)
	proj, repo, err := loader.Load(root)
	require.NoError(t, err)
	require.NotNil(t, proj)
	assert.True(t, repo.IsDuplicateName("Token"))
}

func TestLoadSingleArtifactNoWarning(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "out/Token.sol/Token.json")

	emitter := events.NewEmitter()
	var received []domain.Event
	emitter.On(domain.EventDuplicateArtifact, func(e domain.Event) {
		received = append(received, e)
	})

	loader := NewLoader(slog.Default(), emitter)
	_, repo, err := loader.Load(root)
	require.NoError(t, err)

	assert.Empty(t, received)
	assert.False(t, repo.IsDuplicateName("Token"))
}
