// Package contracts implements the Contract Repository: in-memory lookup of
// compiled artifacts by name, content hash, and source path, with
// duplicate-name detection grounded on the teacher's build-output indexer.
package contracts

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/catapult-run/catapult/internal/domain"
	"github.com/catapult-run/catapult/internal/domain/models"
)

// Repository is the in-memory Contract Repository. Unlike the Foundry
// build-output indexer it was grounded on, it never shells out to a
// compiler: artifacts are supplied once at load time via Add, and a miss is
// a permanent miss for the remainder of the run.
type Repository struct {
	log         *slog.Logger
	onDuplicate func(artifact *models.Artifact)

	mu         sync.RWMutex
	byPath     map[string]*models.Artifact   // "sourceName:contractName" -> artifact
	byName     map[string][]*models.Artifact // contractName -> all artifacts sharing it
	byHash     map[string]*models.Artifact
	duplicates map[string]bool // contractName -> name lookup disabled
}

// NewRepository builds a Repository. onDuplicate, if non-nil, is called
// with the newly-added artifact whenever Add detects a second artifact
// under a ContractName already registered — the loader wires this to
// publish the duplicate_artifact_warning event (§4.2, Testable Property 5).
func NewRepository(log *slog.Logger, onDuplicate func(artifact *models.Artifact)) *Repository {
	return &Repository{
		log:         log,
		onDuplicate: onDuplicate,
		byPath:      make(map[string]*models.Artifact),
		byName:      make(map[string][]*models.Artifact),
		byHash:      make(map[string]*models.Artifact),
		duplicates:  make(map[string]bool),
	}
}

// Add registers an artifact. If a second artifact arrives under the same
// ContractName, name lookup for that name is disabled going forward (hash
// and path lookups are unaffected) and onDuplicate is invoked.
func (r *Repository) Add(artifact *models.Artifact) error {
	if artifact.ContractName == "" {
		return fmt.Errorf("contracts: artifact at %q has no contractName", artifact.Path)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := artifact.Key()
	r.byPath[key] = artifact
	if artifact.Hash != "" {
		r.byHash[artifact.Hash] = artifact
	}

	existing := r.byName[artifact.ContractName]
	r.byName[artifact.ContractName] = append(existing, artifact)
	if len(existing) >= 1 {
		r.duplicates[artifact.ContractName] = true
		r.log.Warn("duplicate contract name across artifacts", "contractName", artifact.ContractName, "path", artifact.Path)
		if r.onDuplicate != nil {
			r.onDuplicate(artifact)
		}
	}

	return nil
}

func (r *Repository) GetByName(name string) (*models.Artifact, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.duplicates[name] {
		return nil, false
	}
	list := r.byName[name]
	if len(list) != 1 {
		return nil, false
	}
	return list[0], true
}

func (r *Repository) GetByHash(hash string) (*models.Artifact, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byHash[hash]
	return a, ok
}

func (r *Repository) GetByPath(path string) (*models.Artifact, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byPath[path]
	return a, ok
}

func (r *Repository) All() []*models.Artifact {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Artifact, 0, len(r.byPath))
	for _, a := range r.byPath {
		out = append(out, a)
	}
	return out
}

// IsDuplicateName reports whether name lookup is disabled for name. The
// duplicate_artifact_warning event itself is fired by the loader through the
// repository's onDuplicate callback, not through this method.
func (r *Repository) IsDuplicateName(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.duplicates[name]
}

var _ domain.ContractRepository = (*Repository)(nil)
