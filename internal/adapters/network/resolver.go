// Package network resolves per-network signer material from the
// environment and an optional .env file, grounded on the teacher's
// joho/godotenv-based network resolver.
package network

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Resolver loads .env (if present) once and answers PrivateKeyFor(network).
type Resolver struct {
	env map[string]string
}

// NewResolver loads "<root>/.env" if it exists; a missing file is not an
// error, matching the teacher's lenient env loading.
func NewResolver(root string) (*Resolver, error) {
	path := filepath.Join(root, ".env")
	env := map[string]string{}

	if _, err := os.Stat(path); err == nil {
		loaded, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("network: read .env: %w", err)
		}
		env = loaded
	}

	return &Resolver{env: env}, nil
}

// PrivateKeyFor resolves the signer for networkName, checking, in order:
// an explicit override map, "CATAPULT_PRIVATE_KEY_<NETWORK>" in the
// process environment, the same key in .env, then the generic
// "CATAPULT_PRIVATE_KEY" fallback.
func (r *Resolver) PrivateKeyFor(networkName string, overrides map[string]string) (string, error) {
	if overrides != nil {
		if pk, ok := overrides[networkName]; ok && pk != "" {
			return pk, nil
		}
	}

	envKey := "CATAPULT_PRIVATE_KEY_" + strings.ToUpper(sanitize(networkName))
	if pk := os.Getenv(envKey); pk != "" {
		return pk, nil
	}
	if pk := r.env[envKey]; pk != "" {
		return pk, nil
	}

	if pk := os.Getenv("CATAPULT_PRIVATE_KEY"); pk != "" {
		return pk, nil
	}
	if pk := r.env["CATAPULT_PRIVATE_KEY"]; pk != "" {
		return pk, nil
	}

	return "", fmt.Errorf("network: no private key configured for %q (set CATAPULT_PRIVATE_KEY or %s)", networkName, envKey)
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, name)
}
