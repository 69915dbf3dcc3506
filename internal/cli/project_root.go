package cli

import (
	"os"
	"path/filepath"
)

// projectMarkers are files whose presence identifies a project root when
// --project is left at its default ".", walked upward the way the teacher's
// FindProjectRoot walks for foundry.toml.
var projectMarkers = []string{
	"catapult.config.yaml",
	"catapult.config.yml",
	"catapult.config.json",
	"networks.yaml",
}

// resolveProjectRoot returns root unchanged (as an absolute path) if it was
// explicitly set to anything other than ".". Otherwise it walks upward from
// the working directory looking for a project marker file.
func resolveProjectRoot(root string) (string, error) {
	if root != "." {
		return filepath.Abs(root)
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return os.Getwd()
		}
		dir = parent
	}
}
