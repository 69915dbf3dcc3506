// Package planner implements the Job DAG Planner/Runner: topological
// ordering of jobs by declared dependencies and per-network orchestration.
package planner

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/catapult-run/catapult/internal/domain/models"
)

// TopoSort orders jobs so that every dependency precedes its dependents.
// A cycle or a dependency on an unknown job is a fatal Configuration error.
func TopoSort(jobs []*models.Job) ([]*models.Job, error) {
	byName := make(map[string]*models.Job, len(jobs))
	for _, j := range jobs {
		if _, dup := byName[j.Name]; dup {
			return nil, fmt.Errorf("duplicate job name %q", j.Name)
		}
		byName[j.Name] = j
	}
	for _, j := range jobs {
		for _, dep := range j.DependsOn {
			if _, ok := byName[dep]; !ok {
				return nil, fmt.Errorf("job %q depends on unknown job %q", j.Name, dep)
			}
		}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(jobs))
	var order []*models.Job

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch color[name] {
		case black:
			return nil
		case gray:
			return fmt.Errorf("cyclic job dependency: %v -> %s", path, name)
		}
		color[name] = gray
		job := byName[name]
		for _, dep := range job.DependsOn {
			if err := visit(dep, append(path, name)); err != nil {
				return err
			}
		}
		color[name] = black
		order = append(order, job)
		return nil
	}

	// Preserve the original job declaration order among independent jobs.
	for _, j := range jobs {
		if err := visit(j.Name, nil); err != nil {
			return nil, err
		}
	}

	return order, nil
}

// appliesTo reports whether job targets network, honoring an empty
// Networks list as "every network".
func appliesTo(job *models.Job, network string) bool {
	if len(job.Networks) == 0 {
		return true
	}
	return lo.Contains(job.Networks, network)
}
