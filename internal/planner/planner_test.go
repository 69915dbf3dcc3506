package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catapult-run/catapult/internal/domain/models"
)

func jobNames(jobs []*models.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.Name
	}
	return out
}

func TestTopoSort(t *testing.T) {
	t.Run("orders dependencies before dependents", func(t *testing.T) {
		jobs := []*models.Job{
			{Name: "c", DependsOn: []string{"b"}},
			{Name: "a"},
			{Name: "b", DependsOn: []string{"a"}},
		}

		ordered, err := TopoSort(jobs)
		require.NoError(t, err)

		names := jobNames(ordered)
		posA := indexOf(names, "a")
		posB := indexOf(names, "b")
		posC := indexOf(names, "c")
		assert.True(t, posA < posB, "a must precede b")
		assert.True(t, posB < posC, "b must precede c")
	})

	t.Run("independent jobs preserve declaration order", func(t *testing.T) {
		jobs := []*models.Job{
			{Name: "first"},
			{Name: "second"},
			{Name: "third"},
		}

		ordered, err := TopoSort(jobs)
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second", "third"}, jobNames(ordered))
	})

	t.Run("cyclic dependency is an error", func(t *testing.T) {
		jobs := []*models.Job{
			{Name: "a", DependsOn: []string{"b"}},
			{Name: "b", DependsOn: []string{"a"}},
		}

		_, err := TopoSort(jobs)
		assert.ErrorContains(t, err, "cyclic")
	})

	t.Run("dependency on unknown job is an error", func(t *testing.T) {
		jobs := []*models.Job{
			{Name: "a", DependsOn: []string{"ghost"}},
		}

		_, err := TopoSort(jobs)
		assert.ErrorContains(t, err, "unknown job")
	})

	t.Run("duplicate job name is an error", func(t *testing.T) {
		jobs := []*models.Job{
			{Name: "dup"},
			{Name: "dup"},
		}

		_, err := TopoSort(jobs)
		assert.ErrorContains(t, err, "duplicate job name")
	})

	t.Run("diamond dependency resolves once per job", func(t *testing.T) {
		jobs := []*models.Job{
			{Name: "d", DependsOn: []string{"b", "c"}},
			{Name: "b", DependsOn: []string{"a"}},
			{Name: "c", DependsOn: []string{"a"}},
			{Name: "a"},
		}

		ordered, err := TopoSort(jobs)
		require.NoError(t, err)
		require.Len(t, ordered, 4)

		names := jobNames(ordered)
		posA, posB, posC, posD := indexOf(names, "a"), indexOf(names, "b"), indexOf(names, "c"), indexOf(names, "d")
		assert.True(t, posA < posB && posA < posC)
		assert.True(t, posB < posD && posC < posD)
	})
}

func indexOf(s []string, v string) int {
	for i, item := range s {
		if item == v {
			return i
		}
	}
	return -1
}

func TestAppliesTo(t *testing.T) {
	t.Run("empty networks list applies everywhere", func(t *testing.T) {
		job := &models.Job{Name: "j"}
		assert.True(t, appliesTo(job, "mainnet"))
		assert.True(t, appliesTo(job, "anything"))
	})

	t.Run("non-empty networks list restricts to members", func(t *testing.T) {
		job := &models.Job{Name: "j", Networks: []string{"sepolia", "base"}}
		assert.True(t, appliesTo(job, "sepolia"))
		assert.False(t, appliesTo(job, "mainnet"))
	})
}
