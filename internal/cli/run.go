package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/catapult-run/catapult/internal/domain/models"
)

// NewRunCmd builds the "run" command: executes every targeted job against
// every targeted network.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "run",
		Short:        "Run the project's deployment jobs",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}

			project := filterProject(a.Project, a.Config.Jobs)

			result, err := a.Runner.Run(cmd.Context(), project, a.Config.Networks)
			if err != nil {
				return err
			}
			if !result.OK() {
				return fmt.Errorf("deployment failed: %d job(s) failed", len(result.Failed))
			}
			return nil
		},
	}
	return cmd
}

// filterProject returns a shallow copy of project with Jobs restricted to
// names, preserving declared order; an empty names list is "every job".
func filterProject(project *models.Project, names []string) *models.Project {
	if len(names) == 0 {
		return project
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	filtered := *project
	filtered.Jobs = nil
	for _, j := range project.Jobs {
		if want[j.Name] {
			filtered.Jobs = append(filtered.Jobs, j)
		}
	}
	return &filtered
}
