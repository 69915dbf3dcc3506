package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version, Commit and Date are set at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// NewVersionCmd builds the "version" command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the catapult version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("catapult %s\n", Version)
			if Commit != "unknown" {
				shortCommit := Commit
				if len(shortCommit) > 7 {
					shortCommit = shortCommit[:7]
				}
				fmt.Printf("commit: %s\n", shortCommit)
			}
			if Date != "unknown" {
				fmt.Printf("built:  %s\n", Date)
			}
		},
	}
}
