package cmd

import (
	"github.com/spf13/cobra"

	"github.com/crosscov/cli/internal/output"
	"github.com/crosscov/cli/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show crosscov version information.

Displays:
  - crosscov version, commit, and build date
  - Go version and platform
  - version of the cover profile parser`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output.Println(version.Get().String())
			return nil
		},
	}
}
