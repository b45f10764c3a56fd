package commands

import (
	"fmt"
	"runtime"

	"github.com/leapstack-labs/emlquality/pkg/quality"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display emlquality version, build information and the number of built-in check templates.`,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "emlquality v%s (%s)\n", version, runtime.Version())
			_, _ = fmt.Fprintln(out, "Quality assessment for EML dataset metadata")
			if reg, err := quality.DefaultRegistry(); err == nil {
				_, _ = fmt.Fprintf(out, "Built-in check templates: %d\n", reg.Len())
			}
		},
	}
}
