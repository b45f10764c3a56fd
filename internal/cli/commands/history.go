package commands

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/leapstack-labs/emlquality/internal/cli/output"
	"github.com/leapstack-labs/emlquality/internal/state"
	"github.com/spf13/cobra"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit    int
	Failures bool
}

// FailureCount is one row of the failure summary.
type FailureCount struct {
	Check  string `json:"check"`
	Failed int    `json:"failed"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}
	cmd := &cobra.Command{
		Use:   "history [package-id]",
		Short: "Show recorded assessments",
		Long: `List assessments recorded with 'assess --save', newest first.

Give a packageId to show the history of a single package. Use --failures to
summarise how often each check has failed across all recorded assessments.`,
		Example: `  # Recent assessments
  emlquality history

  # One package
  emlquality history knb-lter-sev.12.3

  # Most frequently failing checks
  emlquality history --failures`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, args, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", state.DefaultListLimit, "Maximum number of assessments to show")
	cmd.Flags().BoolVar(&opts.Failures, "failures", false, "Summarise failed checks instead of listing assessments")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string, opts *HistoryOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd, EngineOptions{WithStore: true})
	if err != nil {
		return err
	}
	defer cleanup()

	store := cmdCtx.Engine.Store()
	r := cmdCtx.Renderer

	if opts.Failures {
		counts, err := store.FailureCounts(cmd.Context())
		if err != nil {
			return err
		}
		return renderFailures(r, sortFailures(counts))
	}

	packageID := ""
	if len(args) == 1 {
		packageID = args[0]
	}
	list, err := store.ListAssessments(cmd.Context(), packageID, opts.Limit)
	if err != nil {
		return err
	}
	return renderHistory(r, list)
}

func sortFailures(counts map[string]int) []FailureCount {
	out := make([]FailureCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, FailureCount{Check: id, Failed: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Failed != out[j].Failed {
			return out[i].Failed > out[j].Failed
		}
		return out[i].Check < out[j].Check
	})
	return out
}

func renderFailures(r *output.Renderer, failures []FailureCount) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(failures)
	}
	if len(failures) == 0 {
		r.Success("No failed checks recorded")
		return nil
	}

	rows := make([][]string, 0, len(failures))
	for _, f := range failures {
		rows = append(rows, []string{f.Check, strconv.Itoa(f.Failed)})
	}
	r.Header(1, "Failed checks")
	r.Table([]string{"Check", "Failures"}, rows)
	return nil
}

func renderHistory(r *output.Renderer, list []*state.Assessment) error {
	if r.EffectiveMode() == output.ModeJSON {
		if list == nil {
			list = []*state.Assessment{}
		}
		return r.JSON(list)
	}
	if len(list) == 0 {
		r.Println(r.Muted("No assessments recorded"))
		return nil
	}

	rows := make([][]string, 0, len(list))
	for _, a := range list {
		status := "ok"
		if a.HasQualityError {
			status = "quality errors"
		}
		rows = append(rows, []string{
			a.ID,
			a.PackageID,
			a.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d/%d/%d", a.Valid, a.Failed, a.NotRun),
			status,
		})
	}
	r.Header(1, "Assessments")
	r.Table([]string{"ID", "Package", "Assessed", "Valid/Failed/Not run", "Status"}, rows)
	return nil
}
