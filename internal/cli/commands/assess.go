package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/leapstack-labs/emlquality/internal/cli/output"
	"github.com/leapstack-labs/emlquality/internal/engine"
	"github.com/spf13/cobra"
)

// ErrQualityErrors is returned when an assessed package has a failed check.
var ErrQualityErrors = errors.New("quality errors found")

// AssessOptions holds options for the assess command.
type AssessOptions struct {
	Watch       bool
	Save        bool
	FailOnError bool
	System      string
}

// NewAssessCommand creates the assess command.
func NewAssessCommand() *cobra.Command {
	opts := &AssessOptions{}
	cmd := &cobra.Command{
		Use:   "assess <file>...",
		Short: "Assess EML documents",
		Long: `Run the quality checks over one or more EML documents and report the
outcome of every check.

Documents are assessed concurrently (see --workers). The command exits with a
non-zero status when any document has a failed check, unless
--fail-on-error=false is given.

Output adapts to environment:
  - Terminal: Styled tables
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format (-o json)`,
		Example: `  # Assess a document
  emlquality assess knb-lter-sev.12.3.xml

  # Assess many documents and record the results
  emlquality assess --save packages/*.xml

  # Re-assess whenever a document changes
  emlquality assess --watch packages/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssess(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Re-assess documents when they change")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "Record results in the state database")
	cmd.Flags().BoolVar(&opts.FailOnError, "fail-on-error", true, "Exit non-zero when a document has quality errors")
	cmd.Flags().StringVar(&opts.System, "system", "", "Override the document's system attribute (e.g. lter, knb)")

	return cmd
}

func runAssess(cmd *cobra.Command, args []string, opts *AssessOptions) error {
	files, err := collectDocuments(args)
	if err != nil {
		return err
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd, EngineOptions{WithStore: opts.Save, System: opts.System})
	if err != nil {
		return err
	}
	defer cleanup()

	if opts.Watch {
		return watchAssess(cmd.Context(), cmdCtx, args, files, opts)
	}

	results, err := cmdCtx.Engine.AssessFiles(cmd.Context(), files, opts.Save)
	if err != nil {
		return err
	}

	if err := cmdCtx.Renderer.Assessments(toOutputs(results)); err != nil {
		return err
	}

	if opts.FailOnError {
		for _, res := range results {
			if res.HasQualityError() {
				return ErrQualityErrors
			}
		}
	}
	return nil
}

func watchAssess(ctx context.Context, cmdCtx *CommandContext, paths, files []string, opts *AssessOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := cmdCtx.Renderer
	results, err := cmdCtx.Engine.AssessFiles(ctx, files, opts.Save)
	if err != nil {
		return err
	}
	if err := r.Assessments(toOutputs(results)); err != nil {
		return err
	}

	r.Println(r.Muted(fmt.Sprintf("Watching %d path(s) for changes. Press Ctrl+C to stop.", len(paths))))
	return cmdCtx.Engine.Watch(ctx, paths, opts.Save, func(res *engine.Result, err error) {
		if err != nil {
			r.Warning(err.Error())
			return
		}
		if err := r.Assessments(toOutputs([]*engine.Result{res})); err != nil {
			cmdCtx.Logger.Error("failed to render assessment", "error", err)
		}
	})
}

// collectDocuments expands directories to the .xml files directly inside them.
func collectDocuments(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".xml") {
				files = append(files, filepath.Join(arg, e.Name()))
			}
		}
	}
	if len(files) == 0 {
		return nil, errors.New("no EML documents found")
	}
	return files, nil
}

func toOutputs(results []*engine.Result) []output.AssessmentOutput {
	out := make([]output.AssessmentOutput, 0, len(results))
	for _, res := range results {
		out = append(out, output.AssessmentOutput{
			Source:       res.Source,
			AssessmentID: res.AssessmentID,
			Report:       res.Snapshot,
		})
	}
	return out
}
