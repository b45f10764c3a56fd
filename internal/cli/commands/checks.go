package commands

import (
	"strings"

	"github.com/leapstack-labs/emlquality/internal/cli/output"
	"github.com/leapstack-labs/emlquality/pkg/quality"
	"github.com/spf13/cobra"
)

// NewChecksCommand creates the checks command.
func NewChecksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checks [id]",
		Short: "List the quality check templates",
		Long: `List every quality check template, or show one template in full.

The templates come from the built-in set unless the templates setting names
a YAML file.`,
		Example: `  # List all checks
  emlquality checks

  # Show one check
  emlquality checks packageIdPattern`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd, EngineOptions{})
			if err != nil {
				return err
			}
			defer cleanup()

			reg := cmdCtx.Engine.Registry()
			if len(args) == 1 {
				t, err := reg.Lookup(args[0])
				if err != nil {
					return err
				}
				return renderCheck(cmdCtx.Renderer, t)
			}
			return renderChecks(cmdCtx.Renderer, reg.All())
		},
	}
	return cmd
}

func renderChecks(r *output.Renderer, templates []quality.Template) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(templates)
	}

	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		systems := "all"
		if len(t.Systems) > 0 {
			systems = strings.Join(t.Systems, ", ")
		}
		rows = append(rows, []string{t.Identifier, string(t.Scope), string(t.Type), t.Severity.String(), systems})
	}
	r.Header(1, "Quality checks")
	r.Table([]string{"Check", "Scope", "Type", "Severity", "Systems"}, rows)
	return nil
}

func renderCheck(r *output.Renderer, t quality.Template) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(t)
	}

	r.Header(1, t.Identifier)
	r.Println(FormatField("Name", t.Name))
	r.Println(FormatField("Description", t.Description))
	r.Println(FormatField("Type", string(t.Type)))
	r.Println(FormatField("Scope", string(t.Scope)))
	r.Println(FormatField("Severity", t.Severity.String()))
	if len(t.Systems) > 0 {
		r.Println(FormatField("Systems", strings.Join(t.Systems, ", ")))
	}
	if len(t.Requires) > 0 {
		r.Println(FormatField("Requires", strings.Join(t.Requires, ", ")))
	}
	r.Println(FormatField("Expected", t.Expected))
	r.Println(FormatField("Explanation", t.Explanation))
	r.Println(FormatField("Suggestion", t.Suggestion))
	r.Println(FormatField("Reference", t.Reference))
	return nil
}

// FormatField renders a key/value line, or nothing for an empty value.
func FormatField(key, value string) string {
	if value == "" {
		return output.FormatKeyValue(key, "-")
	}
	return output.FormatKeyValue(key, value)
}
