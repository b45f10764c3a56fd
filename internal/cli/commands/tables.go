package commands

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/emlquality/internal/cli/output"
	"github.com/leapstack-labs/emlquality/pkg/eml"
	"github.com/leapstack-labs/emlquality/pkg/query"
	"github.com/spf13/cobra"
)

// TableOutput is one entity and the table it would be loaded into.
type TableOutput struct {
	Entity string `json:"entity"`
	Type   string `json:"type"`
	Table  string `json:"table,omitempty"`
	Error  string `json:"error,omitempty"`
}

// TablesOutput is the JSON form of the tables command.
type TablesOutput struct {
	Source string        `json:"source"`
	Tables []TableOutput `json:"tables"`
	From   string        `json:"from,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables <file>",
		Short: "Show the database tables for a document's entities",
		Long: `Derive a database table name for every named entity in an EML document
and print the FROM clause that selects across all of them.

Entities without a name cannot be given a table and make the FROM clause
unavailable.`,
		Example: `  emlquality tables knb-lter-sev.12.3.xml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContextWithoutEngine(cmd)
			if err != nil {
				return err
			}
			out, err := buildTables(args[0])
			if err != nil {
				return err
			}
			return renderTables(cmdCtx.Renderer, out)
		},
	}
	return cmd
}

func buildTables(path string) (*TablesOutput, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is a user-supplied document
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	doc, err := eml.ParseDocument(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	entities := doc.Entities()
	query.AssignTableNames(entities)

	out := &TablesOutput{Source: path, Tables: make([]TableOutput, 0, len(entities))}
	items := make([]query.TableItem, 0, len(entities))
	for _, e := range entities {
		item := query.TableItem{Entity: e}
		items = append(items, item)

		row := TableOutput{Entity: e.NameOrEmpty(), Type: string(e.Type)}
		if table, err := item.ToSQLString(); err != nil {
			row.Error = err.Error()
		} else {
			row.Table = table
		}
		out.Tables = append(out.Tables, row)
	}

	if from, err := query.FromClause(items...); err != nil {
		out.Error = err.Error()
	} else {
		out.From = from
	}
	return out, nil
}

func renderTables(r *output.Renderer, out *TablesOutput) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(out)
	}

	r.Header(1, out.Source)
	rows := make([][]string, 0, len(out.Tables))
	for _, t := range out.Tables {
		table := t.Table
		if table == "" {
			table = r.Muted("(none)")
		}
		rows = append(rows, []string{t.Entity, t.Type, table})
	}
	r.Table([]string{"Entity", "Type", "Table"}, rows)

	if out.Error != "" {
		r.Warning("FROM clause unavailable: " + out.Error)
		return nil
	}
	if out.From != "" {
		r.Println(FormatField("FROM", out.From))
	}
	return nil
}
