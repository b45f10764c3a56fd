package commands

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/emlquality/internal/cli/config"
	"github.com/leapstack-labs/emlquality/internal/cli/output"
	"github.com/leapstack-labs/emlquality/internal/state"
	"github.com/leapstack-labs/emlquality/pkg/eml"
	"github.com/leapstack-labs/emlquality/pkg/quality"
	"github.com/spf13/cobra"
)

// Health check statuses.
const (
	statusPass  = "pass"
	statusWarn  = "warn"
	statusError = "error"
)

// lookPath finds external tools. Replaced in tests.
var lookPath = exec.LookPath

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the installation and configuration",
		Long: `Verify that emlquality can run every check it is configured for.

The doctor command reports on:
- The configuration file in use
- The check templates and any disabled or unknown checks
- The xmllint and xsltproc tools and their schema and stylesheet inputs
- The state database

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Run health check
  emlquality doctor

  # Output as JSON
  emlquality doctor -o json`,
		Args: cobra.NoArgs,
		RunE: runDoctor,
	}
	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	ConfigFile   string        `json:"config_file,omitempty"`
	HealthChecks []HealthCheck `json:"health_checks"`
	Score        int           `json:"score"`
	IssueCount   int           `json:"issue_count"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	Name    string   `json:"name"`
	Group   string   `json:"group"`
	Status  string   `json:"status"` // "pass", "warn", "error"
	Details []string `json:"details,omitempty"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := NewCommandContextWithoutEngine(cmd)
	if err != nil {
		return err
	}

	out := buildDoctorOutput(cmdCtx.Cfg, config.GetConfigFileUsed())

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	default:
		renderDoctor(r, out)
		return nil
	}
}

func buildDoctorOutput(cfg *config.Config, configFile string) *DoctorOutput {
	checks := []HealthCheck{
		checkConfigFile(configFile),
		checkTemplates(cfg),
		checkSchemaValidator(cfg),
		checkDereferencer(cfg),
		checkStateDatabase(cfg),
	}

	issues := 0
	for _, c := range checks {
		if c.Status != statusPass {
			issues++
		}
	}
	return &DoctorOutput{
		ConfigFile:   configFile,
		HealthChecks: checks,
		Score:        calculateHealthScore(checks),
		IssueCount:   issues,
	}
}

func checkConfigFile(configFile string) HealthCheck {
	hc := HealthCheck{Name: "Configuration file", Group: "configuration", Status: statusPass}
	if configFile == "" {
		hc.Details = []string{"No emlquality.yaml found; using defaults"}
	} else {
		hc.Details = []string{configFile}
	}
	return hc
}

func checkTemplates(cfg *config.Config) HealthCheck {
	hc := HealthCheck{Name: "Check templates", Group: "checks", Status: statusPass}

	var (
		reg *quality.Registry
		err error
	)
	if cfg.Templates != "" {
		reg, err = quality.LoadTemplatesFile(cfg.Templates)
	} else {
		reg, err = quality.DefaultRegistry()
	}
	if err == nil {
		err = eml.ValidateRegistry(reg)
	}
	if err != nil {
		hc.Status = statusError
		hc.Details = []string{err.Error()}
		return hc
	}

	hc.Details = append(hc.Details, fmt.Sprintf("%d templates loaded", reg.Len()))
	for _, id := range cfg.Checks.Disabled {
		if !reg.Has(id) {
			hc.Status = statusWarn
			hc.Details = append(hc.Details, fmt.Sprintf("disabled check %q does not exist", id))
		}
	}
	for id := range cfg.Checks.Severity {
		if !reg.Has(id) {
			hc.Status = statusWarn
			hc.Details = append(hc.Details, fmt.Sprintf("severity override for unknown check %q", id))
		}
	}
	if len(cfg.Checks.Disabled) > 0 {
		hc.Details = append(hc.Details, "disabled: "+strings.Join(cfg.Checks.Disabled, ", "))
	}
	return hc
}

func checkSchemaValidator(cfg *config.Config) HealthCheck {
	hc := HealthCheck{Name: "Schema validation", Group: "tools", Status: statusPass}
	switch cfg.Schema.EffectiveValidator() {
	case config.ValidatorNone:
		hc.Status = statusWarn
		hc.Details = []string{"schema validation disabled; schemaValid and schemaValidDereferenced will not run"}
		if cfg.Schema.Validator != config.ValidatorNone {
			hc.Details = append(hc.Details, "set schema.dir to validate with the built-in XSD validator")
		}
		return hc
	case config.ValidatorXSD:
		if cfg.Schema.Dir == "" {
			hc.Status = statusError
			hc.Details = []string{"schema.validator is xsd but schema.dir is not set"}
			return hc
		}
		hc.Details = []string{"built-in XSD validator"}
		checkSchemaFiles(cfg.Schema.Dir, &hc)
		return hc
	}

	bin := cfg.Schema.XMLLintPath
	if bin == "" {
		bin = "xmllint"
	}
	path, err := lookPath(bin)
	if err != nil {
		hc.Status = statusError
		hc.Details = []string{fmt.Sprintf("%s not found: %v", bin, err)}
		return hc
	}
	hc.Details = []string{path}

	if cfg.Schema.Dir == "" {
		hc.Status = statusWarn
		hc.Details = append(hc.Details, "schema.dir is not set; documents with relative schema locations cannot be validated")
		return hc
	}
	checkSchemaFiles(cfg.Schema.Dir, &hc)
	return hc
}

// checkSchemaFiles warns about relative schema locations missing from dir.
func checkSchemaFiles(dir string, hc *HealthCheck) {
	for _, loc := range eml.DefaultSchemaLocations {
		if strings.Contains(loc.Location, "://") {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, loc.Location)); err != nil {
			hc.Status = statusWarn
			hc.Details = append(hc.Details, fmt.Sprintf("schema for %s missing: %v", loc.Namespace, err))
		}
	}
}

func checkDereferencer(cfg *config.Config) HealthCheck {
	hc := HealthCheck{Name: "Dereferencing", Group: "tools", Status: statusPass}
	if cfg.Dereference.Stylesheet == "" {
		hc.Details = []string{"no stylesheet configured; schemaValidDereferenced will not run"}
		return hc
	}
	if _, err := os.Stat(cfg.Dereference.Stylesheet); err != nil {
		hc.Status = statusError
		hc.Details = append(hc.Details, fmt.Sprintf("stylesheet: %v", err))
	}

	bin := cfg.Dereference.XSLTProcPath
	if bin == "" {
		bin = "xsltproc"
	}
	path, err := lookPath(bin)
	if err != nil {
		hc.Status = statusError
		hc.Details = append(hc.Details, fmt.Sprintf("%s not found: %v", bin, err))
		return hc
	}
	hc.Details = append(hc.Details, path)
	return hc
}

func checkStateDatabase(cfg *config.Config) HealthCheck {
	hc := HealthCheck{Name: "State database", Group: "state", Status: statusPass}
	if _, err := os.Stat(cfg.StatePath); os.IsNotExist(err) {
		hc.Details = []string{cfg.StatePath + " (created on first 'assess --save')"}
		return hc
	}

	store := state.NewSQLiteStore(nil)
	if err := store.Open(cfg.StatePath); err != nil {
		hc.Status = statusError
		hc.Details = []string{err.Error()}
		return hc
	}
	defer func() { _ = store.Close() }()

	version, err := store.GetMigrationVersion()
	if err != nil {
		hc.Status = statusError
		hc.Details = []string{err.Error()}
		return hc
	}
	hc.Details = []string{cfg.StatePath, fmt.Sprintf("schema version %d", version)}
	return hc
}

// calculateHealthScore computes a health score from 0-100.
// Errors cost twice as much as warnings.
func calculateHealthScore(checks []HealthCheck) int {
	score := 100
	for _, check := range checks {
		switch check.Status {
		case statusError:
			score -= 30
		case statusWarn:
			score -= 15
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}

func renderDoctor(r *output.Renderer, out *DoctorOutput) {
	markdown := r.EffectiveMode() == output.ModeMarkdown
	r.Header(1, "emlquality health report")

	currentGroup := ""
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println()
			r.Header(2, strings.ToUpper(currentGroup[:1])+currentGroup[1:])
		}

		label := strings.ToUpper(check.Status)
		if markdown {
			r.Printf("- **[%s]** %s\n", label, check.Name)
		} else {
			r.Printf("[%s] %s\n", label, check.Name)
		}
		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}

	r.Println()
	r.Header(2, "Health Score")
	if markdown {
		r.Printf("**%d/100**\n", out.Score)
	} else {
		r.Printf("%d/100\n", out.Score)
	}
	if out.IssueCount == 0 {
		r.Success("Ready to assess")
	} else {
		r.Warning(fmt.Sprintf("%d issue(s) found", out.IssueCount))
	}
}
