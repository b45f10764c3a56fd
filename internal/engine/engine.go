// Package engine assesses EML documents. It parses each document, runs the
// quality checks and optionally records the results in the state store.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/leapstack-labs/emlquality/internal/state"
	"github.com/leapstack-labs/emlquality/pkg/eml"
	"github.com/leapstack-labs/emlquality/pkg/quality"
)

var (
	// ErrNoStore is returned when saving without an assessment store.
	ErrNoStore = errors.New("no assessment store configured")

	// ErrInvalidDocument wraps errors from parsing the input XML.
	ErrInvalidDocument = errors.New("invalid document")
)

// Engine runs quality assessments. It is safe for concurrent use; every
// assessment builds its own data package.
type Engine struct {
	registry  *quality.Registry
	checks    *quality.Config
	policy    eml.Policy
	validator eml.SchemaValidator
	deref     eml.Dereferencer
	parser    eml.ReferenceParser
	locations eml.SchemaLocations
	system    string
	store     state.Store
	ownsStore bool
	timeout   time.Duration
	workers   int
	logger    *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// Registry holds the check templates (optional, uses the built-in set if nil)
	Registry *quality.Registry
	// Checks disables checks and overrides severities (optional)
	Checks *quality.Config
	// Policy is the namespace allow-list and packageId patterns (optional)
	Policy *eml.Policy
	// SchemaValidator enables the schema checks (optional)
	SchemaValidator eml.SchemaValidator
	// Dereferencer enables schemaValidDereferenced (optional)
	Dereferencer eml.Dereferencer
	// ReferenceParser defaults to the built-in ID/reference parser
	ReferenceParser eml.ReferenceParser
	// SchemaLocations defaults to eml.DefaultSchemaLocations
	SchemaLocations eml.SchemaLocations
	// System overrides the system attribute of every document (optional)
	System string
	// Store records assessments (optional). Takes precedence over StatePath.
	Store state.Store
	// StatePath opens a SQLite store owned by the engine (optional)
	StatePath string
	// Timeout bounds each assessment; zero means no limit
	Timeout time.Duration
	// Workers bounds concurrent assessments in AssessFiles
	Workers int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates an engine.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	reg := cfg.Registry
	if reg == nil {
		var err error
		if reg, err = quality.DefaultRegistry(); err != nil {
			return nil, fmt.Errorf("failed to load built-in templates: %w", err)
		}
	}
	if err := eml.ValidateRegistry(reg); err != nil {
		return nil, err
	}

	e := &Engine{
		registry:  reg,
		checks:    cfg.Checks,
		policy:    eml.DefaultPolicy(),
		validator: cfg.SchemaValidator,
		deref:     cfg.Dereferencer,
		parser:    cfg.ReferenceParser,
		locations: cfg.SchemaLocations,
		system:    cfg.System,
		store:     cfg.Store,
		timeout:   cfg.Timeout,
		workers:   cfg.Workers,
		logger:    logger,
	}
	if cfg.Policy != nil {
		e.policy = *cfg.Policy
	}
	if e.parser == nil {
		e.parser = eml.NewIDReferenceParser()
	}
	if e.locations == nil {
		e.locations = eml.DefaultSchemaLocations
	}
	if e.workers < 1 {
		e.workers = 1
	}

	if e.store == nil && cfg.StatePath != "" {
		store, err := openStore(cfg.StatePath, logger)
		if err != nil {
			return nil, err
		}
		e.store = store
		e.ownsStore = true
	}

	logger.Debug("initialized engine",
		"checks", reg.Len(),
		"schema_validation", e.validator != nil,
		"dereferencing", e.deref != nil,
		"store", e.store != nil)
	return e, nil
}

func openStore(path string, logger *slog.Logger) (*state.SQLiteStore, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}
	}
	store := state.NewSQLiteStore(logger)
	if err := store.Open(path); err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	return store, nil
}

// Registry returns the check templates in use.
func (e *Engine) Registry() *quality.Registry {
	return e.registry
}

// Store returns the assessment store, or nil if none is configured.
func (e *Engine) Store() state.Store {
	return e.store
}

// Close releases the store if the engine opened it.
func (e *Engine) Close() error {
	if e.ownsStore && e.store != nil {
		return e.store.Close()
	}
	return nil
}

func (e *Engine) packageOptions() []eml.Option {
	opts := []eml.Option{
		eml.WithConfig(e.checks),
		eml.WithPolicy(e.policy),
		eml.WithLogger(e.logger),
		eml.WithReferenceParser(e.parser),
		eml.WithSchemaLocations(e.locations),
	}
	if e.validator != nil {
		opts = append(opts, eml.WithSchemaValidator(e.validator))
	}
	if e.deref != nil {
		opts = append(opts, eml.WithDereferencer(e.deref))
	}
	if e.system != "" {
		opts = append(opts, eml.WithSystem(e.system))
	}
	return opts
}
