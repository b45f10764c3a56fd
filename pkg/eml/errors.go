package eml

import "errors"

var (
	// ErrConfiguration marks a collaborator failure caused by configuration
	// (missing stylesheet, missing binary). It aborts assessment of the package.
	ErrConfiguration = errors.New("configuration error")

	// ErrNilEntity is returned when a nil entity is added to a package.
	ErrNilEntity = errors.New("entity is nil")

	// ErrNilDocument is returned when assembling a package without a document.
	ErrNilDocument = errors.New("document is nil")

	// ErrNilRegistry is returned when a package is created without templates.
	ErrNilRegistry = errors.New("template registry is nil")
)
