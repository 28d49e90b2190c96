// Package generator produces flyer content from a property description,
// trying model-backed generators first and falling back to the
// deterministic local composer.
package generator

import (
	"context"
	"errors"

	"github.com/hyperifyio/goflyer/internal/flyer"
)

// Generator produces flyer content for a description.
type Generator interface {
	Name() string
	Generate(ctx context.Context, description string) (flyer.Result, error)
}

var (
	// ErrNotConfigured is returned by a generator that lacks a client,
	// model or endpoint.
	ErrNotConfigured = errors.New("generator not configured")
	// ErrIncomplete is returned when a backend answers without a title or
	// without any features.
	ErrIncomplete = errors.New("incomplete flyer content")
)

// Local wraps flyer.Generate. It never fails.
type Local struct{}

func (Local) Name() string { return string(flyer.SourceLocal) }

func (Local) Generate(_ context.Context, description string) (flyer.Result, error) {
	return flyer.Generate(description), nil
}
