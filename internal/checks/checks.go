package checks

import (
	"context"

	"github.com/pkg/errors"
)

var (
	ErrCommandNotFound = errors.New("command not found")
	ErrEmptyOutput     = errors.New("command produced no output")
)

// Prober runs one ping invocation against address and returns its stdout.
// Failures are not reported separately: a failed probe returns whatever
// output it produced, possibly none.
type Prober interface {
	Probe(ctx context.Context, command, preArgs, address, postArgs string) string
}

// Resolver expands hostname into the addresses of its recordType records.
// It returns an empty slice when nothing was found or the lookup failed.
type Resolver interface {
	Resolve(ctx context.Context, recordType, hostname string) []string
}
