// Package run maps pipeline outcomes to hook exit codes. No error or panic
// escapes to the host.
package run

import (
	"context"
	"fmt"
	"io"

	"github.com/wallacegibbon/stopgate/internal/gate"
	"github.com/wallacegibbon/stopgate/internal/reflection"
)

const (
	// ExitAllow lets the host stop
	ExitAllow = 0
	// ExitBlock keeps the host working; stderr is fed back to it
	ExitBlock = 2
)

// Gate runs the quality gate and returns the exit code. The report goes to
// stderr when blocking. Errors and panics block with a diagnostic.
func Gate(ctx context.Context, stderr io.Writer, pipeline func(context.Context) (gate.Decision, error)) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "Verification error: %v\n", r)
			code = ExitBlock
		}
	}()

	d, err := pipeline(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Verification error: %v\n", err)
		return ExitBlock
	}
	if d.Allow() {
		return ExitAllow
	}
	fmt.Fprintln(stderr, d.Report())
	return ExitBlock
}

// Reflect runs the reflection pipeline. It always allows the stop; errors
// and panics are reported on stderr.
func Reflect(ctx context.Context, stderr io.Writer, pipeline func(context.Context) (reflection.Outcome, error)) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "Reflect hook error: %v\n", r)
			code = ExitAllow
		}
	}()

	if _, err := pipeline(ctx); err != nil {
		fmt.Fprintf(stderr, "Reflect hook error: %v\n", err)
	}
	return ExitAllow
}
