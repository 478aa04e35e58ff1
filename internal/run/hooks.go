package run

import (
	"context"
	"io"
	"os"

	"github.com/wallacegibbon/stopgate/internal/app"
	"github.com/wallacegibbon/stopgate/internal/gate"
	"github.com/wallacegibbon/stopgate/internal/reflection"
)

// GateHook wires the app and runs the quality gate
func GateHook(ctx context.Context, opts app.Options, stderr io.Writer) int {
	return Gate(ctx, stderr, func(ctx context.Context) (gate.Decision, error) {
		a, err := app.Setup(ctx, opts)
		if err != nil {
			return gate.Decision{}, err
		}
		defer a.Close()
		return a.Gate().Run(ctx), nil
	})
}

// ReflectHook wires the app and runs the reflection pipeline
func ReflectHook(ctx context.Context, opts app.Options, stdin *os.File, stdout, stderr io.Writer) int {
	return Reflect(ctx, stderr, func(ctx context.Context) (reflection.Outcome, error) {
		a, err := app.Setup(ctx, opts)
		if err != nil {
			return reflection.Outcome{}, err
		}
		defer a.Close()
		return a.Reflection(stdin, stdout).Run(ctx)
	})
}
