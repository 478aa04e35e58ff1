package run

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wallacegibbon/stopgate/internal/gate"
	"github.com/wallacegibbon/stopgate/internal/reflection"
)

func TestGateAllow(t *testing.T) {
	var stderr bytes.Buffer
	code := Gate(context.Background(), &stderr, func(context.Context) (gate.Decision, error) {
		return gate.Decision{}, nil
	})
	assert.Equal(t, ExitAllow, code)
	assert.Empty(t, stderr.String())
}

func TestGateBlock(t *testing.T) {
	var stderr bytes.Buffer
	code := Gate(context.Background(), &stderr, func(context.Context) (gate.Decision, error) {
		return gate.Decision{Errors: []gate.GateError{{Source: "Uncommitted changes:", Detail: "a.go"}}}, nil
	})
	assert.Equal(t, ExitBlock, code)
	assert.Equal(t, "Cannot complete - quality gates not met:\n\nUncommitted changes:\na.go\n", stderr.String())
}

func TestGateErrorAndPanicBlock(t *testing.T) {
	var stderr bytes.Buffer
	code := Gate(context.Background(), &stderr, func(context.Context) (gate.Decision, error) {
		return gate.Decision{}, errors.New("bad env")
	})
	assert.Equal(t, ExitBlock, code)
	assert.Equal(t, "Verification error: bad env\n", stderr.String())

	stderr.Reset()
	code = Gate(context.Background(), &stderr, func(context.Context) (gate.Decision, error) {
		panic("boom")
	})
	assert.Equal(t, ExitBlock, code)
	assert.Equal(t, "Verification error: boom\n", stderr.String())
}

func TestReflectAlwaysAllows(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, ExitAllow, Reflect(context.Background(), &stderr, func(context.Context) (reflection.Outcome, error) {
		return reflection.Outcome{Stage: reflection.Record}, nil
	}))
	assert.Empty(t, stderr.String())

	assert.Equal(t, ExitAllow, Reflect(context.Background(), &stderr, func(context.Context) (reflection.Outcome, error) {
		return reflection.Outcome{}, errors.New("disk full")
	}))
	assert.Equal(t, "Reflect hook error: disk full\n", stderr.String())

	stderr.Reset()
	assert.Equal(t, ExitAllow, Reflect(context.Background(), &stderr, func(context.Context) (reflection.Outcome, error) {
		panic("boom")
	}))
	assert.Equal(t, "Reflect hook error: boom\n", stderr.String())
}
