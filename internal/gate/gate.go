// Package gate decides whether the assistant may stop, aggregating every
// failed check into one report.
package gate

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/wallacegibbon/stopgate/internal/planconfig"
	"github.com/wallacegibbon/stopgate/internal/shell"
	"github.com/wallacegibbon/stopgate/internal/verify"
	"go.uber.org/zap"
)

// MaxOutput bounds the command output kept in a report; the tail is kept
const MaxOutput = 4000

const reportHeader = "Cannot complete - quality gates not met:\n\n"

// State is a step of the gate pipeline
type State string

const (
	CheckDirty  State = "CHECK_DIRTY"
	LoadConfig  State = "LOAD_CONFIG"
	RunCommands State = "RUN_COMMANDS"
	RunAgent    State = "RUN_AGENT"
	Decide      State = "DECIDE"
)

// GateError is one failed check
type GateError struct {
	Source string
	Detail string
}

func (e GateError) String() string {
	if e.Detail == "" {
		return e.Source
	}
	return e.Source + "\n" + e.Detail
}

// Decision is the aggregated outcome of all checks
type Decision struct {
	Errors []GateError
}

// Allow reports whether the stop may proceed
func (d Decision) Allow() bool {
	return len(d.Errors) == 0
}

// Report renders every error as its own paragraph under a header, or "" when allowed
func (d Decision) Report() string {
	if d.Allow() {
		return ""
	}
	parts := make([]string, len(d.Errors))
	for i, e := range d.Errors {
		parts[i] = e.String()
	}
	return reportHeader + strings.Join(parts, "\n\n")
}

// ChangeInspector lists uncommitted paths
type ChangeInspector interface {
	UncommittedChanges(ctx context.Context) ([]string, error)
}

// CommandRunner runs one gate command
type CommandRunner interface {
	Run(ctx context.Context, cmd string) shell.Result
}

// Verifier reviews the changes with a model
type Verifier interface {
	Run(ctx context.Context) verify.Verdict
}

// Orchestrator runs the checks in order without stopping at the first failure
type Orchestrator struct {
	Dir        string
	Changes    ChangeInspector
	Runner     CommandRunner
	Verifier   Verifier
	LoadConfig func(dir string) planconfig.LoadResult
	Logger     *zap.Logger
}

// Run executes CHECK_DIRTY, LOAD_CONFIG, RUN_COMMANDS, RUN_AGENT and DECIDE
func (o *Orchestrator) Run(ctx context.Context) Decision {
	logger := o.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var errs []GateError

	logger.Debug("gate state", zap.String("state", string(CheckDirty)))
	if o.Changes != nil {
		paths, err := o.Changes.UncommittedChanges(ctx)
		if err != nil {
			logger.Warn("failed to inspect working tree", zap.Error(err))
		} else if len(paths) > 0 {
			errs = append(errs, GateError{Source: "Uncommitted changes:", Detail: strings.Join(paths, "\n")})
		}
	}

	logger.Debug("gate state", zap.String("state", string(LoadConfig)))
	load := planconfig.Load
	if o.LoadConfig != nil {
		load = o.LoadConfig
	}
	res := load(o.Dir)
	if res.Err != nil {
		logger.Warn("invalid project config", zap.String("path", res.Path), zap.Error(res.Err))
		errs = append(errs, GateError{Source: "Configuration error: " + res.Err.Error()})
	}

	logger.Debug("gate state", zap.String("state", string(RunCommands)))
	errs = append(errs, o.runCommands(ctx, logger, res.Config.Commands())...)

	logger.Debug("gate state", zap.String("state", string(RunAgent)))
	if o.Verifier != nil {
		verdict := o.Verifier.Run(ctx)
		if !verdict.Passed {
			detail := strings.Join(verdict.Issues, "\n")
			if detail == "" {
				detail = verdict.Summary
			}
			errs = append(errs, GateError{Source: "Verification agent found issues:", Detail: detail})
		} else if verdict.RequirementsFeedback != "" {
			logger.Info("verification passed", zap.String("feedback", verdict.RequirementsFeedback))
		}
	}

	d := Decision{Errors: errs}
	logger.Info("gate decision",
		zap.String("state", string(Decide)),
		zap.Bool("allow", d.Allow()),
		zap.Int("errors", len(errs)))
	return d
}

// runCommands runs cmds strictly in order; a later gate still runs when an
// earlier one fails so the report lists every failure.
func (o *Orchestrator) runCommands(ctx context.Context, logger *zap.Logger, cmds []planconfig.VerificationCommand) []GateError {
	runner := o.Runner
	if runner == nil {
		runner = shell.New(o.Dir)
	}

	var errs []GateError
	for _, c := range cmds {
		logger.Debug("running gate command", zap.String("name", string(c.Name)), zap.String("command", c.Command))
		result := runner.Run(ctx, c.Command)
		if result.Success {
			continue
		}
		logger.Info("gate command failed", zap.String("name", string(c.Name)))
		errs = append(errs, GateError{
			Source: fmt.Sprintf("%s failed: %s", c.Name, c.Command),
			Detail: truncateOutput(result.Output, MaxOutput),
		})
	}
	return errs
}

// truncateOutput keeps the last max characters of output
func truncateOutput(output string, max int) string {
	output = strings.TrimRight(output, "\n")
	skip := utf8.RuneCountInString(output) - max
	if skip <= 0 {
		return output
	}
	for i := range output {
		if skip == 0 {
			return "... (output truncated)\n" + output[i:]
		}
		skip--
	}
	return "... (output truncated)\n"
}
