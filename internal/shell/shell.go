package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Result is the outcome of a single command
type Result struct {
	Success bool
	Output  string
}

// Runner executes POSIX shell commands in-process
type Runner struct {
	// Dir is the working directory; empty means the process cwd
	Dir string
	// Env overrides the process environment when non-nil
	Env []string
}

// New creates a Runner rooted at dir
func New(dir string) *Runner {
	return &Runner{Dir: dir}
}

// lockedBuffer lets stdout and stderr share one buffer
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var errNoCommand = errors.New("command is required")

// exec parses and interprets cmd with the given output streams
func (r *Runner) exec(ctx context.Context, cmd string, stdout, stderr io.Writer) error {
	if strings.TrimSpace(cmd) == "" {
		return errNoCommand
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(cmd), "")
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	env := r.Env
	if env == nil {
		env = os.Environ()
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, stdout, stderr),
	}
	if r.Dir != "" {
		opts = append(opts, interp.Dir(r.Dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}
	return runner.Run(ctx, prog)
}

// Run executes cmd and reports merged stdout/stderr. It never returns an error:
// parse failures, spawn failures and non-zero exits all come back as Success=false.
func (r *Runner) Run(ctx context.Context, cmd string) Result {
	var out lockedBuffer
	err := r.exec(ctx, cmd, &out, &out)
	output := out.String()
	if err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return Result{Output: fmt.Sprintf("[%d] %s", exitStatus, output)}
		}
		if output != "" {
			return Result{Output: fmt.Sprintf("%s\n%s", err.Error(), output)}
		}
		return Result{Output: err.Error()}
	}

	return Result{Success: true, Output: output}
}

// Output runs cmd for its stdout alone, for callers that parse the result.
// Stderr is kept out of the returned text and only reported in the error
// when the command fails.
func (r *Runner) Output(ctx context.Context, cmd string) (string, error) {
	var stdout, stderr bytes.Buffer
	if err := r.exec(ctx, cmd, &stdout, &stderr); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return stdout.String(), fmt.Errorf("%s: %w: %s", cmd, err, msg)
		}
		return stdout.String(), fmt.Errorf("%s: %w", cmd, err)
	}
	return stdout.String(), nil
}
