// Package approval asks the user to confirm applying learnings.
package approval

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wallacegibbon/stopgate/internal/terminal"
)

// Prompter asks a yes/no question and reports whether the answer was yes
type Prompter interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// IsAffirmative accepts "y" and "yes" in any case, ignoring surrounding space
func IsAffirmative(answer string) bool {
	a := strings.ToLower(strings.TrimSpace(answer))
	return a == "y" || a == "yes"
}

// LinePrompter writes the question and reads a single line
type LinePrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p *LinePrompter) Confirm(ctx context.Context, question string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprint(p.Out, question)

	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	return IsAffirmative(line), nil
}

// New picks an interactive prompt when in is a terminal and a plain line
// read otherwise.
func New(in *os.File, out io.Writer) Prompter {
	if terminal.IsTerminal(in) {
		return &TeaPrompter{In: in, Out: out}
	}
	return &LinePrompter{In: in, Out: out}
}
