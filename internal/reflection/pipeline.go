package reflection

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/wallacegibbon/stopgate/internal/approval"
	"github.com/wallacegibbon/stopgate/internal/skills"
	"github.com/wallacegibbon/stopgate/internal/state"
	"github.com/wallacegibbon/stopgate/internal/terminal"
	"go.uber.org/zap"
)

// ApprovalQuestion is asked before the skill document is changed
const ApprovalQuestion = "Apply these learnings to skill file? (y/n): "

// Stage is a step of the reflection pipeline
type Stage string

const (
	CheckEnabled   Stage = "CHECK_ENABLED"
	ReadTranscript Stage = "READ_TRANSCRIPT"
	Analyze        Stage = "ANALYZE"
	FilterHigh     Stage = "FILTER_HIGH_CONFIDENCE"
	PromptApproval Stage = "PROMPT_APPROVAL"
	Apply          Stage = "APPLY"
	Commit         Stage = "COMMIT"
	Record         Stage = "RECORD"
)

// Analyzer extracts learnings from a transcript
type Analyzer interface {
	Analyze(ctx context.Context, transcript string) Result
}

// Committer records the skill document in version control
type Committer interface {
	Available() bool
	Commit(ctx context.Context, path, message string) error
}

// StateStore persists the reflection state
type StateStore interface {
	Load() (state.Reflection, error)
	Save(state.Reflection) error
}

// Outcome describes where the pipeline stopped and what it changed
type Outcome struct {
	// Stage is the last stage reached
	Stage     Stage
	Reason    string
	Applied   int
	Committed bool
	CommitErr error
}

// Pipeline runs CHECK_ENABLED through RECORD. Every early exit is a
// success; only APPLY and later stages have side effects.
type Pipeline struct {
	State      StateStore
	Transcript string
	Analyzer   Analyzer
	Prompter   approval.Prompter
	Skill      skills.Document
	VCS        Committer
	Out        io.Writer
	Styles     terminal.Styles
	Logger     *zap.Logger
	Now        func() time.Time
}

func (p *Pipeline) stop(stage Stage, reason string) Outcome {
	p.Logger.Debug("reflection stopped", zap.String("stage", string(stage)), zap.String("reason", reason))
	return Outcome{Stage: stage, Reason: reason}
}

// Run executes the pipeline. The returned error reports a failed APPLY;
// callers must still let the host stop.
func (p *Pipeline) Run(ctx context.Context) (Outcome, error) {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.Out == nil {
		p.Out = io.Discard
	}

	st, err := p.State.Load()
	if err != nil {
		p.Logger.Warn("failed to load reflection state", zap.Error(err))
		return p.stop(CheckEnabled, "state unreadable"), nil
	}
	if !st.Enabled {
		return p.stop(CheckEnabled, "disabled"), nil
	}

	if p.Transcript == "" {
		return p.stop(ReadTranscript, "no transcript"), nil
	}

	result := p.Analyzer.Analyze(ctx, p.Transcript)
	if result.Skipped {
		return p.stop(Analyze, result.SkipReason), nil
	}
	if len(result.Learnings) == 0 {
		return p.stop(Analyze, "no learnings"), nil
	}

	high := skills.FilterConfidence(result.Learnings, skills.High)
	if len(high) == 0 {
		return p.stop(FilterHigh, "no high-confidence learnings"), nil
	}
	known, err := p.Skill.Rules()
	if err != nil {
		p.Logger.Warn("failed to read existing rules", zap.String("path", p.Skill.Path), zap.Error(err))
	}
	high = skills.WithoutKnown(high, known)
	if len(high) == 0 {
		return p.stop(FilterHigh, "all learnings already recorded"), nil
	}

	p.present(high)
	ok, err := p.Prompter.Confirm(ctx, ApprovalQuestion)
	if err != nil {
		p.Logger.Warn("approval prompt failed", zap.Error(err))
		ok = false
	}
	if !ok {
		fmt.Fprintln(p.Out, p.Styles.Warn("Skipped."))
		return p.stop(PromptApproval, "declined"), nil
	}

	date := p.today()
	if _, err := p.Skill.Ensure(); err != nil {
		return Outcome{Stage: Apply}, fmt.Errorf("failed to create skill file: %w", err)
	}
	if err := p.Skill.Append(skills.FormatLearningsSection(date, high)); err != nil {
		return Outcome{Stage: Apply}, fmt.Errorf("failed to append learnings: %w", err)
	}
	out := Outcome{Stage: Apply, Applied: len(high)}
	p.Logger.Info("learnings applied", zap.String("path", p.Skill.Path), zap.Int("count", len(high)))

	if p.VCS != nil && p.VCS.Available() {
		out.Stage = Commit
		msg := fmt.Sprintf("docs(reflect): auto-add %d high-confidence learnings", len(high))
		if err := p.VCS.Commit(ctx, p.Skill.Path, msg); err != nil {
			out.CommitErr = err
			p.Logger.Warn("commit failed", zap.Error(err))
			fmt.Fprintln(p.Out, p.Styles.Warn(fmt.Sprintf("Applied to %s (not committed: %v)", p.Skill.Path, err)))
		} else {
			out.Committed = true
			fmt.Fprintln(p.Out, p.Styles.Success(fmt.Sprintf("Applied and committed to %s", p.Skill.Path)))
		}
	} else {
		fmt.Fprintln(p.Out, p.Styles.Success(fmt.Sprintf("Applied to %s", p.Skill.Path)))
	}

	out.Stage = Record
	st.Record(len(high), date)
	if err := p.State.Save(st); err != nil {
		p.Logger.Warn("failed to record reflection", zap.Error(err))
	}
	return out, nil
}

func (p *Pipeline) present(learnings []skills.Learning) {
	fmt.Fprintln(p.Out, p.Styles.Heading("\n=== Reflect: High-Confidence Learnings Detected ==="))
	for _, l := range learnings {
		fmt.Fprintf(p.Out, "\n  - %s\n", p.Styles.Rule(l.Rule))
		fmt.Fprintf(p.Out, "    %s\n", p.Styles.Dim(fmt.Sprintf("Evidence: \"%s\"", l.Evidence)))
	}
	fmt.Fprintln(p.Out)
}

func (p *Pipeline) today() string {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	return now().Format(dateLayout)
}
