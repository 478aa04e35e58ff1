// Package verify reviews the working tree's changes against the current task
// using a language model.
package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wallacegibbon/stopgate/internal/modeljson"
	"github.com/wallacegibbon/stopgate/internal/provider"
	"github.com/wallacegibbon/stopgate/internal/tasks"
	"github.com/wallacegibbon/stopgate/internal/vcs"
	"go.uber.org/zap"
)

const (
	TestQualityTag  = "[Test Quality] "
	RequirementsTag = "[Requirements] "
)

// Verdict is the outcome of a review
type Verdict struct {
	Passed bool
	// Issues are prefixed with TestQualityTag or RequirementsTag, test quality first
	Issues               []string
	TestQualityFeedback  string
	RequirementsFeedback string
	Summary              string
}

// Completer is the subset of the completion client the agent needs
type Completer interface {
	Available() bool
	Complete(ctx context.Context, prompt string) provider.Completion
}

// DiffSource yields the combined staged and unstaged diff
type DiffSource interface {
	Diff(ctx context.Context) string
}

// Agent reviews changes with a model
type Agent struct {
	Completer Completer
	Tasks     tasks.Tracker
	Changes   DiffSource
	// CredentialName is shown when the review is skipped for lack of a key
	CredentialName string
	Logger         *zap.Logger
}

type response struct {
	Passed             *bool    `json:"passed"`
	TestQualityIssues  []string `json:"testQualityIssues"`
	RequirementsIssues []string `json:"requirementsIssues"`
	Summary            string   `json:"summary"`
}

func (r *response) Validate() error {
	if r.Passed == nil {
		return errors.New("passed is required")
	}
	return nil
}

// Run reviews the current task's changes. Missing credentials, no task, no
// diff and transport failures all pass; a response that cannot be parsed
// fails with the raw text as its only issue.
func (a *Agent) Run(ctx context.Context) Verdict {
	logger := a.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if a.Completer == nil || !a.Completer.Available() {
		name := a.CredentialName
		if name == "" {
			name = "ANTHROPIC_API_KEY"
		}
		logger.Info("verification skipped", zap.String("reason", "no credential"))
		return Verdict{Passed: true, RequirementsFeedback: fmt.Sprintf("Verification agent skipped: %s not set", name)}
	}

	var task *tasks.Task
	if a.Tasks != nil {
		task = a.Tasks.Current(ctx)
	}
	if task == nil {
		logger.Info("verification skipped", zap.String("reason", "no in-progress task"))
		return Verdict{Passed: true, RequirementsFeedback: "No in_progress task found, skipping verification"}
	}

	diff := ""
	if a.Changes != nil {
		diff = a.Changes.Diff(ctx)
	}
	if strings.TrimSpace(diff) == "" {
		logger.Info("verification skipped", zap.String("reason", "no changes"))
		return Verdict{Passed: true, RequirementsFeedback: "No changes to verify"}
	}

	prompt := BuildPrompt(task, diff)
	logger.Debug("verification request", zap.String("task", task.ID), zap.Int("diff_chars", len(diff)))

	completion := a.Completer.Complete(ctx, prompt)
	if completion.Unavailable {
		msg := "unavailable"
		if completion.Err != nil {
			msg = completion.Err.Error()
		}
		logger.Warn("verification agent error", zap.String("error", msg))
		return Verdict{Passed: true, RequirementsFeedback: "Verification agent error: " + msg}
	}

	return ParseVerdict(completion.Text)
}

// BuildPrompt embeds the task requirements and the diff in the review
// instructions, listing changed test files so the review can focus on them.
func BuildPrompt(task *tasks.Task, diff string) string {
	var b strings.Builder
	b.WriteString(verificationPrompt)
	b.WriteString("\n\n---\n\n## Task Requirements\n")
	if task.Title != "" {
		b.WriteString(task.Title)
		b.WriteString("\n\n")
	}
	b.WriteString(task.Description)

	if files := vcs.ExtractTestFiles(diff); len(files) > 0 {
		b.WriteString("\n\n## Test Files Changed\n")
		for _, f := range files {
			b.WriteString("- ")
			b.WriteString(f)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n## Code Changes\n")
	b.WriteString(diff)
	return b.String()
}

// ParseVerdict turns a model response into a Verdict, failing closed when
// the response is not the expected JSON.
func ParseVerdict(text string) Verdict {
	res := modeljson.Parse[response](text)
	if !res.Ok() {
		return Verdict{Issues: []string{"Verification agent response: " + strings.TrimSpace(res.Raw)}}
	}

	r := res.Value
	v := Verdict{Passed: *r.Passed, Summary: r.Summary}
	for _, issue := range r.TestQualityIssues {
		v.Issues = append(v.Issues, TestQualityTag+issue)
	}
	for _, issue := range r.RequirementsIssues {
		v.Issues = append(v.Issues, RequirementsTag+issue)
	}
	v.TestQualityFeedback = strings.Join(r.TestQualityIssues, "\n")
	v.RequirementsFeedback = strings.Join(r.RequirementsIssues, "\n")
	return v
}
