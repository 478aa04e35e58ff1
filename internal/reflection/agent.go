// Package reflection mines conversation transcripts for durable rules and
// applies the approved ones to a skill document.
package reflection

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/wallacegibbon/stopgate/internal/modeljson"
	"github.com/wallacegibbon/stopgate/internal/provider"
	"github.com/wallacegibbon/stopgate/internal/skills"
	"go.uber.org/zap"
)

const (
	// MaxTranscriptChars is the transcript budget sent to the model
	MaxTranscriptChars = 50000

	truncationMarker = "[Earlier conversation truncated]\n\n"
	dateLayout       = "2006-01-02"
)

// Completer is the subset of the completion client the agent needs
type Completer interface {
	Available() bool
	Complete(ctx context.Context, prompt string) provider.Completion
}

// Result is the outcome of an analysis. Skipped is set when no analysis
// was attempted or the model could not be reached.
type Result struct {
	Learnings  []skills.Learning
	Skipped    bool
	SkipReason string
}

// Agent extracts learnings from transcripts
type Agent struct {
	Completer      Completer
	CredentialName string
	Now            func() time.Time
	Logger         *zap.Logger
}

// TruncateTranscript keeps the trailing max characters of transcript behind
// a marker. Transcripts within budget are returned unchanged.
func TruncateTranscript(transcript string, max int) string {
	skip := utf8.RuneCountInString(transcript) - max
	if skip <= 0 {
		return transcript
	}
	for i := range transcript {
		if skip == 0 {
			return truncationMarker + transcript[i:]
		}
		skip--
	}
	return truncationMarker
}

type analysis struct {
	Learnings []json.RawMessage `json:"learnings"`
}

func (a *analysis) Validate() error {
	if a.Learnings == nil {
		return errors.New("learnings is required")
	}
	return nil
}

type candidate struct {
	Confidence string `json:"confidence"`
	Rule       string `json:"rule"`
	Evidence   string `json:"evidence"`
}

// Analyze asks the model for learnings. Every failure degrades to an empty
// result; nothing here may stop the host from ending the session.
func (a *Agent) Analyze(ctx context.Context, transcript string) Result {
	logger := a.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if a.Completer == nil || !a.Completer.Available() {
		name := a.CredentialName
		if name == "" {
			name = "ANTHROPIC_API_KEY"
		}
		return Result{Skipped: true, SkipReason: name + " not set"}
	}
	if strings.TrimSpace(transcript) == "" {
		return Result{Skipped: true, SkipReason: "Empty conversation transcript"}
	}

	processed := TruncateTranscript(transcript, MaxTranscriptChars)
	if len(processed) != len(transcript) {
		logger.Info("transcript truncated", zap.Int("original", len(transcript)), zap.Int("kept", len(processed)))
	}

	prompt := analysisPrompt + "\n\n---\n\n## Conversation Transcript\n\n" + processed
	completion := a.Completer.Complete(ctx, prompt)
	if completion.Unavailable {
		reason := "API error"
		if completion.Err != nil {
			reason += ": " + completion.Err.Error()
		}
		logger.Warn("reflection analysis failed", zap.String("reason", reason))
		return Result{Skipped: true, SkipReason: reason}
	}

	return Result{Learnings: ParseLearnings(completion.Text, a.today())}
}

// ParseLearnings decodes the model's answer, dropping entries with an
// unknown confidence tier or an empty rule or evidence. Unparseable answers
// yield no learnings.
func ParseLearnings(text, date string) []skills.Learning {
	res := modeljson.Parse[analysis](text)
	if !res.Ok() {
		return nil
	}

	var learnings []skills.Learning
	for _, raw := range res.Value.Learnings {
		var c candidate
		if err := json.Unmarshal(raw, &c); err != nil {
			continue
		}
		conf := skills.Confidence(c.Confidence)
		rule := strings.TrimSpace(c.Rule)
		evidence := strings.TrimSpace(c.Evidence)
		if !conf.Valid() || rule == "" || evidence == "" {
			continue
		}
		learnings = append(learnings, skills.Learning{
			Confidence: conf,
			Rule:       rule,
			Evidence:   evidence,
			Date:       date,
		})
	}
	return learnings
}

func (a *Agent) today() string {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	return now().Format(dateLayout)
}
