package tasks

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/wallacegibbon/stopgate/internal/shell"
)

// Task is an issue tracked by beads
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Tracker yields the task currently being worked on
type Tracker interface {
	Current(ctx context.Context) *Task
}

// Beads reads tasks from the bd CLI
type Beads struct {
	Runner *shell.Runner
}

const listInProgress = "bd list --status=in_progress --json"

// Current returns the first in-progress task, or nil when there is none or
// bd is unavailable.
func (b *Beads) Current(ctx context.Context) *Task {
	out, err := b.Runner.Output(ctx, listInProgress)
	if err != nil {
		return nil
	}
	return parseList(out)
}

func parseList(output string) *Task {
	var list []Task
	if err := json.Unmarshal([]byte(strings.TrimSpace(output)), &list); err != nil {
		return nil
	}
	if len(list) == 0 {
		return nil
	}
	return &list[0]
}

// Static always reports the same task; nil means no task
type Static struct {
	Task *Task
}

func (s Static) Current(context.Context) *Task {
	return s.Task
}
