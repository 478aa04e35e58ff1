// Package state persists the reflection hook's enable flag and history.
package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// maxHistory bounds the recorded history; older entries are dropped first
const maxHistory = 50

// Entry records one applied batch of learnings
type Entry struct {
	Date    string `yaml:"date"`
	Applied int    `yaml:"applied"`
}

// Reflection is the persisted state of automatic reflection
type Reflection struct {
	Enabled        bool    `yaml:"enabled"`
	Count          int     `yaml:"count"`
	LastReflection string  `yaml:"last_reflection,omitempty"`
	History        []Entry `yaml:"history,omitempty"`
}

// Record notes that applied learnings were written on date
func (r *Reflection) Record(applied int, date string) {
	r.Count++
	r.LastReflection = date
	r.History = append(r.History, Entry{Date: date, Applied: applied})
	if len(r.History) > maxHistory {
		r.History = r.History[len(r.History)-maxHistory:]
	}
}

// TotalApplied sums the learnings applied across the recorded history
func (r *Reflection) TotalApplied() int {
	total := 0
	for _, e := range r.History {
		total += e.Applied
	}
	return total
}

// Store reads and writes the state file
type Store struct {
	Path string
}

// DefaultPath is ~/.config/stopgate/reflect-state.yaml
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "stopgate", "reflect-state.yaml")
}

// Load returns the stored state. A missing file yields the defaults
// (reflection disabled, no history).
func (s Store) Load() (Reflection, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return Reflection{}, nil
	}
	if err != nil {
		return Reflection{}, fmt.Errorf("failed to read state: %w", err)
	}

	var r Reflection
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Reflection{}, fmt.Errorf("failed to parse state %s: %w", s.Path, err)
	}
	return r, nil
}

// Save writes r, creating the parent directory when needed
func (s Store) Save(r Reflection) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}

// SetEnabled loads, updates and saves the enable flag
func (s Store) SetEnabled(enabled bool) (Reflection, error) {
	r, err := s.Load()
	if err != nil {
		return Reflection{}, err
	}
	r.Enabled = enabled
	return r, s.Save(r)
}
