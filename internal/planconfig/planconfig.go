package planconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file searched for by Find
const FileName = ".planconfig"

// vcsMarker stops the upward search; a project never inherits a parent's config
const vcsMarker = ".git"

// ErrInvalid marks content that parsed but failed validation
var ErrInvalid = errors.New("invalid .planconfig")

// CommandName identifies a verification gate
type CommandName string

const (
	Build          CommandName = "build"
	Test           CommandName = "test"
	Lint           CommandName = "lint"
	Format         CommandName = "format"
	StaticAnalysis CommandName = "static_analysis"
)

// Order is the fixed execution order of the gates
var Order = []CommandName{Build, Test, Lint, Format, StaticAnalysis}

// Key returns the config key holding the command for n
func (n CommandName) Key() string {
	return string(n) + "_command"
}

// VerificationCommand is a named gate with a non-empty shell command
type VerificationCommand struct {
	Name    CommandName
	Command string
}

// Config holds the optional gate commands of a project
type Config struct {
	BuildCommand          string `yaml:"build_command"`
	TestCommand           string `yaml:"test_command"`
	LintCommand           string `yaml:"lint_command"`
	FormatCommand         string `yaml:"format_command"`
	StaticAnalysisCommand string `yaml:"static_analysis_command"`
}

// Command returns the command configured for n, or "" when unset
func (c *Config) Command(n CommandName) string {
	if c == nil {
		return ""
	}
	switch n {
	case Build:
		return c.BuildCommand
	case Test:
		return c.TestCommand
	case Lint:
		return c.LintCommand
	case Format:
		return c.FormatCommand
	case StaticAnalysis:
		return c.StaticAnalysisCommand
	}
	return ""
}

// Commands returns the configured gates in execution order, omitting unset ones
func (c *Config) Commands() []VerificationCommand {
	var cmds []VerificationCommand
	for _, name := range Order {
		if cmd := c.Command(name); cmd != "" {
			cmds = append(cmds, VerificationCommand{Name: name, Command: cmd})
		}
	}
	return cmds
}

// LoadResult is one of: not found (all zero), found (Config set), or
// found but invalid (Path and Err set).
type LoadResult struct {
	Config *Config
	Path   string
	Err    error
}

// Found reports whether a config file was located
func (r LoadResult) Found() bool {
	return r.Path != ""
}

// Find searches startDir and its parents for FileName. The search ends
// without a result at the first directory holding a .git entry, or at the
// filesystem root.
func Find(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", startDir, err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		if _, err := os.Stat(filepath.Join(dir, vcsMarker)); err == nil {
			return "", nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Load finds and parses the project config starting at startDir
func Load(startDir string) LoadResult {
	path, err := Find(startDir)
	if err != nil {
		return LoadResult{Err: err}
	}
	if path == "" {
		return LoadResult{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return LoadResult{Path: path, Err: fmt.Errorf("failed to read %s: %w", FileName, err)}
	}

	cfg, err := Parse(data)
	if err != nil {
		return LoadResult{Path: path, Err: err}
	}
	return LoadResult{Config: cfg, Path: path}
}

// Parse decodes and validates config content. Unknown keys are ignored;
// recognised keys must hold strings. A null value counts as unset.
func Parse(data []byte) (*Config, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	if raw == nil {
		return &Config{}, nil
	}

	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a mapping of keys to commands", ErrInvalid)
	}

	values := make(map[CommandName]string, len(Order))
	for _, name := range Order {
		v, present := doc[name.Key()]
		if !present || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a string", ErrInvalid, name.Key())
		}
		values[name] = s
	}

	return &Config{
		BuildCommand:          values[Build],
		TestCommand:           values[Test],
		LintCommand:           values[Lint],
		FormatCommand:         values[Format],
		StaticAnalysisCommand: values[StaticAnalysis],
	}, nil
}
