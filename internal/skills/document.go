package skills

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultName names the skill that collects learned preferences
	DefaultName = "learned-preferences"
	// DefaultPath is where that skill lives, relative to the project root
	DefaultPath = ".claude/skills/" + DefaultName + "/SKILL.md"

	defaultDescription = "Rules and preferences learned from past sessions. Follow them when working in this project."
)

// Document is a SKILL.md file that accumulates learnings
type Document struct {
	Path string
}

// Ensure creates the document with frontmatter and placeholder content when
// it does not exist. It reports whether a file was created.
func (d Document) Ensure() (bool, error) {
	if _, err := os.Stat(d.Path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to stat %s: %w", d.Path, err)
	}

	name := filepath.Base(filepath.Dir(d.Path))
	if validateName(name) != nil {
		name = DefaultName
	}
	header, err := renderFrontmatter(Metadata{Name: name, Description: defaultDescription})
	if err != nil {
		return false, err
	}

	content := header + "\n# Learned Preferences\n\n" +
		"Rules extracted from past conversations. Each section lists the learnings applied on that date.\n"

	if err := os.MkdirAll(filepath.Dir(d.Path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create skill directory: %w", err)
	}
	if err := writeAtomic(d.Path, []byte(content)); err != nil {
		return false, err
	}
	return true, nil
}

// Load reads the document's metadata and body
func (d Document) Load() (Metadata, string, error) {
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return Metadata{}, "", fmt.Errorf("failed to read skill file: %w", err)
	}
	return ParseSkillMarkdown(string(data))
}

// Rules returns the rule lines already recorded in the document, or none if
// it does not exist yet.
func (d Document) Rules() ([]string, error) {
	_, body, err := d.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rules []string
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "- ") {
			rules = append(rules, strings.TrimSpace(strings.TrimPrefix(line, "- ")))
		}
	}
	return rules, nil
}

// Append adds section to the end of the document. The file is replaced in a
// single rename so readers never observe a partial write.
func (d Document) Append(section string) error {
	existing, err := os.ReadFile(d.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read skill file: %w", err)
	}

	content := string(existing)
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += section

	return writeAtomic(d.Path, []byte(content))
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
