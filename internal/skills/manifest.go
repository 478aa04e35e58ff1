package skills

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// ParseSkillMarkdown parses a SKILL.md file and extracts metadata and body.
// A file without frontmatter is all body.
func ParseSkillMarkdown(content string) (Metadata, string, error) {
	header, body, found, err := splitFrontmatter(content)
	if err != nil || !found {
		return Metadata{}, content, err
	}

	var metadata Metadata
	if err := yaml.Unmarshal([]byte(header), &metadata); err != nil {
		return Metadata{}, content, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if err := metadata.validate(); err != nil {
		return Metadata{}, content, err
	}
	return metadata, body, nil
}

// splitFrontmatter separates the YAML between the first two delimiter lines
// from the markdown after them
func splitFrontmatter(content string) (header, body string, found bool, err error) {
	if !strings.HasPrefix(strings.TrimSpace(content), delimiter) {
		return "", content, false, nil
	}

	lines := strings.Split(content, "\n")
	var bounds []int
	for i, line := range lines {
		if strings.TrimSpace(line) != delimiter {
			continue
		}
		bounds = append(bounds, i)
		if len(bounds) == 2 {
			break
		}
	}
	// An opening delimiter with no closing one is malformed, not body text
	if len(bounds) < 2 {
		return "", content, false, errors.New("invalid frontmatter: missing delimiters")
	}

	header = strings.Join(lines[bounds[0]+1:bounds[1]], "\n")
	// The blank line conventionally following the header is not part of the body
	body = strings.TrimPrefix(strings.Join(lines[bounds[1]+1:], "\n"), "\n")
	return header, body, true, nil
}

// validate checks the optional fields that are present
func (m Metadata) validate() error {
	if m.Name != "" {
		if err := validateName(m.Name); err != nil {
			return fmt.Errorf("invalid name: %w", err)
		}
	}
	if m.Description != "" {
		if err := validateDescription(m.Description); err != nil {
			return fmt.Errorf("invalid description: %w", err)
		}
	}
	return nil
}

// renderFrontmatter is the inverse of ParseSkillMarkdown's header handling
func renderFrontmatter(m Metadata) (string, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to render frontmatter: %w", err)
	}
	return delimiter + "\n" + string(data) + delimiter + "\n", nil
}

// validateName enforces lowercase letters, digits and single inner hyphens, 1-64 chars
func validateName(name string) error {
	if len(name) < 1 || len(name) > 64 {
		return fmt.Errorf("name must be 1-64 characters")
	}
	for _, c := range name {
		if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-') {
			return fmt.Errorf("name must contain only lowercase letters, numbers, and hyphens")
		}
	}
	if strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") {
		return fmt.Errorf("name must not start or end with hyphen")
	}
	if strings.Contains(name, "--") {
		return fmt.Errorf("name must not contain consecutive hyphens")
	}
	return nil
}

func validateDescription(desc string) error {
	if len(desc) < 1 || len(desc) > 1024 {
		return fmt.Errorf("description must be 1-1024 characters")
	}
	return nil
}
