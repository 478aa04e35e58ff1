package skills

// Metadata represents the frontmatter of a SKILL.md file
type Metadata struct {
	Name          string            `yaml:"name"`
	Description   string            `yaml:"description"`
	License       string            `yaml:"license,omitempty"`
	Compatibility string            `yaml:"compatibility,omitempty"`
	Metadata      map[string]string `yaml:"metadata,omitempty"`
	AllowedTools  string            `yaml:"allowed-tools,omitempty"`
}

// Confidence is how explicit the evidence for a learning was
type Confidence string

const (
	// High is an explicit correction ("never do X", "always use Y")
	High Confidence = "high"
	// Medium is an approach the user approved
	Medium Confidence = "medium"
	// Low is an implicit, unconfirmed preference
	Low Confidence = "low"
)

// Confidences lists the tiers from strongest to weakest
var Confidences = []Confidence{High, Medium, Low}

// Valid reports whether c is one of the known tiers
func (c Confidence) Valid() bool {
	switch c {
	case High, Medium, Low:
		return true
	}
	return false
}

// Title is the heading used for c in a skill document
func (c Confidence) Title() string {
	switch c {
	case High:
		return "High Confidence"
	case Medium:
		return "Medium Confidence"
	case Low:
		return "Low Confidence"
	}
	return string(c)
}

// Learning is a rule extracted from a conversation
type Learning struct {
	Confidence Confidence `json:"confidence" yaml:"confidence"`
	Rule       string     `json:"rule" yaml:"rule"`
	Evidence   string     `json:"evidence" yaml:"evidence"`
	Date       string     `json:"date" yaml:"date"` // YYYY-MM-DD
}
