package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// QuestionCount is the fixed size of the full-time question set.
const QuestionCount = 13

// FulltimeRole is the role tag stored on every full-time application.
const FulltimeRole = "fulltime"

type Kind string

const (
	KindFellowship Kind = "fellowship"
	KindFulltime   Kind = "fulltime"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindFellowship, KindFulltime:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown job kind %q", s)
}

// Field describes one role-specific input on the fellowship form.
type Field struct {
	Label    string `yaml:"label" json:"label"`
	Name     string `yaml:"name" json:"name"`
	Type     string `yaml:"type" json:"type"`
	Required bool   `yaml:"required" json:"required"`
}

type JobListing struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Form        string   `yaml:"form" json:"form"`
	Questions   []string `yaml:"questions" json:"questions,omitempty"`
}

type Catalog struct {
	Fellowship               []JobListing       `yaml:"fellowship" json:"fellowship"`
	Fulltime                 []JobListing       `yaml:"fulltime" json:"fulltime"`
	EducationOptions         []string           `yaml:"education_options" json:"education_options"`
	FulltimeEducationOptions []string           `yaml:"fulltime_education_options" json:"fulltime_education_options"`
	RoleFields               map[string][]Field `yaml:"role_fields" json:"-"`
	RoleNames                map[string]string  `yaml:"role_names" json:"-"`
}

//go:embed catalog.yaml
var defaultCatalog []byte

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog document from path, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Fellowship) == 0 && len(c.Fulltime) == 0 {
		return errors.New("catalog has no job listings")
	}
	seen := map[string]bool{}
	for _, job := range c.Fellowship {
		if job.Title == "" || job.Form == "" {
			return fmt.Errorf("fellowship listing %q is missing a title or role tag", job.Title)
		}
		if seen[job.Form] {
			return fmt.Errorf("duplicate fellowship role tag %q", job.Form)
		}
		seen[job.Form] = true
	}
	for _, job := range c.Fulltime {
		if len(job.Questions) != QuestionCount {
			return fmt.Errorf("full-time listing %q has %d questions, want %d", job.Title, len(job.Questions), QuestionCount)
		}
	}
	return nil
}

// Listing returns the listing at index within kind.
func (c *Catalog) Listing(kind Kind, index int) (JobListing, bool) {
	var list []JobListing
	switch kind {
	case KindFellowship:
		list = c.Fellowship
	case KindFulltime:
		list = c.Fulltime
	}
	if index < 0 || index >= len(list) {
		return JobListing{}, false
	}
	return list[index], true
}

// Fields returns the role-specific fields rendered for a fellowship track.
func (c *Catalog) Fields(role string) []Field {
	return c.RoleFields[role]
}

// DisplayName maps a role tag to the human title used in emails. Unknown tags pass through.
func (c *Catalog) DisplayName(role string) string {
	if name, ok := c.RoleNames[role]; ok {
		return name
	}
	return role
}
