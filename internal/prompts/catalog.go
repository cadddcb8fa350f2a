// Package prompts holds the embedded prompt templates and response schemas
// sent to the completion API.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
	"interviewprep/internal/domain/services"
)

//go:embed templates/*.yaml
var templateFiles embed.FS

// QuestionGeneration is the prompt used to turn source text into interview questions.
const QuestionGeneration = "question_generation"

// Prompt is a system prompt paired with the schema its answer must follow.
type Prompt struct {
	Name   string
	Model  string
	System string
	Schema services.ResponseSchema
}

type promptFile struct {
	Name           string `yaml:"name"`
	Model          string `yaml:"model"`
	SystemPrompt   string `yaml:"system_prompt"`
	ResponseSchema struct {
		Name       string         `yaml:"name"`
		Strict     bool           `yaml:"strict"`
		Definition map[string]any `yaml:"definition"`
	} `yaml:"response_schema"`
}

// Catalog is the set of loaded prompts. It is read-only after Load.
type Catalog struct {
	prompts map[string]*Prompt
}

// Load parses every embedded template.
func Load() (*Catalog, error) {
	entries, err := fs.ReadDir(templateFiles, "templates")
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}

	c := &Catalog{prompts: make(map[string]*Prompt, len(entries))}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		p, err := loadFile(path.Join("templates", entry.Name()))
		if err != nil {
			return nil, err
		}
		if _, dup := c.prompts[p.Name]; dup {
			return nil, fmt.Errorf("duplicate prompt %q", p.Name)
		}
		c.prompts[p.Name] = p
	}
	return c, nil
}

func loadFile(filename string) (*Prompt, error) {
	data, err := templateFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	var file promptFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", filename, err)
	}
	if file.Name == "" || strings.TrimSpace(file.SystemPrompt) == "" {
		return nil, fmt.Errorf("%s: name and system_prompt are required", filename)
	}

	var definition json.RawMessage
	if file.ResponseSchema.Definition != nil {
		definition, err = json.Marshal(file.ResponseSchema.Definition)
		if err != nil {
			return nil, fmt.Errorf("%s: encode schema: %w", filename, err)
		}
	}

	return &Prompt{
		Name:   file.Name,
		Model:  file.Model,
		System: file.SystemPrompt,
		Schema: services.ResponseSchema{
			Name:       file.ResponseSchema.Name,
			Strict:     file.ResponseSchema.Strict,
			Definition: definition,
		},
	}, nil
}

// Get returns the named prompt.
func (c *Catalog) Get(name string) (*Prompt, error) {
	p, ok := c.prompts[name]
	if !ok {
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
	return p, nil
}
