package interview

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

// PromptVariant names one of the persona prompt packs.
type PromptVariant string

const (
	PromptStandardInterviewer PromptVariant = "standard_interviewer"
	PromptPEIInterviewerLed   PromptVariant = "pei_interviewer_led"
	PromptPEICandidateLed     PromptVariant = "pei_candidate_led"
	PromptCandidate           PromptVariant = "candidate"
)

// PromptParams are the named parameters prompt templates may reference.
// Which fields a variant uses is up to the template pack.
type PromptParams struct {
	CandidateName       string
	CandidateBackground string
	ProblemStatement    string
	FirmName            string
	PEIStructure        string
}

// PromptResolver produces the seed messages for a persona's turn. The
// orchestrator depends only on this contract; the prompt wording itself is
// configuration.
type PromptResolver interface {
	Resolve(variant PromptVariant, params PromptParams) ([]Message, error)
}

//go:embed prompts/*.yaml
var builtinPromptFS embed.FS

// promptFile is the on-disk shape of one prompt pack.
type promptFile struct {
	Messages []struct {
		Role    string `yaml:"role"`
		Content string `yaml:"content"`
	} `yaml:"messages"`
}

// TemplatePack resolves prompt variants from parsed template files.
type TemplatePack struct {
	templates map[PromptVariant][]promptTemplate
}

type promptTemplate struct {
	role Role
	tmpl *template.Template
}

// LoadBuiltinPrompts loads the embedded prompt packs.
func LoadBuiltinPrompts() (*TemplatePack, error) {
	pack := &TemplatePack{templates: make(map[PromptVariant][]promptTemplate)}

	entries, err := builtinPromptFS.ReadDir("prompts")
	if err != nil {
		return nil, fmt.Errorf("read builtin prompts: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		content, err := builtinPromptFS.ReadFile(filepath.Join("prompts", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read builtin prompt %s: %w", entry.Name(), err)
		}
		if err := pack.add(entry.Name(), content); err != nil {
			return nil, err
		}
	}
	return pack, nil
}

// LoadPromptDir loads prompt packs from a directory, for overriding the
// builtin wording without rebuilding.
func LoadPromptDir(dir string) (*TemplatePack, error) {
	pack := &TemplatePack{templates: make(map[PromptVariant][]promptTemplate)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read prompt directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read prompt %s: %w", entry.Name(), err)
		}
		if err := pack.add(entry.Name(), content); err != nil {
			return nil, err
		}
	}
	return pack, nil
}

func (p *TemplatePack) add(filename string, content []byte) error {
	variant := PromptVariant(strings.TrimSuffix(filename, ".yaml"))

	var file promptFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return fmt.Errorf("parse prompt %s: %w", filename, err)
	}
	if len(file.Messages) == 0 {
		return fmt.Errorf("prompt %s has no messages", filename)
	}

	var templates []promptTemplate
	for i, msg := range file.Messages {
		tmpl, err := template.New(fmt.Sprintf("%s#%d", variant, i)).Parse(msg.Content)
		if err != nil {
			return fmt.Errorf("parse prompt template %s#%d: %w", variant, i, err)
		}
		role := Role(msg.Role)
		if role == "" {
			role = RoleSystem
		}
		templates = append(templates, promptTemplate{role: role, tmpl: tmpl})
	}

	p.templates[variant] = templates
	return nil
}

// Variants returns the loaded variant names.
func (p *TemplatePack) Variants() []PromptVariant {
	out := make([]PromptVariant, 0, len(p.templates))
	for v := range p.templates {
		out = append(out, v)
	}
	return out
}

// Resolve fills the variant's templates with params and returns the seed
// messages in pack order.
func (p *TemplatePack) Resolve(variant PromptVariant, params PromptParams) ([]Message, error) {
	templates, ok := p.templates[variant]
	if !ok {
		return nil, fmt.Errorf("unknown prompt variant: %s", variant)
	}

	messages := make([]Message, 0, len(templates))
	for _, pt := range templates {
		var buf bytes.Buffer
		if err := pt.tmpl.Execute(&buf, params); err != nil {
			return nil, fmt.Errorf("fill prompt %s: %w", variant, err)
		}
		messages = append(messages, Message{
			Role:      pt.role,
			Content:   buf.String(),
			Timestamp: time.Now(),
		})
	}
	return messages, nil
}
