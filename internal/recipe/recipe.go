// Package recipe reads and writes brew plans as YAML.
package recipe

import (
	"bytes"
	"fmt"
	"os"

	"brew_control/internal/models"
	"brew_control/internal/sequencer"

	"gopkg.in/yaml.v3"
)

type Task struct {
	Name string `yaml:"name"`
	Time int    `yaml:"time"`
}

type Step struct {
	Name     string  `yaml:"name"`
	Duration int     `yaml:"duration"`
	Setpoint float64 `yaml:"setpoint"`
	Tasks    []Task  `yaml:"tasks,omitempty"`
}

// Recipe is an ordered brew plan. Order in the file does not matter; the
// sequencer sorts steps by duration.
type Recipe struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Load reads a recipe file.
func Load(path string) (*Recipe, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipe: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a recipe and rejects unknown fields.
func Parse(raw []byte) (*Recipe, error) {
	var r Recipe
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: decode recipe: %v", models.ErrValidation, err)
	}
	return &r, nil
}

// Marshal encodes r as YAML.
func Marshal(r *Recipe) ([]byte, error) {
	return yaml.Marshal(r)
}

// Build loads the recipe into a fresh sequencer, rewound to the first step.
// Any invalid step or task rejects the whole recipe.
func (r *Recipe) Build() (*sequencer.Sequencer, error) {
	seq := sequencer.New()
	for _, st := range r.Steps {
		if err := seq.AddStep(st.Name, st.Duration, st.Setpoint); err != nil {
			return nil, fmt.Errorf("recipe %q: %w", r.Name, err)
		}
		for _, t := range st.Tasks {
			if err := seq.AddTask(st.Name, t.Name, t.Time); err != nil {
				return nil, fmt.Errorf("recipe %q: %w", r.Name, err)
			}
		}
	}
	seq.Reset()
	return seq, nil
}

// FromBrew captures the current plan of a brew.
func FromBrew(name string, b models.Brew) *Recipe {
	r := &Recipe{Name: name}
	for _, st := range b.Steps {
		s := Step{Name: st.Name, Duration: st.Duration, Setpoint: st.Setpoint}
		for _, t := range st.Tasks {
			s.Tasks = append(s.Tasks, Task{Name: t.Name, Time: t.Time})
		}
		r.Steps = append(r.Steps, s)
	}
	return r
}
