package splitmask

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spicery/latok/pkg/features"
	"go.uber.org/multierr"
)

var (
	// ErrUnknownStage is returned when a plan step names neither a stage
	// nor the output of an earlier step.
	ErrUnknownStage = errors.New("unknown stage")
	// ErrEmptyPlan is returned for a generator without plan steps.
	ErrEmptyPlan = errors.New("empty plan")
)

// Step is one plan entry. Input defaults to Output. When CombineWith is set
// the two vectors are combined with Op and stored under Output.
type Step struct {
	Output      string
	Input       string
	CombineWith string
	Op          Op
}

func (s Step) input() string {
	if s.Input == "" {
		return s.Output
	}
	return s.Input
}

// Generator runs a plan of stages over a feature matrix. It is immutable
// after construction and safe for concurrent use.
type Generator struct {
	stages map[string]Stage
	order  []string
	plan   []Step
}

// NewGenerator validates the stages and plan and returns a generator. All
// problems found are reported together.
func NewGenerator(stages []Stage, plan []Step) (*Generator, error) {
	g := &Generator{
		stages: make(map[string]Stage, len(stages)),
		plan:   append([]Step(nil), plan...),
	}
	var err error
	for _, s := range stages {
		if _, dup := g.stages[s.Name]; dup {
			err = multierr.Append(err, fmt.Errorf("stage %q defined twice", s.Name))
			continue
		}
		err = multierr.Append(err, s.Validate())
		g.stages[s.Name] = s
		g.order = append(g.order, s.Name)
	}
	err = multierr.Append(err, g.validatePlan())
	if err != nil {
		return nil, err
	}
	return g, nil
}

// MustGenerator is like NewGenerator but panics on error.
func MustGenerator(stages []Stage, plan []Step) *Generator {
	g, err := NewGenerator(stages, plan)
	if err != nil {
		panic("splitmask: " + err.Error())
	}
	return g
}

func (g *Generator) validatePlan() error {
	if len(g.plan) == 0 {
		return ErrEmptyPlan
	}
	known := make(map[string]bool, len(g.stages)+len(g.plan))
	for name := range g.stages {
		known[name] = true
	}
	var err error
	for i, step := range g.plan {
		if step.Output == "" {
			err = multierr.Append(err, fmt.Errorf("plan step %d: no output name", i))
		}
		if !known[step.input()] {
			err = multierr.Append(err, fmt.Errorf("plan step %d (%s): %w %q", i, step.Output, ErrUnknownStage, step.input()))
		}
		switch {
		case step.CombineWith != "" && !known[step.CombineWith]:
			err = multierr.Append(err, fmt.Errorf("plan step %d (%s): %w %q", i, step.Output, ErrUnknownStage, step.CombineWith))
		case step.CombineWith != "" && !step.Op.binary():
			err = multierr.Append(err, fmt.Errorf("plan step %d (%s): %w %q", i, step.Output, ErrInvalidOp, step.Op))
		case step.CombineWith == "" && step.Op != OpNone:
			err = multierr.Append(err, fmt.Errorf("plan step %d (%s): op %q without combine_with", i, step.Output, step.Op))
		}
		known[step.Output] = true
	}
	return err
}

// Stages returns the stage names in definition order.
func (g *Generator) Stages() []string {
	return append([]string(nil), g.order...)
}

// Plan returns a copy of the plan.
func (g *Generator) Plan() []Step {
	return append([]Step(nil), g.plan...)
}

// run executes the plan, calling visit for every vector produced.
func (g *Generator) run(m *features.Matrix, visit func(name string, v features.Vector)) features.Vector {
	results := make(map[string]features.Vector, len(g.plan))
	get := func(name string) features.Vector {
		if v, ok := results[name]; ok {
			return v
		}
		v := g.stages[name].Operate(m)
		results[name] = v
		return v
	}

	var vec features.Vector
	for i, step := range g.plan {
		in := step.input()
		vec = get(in)
		if visit != nil {
			visit(fmt.Sprintf("%s.%d", in, i), vec)
		}
		switch {
		case step.CombineWith != "":
			other := get(step.CombineWith)
			if visit != nil {
				visit(fmt.Sprintf("%s.%d", step.CombineWith, i), other)
			}
			vec = Combine(vec, other, step.Op)
			results[step.Output] = vec
			if visit != nil {
				visit(fmt.Sprintf("%s=%s.%s.%s", step.Output, in, step.Op, step.CombineWith), vec)
			}
		case step.Output != in:
			results[step.Output] = vec
		}
	}
	if vec.Len() > 0 {
		vec = vec.Clone()
		vec.Set(0)
	}
	return vec
}

// Process returns the split mask of m. Position 0 is always a split.
func (g *Generator) Process(m *features.Matrix) features.Vector {
	return g.run(m, nil)
}

// TraceEntry is one intermediate vector of a traced run.
type TraceEntry struct {
	Name   string          `json:"name" yaml:"name"`
	Vector features.Vector `json:"vector" yaml:"vector"`
}

// Trace runs the plan and returns every intermediate vector, most recent
// first. The first entry is the final split mask, named "result".
func (g *Generator) Trace(m *features.Matrix) []TraceEntry {
	var entries []TraceEntry
	result := g.run(m, func(name string, v features.Vector) {
		entries = append(entries, TraceEntry{Name: name, Vector: v})
	})
	entries = append(entries, TraceEntry{Name: "result", Vector: result})
	slices.Reverse(entries)
	return entries
}
