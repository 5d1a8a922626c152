package splitmask

import (
	"fmt"

	"github.com/spicery/latok/pkg/features"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// FeatureRows is the serialised form of a combo. In YAML it may be written
// as a list of lists, a flat list (a single row) or a single feature name.
type FeatureRows [][]string

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *FeatureRows) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*r = FeatureRows{{node.Value}}
		return nil
	case yaml.SequenceNode:
	default:
		return fmt.Errorf("line %d: feature rows must be a list", node.Line)
	}

	flat := len(node.Content) > 0
	for _, c := range node.Content {
		if c.Kind != yaml.ScalarNode {
			flat = false
			break
		}
	}
	if flat {
		var row []string
		if err := node.Decode(&row); err != nil {
			return err
		}
		*r = FeatureRows{row}
		return nil
	}

	var rows [][]string
	if err := node.Decode(&rows); err != nil {
		return err
	}
	*r = rows
	return nil
}

// Combo parses the rows. Empty rows give the zero combo.
func (r FeatureRows) Combo() (features.Combo, error) {
	if len(r) == 0 {
		return features.Combo{}, nil
	}
	return features.ParseCombo(r)
}

// MaskConfig is the serialised form of a Mask.
type MaskConfig struct {
	Name      string       `yaml:"name,omitempty" json:"name,omitempty"`
	Features  FeatureRows  `yaml:"features" json:"features"`
	Roll      int          `yaml:"roll,omitempty" json:"roll,omitempty"`
	Transform string       `yaml:"transform,omitempty" json:"transform,omitempty"`
	Negate    bool         `yaml:"negate,omitempty" json:"negate,omitempty"`
	Links     []LinkConfig `yaml:"links,omitempty" json:"links,omitempty"`
}

// LinkConfig is the serialised form of a Link.
type LinkConfig struct {
	Op            string      `yaml:"op" json:"op"`
	Features      FeatureRows `yaml:"features" json:"features"`
	Roll          int         `yaml:"roll,omitempty" json:"roll,omitempty"`
	Transform     string      `yaml:"transform,omitempty" json:"transform,omitempty"`
	PriorRoll     int         `yaml:"prior_roll,omitempty" json:"prior_roll,omitempty"`
	LinkRoll      int         `yaml:"link_roll,omitempty" json:"link_roll,omitempty"`
	PostRoll      int         `yaml:"post_roll,omitempty" json:"post_roll,omitempty"`
	PostTransform string      `yaml:"post_transform,omitempty" json:"post_transform,omitempty"`
}

// StageConfig is the serialised form of a Stage. Kind is "mask" (default)
// or "block".
type StageConfig struct {
	Name string      `yaml:"name" json:"name"`
	Kind string      `yaml:"kind,omitempty" json:"kind,omitempty"`
	Mask MaskConfig  `yaml:"mask" json:"mask"`
	End  *MaskConfig `yaml:"end,omitempty" json:"end,omitempty"`
}

// StepConfig is the serialised form of a Step.
type StepConfig struct {
	Output      string `yaml:"output" json:"output"`
	Input       string `yaml:"input,omitempty" json:"input,omitempty"`
	CombineWith string `yaml:"combine_with,omitempty" json:"combine_with,omitempty"`
	Op          string `yaml:"op,omitempty" json:"op,omitempty"`
}

// Config describes a complete generator.
type Config struct {
	Stages []StageConfig `yaml:"stages" json:"stages"`
	Plan   []StepConfig  `yaml:"plan" json:"plan"`
}

// Build compiles the configuration into a generator. Every error names the
// stage or plan step it comes from.
func (c Config) Build() (*Generator, error) {
	var err error
	stages := make([]Stage, 0, len(c.Stages))
	for _, sc := range c.Stages {
		s, serr := sc.build()
		if serr != nil {
			err = multierr.Append(err, serr)
			continue
		}
		stages = append(stages, s)
	}
	plan := make([]Step, 0, len(c.Plan))
	for i, pc := range c.Plan {
		op, oerr := ParseOp(pc.Op)
		if oerr != nil {
			err = multierr.Append(err, fmt.Errorf("plan step %d (%s): %w", i, pc.Output, oerr))
		}
		plan = append(plan, Step{Output: pc.Output, Input: pc.Input, CombineWith: pc.CombineWith, Op: op})
	}
	if err != nil {
		return nil, err
	}
	return NewGenerator(stages, plan)
}

func (sc StageConfig) build() (Stage, error) {
	var kind StageKind
	switch sc.Kind {
	case "", "mask":
		kind = MaskStage
	case "block":
		kind = BlockStage
	default:
		return Stage{}, fmt.Errorf("stage %q: unknown kind %q", sc.Name, sc.Kind)
	}
	mask, err := sc.Mask.build()
	if err != nil {
		return Stage{}, fmt.Errorf("stage %q: %w", sc.Name, err)
	}
	s := Stage{Name: sc.Name, Kind: kind, Mask: mask}
	if sc.End != nil {
		end, err := sc.End.build()
		if err != nil {
			return Stage{}, fmt.Errorf("stage %q end: %w", sc.Name, err)
		}
		s.End = &end
	}
	return s, nil
}

func (mc MaskConfig) build() (Mask, error) {
	var err error
	combo, cerr := mc.Features.Combo()
	err = multierr.Append(err, cerr)
	transform, terr := ParseTransform(mc.Transform)
	err = multierr.Append(err, terr)
	m := Mask{Name: mc.Name, Combo: combo, Roll: mc.Roll, Transform: transform, Negate: mc.Negate}
	for i, lc := range mc.Links {
		l, lerr := lc.build()
		if lerr != nil {
			err = multierr.Append(err, fmt.Errorf("link %d: %w", i, lerr))
			continue
		}
		m.Links = append(m.Links, l)
	}
	return m, err
}

func (lc LinkConfig) build() (Link, error) {
	var err error
	combo, cerr := lc.Features.Combo()
	err = multierr.Append(err, cerr)
	op, oerr := ParseOp(lc.Op)
	err = multierr.Append(err, oerr)
	transform, terr := ParseTransform(lc.Transform)
	err = multierr.Append(err, terr)
	post, perr := ParseTransform(lc.PostTransform)
	err = multierr.Append(err, perr)
	return Link{
		Combo:         combo,
		Roll:          lc.Roll,
		Transform:     transform,
		Op:            op,
		PriorRoll:     lc.PriorRoll,
		LinkRoll:      lc.LinkRoll,
		PostRoll:      lc.PostRoll,
		PostTransform: post,
	}, err
}

// Describe returns the configuration the generator was built from, in a
// form that Build accepts.
func (g *Generator) Describe() Config {
	var c Config
	for _, name := range g.order {
		s := g.stages[name]
		sc := StageConfig{Name: s.Name, Kind: s.Kind.String(), Mask: describeMask(s.Mask)}
		if s.End != nil {
			end := describeMask(*s.End)
			sc.End = &end
		}
		c.Stages = append(c.Stages, sc)
	}
	for _, step := range g.plan {
		c.Plan = append(c.Plan, StepConfig{
			Output:      step.Output,
			Input:       step.Input,
			CombineWith: step.CombineWith,
			Op:          string(step.Op),
		})
	}
	return c
}

func describeMask(m Mask) MaskConfig {
	mc := MaskConfig{
		Name:      m.Name,
		Features:  m.Combo.Names(),
		Roll:      m.Roll,
		Transform: string(m.Transform),
		Negate:    m.Negate,
	}
	for _, l := range m.Links {
		mc.Links = append(mc.Links, LinkConfig{
			Op:            string(l.Op),
			Features:      l.Combo.Names(),
			Roll:          l.Roll,
			Transform:     string(l.Transform),
			PriorRoll:     l.PriorRoll,
			LinkRoll:      l.LinkRoll,
			PostRoll:      l.PostRoll,
			PostTransform: string(l.PostTransform),
		})
	}
	return mc
}

// String renders the plan one step per line, in the form
// "output = input op combine_with".
func (g *Generator) String() string {
	s := ""
	for _, step := range g.plan {
		switch {
		case step.CombineWith != "":
			s += fmt.Sprintf("%s = %s %s %s\n", step.Output, step.input(), step.Op, step.CombineWith)
		default:
			s += fmt.Sprintf("%s = %s\n", step.Output, step.input())
		}
	}
	return s
}
