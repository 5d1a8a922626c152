package splitmask

import (
	"errors"
	"strings"
	"testing"

	"github.com/spicery/latok/pkg/features"
	"gopkg.in/yaml.v3"
)

const twoStageYAML = `
stages:
  - name: split
    mask:
      features: [[space], [symbol], [prev_symbol]]
  - name: nums
    kind: block
    mask:
      features: num
plan:
  - output: split
  - output: out
    input: split
    combine_with: nums
    op: and
`

func TestConfigBuild(t *testing.T) {
	var c Config
	if err := yaml.Unmarshal([]byte(twoStageYAML), &c); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	g, err := c.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := g.Stages(); len(got) != 2 || got[1] != "nums" {
		t.Errorf("Stages() = %v", got)
	}
	m := features.BuildString("a-1 b-c")
	if got := g.Process(m).String(); got != "1001011" {
		t.Errorf("Process = %s; want 1001011", got)
	}
}

func TestFeatureRowsForms(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"features: alpha", "alpha"},
		{"features: [upper, next_lower]", "upper+next_lower"},
		{"features: [[upper, next_lower], [symbol]]", "upper+next_lower|symbol"},
	}
	for _, tt := range tests {
		var mc MaskConfig
		if err := yaml.Unmarshal([]byte(tt.in), &mc); err != nil {
			t.Fatalf("Unmarshal(%q): %v", tt.in, err)
		}
		c, err := mc.Features.Combo()
		if err != nil {
			t.Fatalf("Combo(%q): %v", tt.in, err)
		}
		if c.String() != tt.want {
			t.Errorf("%q -> %q; want %q", tt.in, c.String(), tt.want)
		}
	}
}

func TestConfigBuildErrorsNameStages(t *testing.T) {
	c := Config{
		Stages: []StageConfig{
			{Name: "first", Mask: MaskConfig{Features: FeatureRows{{"alpha", "bogus"}}}},
			{Name: "second", Kind: "weird", Mask: MaskConfig{Features: FeatureRows{{"alpha"}}}},
		},
		Plan: []StepConfig{{Output: "first", Op: "sideways"}},
	}
	_, err := c.Build()
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, features.ErrUnknownFeature) || !errors.Is(err, ErrInvalidOp) {
		t.Errorf("error = %v", err)
	}
	for _, name := range []string{`"first"`, `"second"`, "bogus", "sideways"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not mention %s", err, name)
		}
	}
}

func TestDescribeRoundTrip(t *testing.T) {
	for name, g := range map[string]*Generator{
		"simple":  Simple(),
		"general": General(),
		"tweet":   Tweet(),
		"mention": Mention(),
	} {
		t.Run(name, func(t *testing.T) {
			data, err := yaml.Marshal(g.Describe())
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			var c Config
			if err := yaml.Unmarshal(data, &c); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			rebuilt, err := c.Build()
			if err != nil {
				t.Fatalf("Build: %v\n%s", err, data)
			}
			text := `@user's "don't" http://x.io/a CamelCase 12.5 #tag!`
			m := features.BuildString(text)
			if !rebuilt.Process(m).Equal(g.Process(m)) {
				t.Errorf("rebuilt generator disagrees:\n%s", data)
			}
		})
	}
}

func TestGeneratorString(t *testing.T) {
	got := General().String()
	want := "blocks = a_blocks and blocks1\nstage1 = split1 and blocks\ntrim1 = stage1 or split2\n"
	if got != want {
		t.Errorf("String() = %q; want %q", got, want)
	}
}
