package splitmask

import (
	"errors"
	"strings"
	"testing"

	"github.com/spicery/latok/pkg/features"
)

func TestCombine(t *testing.T) {
	a := features.ParseVector("1100")
	b := features.ParseVector("1010")
	tests := []struct {
		op   Op
		want string
	}{
		{OpAnd, "1000"},
		{OpOr, "1110"},
		{OpXor, "0110"},
		{OpAndNot, "0100"},
		{OpOrNot, "1101"},
		{OpXorNot, "1001"},
	}
	for _, tt := range tests {
		if got := Combine(a, b, tt.op).String(); got != tt.want {
			t.Errorf("Combine(%s) = %s; want %s", tt.op, got, tt.want)
		}
	}
}

func TestParseOp(t *testing.T) {
	if op, err := ParseOp("AND_NOT"); err != nil || op != OpAndNot {
		t.Errorf("ParseOp(AND_NOT) = %q, %v", op, err)
	}
	if _, err := ParseOp("nand"); !errors.Is(err, ErrInvalidOp) {
		t.Errorf("ParseOp(nand) error = %v; want ErrInvalidOp", err)
	}
}

func TestTransforms(t *testing.T) {
	v := features.ParseVector("0111011")
	tests := []struct {
		tr   Transform
		want string
	}{
		{TransformNone, "0111011"},
		{TransformNot, "1000100"},
		{TransformRunStart, "0100010"},
		{TransformRunEnd, "0001001"},
	}
	for _, tt := range tests {
		if got := tt.tr.Apply(v).String(); got != tt.want {
			t.Errorf("%q.Apply = %s; want %s", tt.tr, got, tt.want)
		}
	}
}

func TestMaskRollAndNegate(t *testing.T) {
	m := features.BuildString("ab!cd")
	sym := NewMask("sym", []features.Feature{features.Symbol})

	if got := sym.Eval(m).String(); got != "00100" {
		t.Errorf("Eval = %s; want 00100", got)
	}
	sym.Roll = 1
	if got := sym.Eval(m).String(); got != "00010" {
		t.Errorf("rolled Eval = %s; want 00010", got)
	}
	sym.Negate = true
	if got := sym.Eval(m).String(); got != "11101" {
		t.Errorf("negated Eval = %s; want 11101", got)
	}
}

func TestMaskChain(t *testing.T) {
	m := features.BuildString("aB cD")
	// Upper positions, OR-ed with the space rolled back onto the character
	// before it.
	chain := Mask{
		Name:  "chain",
		Combo: features.MustCombo([]features.Feature{features.Upper}),
		Links: []Link{
			{Combo: features.MustCombo([]features.Feature{features.Space}), Op: OpOr, LinkRoll: -1},
			{Combo: features.MustCombo([]features.Feature{features.Alpha}), Op: OpAndNot, PostTransform: TransformNot},
		},
	}
	// upper 01001, space rolled back 01000 -> or 01001; and-not alpha 11011
	// -> 00000; not -> 11111
	if got := chain.Eval(m).String(); got != "11111" {
		t.Errorf("Eval = %s; want 11111", got)
	}
	if err := chain.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestMaskValidate(t *testing.T) {
	bad := Mask{
		Name:  "bad",
		Links: []Link{{Combo: features.MustCombo([]features.Feature{features.Alpha}), Op: OpNot}},
	}
	err := bad.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), `"bad"`) || !errors.Is(err, ErrInvalidOp) {
		t.Errorf("error = %v", err)
	}
}

func TestNewGeneratorErrors(t *testing.T) {
	split := NewMaskStage("split", NewMask("split", []features.Feature{features.Space}))
	tests := []struct {
		name   string
		stages []Stage
		plan   []Step
		is     error
		names  string
	}{
		{"empty plan", []Stage{split}, nil, ErrEmptyPlan, ""},
		{"undefined input", []Stage{split}, []Step{{Output: "out", Input: "missing"}}, ErrUnknownStage, "missing"},
		{"undefined combine", []Stage{split}, []Step{{Output: "out", Input: "split", CombineWith: "other", Op: OpAnd}}, ErrUnknownStage, "other"},
		{"combine without op", []Stage{split}, []Step{{Output: "out", Input: "split", CombineWith: "split"}}, ErrInvalidOp, "out"},
		{"later output is not visible earlier", []Stage{split}, []Step{{Output: "a", Input: "b"}, {Output: "b", Input: "split"}}, ErrUnknownStage, `"b"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerator(tt.stages, tt.plan)
			if !errors.Is(err, tt.is) {
				t.Fatalf("error = %v; want %v", err, tt.is)
			}
			if !strings.Contains(err.Error(), tt.names) {
				t.Errorf("error %q does not mention %q", err, tt.names)
			}
		})
	}
}

func TestNewGeneratorReportsEveryProblem(t *testing.T) {
	stages := []Stage{
		NewMaskStage("one", Mask{Name: "one"}),
		NewMaskStage("two", Mask{Name: "two"}),
	}
	_, err := NewGenerator(stages, []Step{{Output: "one"}})
	if err == nil {
		t.Fatal("expected error")
	}
	for _, name := range []string{`"one"`, `"two"`} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not mention %s", err, name)
		}
	}
}

func TestProcessForcesFirstPosition(t *testing.T) {
	g := MustGenerator(
		[]Stage{NewMaskStage("sym", NewMask("sym", []features.Feature{features.Symbol}))},
		[]Step{{Output: "sym"}},
	)
	if got := g.Process(features.BuildString("ab!c")).String(); got != "1010" {
		t.Errorf("Process = %s; want 1010", got)
	}
	if got := g.Process(features.BuildString("")).Len(); got != 0 {
		t.Errorf("Process(empty) length = %d; want 0", got)
	}
}

func TestTrace(t *testing.T) {
	g := General()
	m := features.BuildString("don't CamelCase")
	entries := g.Trace(m)

	if entries[0].Name != "result" {
		t.Fatalf("first entry = %q; want result", entries[0].Name)
	}
	if !entries[0].Vector.Equal(g.Process(m)) {
		t.Error("trace result differs from Process")
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	want := []string{
		"result",
		"trim1=stage1.or.split2", "split2.2", "stage1.2",
		"stage1=split1.and.blocks", "blocks.1", "split1.1",
		"blocks=a_blocks.and.blocks1", "blocks1.0", "a_blocks.0",
	}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("trace names = %v; want %v", names, want)
	}
}

func TestGeneralOptions(t *testing.T) {
	m := features.BuildString("don't a1b")
	none := BuildGeneral(GeneralOptions{})
	if got := none.Process(m).String(); got != "100111000" {
		t.Errorf("no options = %s; want 100111000", got)
	}
	full := General()
	if got := full.Process(m).String(); got != "100001000" {
		t.Errorf("default options = %s; want 100001000", got)
	}
}
