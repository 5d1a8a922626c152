package features

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		r    rune
		has  []Feature
		lack []Feature
	}{
		{'a', []Feature{Alpha, AlphaNumeric, Lower}, []Feature{Upper, Numeric, Symbol, Space}},
		{'Q', []Feature{Alpha, AlphaNumeric, Upper}, []Feature{Lower, Symbol}},
		{'7', []Feature{Numeric, AlphaNumeric}, []Feature{Alpha, Symbol}},
		{' ', []Feature{Space}, []Feature{Symbol}},
		{'\t', []Feature{Space}, []Feature{Symbol}},
		{'@', []Feature{Symbol, TwitterSpecial, At}, []Feature{Hash, AlphaNumeric}},
		{'#', []Feature{Symbol, TwitterSpecial, Hash}, []Feature{At, Emoji}},
		{'$', []Feature{Symbol}, []Feature{TwitterSpecial}},
		{':', []Feature{Symbol, Colon}, nil},
		{'/', []Feature{Symbol, Slash}, nil},
		{'.', []Feature{Symbol, Period}, nil},
		{'\'', []Feature{Symbol, Apostrophe}, nil},
		{'’', []Feature{Symbol, Apostrophe}, nil},
		{'😀', []Feature{Symbol, Emoji, EmojiPresentation, ExtendedPictographic}, []Feature{EmojiComponent}},
		{'👍', []Feature{Emoji, EmojiModifierBase}, nil},
		{'\u200d', []Feature{EmojiComponent}, []Feature{Symbol}},
		{'\x01', nil, []Feature{Symbol, Space}},
		{'é', []Feature{Alpha, Lower}, nil},
	}
	for _, tt := range tests {
		s := Classify(tt.r)
		for _, f := range tt.has {
			if !s.Has(f) {
				t.Errorf("Classify(%q) lacks %s", tt.r, f)
			}
		}
		for _, f := range tt.lack {
			if s.Has(f) {
				t.Errorf("Classify(%q) has %s", tt.r, f)
			}
		}
	}
}

func TestParseFeature(t *testing.T) {
	for _, name := range Names() {
		f, err := Parse(name)
		if err != nil {
			t.Fatalf("Parse(%q): %v", name, err)
		}
		if f.String() != name {
			t.Errorf("Parse(%q) = %s", name, f)
		}
	}
	if f, err := Parse("Prev-Alpha-Num"); err != nil || f != PrevAlphaNumeric {
		t.Errorf("Parse(Prev-Alpha-Num) = %v, %v", f, err)
	}
	if _, err := Parse("bogus"); !errors.Is(err, ErrUnknownFeature) {
		t.Errorf("Parse(bogus) error = %v; want ErrUnknownFeature", err)
	}
}

func TestBuildContextualFeatures(t *testing.T) {
	m := BuildString("a@b")

	want := map[Feature]string{
		Alpha:            "101",
		Symbol:           "010",
		PrevSpace:        "100",
		NextSpace:        "001",
		PrevAlpha:        "010",
		NextAlpha:        "010",
		PrevSymbol:       "001",
		NextAt:           "100",
		NextAlphaNumeric: "010",
		AfterNextAlpha:   "100",
	}
	for f, bits := range want {
		if got := m.Column(f).String(); got != bits {
			t.Errorf("%s = %s; want %s", f, got, bits)
		}
	}
}

func TestBuildEdges(t *testing.T) {
	m := BuildString("ab")
	if !m.Has(0, PrevSpace) || m.Has(1, PrevSpace) {
		t.Error("only the first row should see the leading boundary")
	}
	if !m.Has(1, NextSpace) || m.Has(0, NextSpace) {
		t.Error("only the last row should see the trailing boundary")
	}
	if m.Has(1, NextAlpha) || m.Has(0, AfterNextAlpha) {
		t.Error("rows near the end should not see characters past it")
	}
	if m.Has(0, PrevSymbol) {
		t.Error("the boundary is not a symbol")
	}

	empty := BuildString("")
	if empty.Len() != 0 || empty.Column(Alpha).Len() != 0 {
		t.Error("empty text should give an empty matrix")
	}
}

func TestBuildAfterNextSlash(t *testing.T) {
	m := BuildString("a://x")
	if got := m.Column(AfterNextSlash).String(); got != "11000" {
		t.Errorf("AfterNextSlash = %s; want 11000", got)
	}
	if got := m.Column(NextSlash).String(); got != "01100" {
		t.Errorf("NextSlash = %s; want 01100", got)
	}
}

func TestSum(t *testing.T) {
	m := BuildString("ab 12!")
	c := m.Sum(3, 6)
	if c[Numeric] != 2 || c[Symbol] != 1 || c[Alpha] != 0 {
		t.Errorf("Sum(3, 6) = %v", c.Map())
	}
	if !c.Any(Symbol) || c.Any(Emoji) {
		t.Error("Counts.Any mismatch")
	}
}

func TestCustomClassifier(t *testing.T) {
	onlyAlpha := func(r rune) Set { return SetOf(Alpha) }
	m := Build([]rune("!!"), onlyAlpha)
	if m.Column(Symbol).Any() {
		t.Error("custom classifier should replace the default")
	}
	if got := m.Column(PrevAlpha).String(); got != "01" {
		t.Errorf("PrevAlpha = %s; want 01", got)
	}
}
