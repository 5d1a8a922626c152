package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/spicery/latok/pkg/splitmask"
	"github.com/spicery/latok/pkg/tokenizer"
	"gopkg.in/yaml.v3"
)

// run executes the root command in-process and returns what it wrote to
// stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, err := run(t, stdin, args...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out
}

func TestNewRootCmd_HasExpectedSubcommands(t *testing.T) {
	root := NewRootCmd()

	want := []string{"tokenize", "featurize", "split", "describe", "trace", "make-rules"}
	for _, name := range want {
		found := false

		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}

		if !found {
			t.Errorf("expected subcommand %q not found in root", name)
		}
	}
}

func TestNewRootCmd_HasPersistentFlags(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"config", "input", "output", "lines", "preset", "rules", "format", "log-level"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected --%s persistent flag to be registered", name)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level   string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"DEBUG", slog.LevelDebug, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.level)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLogLevel(%q) error = %v; wantErr %v", tt.level, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v; want %v", tt.level, got, tt.want)
		}
	}
}

func TestSetupLogger_InvalidLevelFallsBackToInfo(_ *testing.T) {
	setupLogger("not-a-level")
	setupLogger("info")
}

func TestTokenizeCmd(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "simple preset",
			args: []string{"tokenize", "--preset", "simple", "test!"},
			want: "test !\n",
		},
		{
			name: "drop symbols",
			args: []string{"tokenize", "--preset", "simple", "--drop-symbols", "test!"},
			want: "test\n",
		},
		{
			name: "one line per argument",
			args: []string{"tokenize", "--preset", "simple", "test!", "."},
			want: "test !\n.\n",
		},
		{
			name: "json lowercase",
			args: []string{"tokenize", "--preset", "simple", "--lowercase", "--format", "json", "CamelCase and camelCase!"},
			want: `["camelcase","and","camelcase","!"]` + "\n",
		},
		{
			name: "empty text",
			args: []string{"tokenize", "--format", "json", ""},
			want: "[]\n",
		},
		{
			name: "abstractions disabled",
			args: []string{"tokenize", "--abstract-features=false", "abc@xyz.com"},
			want: "abc@xyz.com\n",
		},
		{
			name: "default preset replaces",
			args: []string{"tokenize", "Mail abc@xyz.com"},
			want: "Mail _EMAIL\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, "", tt.args...); got != tt.want {
				t.Errorf("output = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestTokenizeCmd_DefaultPresetMatchesLibrary(t *testing.T) {
	t.Chdir(t.TempDir())
	text := "This is a1 test don't http://foo.com?bar=123 @user abc@xyz.com camelCaseOne, CamelCaseTwo, camelCase1, CamelCase2, 123 $123,456.78"

	out := mustRun(t, "", "tokenize", "--format", "json", text)
	var got []string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("Unmarshal(%q): %v", out, err)
	}
	want := slices.Collect(tokenizer.NewDefaultTokenizer().Tokenize(text))
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %q; want %q", got, want)
	}
}

func TestTokenizeCmd_StdinLines(t *testing.T) {
	t.Chdir(t.TempDir())

	got := mustRun(t, "test!\n.\n\nCamelCase\n", "tokenize", "--preset", "simple", "--lines", "--workers", "2")
	want := "test !\n.\n\nCamelCase\n"
	if got != want {
		t.Errorf("output = %q; want %q", got, want)
	}

	got = mustRun(t, " test! ", "tokenize", "--preset", "simple")
	if got != "test !\n" {
		t.Errorf("output = %q; want %q", got, "test !\n")
	}
}

func TestTokenizeCmd_InputAndOutputFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(in, []byte("test!"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if got := mustRun(t, "", "tokenize", "--preset", "simple", "--input", in, "--output", out); got != "" {
		t.Errorf("stdout = %q; want nothing", got)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "test !\n" {
		t.Errorf("output file = %q; want %q", data, "test !\n")
	}

	if _, err := run(t, "", "tokenize", "--input", filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("expected error for missing input file")
	}
}

func TestTokenizeCmd_Errors(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := run(t, "", "tokenize", "--preset", "nope", "x")
	if err == nil || !strings.Contains(err.Error(), "unknown preset") {
		t.Errorf("error = %v; want unknown preset", err)
	}

	_, err = run(t, "", "tokenize", "--format", "xml", "x")
	if err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestSplitCmd(t *testing.T) {
	t.Chdir(t.TempDir())

	got := mustRun(t, "", "split", "--preset", "tweet", "--lowercase", "@user abc@xyz.com don't")
	want := "@user abc@xyz.com don't\n"
	if got != want {
		t.Errorf("output = %q; want %q", got, want)
	}

	got = mustRun(t, "", "split", "--preset", "simple", "--format", "json", "don't")
	want = `["don","'","t"]` + "\n"
	if got != want {
		t.Errorf("output = %q; want %q", got, want)
	}
}

type featurizedToken struct {
	Text        string         `json:"text"`
	Span        [2]int         `json:"span"`
	Features    map[string]int `json:"features"`
	Abstract    []string       `json:"abstract"`
	Replacement *string        `json:"replacement"`
}

func TestFeaturizeCmd(t *testing.T) {
	t.Chdir(t.TempDir())

	out := mustRun(t, "", "featurize", "--format", "json", "abc@xyz.com")
	var tok featurizedToken
	if err := json.Unmarshal([]byte(out), &tok); err != nil {
		t.Fatalf("Unmarshal(%q): %v", out, err)
	}
	if tok.Text != "abc@xyz.com" {
		t.Errorf("Text = %q; want %q", tok.Text, "abc@xyz.com")
	}
	if tok.Span != [2]int{0, 11} {
		t.Errorf("Span = %v; want [0 11]", tok.Span)
	}
	if !slices.Contains(tok.Abstract, "email") {
		t.Errorf("Abstract = %v; want email", tok.Abstract)
	}
	if tok.Replacement == nil || *tok.Replacement != "_EMAIL" {
		t.Errorf("Replacement = %v; want _EMAIL", tok.Replacement)
	}
	if tok.Features["symbol"] != 2 {
		t.Errorf("Features[symbol] = %d; want 2", tok.Features["symbol"])
	}

	out = mustRun(t, "", "featurize", "--format", "json", "--replace", "abc@xyz.com")
	if err := json.Unmarshal([]byte(out), &tok); err != nil {
		t.Fatalf("Unmarshal(%q): %v", out, err)
	}
	if tok.Text != "_EMAIL" {
		t.Errorf("Text = %q; want %q", tok.Text, "_EMAIL")
	}
}

func TestFeaturizeCmd_JSONLines(t *testing.T) {
	t.Chdir(t.TempDir())

	out := mustRun(t, "", "featurize", "--preset", "simple", "--format", "json", "test!")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q; want one per token", lines)
	}

	out = mustRun(t, "a b\n\nc\n", "featurize", "--preset", "simple", "--format", "json", "--lines")
	var grouped [][]featurizedToken
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var toks []featurizedToken
		if err := json.Unmarshal([]byte(line), &toks); err != nil {
			t.Fatalf("Unmarshal(%q): %v", line, err)
		}
		grouped = append(grouped, toks)
	}
	if len(grouped) != 3 || len(grouped[0]) != 2 || len(grouped[1]) != 0 || len(grouped[2]) != 1 {
		t.Errorf("grouped = %+v; want 2, 0 and 1 tokens", grouped)
	}
}

func TestFeaturizeCmd_Text(t *testing.T) {
	t.Chdir(t.TempDir())

	got := mustRun(t, "", "featurize", "Mail abc@xyz.com")
	want := "0\t4\tMail\t\n5\t16\t_EMAIL\temail\n"
	if got != want {
		t.Errorf("output = %q; want %q", got, want)
	}
}

func TestDescribeCmd(t *testing.T) {
	t.Chdir(t.TempDir())

	out := mustRun(t, "", "describe", "--preset", "tweet")
	var cfg splitmask.Config
	if err := yaml.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, out)
	}
	if _, err := cfg.Build(); err != nil {
		t.Fatalf("Build: %v\n%s", err, out)
	}
	want := splitmask.Tweet().Describe()
	if len(cfg.Stages) != len(want.Stages) || len(cfg.Plan) != len(want.Plan) {
		t.Errorf("described %d stages and %d steps; want %d and %d",
			len(cfg.Stages), len(cfg.Plan), len(want.Stages), len(want.Plan))
	}

	out = mustRun(t, "", "describe", "--preset", "general", "--plan")
	if out != splitmask.General().String() {
		t.Errorf("plan = %q; want %q", out, splitmask.General().String())
	}
}

func TestTraceCmd(t *testing.T) {
	t.Chdir(t.TempDir())

	out := mustRun(t, "", "trace", "--preset", "simple", "test!")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 2 {
		t.Fatalf("lines = %q; want a header and the result", lines)
	}
	if !strings.HasPrefix(lines[0], "text") || !strings.HasSuffix(lines[0], "test!") {
		t.Errorf("header = %q; want the text", lines[0])
	}
	if !strings.HasPrefix(lines[1], "result") {
		t.Errorf("first entry = %q; want result", lines[1])
	}

	out = mustRun(t, "", "trace", "--preset", "general", "--format", "json", "don't")
	var r struct {
		Text  string `json:"text"`
		Trace []struct {
			Name string `json:"name"`
		} `json:"trace"`
	}
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("Unmarshal(%q): %v", out, err)
	}
	m, _ := tokenizer.NewSplitter(splitmask.General()).Mask("don't")
	want := splitmask.General().Trace(m)
	if r.Text != "don't" || len(r.Trace) != len(want) || r.Trace[0].Name != "result" {
		t.Errorf("trace = %+v; want %d entries starting with result", r, len(want))
	}
}

func TestMakeRulesCmd(t *testing.T) {
	t.Chdir(t.TempDir())
	text := "This is a1 test don't http://foo.com?bar=123 @user abc@xyz.com camelCaseOne, 123"

	for _, preset := range tokenizer.PresetNames() {
		t.Run(preset, func(t *testing.T) {
			out := mustRun(t, "", "make-rules", "--preset", preset)
			rules, err := tokenizer.ParseRules([]byte(out))
			if err != nil {
				t.Fatalf("ParseRules: %v\n%s", err, out)
			}
			if rules.Preset != preset {
				t.Errorf("Preset = %q; want %q", rules.Preset, preset)
			}
			rebuilt, err := tokenizer.ApplyRules(rules)
			if err != nil {
				t.Fatalf("ApplyRules: %v", err)
			}
			original, _ := tokenizer.NewPreset(preset)
			got := slices.Collect(rebuilt.Tokenize(text))
			want := slices.Collect(original.Tokenize(text))
			if !reflect.DeepEqual(got, want) {
				t.Errorf("tokens = %q; want %q", got, want)
			}
		})
	}
}

func TestRulesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	rulesFile := filepath.Join(dir, "rules.yaml")
	content := `
preset: general
features:
  - ref: url
    replacement: "<url>"
`
	if err := os.WriteFile(rulesFile, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got := mustRun(t, "", "tokenize", "--rules", rulesFile, "--lowercase", "See http://x.io/a NOW")
	if got != "see <url> now\n" {
		t.Errorf("output = %q; want %q", got, "see <url> now\n")
	}

	out := mustRun(t, "", "make-rules", "--rules", rulesFile, "--lowercase")
	rules, err := tokenizer.ParseRules([]byte(out))
	if err != nil {
		t.Fatalf("ParseRules: %v\n%s", err, out)
	}
	if rules.Preset != tokenizer.PresetGeneral {
		t.Errorf("Preset = %q; want %q", rules.Preset, tokenizer.PresetGeneral)
	}
	if rules.Options == nil || rules.Options.Lowercase == nil || !*rules.Options.Lowercase {
		t.Errorf("Options = %+v; want lowercase", rules.Options)
	}
	if len(rules.Features) != 1 || rules.Features[0].Name != "url" {
		t.Errorf("Features = %+v; want the url feature", rules.Features)
	}

	if _, err := run(t, "", "tokenize", "--rules", filepath.Join(dir, "missing.yaml"), "x"); err == nil {
		t.Error("expected error for missing rules file")
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, "latok.yaml"), []byte("pipeline:\n  preset: simple\noutput:\n  format: json\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got := mustRun(t, "", "tokenize", "test!")
	if got != `["test","!"]`+"\n" {
		t.Errorf("output = %q; want %q", got, `["test","!"]`+"\n")
	}
}
