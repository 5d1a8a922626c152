package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spicery/latok/internal/config"
	"github.com/spicery/latok/pkg/tokenizer"
)

const version = "0.2.0"

var (
	cfgFile   string
	activeCfg config.Config
	ioOpts    ioOptions
)

// ioOptions are the input and output flags shared by the text commands.
type ioOptions struct {
	input  string
	output string
	lines  bool
}

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()
	ioOpts = ioOptions{}

	cmd := &cobra.Command{
		Use:     "latok",
		Short:   "Feature-matrix split-mask tokenizer",
		Version: version,
		Long: `latok splits text into tokens using per-character feature masks.

Input is read from --input (defaults to stdin) as a single text, or one text
per line with --lines. Pipelines come from a preset (--preset) optionally
layered with a YAML rules file (--rules); see make-rules for the format.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			setupLogger(loaded.LogLevel)
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	pf.StringVar(&ioOpts.input, "input", "", "Input file (defaults to stdin)")
	pf.StringVar(&ioOpts.output, "output", "", "Output file (defaults to stdout)")
	pf.BoolVar(&ioOpts.lines, "lines", false, "Treat each input line as a separate text")
	config.RegisterFlags(pf, defaults)

	cmd.AddCommand(newTokenizeCmd())
	cmd.AddCommand(newFeaturizeCmd())
	cmd.AddCommand(newSplitCmd())
	cmd.AddCommand(newDescribeCmd())
	cmd.AddCommand(newTraceCmd())
	cmd.AddCommand(newMakeRulesCmd())

	return cmd
}

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(levelStr string) {
	lvl, err := ParseLogLevel(levelStr)
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
	if err != nil {
		slog.Warn("falling back to info logging", slog.String("log_level", levelStr))
	}
}

// buildTokenizer assembles the tokenizer described by cfg: the preset, the
// rules file layered over it, then any tokenize settings given explicitly.
// It also returns the name of the preset the tokenizer was built on.
func buildTokenizer(cfg config.Config) (*tokenizer.Tokenizer, string, error) {
	opts := []tokenizer.Option{tokenizer.WithLogger(slog.Default())}
	if cfg.Explicit("tokenize.lowercase") {
		opts = append(opts, tokenizer.WithLowercase(cfg.Tokenize.Lowercase))
	}
	if cfg.Explicit("tokenize.drop_symbols") {
		opts = append(opts, tokenizer.WithDropSymbols(cfg.Tokenize.DropSymbols))
	}
	if cfg.Explicit("tokenize.keep_emojis") {
		opts = append(opts, tokenizer.WithKeepEmojis(cfg.Tokenize.KeepEmojis))
	}
	if cfg.Explicit("tokenize.replace") {
		opts = append(opts, tokenizer.WithReplace(cfg.Tokenize.Replace))
	}

	if cfg.Pipeline.RulesFile == "" {
		t, err := tokenizer.NewPreset(cfg.Pipeline.Preset, opts...)
		return t, cfg.Pipeline.Preset, err
	}

	rules, err := tokenizer.LoadRulesFile(cfg.Pipeline.RulesFile)
	if err != nil {
		return nil, "", err
	}
	if rules.Preset == "" || cfg.Explicit("pipeline.preset") {
		rules.Preset = cfg.Pipeline.Preset
	}
	t, err := tokenizer.ApplyRules(rules, opts...)
	if err != nil {
		return nil, "", fmt.Errorf("applying rules file '%s': %w", cfg.Pipeline.RulesFile, err)
	}
	return t, rules.Preset, nil
}

// callOptions returns the per-call overrides implied by cfg.
func callOptions(cfg config.Config) []tokenizer.CallOption {
	if !cfg.Tokenize.AbstractFeatures {
		return []tokenizer.CallOption{tokenizer.DisableAbstractions()}
	}
	return nil
}

// readTexts reads the input as one text, or one text per line in --lines
// mode.
func readTexts(cmd *cobra.Command, opts ioOptions) ([]string, error) {
	var r io.Reader = cmd.InOrStdin()
	if opts.input != "" {
		f, err := os.Open(opts.input)
		if err != nil {
			return nil, fmt.Errorf("error reading file '%s': %w", opts.input, err)
		}
		defer f.Close()
		r = f
	}

	if !opts.lines {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("error reading input: %w", err)
		}
		return []string{string(data)}, nil
	}

	var texts []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		texts = append(texts, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}
	return texts, nil
}

// withOutput runs write against the --output file, or the command's
// stdout when none is given.
func withOutput(cmd *cobra.Command, opts ioOptions, write func(w io.Writer) error) error {
	if opts.output == "" {
		w := bufio.NewWriter(cmd.OutOrStdout())
		if err := write(w); err != nil {
			return err
		}
		return w.Flush()
	}

	file, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("error creating output file '%s': %w", opts.output, err)
	}
	w := bufio.NewWriter(file)
	if err := write(w); err != nil {
		_ = file.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error closing output file '%s': %w", opts.output, err)
	}
	return nil
}
