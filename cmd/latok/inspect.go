package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spicery/latok/internal/config"
	"github.com/spicery/latok/pkg/splitmask"
	"github.com/spicery/latok/pkg/tokenizer"
	"gopkg.in/yaml.v3"
)

func newDescribeCmd() *cobra.Command {
	var plan bool

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Write the stages and plan of the configured pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := activeCfg
			t, _, err := buildTokenizer(cfg)
			if err != nil {
				return err
			}
			g := t.Generator()
			return withOutput(cmd, ioOpts, func(w io.Writer) error {
				if plan {
					_, err := io.WriteString(w, g.String())
					return err
				}
				return encode(w, cfg.Output.Format, g.Describe())
			})
		},
	}

	cmd.Flags().BoolVar(&plan, "plan", false, "Write only the plan, one step per line")

	return cmd
}

// traceResult is the trace of one text.
type traceResult struct {
	Text  string                 `json:"text" yaml:"text"`
	Trace []splitmask.TraceEntry `json:"trace" yaml:"trace"`
}

func newTraceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trace [text...]",
		Short: "Write every intermediate split vector of each input text",
		Long: `Write the intermediate vectors the pipeline computes for each text, most
recent first, starting with the final split mask.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := activeCfg
			t, _, err := buildTokenizer(cfg)
			if err != nil {
				return err
			}
			texts, err := inputTexts(cmd, args)
			if err != nil {
				return err
			}

			results := make([]traceResult, len(texts))
			for i, text := range texts {
				m, _ := t.Mask(text)
				results[i] = traceResult{Text: text, Trace: t.Generator().Trace(m)}
			}
			return withOutput(cmd, ioOpts, func(w io.Writer) error {
				if cfg.Output.Format == config.FormatJSON {
					for _, r := range results {
						if err := encode(w, cfg.Output.Format, r); err != nil {
							return err
						}
					}
					return nil
				}
				return writeTraces(w, results)
			})
		},
	}
}

func writeTraces(w io.Writer, results []traceResult) error {
	for i, r := range results {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		width := len("text")
		for _, e := range r.Trace {
			width = max(width, len(e.Name))
		}
		if _, err := fmt.Fprintf(w, "%-*s %s\n", width, "text", r.Text); err != nil {
			return err
		}
		for _, e := range r.Trace {
			if _, err := fmt.Fprintf(w, "%-*s %s\n", width, e.Name, e.Vector); err != nil {
				return err
			}
		}
	}
	return nil
}

func newMakeRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "make-rules",
		Short: "Write the configured pipeline as a YAML rules file",
		Long: `Write the configured pipeline, including any --rules file and tokenize
settings, as a YAML rules file that --rules accepts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, preset, err := buildTokenizer(activeCfg)
			if err != nil {
				return err
			}
			rules := tokenizer.RulesFromTokenizer(t)
			rules.Preset = preset
			return withOutput(cmd, ioOpts, func(w io.Writer) error {
				return tokenizer.WriteRules(w, rules)
			})
		},
	}
}

// encode writes v as one line of JSON or as a YAML document.
func encode(w io.Writer, format string, v any) error {
	if format == config.FormatJSON {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("JSON encoding error: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal to YAML: %w", err)
	}
	return enc.Close()
}
