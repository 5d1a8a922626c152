package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spicery/latok/internal/config"
	"github.com/spicery/latok/pkg/tokenizer"
)

// inputTexts returns the positional arguments as texts when there are any,
// otherwise the texts read from the input.
func inputTexts(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	return readTexts(cmd, ioOpts)
}

func newTokenizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize [text...]",
		Short: "Write the token texts of each input text",
		Long: `Write the token texts of each input text. In text format the tokens of
one text are written on one line separated by spaces; in json format each
text becomes a JSON array of strings.`,
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

			results := t.TokenizeBatch(texts, cfg.Runtime.Workers, callOptions(cfg)...)
			return withOutput(cmd, ioOpts, func(w io.Writer) error {
				return writeStrings(w, cfg.Output.Format, results)
			})
		},
	}
}

func newSplitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "split [text...]",
		Short: "Write the raw split of each input text",
		Long: `Write the trimmed pieces the pipeline's split mask carves each text into,
with no lowercasing, symbol dropping or feature matching.`,
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

			results := make([][]string, len(texts))
			for i, text := range texts {
				results[i] = slices.Collect(t.Split(text))
			}
			return withOutput(cmd, ioOpts, func(w io.Writer) error {
				return writeStrings(w, cfg.Output.Format, results)
			})
		},
	}
}

func newFeaturizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "featurize [text...]",
		Short: "Write the featurized tokens of each input text",
		Long: `Write the featurized tokens of each input text. In json format each token
is written as one JSON object per line (one JSON array per text in --lines
mode); in text format each token is a tab-separated row of start, end,
output text and matched feature names.`,
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

			opts := callOptions(cfg)
			if cfg.Explicit("tokenize.replace") {
				opts = append(opts, tokenizer.OverrideReplace(cfg.Tokenize.Replace))
			}
			results := t.FeaturizeBatch(texts, cfg.Runtime.Workers, opts...)
			return withOutput(cmd, ioOpts, func(w io.Writer) error {
				return writeTokens(w, cfg.Output.Format, ioOpts.lines || len(args) > 1, results)
			})
		},
	}
}

func writeStrings(w io.Writer, format string, results [][]string) error {
	for _, tokens := range results {
		if format == config.FormatJSON {
			if tokens == nil {
				tokens = []string{}
			}
			data, err := json.Marshal(tokens)
			if err != nil {
				return fmt.Errorf("JSON encoding error: %w", err)
			}
			if _, err := fmt.Fprintln(w, string(data)); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintln(w, strings.Join(tokens, " ")); err != nil {
			return err
		}
	}
	return nil
}

func writeTokens(w io.Writer, format string, grouped bool, results [][]*tokenizer.Token) error {
	for i, tokens := range results {
		if format == config.FormatJSON {
			if err := writeTokensJSON(w, grouped, tokens); err != nil {
				return err
			}
			continue
		}
		if grouped && i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		for _, tok := range tokens {
			_, err := fmt.Fprintf(w, "%d\t%d\t%s\t%s\n",
				tok.Span.Start, tok.Span.End, tok.Output(), strings.Join(tok.Abstract, ","))
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func writeTokensJSON(w io.Writer, grouped bool, tokens []*tokenizer.Token) error {
	if grouped {
		if tokens == nil {
			tokens = []*tokenizer.Token{}
		}
		data, err := json.Marshal(tokens)
		if err != nil {
			return fmt.Errorf("JSON encoding error: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	for _, tok := range tokens {
		data, err := json.Marshal(tok)
		if err != nil {
			return fmt.Errorf("JSON encoding error: %w", err)
		}
		if _, err := fmt.Fprintln(w, string(data)); err != nil {
			return err
		}
	}
	return nil
}
