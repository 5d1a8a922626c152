package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

type Config struct {
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Tokenize TokenizeConfig `mapstructure:"tokenize"`
	Runtime  RuntimeConfig  `mapstructure:"runtime"`
	Output   OutputConfig   `mapstructure:"output"`
	LogLevel string         `mapstructure:"log_level"`

	explicit map[string]bool
}

// Explicit reports whether key was set by a flag, an environment variable
// or a config file rather than left at its default.
func (c Config) Explicit(key string) bool { return c.explicit[key] }

type PipelineConfig struct {
	Preset    string `mapstructure:"preset"`
	RulesFile string `mapstructure:"rules_file"`
}

type TokenizeConfig struct {
	Lowercase        bool `mapstructure:"lowercase"`
	DropSymbols      bool `mapstructure:"drop_symbols"`
	KeepEmojis       bool `mapstructure:"keep_emojis"`
	Replace          bool `mapstructure:"replace"`
	AbstractFeatures bool `mapstructure:"abstract_features"`
}

type RuntimeConfig struct {
	Workers int `mapstructure:"workers"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

const envPrefix = "LATOK"

var envReplacer = strings.NewReplacer("-", "_", ".", "_")

// flagKeys maps config keys to the flags that set them.
var flagKeys = []struct{ key, flag string }{
	{"pipeline.preset", "preset"},
	{"pipeline.rules_file", "rules"},
	{"tokenize.lowercase", "lowercase"},
	{"tokenize.drop_symbols", "drop-symbols"},
	{"tokenize.keep_emojis", "keep-emojis"},
	{"tokenize.replace", "replace"},
	{"tokenize.abstract_features", "abstract-features"},
	{"runtime.workers", "workers"},
	{"output.format", "format"},
	{"log_level", "log-level"},
}

func DefaultConfig() Config {
	return Config{
		Pipeline: PipelineConfig{
			Preset:    "default",
			RulesFile: "",
		},
		Tokenize: TokenizeConfig{
			Lowercase:        false,
			DropSymbols:      false,
			KeepEmojis:       true,
			Replace:          true,
			AbstractFeatures: true,
		},
		Runtime: RuntimeConfig{
			Workers: 0,
		},
		Output: OutputConfig{
			Format: FormatText,
		},
		LogLevel: "info",
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("preset", defaults.Pipeline.Preset, "Pipeline preset (simple|general|tweet|mention|default)")
	fs.String("rules", defaults.Pipeline.RulesFile, "YAML rules file layered over the preset")
	fs.Bool("lowercase", defaults.Tokenize.Lowercase, "Lowercase token texts")
	fs.Bool("drop-symbols", defaults.Tokenize.DropSymbols, "Drop tokens made only of symbols")
	fs.Bool("keep-emojis", defaults.Tokenize.KeepEmojis, "Keep emoji tokens when dropping symbols")
	fs.Bool("replace", defaults.Tokenize.Replace, "Emit replacements for abstracted tokens")
	fs.Bool("abstract-features", defaults.Tokenize.AbstractFeatures, "Match feature specs against tokens")
	fs.Int("workers", defaults.Runtime.Workers, "Concurrent workers in --lines mode (0 = GOMAXPROCS)")
	fs.String("format", defaults.Output.Format, "Output format (text|json)")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("latok")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	format, err := NormalizeFormat(cfg.Output.Format)
	if err != nil {
		return Config{}, err
	}
	cfg.Output.Format = format

	cfg.explicit = make(map[string]bool)
	for _, fk := range flagKeys {
		if explicitlySet(v, opts.Cmd, fk.key, fk.flag) {
			cfg.explicit[fk.key] = true
		}
	}

	return cfg, nil
}

// NormalizeFormat validates an output format. Empty means text.
func NormalizeFormat(raw string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(raw))
	switch format {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON:
		return format, nil
	case "jsonl":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("invalid output format %q (expected %s|%s)", raw, FormatText, FormatJSON)
	}
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("pipeline.preset", c.Pipeline.Preset)
	v.SetDefault("pipeline.rules_file", c.Pipeline.RulesFile)
	v.SetDefault("tokenize.lowercase", c.Tokenize.Lowercase)
	v.SetDefault("tokenize.drop_symbols", c.Tokenize.DropSymbols)
	v.SetDefault("tokenize.keep_emojis", c.Tokenize.KeepEmojis)
	v.SetDefault("tokenize.replace", c.Tokenize.Replace)
	v.SetDefault("tokenize.abstract_features", c.Tokenize.AbstractFeatures)
	v.SetDefault("runtime.workers", c.Runtime.Workers)
	v.SetDefault("output.format", c.Output.Format)
	v.SetDefault("log_level", c.LogLevel)
}

// bindFlags binds each registered flag to its nested key so that config
// file values are still read for flags left unset.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, fk := range flagKeys {
		f := fs.Lookup(fk.flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(fk.key, f); err != nil {
			return fmt.Errorf("%s: %w", fk.flag, err)
		}
	}
	return nil
}

func explicitlySet(v *viper.Viper, cmd flagBinder, key, flag string) bool {
	if cmd != nil {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			return true
		}
	}
	if _, ok := os.LookupEnv(envPrefix + "_" + strings.ToUpper(envReplacer.Replace(key))); ok {
		return true
	}
	return v.InConfig(key)
}
