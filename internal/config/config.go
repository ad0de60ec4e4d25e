// Package config resolves engine and CLI settings from flags, environment,
// an optional dnarecon.yaml file and built-in defaults, in that order.
package config

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"dnarecon/internal/common"
	"dnarecon/internal/dna"
)

const (
	// EnvPrefix prefixes every environment variable, e.g. DNARECON_POINTER_SIZE.
	EnvPrefix = "DNARECON"
	// FileName is the config file looked up when none is given.
	FileName = "dnarecon"
)

// Keys, shared by the file, the environment and CLI flag bindings.
const (
	KeyPointerSize = "pointer_size"
	KeyMaxAlign    = "max_align"
	KeyByteOrder   = "byte_order"
	KeyLogLevel    = "log_level"
	KeyLogFormat   = "log_format"
	KeyMaxBlocks   = "max_blocks"
)

// Config holds the resolved settings.
type Config struct {
	// PointerSize of schemas built from YAML or Go source. Zero keeps the
	// document's value, or detects it for encoded blobs.
	PointerSize int `mapstructure:"pointer_size"`
	// MaxAlign caps member alignment. Zero keeps the document's value.
	MaxAlign int `mapstructure:"max_align"`
	// ByteOrder is "host", "little" or "big".
	ByteOrder string `mapstructure:"byte_order"`
	LogLevel  string `mapstructure:"log_level"`
	// LogFormat is "text" or "json".
	LogFormat string `mapstructure:"log_format"`
	// MaxBlocks bounds the element count of one reconstruct call. Zero means
	// no limit.
	MaxBlocks int `mapstructure:"max_blocks"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		ByteOrder: "host",
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// New returns a viper instance with defaults and environment lookup set up.
// When path is empty, dnarecon.yaml is searched for in the working directory.
func New(path string) *viper.Viper {
	v := viper.New()

	d := Default()
	v.SetDefault(KeyPointerSize, d.PointerSize)
	v.SetDefault(KeyMaxAlign, d.MaxAlign)
	v.SetDefault(KeyByteOrder, d.ByteOrder)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLogFormat, d.LogFormat)
	v.SetDefault(KeyMaxBlocks, d.MaxBlocks)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
	}

	return v
}

// BindFlags binds flags to keys. Flags that were not set on the command line
// fall through to the other sources.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for key, flag := range keys {
		f := flags.Lookup(flag)
		if f == nil {
			return fmt.Errorf("unknown flag %q for key %s", flag, key)
		}

		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %q: %w", flag, err)
		}
	}

	return nil
}

// Load reads the config file, if any, and decodes all sources. A missing
// default config file is not an error; a missing explicit one is.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || v.ConfigFileUsed() != "" {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	var errs []error

	if c.PointerSize != 0 && c.PointerSize != 4 && c.PointerSize != 8 {
		errs = append(errs, fmt.Errorf("%s must be 4 or 8, got %d", KeyPointerSize, c.PointerSize))
	}

	if c.MaxAlign < 0 || c.MaxAlign&(c.MaxAlign-1) != 0 {
		errs = append(errs, fmt.Errorf("%s must be a power of two, got %d", KeyMaxAlign, c.MaxAlign))
	}

	if c.MaxBlocks < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative, got %d", KeyMaxBlocks, c.MaxBlocks))
	}

	if _, err := c.Order(); err != nil {
		errs = append(errs, err)
	}

	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%s must be text or json, got %q", KeyLogFormat, c.LogFormat))
	}

	return errors.Join(errs...)
}

// Order returns the configured byte order.
func (c Config) Order() (binary.ByteOrder, error) {
	order, ok := common.ParseByteOrder(strings.ToLower(c.ByteOrder))
	if !ok {
		return nil, fmt.Errorf("%s must be host, little or big, got %q", KeyByteOrder, c.ByteOrder)
	}

	return order, nil
}

// Level returns the configured log level.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%s: %w", KeyLogLevel, err)
	}

	return l, nil
}

// Layout returns the table options the settings describe.
func (c Config) Layout() (dna.Options, error) {
	order, err := c.Order()
	if err != nil {
		return dna.Options{}, err
	}

	return dna.Options{
		PointerSize: c.PointerSize,
		MaxAlign:    c.MaxAlign,
		ByteOrder:   order,
	}, nil
}
