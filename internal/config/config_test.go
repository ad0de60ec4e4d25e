package config

import (
	"encoding/binary"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dnarecon/internal/common"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "dnarecon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	c, err := Load(New(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	opts, err := c.Layout()
	require.NoError(t, err)
	assert.Equal(t, common.HostByteOrder(), opts.ByteOrder)
	assert.Zero(t, opts.PointerSize)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, "pointer_size: 4\nbyte_order: big\nmax_blocks: 10\nlog_level: info\n")

	t.Setenv("DNARECON_MAX_BLOCKS", "20")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "warn", "")
	require.NoError(t, flags.Parse([]string{"--log-level", "debug"}))

	v := New(path)
	require.NoError(t, BindFlags(v, flags, map[string]string{KeyLogLevel: "log-level"}))

	c, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 4, c.PointerSize)
	assert.Equal(t, 20, c.MaxBlocks)
	assert.Equal(t, "debug", c.LogLevel)

	level, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	opts, err := c.Layout()
	require.NoError(t, err)
	assert.Equal(t, binary.BigEndian, opts.ByteOrder)
	assert.Equal(t, 4, opts.PointerSize)
}

func TestLoad_UnsetFlagFallsThrough(t *testing.T) {
	path := writeConfig(t, "log_format: json\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-format", "text", "")
	require.NoError(t, flags.Parse(nil))

	v := New(path)
	require.NoError(t, BindFlags(v, flags, map[string]string{KeyLogFormat: "log-format"}))

	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "json", c.LogFormat)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(New(filepath.Join(t.TempDir(), "absent.yaml")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestBindFlags_UnknownFlag(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)

	err := BindFlags(New(""), flags, map[string]string{KeyLogLevel: "log-level"})
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"pointer size", func(c *Config) { c.PointerSize = 6 }, "pointer_size"},
		{"max align", func(c *Config) { c.MaxAlign = 3 }, "max_align"},
		{"max blocks", func(c *Config) { c.MaxBlocks = -1 }, "max_blocks"},
		{"byte order", func(c *Config) { c.ByteOrder = "middle" }, "byte_order"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"upper case order", func(c *Config) { c.ByteOrder = "BIG" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)

			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
