package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"dnarecon/internal/config"
	"dnarecon/internal/dna"
	"dnarecon/internal/logger"
	"dnarecon/internal/schemafile"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	cfgFile string
	cfg     config.Config
}

// globalFlags maps config keys to the persistent flags that override them.
var globalFlags = map[string]string{
	config.KeyPointerSize: "pointer-size",
	config.KeyMaxAlign:    "max-align",
	config.KeyByteOrder:   "byte-order",
	config.KeyLogLevel:    "log-level",
	config.KeyLogFormat:   "log-format",
	config.KeyMaxBlocks:   "max-blocks",
}

func newRootCmd() *cobra.Command {
	a := &app{}
	d := config.Default()

	cmd := &cobra.Command{
		Use:   "dnarecon",
		Short: "Reconcile stored struct layouts with current ones",
		Long: `dnarecon compares a stored struct table (the layout data was written
with) against the current one and converts stored instances into the
current layout: matching members are copied or converted, removed members
are dropped and new members are zero-filled.

Schemas are YAML documents (.yaml, .yml) or encoded SDNA blobs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is ./dnarecon.yaml)")
	pf.Int("pointer-size", d.PointerSize, "force the pointer size of loaded schemas (0 keeps the schema's)")
	pf.Int("max-align", d.MaxAlign, "cap member alignment of loaded schemas (0 keeps the schema's)")
	pf.String("byte-order", d.ByteOrder, "byte order of blobs and instance data (host, little, big)")
	pf.String("log-level", d.LogLevel, "log level (debug, info, warn, error)")
	pf.String("log-format", d.LogFormat, "log format (text, json)")
	pf.Int("max-blocks", d.MaxBlocks, "reject reconstruct calls with more blocks (0 means no limit)")

	cmd.AddCommand(
		newInspectCmd(a),
		newEncodeCmd(a),
		newCompareCmd(a),
		newPlanCmd(a),
		newReconstructCmd(a),
		newAnalyzeCmd(),
	)

	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	v := config.New(a.cfgFile)

	if err := config.BindFlags(v, cmd.Flags(), globalFlags); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	level, _ := cfg.Level()

	if err := logger.Init(logger.Options{
		Writer: cmd.ErrOrStderr(),
		Level:  level,
		Format: logger.Format(cfg.LogFormat),
	}); err != nil {
		return err
	}

	a.cfg = cfg

	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", "path", used)
	}

	return nil
}

// loadSchema reads a struct table from a YAML schema or an encoded blob.
func (a *app) loadSchema(path string) (*dna.Table, error) {
	opts, err := a.cfg.Layout()
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err := schemafile.LoadFile(path)
		if err != nil {
			return nil, err
		}

		t, err := f.Table(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to build table from %s: %w", path, err)
		}

		logger.Debug("schema loaded", "path", path, "structs", t.NumStructs(), "pointer_size", t.PointerSize())

		return t, nil
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", path, err)
	}

	t, err := dna.Decode(blob, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to decode schema %s: %w", path, err)
	}

	logger.Debug("blob decoded", "path", path, "structs", t.NumStructs(), "pointer_size", t.PointerSize())

	return t, nil
}

// loadPair loads the --old and --new schemas of a command.
func (a *app) loadPair(oldPath, newPath string) (*dna.Table, *dna.Table, error) {
	oldTable, err := a.loadSchema(oldPath)
	if err != nil {
		return nil, nil, err
	}

	newTable, err := a.loadSchema(newPath)
	if err != nil {
		return nil, nil, err
	}

	return oldTable, newTable, nil
}

// writeOutput writes data to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

func addPairFlags(cmd *cobra.Command, oldPath, newPath *string) {
	cmd.Flags().StringVar(oldPath, "old", "", "stored schema the data was written with")
	cmd.Flags().StringVar(newPath, "new", "", "current schema")
	_ = cmd.MarkFlagRequired("old")
	_ = cmd.MarkFlagRequired("new")
}

func execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
