// Package config loads logger settings from YAML or TOML files, with
// environment variables taking precedence over file values.
//
//	# agentlog.yaml
//	level: info
//	name: agent
//	output: stderr
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/philipp01105/agentlog/core"
	"github.com/philipp01105/agentlog/logger"
)

// Environment variables read by ApplyEnv.
const (
	EnvLevel   = "AGENTLOG_LEVEL"
	EnvEnabled = "AGENTLOG_ENABLED"
	EnvName    = "AGENTLOG_NAME"
)

// ErrUnknownFormat is returned for files whose extension names no
// supported format.
var ErrUnknownFormat = errors.New("unknown config format")

// Format represents the configuration file format
type Format int

const (
	// FormatAuto detects the format from the file extension
	FormatAuto Format = iota
	// FormatYAML represents YAML format
	FormatYAML
	// FormatTOML represents TOML format
	FormatTOML
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	case FormatAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return FormatAuto, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// File is the on-disk form of logger.Options.
type File struct {
	Level       Level  `yaml:"level" toml:"level"`
	Enabled     *bool  `yaml:"enabled" toml:"enabled"`
	Name        string `yaml:"name" toml:"name"`
	Hostname    string `yaml:"hostname" toml:"hostname"`
	Deferred    bool   `yaml:"deferred" toml:"deferred"`
	CoarseClock bool   `yaml:"coarse_clock" toml:"coarse_clock"`
	// Output is "stdout", "stderr" or empty for no attached stream.
	Output string `yaml:"output" toml:"output"`
}

// Level accepts either a level name or a numeric rank.
type Level struct {
	Value core.Level
	Set   bool
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *Level) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("level: line %d: want a name or a number", n.Line)
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return fmt.Errorf("level: %w", err)
	}
	return l.set(v)
}

// UnmarshalTOML implements toml.Unmarshaler.
func (l *Level) UnmarshalTOML(v any) error {
	return l.set(v)
}

func (l *Level) set(v any) error {
	switch v.(type) {
	case string, int, int64, float64:
	default:
		return fmt.Errorf("level: want a name or a number, got %T", v)
	}
	l.Value = core.Coerce(v)
	l.Set = true
	return nil
}

// Load reads path, choosing the decoder by extension, and applies the
// environment overrides.
func Load(path string) (*File, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	f, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := f.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return f, nil
}

// Parse decodes data in the given format. Unknown keys are rejected.
func Parse(data []byte, format Format) (*File, error) {
	f := &File{}
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), f)
		if err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return nil, fmt.Errorf("decode toml: unknown key %q", undec[0].String())
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	if err := f.validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) validate() error {
	switch f.Output {
	case "", "stdout", "stderr":
		return nil
	}
	return fmt.Errorf("output: want stdout or stderr, got %q", f.Output)
}

// ApplyEnv overrides level, enabled and name from the environment.
func (f *File) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLevel); ok && v != "" {
		if err := f.Level.set(v); err != nil {
			return fmt.Errorf("%s: %w", EnvLevel, err)
		}
	}
	if v, ok := lookup(EnvEnabled); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvEnabled, err)
		}
		f.Enabled = &b
	}
	if v, ok := lookup(EnvName); ok {
		f.Name = v
	}
	return nil
}

// Options converts the file into logger options.
func (f *File) Options() logger.Options {
	opts := logger.Options{
		Enabled:     f.Enabled,
		Name:        f.Name,
		Hostname:    f.Hostname,
		CoarseClock: f.CoarseClock,
	}
	if f.Level.Set {
		opts.Level = f.Level.Value
	}
	if f.Deferred {
		opts.Configured = logger.Bool(false)
	}
	switch f.Output {
	case "stdout":
		opts.Stream = os.Stdout
	case "stderr":
		opts.Stream = os.Stderr
	}
	return opts
}
