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
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwevaluator "github.com/patelanuj7/calculatorapp/foundation/calc/evaluator"
	mdwparser "github.com/patelanuj7/calculatorapp/foundation/calc/parser"
	mdwerror "github.com/patelanuj7/calculatorapp/foundation/core/error"
	mdwlog "github.com/patelanuj7/calculatorapp/foundation/core/log"
)

// Environment variables read by LoadFromEnv and ApplyEnv
const (
	EnvConfig          = "CALC_CONFIG"
	EnvLogLevel        = "CALC_LOG_LEVEL"
	EnvDivisionPolicy  = "CALC_DIVISION_POLICY"
	EnvCharacterPolicy = "CALC_CHARACTER_POLICY"
	EnvHistoryPath     = "CALC_HISTORY_PATH"
	EnvGRPCPort        = "CALC_GRPC_PORT"
	EnvHTTPPort        = "CALC_HTTP_PORT"
)

// DefaultPath is tried when neither a flag nor CALC_CONFIG names a file
const DefaultPath = "./configs/config.toml"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Calc    CalcConfig    `toml:"calc" yaml:"calc"`
	History HistoryConfig `toml:"history" yaml:"history"`
	Server  ServerConfig  `toml:"server" yaml:"server"`

	// path the configuration was loaded from, empty for defaults
	path string
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name        string `toml:"name" yaml:"name"`
	Environment string `toml:"environment" yaml:"environment"`
	DataDir     string `toml:"data_dir" yaml:"data_dir"`
	LogLevel    string `toml:"log_level" yaml:"log_level"`
	LogFormat   string `toml:"log_format" yaml:"log_format"`
	LogFile     string `toml:"log_file" yaml:"log_file"`
}

// CalcConfig holds evaluation policies
type CalcConfig struct {
	DivisionPolicy  string   `toml:"division_policy" yaml:"division_policy"`
	CharacterPolicy string   `toml:"character_policy" yaml:"character_policy"`
	MaxInputLength  int      `toml:"max_input_length" yaml:"max_input_length"`
	CacheSize       int      `toml:"cache_size" yaml:"cache_size"`
	CacheTTL        Duration `toml:"cache_ttl" yaml:"cache_ttl"`
}

// HistoryConfig holds settings for the evaluation history
type HistoryConfig struct {
	Enabled    bool   `toml:"enabled" yaml:"enabled"`
	Path       string `toml:"path" yaml:"path"`
	MaxEntries int    `toml:"max_entries" yaml:"max_entries"`
}

// ServerConfig holds settings for the gRPC and HTTP listeners
type ServerConfig struct {
	Host             string   `toml:"host" yaml:"host"`
	GRPCPort         int      `toml:"grpc_port" yaml:"grpc_port"`
	HTTPPort         int      `toml:"http_port" yaml:"http_port"`
	EnableReflection bool     `toml:"enable_reflection" yaml:"enable_reflection"`
	ReadTimeout      Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout     Duration `toml:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout  Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
	AllowedOrigins   []string `toml:"allowed_origins" yaml:"allowed_origins"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		General: GeneralConfig{
			Name:        "calc",
			Environment: "development",
			DataDir:     "./data",
			LogLevel:    "info",
			LogFormat:   "text",
		},
		Calc: CalcConfig{
			DivisionPolicy:  mdwevaluator.DivisionStrict.String(),
			CharacterPolicy: mdwparser.CharacterLenient.String(),
			MaxInputLength:  mdwparser.DefaultMaxInputLength,
			CacheSize:       1000,
			CacheTTL:        Duration{10 * time.Minute},
		},
		History: HistoryConfig{
			Enabled:    true,
			Path:       "./data/history.db",
			MaxEntries: 1000,
		},
		Server: ServerConfig{
			Host:             "0.0.0.0",
			GRPCPort:         9300,
			HTTPPort:         8300,
			EnableReflection: true,
			ReadTimeout:      Duration{15 * time.Second},
			WriteTimeout:     Duration{15 * time.Second},
			ShutdownTimeout:  Duration{10 * time.Second},
		},
	}
}

// Load loads configuration from a TOML or YAML file, chosen by extension.
// Values missing in the file keep their defaults; environment overrides
// are applied last.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mdwerror.Wrap(err, "config file not found").
				WithCode(mdwerror.CodeNotFound).
				WithOperation("config.Load").
				WithDetail("path", path)
		}
		return nil, mdwerror.Wrap(err, "failed to read config file").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	cfg, err := Parse(content, detectFormat(path))
	if err != nil {
		return nil, err
	}
	cfg.path = path

	cfg.ApplyEnv()
	cfg.expandEnvVars()

	return cfg, nil
}

// LoadFromEnv resolves the configuration file from path, CALC_CONFIG or
// DefaultPath in that order. Without any file the defaults are used.
func LoadFromEnv(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		return Load(path)
	}

	if _, err := os.Stat(DefaultPath); err == nil {
		return Load(DefaultPath)
	}

	cfg := Default()
	cfg.ApplyEnv()
	cfg.expandEnvVars()
	return cfg, nil
}

// Parse decodes content over the defaults
func Parse(content []byte, format Format) (*Config, error) {
	cfg := Default()

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, mdwerror.Wrap(err, "YAML parse error").
				WithCode(mdwerror.CodeInvalidConfig).
				WithOperation("config.Parse")
		}
	default:
		md, err := toml.Decode(string(content), cfg)
		if err != nil {
			return nil, mdwerror.Wrap(err, "TOML parse error").
				WithCode(mdwerror.CodeInvalidConfig).
				WithOperation("config.Parse")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, mdwerror.Newf("unknown configuration keys: %v", undecoded).
				WithCode(mdwerror.CodeInvalidConfig).
				WithOperation("config.Parse")
		}
	}

	return cfg, nil
}

// Format identifies the file format
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// String returns the format name
func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "toml"
}

// detectFormat determines the configuration format from file extension
func detectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// ApplyEnv overrides values from CALC_* environment variables
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.General.LogLevel = v
	}
	if v := os.Getenv(EnvDivisionPolicy); v != "" {
		c.Calc.DivisionPolicy = v
	}
	if v := os.Getenv(EnvCharacterPolicy); v != "" {
		c.Calc.CharacterPolicy = v
	}
	if v := os.Getenv(EnvHistoryPath); v != "" {
		c.History.Path = v
	}
	if v := os.Getenv(EnvGRPCPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.GRPCPort = port
		} else {
			c.Server.GRPCPort = -1
		}
	}
	if v := os.Getenv(EnvHTTPPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.HTTPPort = port
		} else {
			c.Server.HTTPPort = -1
		}
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.General.LogFile = os.ExpandEnv(c.General.LogFile)
	c.History.Path = os.ExpandEnv(c.History.Path)
}

// Validate checks policies, ports and limits
func (c *Config) Validate() error {
	var problems []string

	if _, err := mdwlog.ParseLevel(c.General.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("general.log_level: unknown level %q", c.General.LogLevel))
	}
	if _, err := mdwlog.ParseFormat(c.General.LogFormat); err != nil {
		problems = append(problems, fmt.Sprintf("general.log_format: unknown format %q", c.General.LogFormat))
	}
	if _, err := mdwevaluator.ParseDivisionPolicy(c.Calc.DivisionPolicy); err != nil {
		problems = append(problems, "calc.division_policy: "+err.Error())
	}
	if _, err := mdwparser.ParseCharacterPolicy(c.Calc.CharacterPolicy); err != nil {
		problems = append(problems, "calc.character_policy: "+err.Error())
	}
	if c.Calc.MaxInputLength < 0 {
		problems = append(problems, "calc.max_input_length: must not be negative")
	} else if c.Calc.MaxInputLength > mdwparser.MaxAllowedInputLength {
		problems = append(problems, fmt.Sprintf("calc.max_input_length: must not exceed %d", mdwparser.MaxAllowedInputLength))
	}
	if c.Calc.CacheSize < 0 {
		problems = append(problems, "calc.cache_size: must not be negative")
	}
	if c.History.Enabled && c.History.Path == "" {
		problems = append(problems, "history.path: required when history is enabled")
	}
	if c.History.MaxEntries < 0 {
		problems = append(problems, "history.max_entries: must not be negative")
	}
	if !validPort(c.Server.GRPCPort) {
		problems = append(problems, fmt.Sprintf("server.grpc_port: invalid port %d", c.Server.GRPCPort))
	}
	if !validPort(c.Server.HTTPPort) {
		problems = append(problems, fmt.Sprintf("server.http_port: invalid port %d", c.Server.HTTPPort))
	}

	if len(problems) > 0 {
		return mdwerror.New("invalid configuration: "+strings.Join(problems, "; ")).
			WithSeverity(mdwerror.SeverityCritical).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Validate").
			WithDetail("problems", problems).
			WithDetail("path", c.path)
	}
	return nil
}

func validPort(port int) bool {
	return port > 0 && port <= 65535
}

// Path returns the file the configuration was loaded from
func (c *Config) Path() string {
	return c.path
}

// DivisionPolicy returns the parsed division policy. Call Validate first.
func (c *Config) DivisionPolicy() mdwevaluator.DivisionPolicy {
	policy, _ := mdwevaluator.ParseDivisionPolicy(c.Calc.DivisionPolicy)
	return policy
}

// CharacterPolicy returns the parsed character policy. Call Validate first.
func (c *Config) CharacterPolicy() mdwparser.CharacterPolicy {
	policy, _ := mdwparser.ParseCharacterPolicy(c.Calc.CharacterPolicy)
	return policy
}
