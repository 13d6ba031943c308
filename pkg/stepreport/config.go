package stepreport

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvName              = "STEPREPORT_NAME"
	EnvTester            = "STEPREPORT_TESTER"
	EnvOutputDir         = "STEPREPORT_OUTPUT_DIR"
	EnvZipReport         = "STEPREPORT_ZIP"
	EnvDisableDebugPrint = "STEPREPORT_DISABLE_DEBUG_PRINT"
	EnvDisableDebugLog   = "STEPREPORT_DISABLE_DEBUG_LOG"
	EnvNoColor           = "STEPREPORT_NO_COLOR"
	EnvDisableReporter   = "STEPREPORT_DISABLE_REPORTER"
	EnvLogFormat         = "STEPREPORT_LOG_FORMAT"
	EnvLogLevel          = "STEPREPORT_LOG_LEVEL"
	EnvMetricsPath       = "STEPREPORT_METRICS_PATH"
)

// Config holds suite settings.
// Settings are merged from code, file and environment (last wins).
type Config struct {
	// Name is the report name. It names the document and the archive.
	Name string `yaml:"name"`

	// Tester is the author shown in the report header.
	Tester string `yaml:"tester"`

	// OutputDir is where the report and screenshots are written.
	// Default: the report name.
	OutputDir string `yaml:"outputDir"`

	// ZipReport packages the document and screenshots after rendering and
	// removes the loose files.
	ZipReport bool `yaml:"zipReport"`

	// DisableDebugPrint turns off console echo of step descriptions for
	// cases that did not set it themselves.
	DisableDebugPrint bool `yaml:"disableDebugPrint"`

	// DisableDebugLog turns off debug logging of step descriptions for
	// cases that did not set it themselves.
	DisableDebugLog bool `yaml:"disableDebugLog"`

	// NoColor disables colored console output.
	NoColor bool `yaml:"noColor"`

	// DisableReporter suppresses the console reporter.
	DisableReporter bool `yaml:"disableReporter"`

	// LogFormat is "console" or "json".
	LogFormat string `yaml:"logFormat"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel"`

	// MetricsPath, when set, receives a Prometheus text file after the run.
	MetricsPath string `yaml:"metricsPath"`
}

// MergeConfigs combines multiple configs into one.
// Later configs override earlier ones (last wins).
func MergeConfigs(configs ...*Config) *Config {
	result := &Config{}

	for _, cfg := range configs {
		if cfg == nil {
			continue
		}

		if cfg.Name != "" {
			result.Name = cfg.Name
		}
		if cfg.Tester != "" {
			result.Tester = cfg.Tester
		}
		if cfg.OutputDir != "" {
			result.OutputDir = cfg.OutputDir
		}
		if cfg.ZipReport {
			result.ZipReport = true
		}
		if cfg.DisableDebugPrint {
			result.DisableDebugPrint = true
		}
		if cfg.DisableDebugLog {
			result.DisableDebugLog = true
		}
		if cfg.NoColor {
			result.NoColor = true
		}
		if cfg.DisableReporter {
			result.DisableReporter = true
		}
		if cfg.LogFormat != "" {
			result.LogFormat = cfg.LogFormat
		}
		if cfg.LogLevel != "" {
			result.LogLevel = cfg.LogLevel
		}
		if cfg.MetricsPath != "" {
			result.MetricsPath = cfg.MetricsPath
		}
	}

	return result
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file %q: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file %q: %w", path, err)
	}
	return cfg, nil
}

// ConfigFromEnv reads STEPREPORT_* variables. A .env file in the working
// directory is loaded first when present; variables already set win.
func ConfigFromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	return &Config{
		Name:              envOrDefault(EnvName, ""),
		Tester:            envOrDefault(EnvTester, ""),
		OutputDir:         envOrDefault(EnvOutputDir, ""),
		ZipReport:         envOrDefaultBool(EnvZipReport, false),
		DisableDebugPrint: envOrDefaultBool(EnvDisableDebugPrint, false),
		DisableDebugLog:   envOrDefaultBool(EnvDisableDebugLog, false),
		NoColor:           envOrDefaultBool(EnvNoColor, false),
		DisableReporter:   envOrDefaultBool(EnvDisableReporter, false),
		LogFormat:         envOrDefault(EnvLogFormat, ""),
		LogLevel:          envOrDefault(EnvLogLevel, ""),
		MetricsPath:       envOrDefault(EnvMetricsPath, ""),
	}, nil
}

func envOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "y":
		return true
	case "0", "false", "no", "n":
		return false
	default:
		return fallback
	}
}
