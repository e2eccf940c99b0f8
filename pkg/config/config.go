// Package config loads the generator settings from defaults, an optional
// YAML settings file and TDG_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultSettingsFile is looked up in the working directory.
	DefaultSettingsFile = "taste-document-generator-settings.yaml"
	// SettingsPathEnv overrides the settings file location.
	SettingsPathEnv = "TDG_SETTINGS_PATH"

	DefaultTag                  = "TDG:"
	DefaultTemplateProcessor    = "template-processor"
	DefaultSystemObjectExporter = "Opus2.SystemObjectCLIExporter"
	DefaultLogLevel             = "info"
)

// DefaultSystemObjectTypes are exported when no type is configured.
var DefaultSystemObjectTypes = []string{
	"On-board memory",
	"On-board parameter",
	"File System",
	"Event definition",
	"Housekeeping parameter report structure",
}

// Settings contains every option of a generation run.
type Settings struct {
	InterfaceViewPath  string `yaml:"interface_view_path,omitempty" env:"TDG_INTERFACE_VIEW"`
	DeploymentViewPath string `yaml:"deployment_view_path,omitempty" env:"TDG_DEPLOYMENT_VIEW"`
	Opus2ModelPath     string `yaml:"opus2_model_path,omitempty" env:"TDG_OPUS2_MODEL"`
	TemplatePath       string `yaml:"template_path,omitempty" env:"TDG_TEMPLATE"`
	OutputPath         string `yaml:"output_path,omitempty" env:"TDG_OUTPUT"`
	// TemplateDirectory resolves relative hook arguments; empty means the template's directory.
	TemplateDirectory string `yaml:"template_directory,omitempty" env:"TDG_TEMPLATE_DIRECTORY"`
	// Target is the deployment target passed to the tools; empty skips system object export.
	Target string `yaml:"target,omitempty" env:"TDG_TARGET"`

	Tag                  string        `yaml:"tag" env:"TDG_TAG"`
	TemplateProcessor    string        `yaml:"template_processor" env:"TDG_TEMPLATE_PROCESSOR"`
	SystemObjectExporter string        `yaml:"system_object_exporter" env:"TDG_SYSTEM_OBJECT_EXPORTER"`
	SystemObjectTypes    []string      `yaml:"system_object_types" env:"TDG_SYSTEM_OBJECT_TYPES" envSeparator:";"`
	LogLevel             string        `yaml:"log_level" env:"TDG_LOG_LEVEL"`
	ProcessTimeout       time.Duration `yaml:"process_timeout,omitempty" env:"TDG_PROCESS_TIMEOUT"`
	// OpenDocument records whether the output should be opened after generation.
	OpenDocument bool `yaml:"open_document,omitempty" env:"TDG_OPEN_DOCUMENT"`
}

// Default returns the default settings.
func Default() Settings {
	return Settings{
		Tag:                  DefaultTag,
		TemplateProcessor:    DefaultTemplateProcessor,
		SystemObjectExporter: DefaultSystemObjectExporter,
		SystemObjectTypes:    append([]string(nil), DefaultSystemObjectTypes...),
		LogLevel:             DefaultLogLevel,
	}
}

// SettingsPath picks the settings file: the explicit path, else
// TDG_SETTINGS_PATH, else DefaultSettingsFile.
func SettingsPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(SettingsPathEnv); p != "" {
		return p
	}
	return DefaultSettingsFile
}

// Load applies the settings file at path and then the environment on top of
// the defaults. A missing file is not an error.
func Load(path string) (Settings, error) {
	s := Default()
	if err := s.loadFile(path); err != nil {
		return Settings{}, err
	}
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}

func (s *Settings) loadFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read settings %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("parse settings %s: %w", path, err)
	}
	return nil
}

// Save writes the settings as YAML.
func (s Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings %s: %w", path, err)
	}
	return nil
}

// Validate checks if the settings are usable
func (s Settings) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}
	if !validLogLevels[strings.ToLower(s.LogLevel)] {
		return errors.New("invalid log level: " + s.LogLevel)
	}
	if strings.TrimSpace(s.Tag) == "" {
		return errors.New("hook tag cannot be empty")
	}
	if s.ProcessTimeout < 0 {
		return errors.New("process timeout cannot be negative")
	}
	return nil
}
