package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"hdoc/source"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	ImagesConfig struct {
		BaseDir       string        `yaml:"base_dir"`
		UseBroken     bool          `yaml:"use_broken"`
		AllowRemote   bool          `yaml:"allow_remote"`
		RemoteTimeout time.Duration `yaml:"remote_timeout" validate:"gte=0"`
		RemoteToken   SecretString  `yaml:"remote_token"`
		ScaleFactor   float64       `yaml:"scale_factor" validate:"gte=0.0"`
		MaxWidth      int           `yaml:"max_width" validate:"gte=0"`
		RasterizeSVG  bool          `yaml:"rasterize_svg"`
		JPEGQuality   int           `yaml:"jpeg_quality_level" validate:"min=40,max=100"`
	}

	// StylesConfig holds default attributes applied before markup attributes
	// of elements, keyed by tag or class name.
	StylesConfig struct {
		Tags    map[string]map[string]string `yaml:"tags"`
		Classes map[string]map[string]string `yaml:"classes"`
	}

	DocumentConfig struct {
		StylesheetPath        string            `yaml:"stylesheet_path" sanitize:"assure_file_access"`
		Encoding              string            `yaml:"encoding"`
		BaseURL               string            `yaml:"base_url" validate:"omitempty,url"`
		Tokenizer             source.Kind       `yaml:"tokenizer" validate:"gte=0"`
		Sink                  SinkMode          `yaml:"sink" validate:"gte=0"`
		OutputNameTemplate    string            `yaml:"output_name_template"`
		FileNameTransliterate bool              `yaml:"file_name_transliterate"`
		Extensions            []string          `yaml:"extensions" validate:"dive,required"`
		Tags                  map[string]string `yaml:"tags"`
		Styles                StylesConfig      `yaml:"styles"`
		Images                ImagesConfig      `yaml:"images"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Document  DocumentConfig `yaml:"document"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

// decodeInto overlays YAML data on cfg. Unknown fields are errors, so typos
// in user configuration do not go unnoticed. Checks run once the last layer
// has been applied.
func decodeInto(cfg *Config, data []byte, check bool) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if !check {
		return nil
	}
	if err := gencfg.Sanitize(cfg); err != nil {
		return err
	}
	return gencfg.Validate(cfg)
}

// LoadConfiguration expands embedded template with defaults and applies
// configuration file from path (if any) on top of it.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	defaults, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}

	cfg := &Config{}
	if err := decodeInto(cfg, defaults, len(path) == 0); err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if len(path) == 0 {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := decodeInto(cfg, data, true); err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare returns expanded embedded configuration.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

// Dump renders configuration in effect, secrets are masked.
func Dump(cfg *Config) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return out, nil
}
