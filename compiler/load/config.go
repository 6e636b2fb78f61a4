package load

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/syssam/gqlbind/compiler/gen"
)

// FileConfig is the gqlbind.yml configuration file. Every key has a CLI flag
// counterpart; flags win when both are set.
type FileConfig struct {
	// Schema is the path to the schema file, SDL or introspection JSON.
	Schema string `yaml:"schema,omitempty"`

	// Queries is the operation document path(s); globs are accepted.
	Queries StringList `yaml:"queries,omitempty"`

	// Package is the output package name of the generated files.
	Package string `yaml:"package,omitempty"`

	// Target is the output directory.
	Target string `yaml:"target,omitempty"`

	// Header is an optional comment added at the top of each generated file.
	Header string `yaml:"header,omitempty"`

	// Mode selects the integration surface: standalone or embedded.
	Mode string `yaml:"mode,omitempty"`

	// Operation restricts generation to the named operation.
	Operation string `yaml:"operation,omitempty"`

	// StructName is the host type embedded mode attaches to.
	StructName string `yaml:"struct_name,omitempty"`

	// VariablesDerives lists extra implementations for variables types.
	VariablesDerives StringList `yaml:"variables_derives,omitempty"`

	// ResponseDerives lists extra implementations for response types.
	ResponseDerives StringList `yaml:"response_derives,omitempty"`

	// Deprecation is the deprecation strategy: allow, deny, or warn.
	Deprecation string `yaml:"deprecation,omitempty"`

	// Visibility of generated top-level identifiers: public or private.
	Visibility string `yaml:"visibility,omitempty"`

	// Scalars maps custom scalar names to Go types.
	Scalars map[string]string `yaml:"scalars,omitempty"`

	// Snapshot is the path of the cached schema snapshot; empty disables
	// caching.
	Snapshot string `yaml:"snapshot,omitempty"`
}

// StringList is a YAML type that can be either a string or a list of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler for StringList.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = []string{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("expected string or list, got %v", node.Kind)
	}
}

// MarshalYAML implements yaml.Marshaler for StringList.
func (s StringList) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	return []string(s), nil
}

// LoadConfig loads a gqlbind.yml configuration file. A missing file yields
// an empty configuration, so running with flags alone needs no file at all.
func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &FileConfig{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// SaveConfig writes a gqlbind.yml configuration file.
func SaveConfig(path string, cfg *FileConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Options maps the file configuration onto generation options. Zero-valued
// keys contribute nothing, so later options from CLI flags can override.
func (c *FileConfig) Options() []gen.Option {
	var opts []gen.Option
	if c.Package != "" {
		opts = append(opts, gen.WithPackage(c.Package))
	}
	if c.Target != "" {
		opts = append(opts, gen.WithTarget(c.Target))
	}
	if c.Header != "" {
		opts = append(opts, gen.WithHeader(c.Header))
	}
	if c.Mode != "" {
		opts = append(opts, gen.WithMode(gen.Mode(c.Mode)))
	}
	if c.Operation != "" {
		opts = append(opts, gen.WithOperationName(c.Operation))
	}
	if c.StructName != "" {
		opts = append(opts, gen.WithStructName(c.StructName))
	}
	if len(c.VariablesDerives) > 0 {
		opts = append(opts, gen.WithVariablesDerives(c.VariablesDerives...))
	}
	if len(c.ResponseDerives) > 0 {
		opts = append(opts, gen.WithResponseDerives(c.ResponseDerives...))
	}
	if c.Deprecation != "" {
		opts = append(opts, gen.WithDeprecationStrategy(gen.DeprecationStrategy(c.Deprecation)))
	}
	if c.Visibility != "" {
		opts = append(opts, gen.WithVisibility(gen.Visibility(c.Visibility)))
	}
	if len(c.Scalars) > 0 {
		opts = append(opts, gen.WithScalars(c.Scalars))
	}
	return opts
}
