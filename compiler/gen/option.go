package gen

import "maps"

// Option configures code generation.
type Option func(*Config) error

// WithPackage sets the output package name of the generated files.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithMode selects the integration surface: standalone or embedded.
func WithMode(mode Mode) Option {
	return func(c *Config) error {
		m, err := ParseMode(string(mode))
		if err != nil {
			return err
		}
		c.Mode = m
		return nil
	}
}

// WithOperationName restricts generation to the named operation.
// A filter that matches no operation in the documents fails generation.
func WithOperationName(name string) Option {
	return func(c *Config) error {
		c.OperationName = name
		return nil
	}
}

// WithStructName sets the host type that embedded mode attaches the
// query-building capability to.
func WithStructName(name string) Option {
	return func(c *Config) error {
		c.StructName = name
		return nil
	}
}

// WithVariablesDerives adds extra implementations for variables types.
// Recognized values: getters, stringer, msgpack.
func WithVariablesDerives(derives ...string) Option {
	return func(c *Config) error {
		if err := validateDerives("VariablesDerives", derives); err != nil {
			return err
		}
		c.VariablesDerives = append(c.VariablesDerives, derives...)
		return nil
	}
}

// WithResponseDerives adds extra implementations for response types.
// Recognized values: getters, stringer, msgpack.
func WithResponseDerives(derives ...string) Option {
	return func(c *Config) error {
		if err := validateDerives("ResponseDerives", derives); err != nil {
			return err
		}
		c.ResponseDerives = append(c.ResponseDerives, derives...)
		return nil
	}
}

// WithDeprecationStrategy sets the deprecation strategy to adopt.
func WithDeprecationStrategy(s DeprecationStrategy) Option {
	return func(c *Config) error {
		strategy, err := ParseDeprecationStrategy(string(s))
		if err != nil {
			return err
		}
		c.Deprecation = strategy
		return nil
	}
}

// WithVisibility sets the visibility of generated top-level identifiers.
func WithVisibility(v Visibility) Option {
	return func(c *Config) error {
		vis, err := ParseVisibility(string(v))
		if err != nil {
			return err
		}
		c.Visibility = vis
		return nil
	}
}

// WithQueryFile sets the physical query document path embedded into each
// operation file for build-cache invalidation.
func WithQueryFile(path string) Option {
	return func(c *Config) error {
		c.QueryFile = path
		return nil
	}
}

// WithSchemaFile sets the physical schema path embedded into the shared
// types file for build-cache invalidation.
func WithSchemaFile(path string) Option {
	return func(c *Config) error {
		c.SchemaFile = path
		return nil
	}
}

// WithScalar binds a custom scalar name to a Go type, e.g.
// WithScalar("Time", "time.Time"). Unbound custom scalars default to
// encoding/json.RawMessage.
func WithScalar(name, goType string) Option {
	return func(c *Config) error {
		if name == "" || goType == "" {
			return NewConfigError("Scalars", name, "scalar binding needs a name and a Go type")
		}
		if c.Scalars == nil {
			c.Scalars = make(map[string]string)
		}
		c.Scalars[name] = goType
		return nil
	}
}

// WithScalars binds multiple custom scalar names at once.
func WithScalars(bindings map[string]string) Option {
	return func(c *Config) error {
		if c.Scalars == nil {
			c.Scalars = make(map[string]string)
		}
		maps.Copy(c.Scalars, bindings)
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// NewConfig creates a new Config with the given options applied over the
// defaults: standalone mode, allow deprecation strategy, public visibility.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Mode:        ModeStandalone,
		Deprecation: DeprecationAllow,
		Visibility:  VisibilityPublic,
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
