package gen

import "fmt"

// Mode selects the integration surface of the emitted unit.
type Mode string

const (
	// ModeStandalone emits a free-standing library of request/response
	// types; each variables type satisfies the gqlbind.Requester contract.
	ModeStandalone Mode = "standalone"
	// ModeEmbedded attaches the query-building capability to an externally
	// supplied host type named by Config.StructName.
	ModeEmbedded Mode = "embedded"
)

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeStandalone, ModeEmbedded:
		return Mode(s), nil
	case "":
		return ModeStandalone, nil
	default:
		return "", NewConfigError("Mode", s, "unsupported mode; use standalone or embedded")
	}
}

// DeprecationStrategy governs whether use of a schema-deprecated field or
// enum value is tolerated during generation.
type DeprecationStrategy string

const (
	// DeprecationAllow tolerates deprecated items silently.
	DeprecationAllow DeprecationStrategy = "allow"
	// DeprecationDeny treats use of a deprecated item as a fatal error.
	DeprecationDeny DeprecationStrategy = "deny"
	// DeprecationWarn emits a non-fatal diagnostic and proceeds.
	DeprecationWarn DeprecationStrategy = "warn"
)

// ParseDeprecationStrategy parses a deprecation strategy name.
func ParseDeprecationStrategy(s string) (DeprecationStrategy, error) {
	switch DeprecationStrategy(s) {
	case DeprecationAllow, DeprecationDeny, DeprecationWarn:
		return DeprecationStrategy(s), nil
	case "":
		return DeprecationAllow, nil
	default:
		return "", NewConfigError("Deprecation", s, "unsupported strategy; use allow, deny, or warn")
	}
}

// Visibility controls whether generated top-level identifiers are exported.
type Visibility string

const (
	// VisibilityPublic exports all generated top-level identifiers.
	// It is the default when no visibility is configured.
	VisibilityPublic Visibility = "public"
	// VisibilityPrivate keeps generated top-level identifiers unexported.
	// Struct fields stay exported regardless: JSON round-tripping needs them.
	VisibilityPrivate Visibility = "private"
)

// ParseVisibility parses a visibility name.
func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(s) {
	case VisibilityPublic, VisibilityPrivate:
		return Visibility(s), nil
	case "":
		return VisibilityPublic, nil
	default:
		return "", NewConfigError("Visibility", s, "unsupported visibility; use public or private")
	}
}

// Recognized extra implementations ("derives") for variables and response
// types.
const (
	// DeriveGetters generates one getter method per field.
	DeriveGetters = "getters"
	// DeriveStringer generates a String method rendering indented JSON.
	DeriveStringer = "stringer"
	// DeriveMsgpack adds msgpack struct tags mirroring the json tags.
	DeriveMsgpack = "msgpack"
)

var knownDerives = map[string]bool{
	DeriveGetters:  true,
	DeriveStringer: true,
	DeriveMsgpack:  true,
}

func validateDerives(option string, derives []string) error {
	for _, d := range derives {
		if !knownDerives[d] {
			return NewConfigError(option, d, "unknown derive; use getters, stringer, or msgpack")
		}
	}
	return nil
}

// Config is the global code generation configuration. It is threaded
// explicitly into every component so the schema model and emitters stay
// referentially transparent.
type Config struct {
	// Package is the output package name of the generated files.
	Package string
	// Target is the output directory used by the writer.
	Target string
	// Header is an optional comment added at the top of each generated file.
	Header string
	// Mode selects standalone or embedded emission.
	Mode Mode
	// OperationName restricts generation to the named operation when set.
	OperationName string
	// StructName is the host type that embedded mode attaches to.
	StructName string
	// VariablesDerives lists extra implementations for variables types.
	VariablesDerives []string
	// ResponseDerives lists extra implementations for response types.
	ResponseDerives []string
	// Deprecation is the deprecation strategy to adopt.
	Deprecation DeprecationStrategy
	// Visibility applies to generated top-level identifiers.
	Visibility Visibility
	// QueryFile, when set, is embedded into each operation file so builds
	// are invalidated when the physical query document changes. The path is
	// threaded through verbatim, never read by the generator.
	QueryFile string
	// SchemaFile is the schema counterpart of QueryFile, embedded into the
	// shared types file.
	SchemaFile string
	// Scalars maps custom scalar names to Go types, e.g. "Time" -> "time.Time".
	Scalars map[string]string
}

// ident applies visibility and keyword safety to a generated top-level name.
func (c *Config) ident(name string) string {
	if c.Visibility == VisibilityPrivate {
		name = lowerFirst(name)
	}
	return keywordSafe(name)
}

// validate checks the parts of the configuration that options cannot,
// because they depend on each other.
func (c *Config) validate() error {
	if c.Package == "" {
		return NewConfigError("Package", nil, "output package name cannot be empty")
	}
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if c.Mode == ModeEmbedded && c.StructName == "" {
		return NewConfigError("StructName", nil, "embedded mode requires a host struct name")
	}
	if err := validateDerives("VariablesDerives", c.VariablesDerives); err != nil {
		return err
	}
	return validateDerives("ResponseDerives", c.ResponseDerives)
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{Package: %s, Mode: %s, Deprecation: %s, Visibility: %s}",
		c.Package, c.Mode, c.Deprecation, c.Visibility)
}
