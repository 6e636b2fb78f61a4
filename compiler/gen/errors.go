package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrIngestion indicates malformed schema or operation input.
	ErrIngestion = errors.New("gqlbind: ingestion failed")
	// ErrResolution indicates a name that resolves to nothing in the schema.
	ErrResolution = errors.New("gqlbind: resolution failed")
	// ErrPolicy indicates use of a deprecated item under the deny strategy.
	ErrPolicy = errors.New("gqlbind: deprecation policy violation")
	// ErrConfig indicates a configuration error.
	ErrConfig = errors.New("gqlbind: invalid configuration")
)

// IngestionError represents malformed schema or operation input. It aborts
// the whole generation run.
type IngestionError struct {
	Source  string // file or document name, if known
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *IngestionError) Error() string {
	var b strings.Builder
	b.WriteString("gqlbind: ingestion error")
	if e.Source != "" {
		b.WriteString(" in ")
		b.WriteString(e.Source)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *IngestionError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for IngestionError.
func (e *IngestionError) Is(target error) bool {
	return target == ErrIngestion
}

// NewIngestionError creates a new IngestionError.
func NewIngestionError(source, message string, cause error) *IngestionError {
	return &IngestionError{
		Source:  source,
		Message: message,
		Cause:   cause,
	}
}

// ResolutionError represents a type or field name that resolves to nothing
// in any schema table. It is fatal for the operation being compiled.
type ResolutionError struct {
	Operation string
	Field     string
	TypeName  string
	Message   string
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	var b strings.Builder
	b.WriteString("gqlbind: resolution error")
	if e.Operation != "" {
		b.WriteString(" in operation ")
		b.WriteString(e.Operation)
	}
	if e.Field != "" {
		b.WriteString(" on field ")
		b.WriteString(e.Field)
	}
	if e.TypeName != "" {
		fmt.Fprintf(&b, " (type %s)", e.TypeName)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for ResolutionError.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrResolution
}

// NewResolutionError creates a new ResolutionError.
func NewResolutionError(operation, field, typeName, message string) *ResolutionError {
	return &ResolutionError{
		Operation: operation,
		Field:     field,
		TypeName:  typeName,
		Message:   message,
	}
}

// PolicyError represents use of a deprecated field or enum value under the
// deny deprecation strategy.
type PolicyError struct {
	Operation string
	Field     string
	Reason    string
}

// Error implements the error interface.
func (e *PolicyError) Error() string {
	var b strings.Builder
	b.WriteString("gqlbind: deprecated item used")
	if e.Operation != "" {
		b.WriteString(" in operation ")
		b.WriteString(e.Operation)
	}
	if e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Field)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, " (deprecated: %s)", e.Reason)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for PolicyError.
func (e *PolicyError) Is(target error) bool {
	return target == ErrPolicy
}

// NewPolicyError creates a new PolicyError.
func NewPolicyError(operation, field, reason string) *PolicyError {
	return &PolicyError{
		Operation: operation,
		Field:     field,
		Reason:    reason,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("gqlbind: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("gqlbind: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// IsIngestionError reports whether the error is an IngestionError.
func IsIngestionError(err error) bool {
	var ingErr *IngestionError
	return errors.As(err, &ingErr)
}

// IsResolutionError reports whether the error is a ResolutionError.
func IsResolutionError(err error) bool {
	var resErr *ResolutionError
	return errors.As(err, &resErr)
}

// IsPolicyError reports whether the error is a PolicyError.
func IsPolicyError(err error) bool {
	var polErr *PolicyError
	return errors.As(err, &polErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
