package renderers

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below via errors.Is.
var (
	// ErrEncoding is matched by EncodingError.
	ErrEncoding = errors.New("renderers: encoding failed")

	// ErrSerialization is matched by SerializationError.
	ErrSerialization = errors.New("renderers: serialization failed")

	// ErrResolution is matched by ResolutionError.
	ErrResolution = errors.New("renderers: url resolution failed")

	// ErrTemplate is matched by TemplateError.
	ErrTemplate = errors.New("renderers: template execution failed")
)

// EncodingError is returned when the codec cannot represent the API
// description as an OpenAPI document.
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("renderers: encode api description: %v", e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

func (e *EncodingError) Is(target error) bool { return target == ErrEncoding }

// SerializationError is returned when an encoded document cannot be written
// in the output format.
type SerializationError struct {
	Format string
	Err    error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("renderers: serialize %s: %v", e.Format, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

func (e *SerializationError) Is(target error) bool { return target == ErrSerialization }

// ResolutionError is returned when a configured URL name has no target.
type ResolutionError struct {
	// Setting is the context key being computed, e.g. "LOGIN_URL".
	Setting string
	// Name is the configured route name or URL.
	Name string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("renderers: resolve %s %q: %v", e.Setting, e.Name, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

func (e *ResolutionError) Is(target error) bool { return target == ErrResolution }

// TemplateError is returned when the docs page template fails to execute.
type TemplateError struct {
	Template string
	Err      error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("renderers: execute template %q: %v", e.Template, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

func (e *TemplateError) Is(target error) bool { return target == ErrTemplate }
