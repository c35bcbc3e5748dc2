package layout

import "fmt"

// The engine reports four error kinds. Construction problems surface
// as *ConfigError, encode-time value violations as *RangeError, short
// buffers on decode as *SizeError and unknown names or indices as
// *LookupError. All of them are matchable with errors.As.

// ConfigError reports an invalid definition: bad byte order, unknown
// type name, duplicate field, non-positive length and similar. It is
// always raised at construction time, never deferred to encode.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "layout: " + e.Reason
}

// RangeError reports a value that cannot be represented by the field
// it is being serialized into.
type RangeError struct {
	Field  string
	Reason string
}

func (e *RangeError) Error() string {
	if e.Field == "" {
		return "layout: " + e.Reason
	}
	return fmt.Sprintf("layout: field %q: %s", e.Field, e.Reason)
}

// SizeError reports a buffer that is too small for the codec reading
// or writing it.
type SizeError struct {
	Got  int
	Need int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("layout: buffer too small: got %d bytes, need %d", e.Got, e.Need)
}

// LookupError reports an unknown field, constant or index.
type LookupError struct {
	Name   string
	Reason string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("layout: %q: %s", e.Name, e.Reason)
}

func errConfigf(format string, args ...any) error {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

func errRangef(field, format string, args ...any) error {
	return &RangeError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func errSize(got, need int) error {
	return &SizeError{Got: got, Need: need}
}

func errLookupf(name, format string, args ...any) error {
	return &LookupError{Name: name, Reason: fmt.Sprintf(format, args...)}
}

// named wraps codec errors with the field name that triggered them so
// that nested failures stay attributable. The original error kind is
// preserved for errors.As.
func named(name string, err error) error {
	if err == nil {
		return nil
	}
	if re, ok := err.(*RangeError); ok && re.Field == "" {
		return &RangeError{Field: name, Reason: re.Reason}
	}
	return fmt.Errorf("field %q: %w", name, err)
}
