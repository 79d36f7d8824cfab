package services

// Typed errors returned by services, mapped to HTTP statuses in one place
// by handlers.handleServiceError.

// ConfigError means a required credential or setting is absent. The request
// that needed it fails; the message says what to set.
type ConfigError struct{ Message string }

func (e *ConfigError) Error() string { return e.Message }

// ValidationError carries field-level messages for caller mistakes.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

// UpstreamError means the remote model endpoint answered with a non-success
// status. Message is the upstream-provided one when available.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string { return e.Message }

// MalformedOutputError means the model response could not be coerced into
// JSON by either the strict or the lenient path. The raw output is never
// attached; it can be arbitrarily large.
type MalformedOutputError struct{ Message string }

func (e *MalformedOutputError) Error() string { return e.Message }

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }
