package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyContent marks a model response that arrived without usable
// content, which the pipeline treats the same as a failed call.
var ErrEmptyContent = errors.New("model returned empty content")

// ValidationError reports a bad image batch: wrong count, an oversized file,
// or an oversized request. It maps to a client-error status and is never
// wrapped generically, so the message must name the violated bound.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func Validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// UpstreamError reports a failed or unusable AI-service call. Stage names
// the pipeline step that issued the call.
type UpstreamError struct {
	Stage string
	Err   error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return e.Stage + " failed"
	}
	return e.Stage + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func Upstreamf(stage, format string, args ...any) error {
	return &UpstreamError{Stage: stage, Err: fmt.Errorf(format, args...)}
}

// WrapUpstream annotates err with the originating stage. Existing
// UpstreamErrors keep their stage so the first failure point is preserved.
func WrapUpstream(stage string, err error) error {
	if err == nil {
		return nil
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return err
	}
	return &UpstreamError{Stage: stage, Err: err}
}

// ConfigurationError reports missing or unusable process configuration.
// It is fatal at startup and never produced per-request.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Key, e.Reason)
}

func Configf(key, format string, args ...any) error {
	return &ConfigurationError{Key: key, Reason: fmt.Sprintf(format, args...)}
}
