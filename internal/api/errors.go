package api

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// AuthenticationError indicates the login exchange with the console failed.
// It is fatal for the whole run; there is no retry.
type AuthenticationError struct {
	// Console is the base console address the login was attempted against.
	Console string

	// StatusCode is the HTTP status returned by the login endpoint, or 0
	// when no response was received.
	StatusCode int

	// Body is the (truncated) response body.
	Body string

	// Reason is the underlying error, if any.
	Reason error
}

func (e *AuthenticationError) Error() string {
	if e.Reason != nil {
		return fmt.Sprintf("failed to log in to the console %s: %v", e.Console, e.Reason)
	}
	return fmt.Sprintf("failed to log in to the console %s: status %d", e.Console, e.StatusCode)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Reason
}

// Is allows errors.Is() to work with wrapped errors.
func (e *AuthenticationError) Is(target error) bool {
	_, ok := target.(*AuthenticationError)
	return ok
}

// OperationFailedError indicates the control plane answered an operation
// with a status outside the accepted set.
type OperationFailedError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *OperationFailedError) Error() string {
	return fmt.Sprintf("operation %s failed: status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// Is allows errors.Is() to work with wrapped errors.
func (e *OperationFailedError) Is(target error) bool {
	_, ok := target.(*OperationFailedError)
	return ok
}

// MalformedResponseError indicates a response that violates the control
// plane's contract: unparseable JSON, a record that is not an object, or a
// non-numeric result code.
type MalformedResponseError struct {
	// Operation is set by the gateway; it is empty when the error comes
	// straight from the normalizer or the evaluator.
	Operation string
	Reason    error
}

func (e *MalformedResponseError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("malformed response from %s: %v", e.Operation, e.Reason)
	}
	return fmt.Sprintf("malformed response: %v", e.Reason)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Reason
}

// Is allows errors.Is() to work with wrapped errors.
func (e *MalformedResponseError) Is(target error) bool {
	_, ok := target.(*MalformedResponseError)
	return ok
}

// ConfigurationError indicates a problem with caller supplied data: a
// missing required field or an accessor that cannot be resolved.
type ConfigurationError struct {
	// Field is the dotted path of the offending field, if known.
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Is allows errors.Is() to work with wrapped errors.
func (e *ConfigurationError) Is(target error) bool {
	_, ok := target.(*ConfigurationError)
	return ok
}

// NewConfigurationError creates a ConfigurationError for field.
func NewConfigurationError(field, messageFmt string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: fmt.Sprintf(messageFmt, args...)}
}

// ProvisioningTimeoutError indicates a Cluster Instance did not become ready
// within the wait budget.
type ProvisioningTimeoutError struct {
	Key       ClusterInstKey
	Waited    time.Duration
	LastState TrackedState
	// Observed is false when no poll ever returned the cluster.
	Observed bool
}

func (e *ProvisioningTimeoutError) Error() string {
	if !e.Observed {
		return fmt.Sprintf("timed out waiting for cluster %s after %s: cluster never appeared", e.Key, e.Waited.Round(time.Second))
	}
	return fmt.Sprintf("timed out waiting for cluster %s after %s: last state %s", e.Key, e.Waited.Round(time.Second), e.LastState)
}

// Is allows errors.Is() to work with wrapped errors.
func (e *ProvisioningTimeoutError) Is(target error) bool {
	_, ok := target.(*ProvisioningTimeoutError)
	return ok
}

// TransportErrorKind categorizes a transport level failure.
type TransportErrorKind int

const (
	// TransportUnknown indicates an unclassified transport error.
	TransportUnknown TransportErrorKind = iota
	// TransportTLS indicates a TLS/certificate verification error.
	TransportTLS
	// TransportNetwork indicates a connectivity error (refused, reset, unexpected EOF).
	TransportNetwork
	// TransportTimeout indicates the request budget elapsed.
	TransportTimeout
	// TransportDNS indicates a DNS resolution failure.
	TransportDNS
	// TransportCanceled indicates the caller cancelled the request.
	TransportCanceled
)

// String returns a human-readable name for the transport error kind.
func (k TransportErrorKind) String() string {
	switch k {
	case TransportTLS:
		return "TLS certificate error"
	case TransportNetwork:
		return "Network error"
	case TransportTimeout:
		return "Request timeout"
	case TransportDNS:
		return "DNS resolution error"
	case TransportCanceled:
		return "Request canceled"
	default:
		return "Transport error"
	}
}

// TransportError indicates an operation did not complete at the transport
// level, as opposed to being answered with a rejected status.
type TransportError struct {
	Operation string
	Endpoint  string
	Kind      TransportErrorKind
	Reason    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s calling %s (%s): %v", e.Kind, e.Operation, e.Endpoint, e.Reason)
}

func (e *TransportError) Unwrap() error {
	return e.Reason
}

// Ambiguous reports whether the request may have reached the control plane
// and be taking effect even though the client never saw the answer.
func (e *TransportError) Ambiguous() bool {
	return e.Kind == TransportTimeout || e.Kind == TransportNetwork
}

// IsAmbiguousTransportError reports whether err is or wraps an ambiguous
// TransportError.
func IsAmbiguousTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Ambiguous()
}

// PartialBatchFailure records an Application Instance operation whose batch
// status reported failures. It is not fatal; the run continues.
type PartialBatchFailure struct {
	Operation string
	Key       AppInstKey
	Messages  []string
}

func (e *PartialBatchFailure) Error() string {
	return fmt.Sprintf("%s for %s reported failures: %s", e.Operation, e.Key.ClusterInstKey, strings.Join(e.Messages, "; "))
}
