package gateway

import (
	"context"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/url"
	"strings"
	"syscall"

	"edgedeploy/internal/api"
)

// classifyTransportError wraps a failed round trip in an api.TransportError
// with the appropriate kind.
func classifyTransportError(err error, operation, endpoint string) *api.TransportError {
	return &api.TransportError{
		Operation: operation,
		Endpoint:  endpoint,
		Kind:      transportKind(err),
		Reason:    err,
	}
}

func transportKind(err error) api.TransportErrorKind {
	switch {
	case errors.Is(err, context.Canceled):
		return api.TransportCanceled
	case isTLSError(err):
		return api.TransportTLS
	case isDNSError(err):
		return api.TransportDNS
	case isTimeoutError(err):
		return api.TransportTimeout
	case isNetworkError(err):
		return api.TransportNetwork
	default:
		return api.TransportUnknown
	}
}

// isTLSError checks if the error is related to TLS/certificate issues.
func isTLSError(err error) bool {
	var certErr x509.CertificateInvalidError
	var hostErr x509.HostnameError
	var unknownAuthErr x509.UnknownAuthorityError
	var systemRootsErr x509.SystemRootsError
	var certErrPtr *x509.CertificateInvalidError
	var hostErrPtr *x509.HostnameError
	var unknownAuthErrPtr *x509.UnknownAuthorityError
	var systemRootsErrPtr *x509.SystemRootsError

	if errors.As(err, &certErr) || errors.As(err, &hostErr) ||
		errors.As(err, &unknownAuthErr) || errors.As(err, &systemRootsErr) ||
		errors.As(err, &certErrPtr) || errors.As(err, &hostErrPtr) ||
		errors.As(err, &unknownAuthErrPtr) || errors.As(err, &systemRootsErrPtr) {
		return true
	}

	errStr := err.Error()
	for _, keyword := range []string{"x509:", "tls:", "TLS handshake"} {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && !dnsErr.IsTimeout
}

// isTimeoutError checks if the error is a timeout.
func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// net.Error is an interface, so unwrap by hand.
	for e := err; e != nil; {
		if ne, ok := e.(net.Error); ok && ne.Timeout() {
			return true
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded")
}

// isNetworkError checks whether the connection failed or broke mid-exchange.
func isNetworkError(err error) bool {
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) ||
		errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) || errors.Is(err, syscall.EPIPE) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	errStr := err.Error()
	for _, keyword := range []string{
		"connection refused",
		"connection reset",
		"network is unreachable",
		"no route to host",
		"broken pipe",
		"dial tcp",
		"connect:",
		"EOF",
	} {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}
