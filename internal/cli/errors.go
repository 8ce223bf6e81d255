package cli

import (
	"errors"
	"fmt"

	"edgedeploy/internal/api"
)

// Hint returns actionable guidance for err, or "" when there is none.
func Hint(err error) string {
	var authErr *api.AuthenticationError
	if errors.As(err, &authErr) {
		return fmt.Sprintf("check INPUT_USERNAME and INPUT_PASSWORD for %s", authErr.Console)
	}

	var timeoutErr *api.ProvisioningTimeoutError
	if errors.As(err, &timeoutErr) {
		return "the cluster may still be provisioning; rerun the deploy once it is ready"
	}

	var cfgErr *api.ConfigurationError
	if errors.As(err, &cfgErr) {
		return "fix the deploy configuration and rerun"
	}

	var transportErr *api.TransportError
	if errors.As(err, &transportErr) {
		switch transportErr.Kind {
		case api.TransportTLS:
			return "the console certificate could not be verified"
		case api.TransportDNS:
			return "check the setup name; the console address did not resolve"
		}
	}
	return ""
}

// FormatError renders err as a one-line diagnostic with an optional hint.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	msg := "Error: " + err.Error()
	if hint := Hint(err); hint != "" {
		msg += " (" + hint + ")"
	}
	return msg
}
