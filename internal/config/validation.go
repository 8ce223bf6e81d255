package config

import (
	"fmt"
	"strings"

	"edgedeploy/internal/api"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string) {
	*ve = append(*ve, ValidationError{Field: field, Message: message})
}

// Required adds an error when value is blank.
func (ve *ValidationErrors) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		ve.Add(field, "is required")
	}
}

// Err returns the collected errors as a *api.ConfigurationError naming the
// first offending field, or nil.
func (ve ValidationErrors) Err() error {
	if !ve.HasErrors() {
		return nil
	}
	return &api.ConfigurationError{Field: ve[0].Field, Message: ve.Error()}
}

// Validate checks the settings after defaults were applied.
func (s Settings) Validate() error {
	var errs ValidationErrors
	errs.Required("domain", s.Domain)
	if s.RequestTimeout < 0 {
		errs.Add("requestTimeout", "must not be negative")
	}
	if s.CreateTimeout < 0 {
		errs.Add("createTimeout", "must not be negative")
	}
	if s.PollInterval < 0 {
		errs.Add("pollInterval", "must not be negative")
	}
	if s.ReadyTimeout < 0 {
		errs.Add("readyTimeout", "must not be negative")
	}
	return errs.Err()
}

// Validate checks the app definition carries everything the reconcile needs.
func (c AppConfig) Validate() error {
	var errs ValidationErrors
	errs.Required("region", c.Region)
	errs.Required("app.key.name", c.App.Key.Name)
	errs.Required("app.key.organization", c.App.Key.Organization)
	errs.Required("app.key.version", c.App.Key.Version)
	errs.Required("app.image_path", c.App.ImagePath)
	return errs.Err()
}

// Validate checks an app instances entry. The cluster organization is
// optional; it defaults to the app organization.
func (c AppInstConfig) Validate() error {
	key := c.AppInst.Key.ClusterInstKey
	var errs ValidationErrors
	errs.Required("appinst.key.cluster_inst_key.cluster_key.name", key.ClusterKey.Name)
	errs.Required("appinst.key.cluster_inst_key.cloudlet_key.name", key.CloudletKey.Name)
	errs.Required("appinst.key.cluster_inst_key.cloudlet_key.organization", key.CloudletKey.Organization)
	return errs.Err()
}
