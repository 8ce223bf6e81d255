package config

import (
	"os"

	"edgedeploy/internal/api"
	"edgedeploy/internal/gateway"
)

// Environment variables carrying the console credentials.
const (
	EnvUsername = "INPUT_USERNAME"
	EnvPassword = "INPUT_PASSWORD"
)

// LoadCredentials returns the console credentials. Non-empty arguments win
// over the environment. Both values are mandatory.
func LoadCredentials(username, password string) (gateway.Credentials, error) {
	if username == "" {
		username = os.Getenv(EnvUsername)
	}
	if password == "" {
		password = os.Getenv(EnvPassword)
	}
	if username == "" {
		return gateway.Credentials{}, api.NewConfigurationError(EnvUsername, "mandatory variable not set: %s", EnvUsername)
	}
	if password == "" {
		return gateway.Credentials{}, api.NewConfigurationError(EnvPassword, "mandatory variable not set: %s", EnvPassword)
	}
	return gateway.Credentials{Username: username, Password: password}, nil
}
