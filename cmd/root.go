package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"edgedeploy/internal/api"
	"edgedeploy/internal/cli"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution, including runs where
	// some app instances reported failures.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (operation failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfig indicates invalid or missing configuration.
	ExitCodeConfig = 2
	// ExitCodeAuthFailed indicates the console login failed.
	ExitCodeAuthFailed = 3
	// ExitCodeTimeout indicates a cluster did not become ready in time.
	ExitCodeTimeout = 4
)

// rootCmd represents the base command for the edgedeploy application.
var rootCmd = &cobra.Command{
	Use:   "edgedeploy",
	Short: "Deploy an application to edge cloudlets",
	Long: `edgedeploy reconciles an application, the clusters it runs on and its
app instances on an edge control plane against the definitions kept in the
repository (.mobiledgex/app.yml and .mobiledgex/appinsts.yml).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// SetVersion sets the version for the root command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the root command and exits with a code describing the
// failure, if any.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "edgedeploy version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var cfgErr *api.ConfigurationError
	if errors.As(err, &cfgErr) {
		return ExitCodeConfig
	}

	var authErr *api.AuthenticationError
	if errors.As(err, &authErr) {
		return ExitCodeAuthFailed
	}

	var timeoutErr *api.ProvisioningTimeoutError
	if errors.As(err, &timeoutErr) {
		return ExitCodeTimeout
	}

	// Default to general error
	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newDeployCmd())
}
