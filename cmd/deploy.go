package cmd

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"edgedeploy/internal/cli"
	"edgedeploy/internal/config"
	"edgedeploy/internal/gateway"
	"edgedeploy/internal/reconciler"
	"edgedeploy/pkg/logging"
)

// deployOptions holds the flags of the deploy command.
type deployOptions struct {
	config.Options
	LogFormat string
	Debug     bool
	Quiet     bool
}

func newDeployCmd() *cobra.Command {
	opts := &deployOptions{}

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Create or update the app and its instances",
		Long: `Deploy makes the control plane match the app definition:

  - the app is created, or updated with the fields that changed
  - every cluster an app instance runs on is created when missing
  - every app instance is created, or refreshed when it exists

Credentials are read from INPUT_USERNAME and INPUT_PASSWORD. An image_path
without a tag is tagged from --image-tag or GITHUB_REF.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.AppConfigPath, "appconfig", config.DefaultAppConfigPath, "Path to app config")
	flags.StringVar(&opts.AppInstsConfigPath, "appinstsconfig", config.DefaultAppInstsConfigPath, "Path to app instances config")
	flags.StringVarP(&opts.Setup, "setup", "s", "", "Setup to deploy app to (default from settings, \"main\" otherwise)")
	flags.StringVar(&opts.Console, "console", "", "Console address, overrides the address derived from the setup")
	flags.StringVar(&opts.Username, "username", "", "Console username (default $INPUT_USERNAME)")
	flags.StringVar(&opts.Password, "password", "", "Console password (default $INPUT_PASSWORD)")
	flags.StringVar(&opts.ImageTag, "image-tag", "", "Tag for an untagged image_path (default derived from $GITHUB_REF)")
	flags.StringVar(&opts.SettingsPath, "config", config.DefaultSettingsPath, "Path to settings file")
	flags.StringVar(&opts.LogFormat, "log-format", defaultLogFormat(), "Log format: text or actions")
	flags.BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	flags.BoolVarP(&opts.Quiet, "quiet", "q", false, "Suppress the progress spinner and summary table")

	return cmd
}

func defaultLogFormat() string {
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return string(logging.FormatActions)
	}
	return string(logging.FormatText)
}

func runDeploy(cmd *cobra.Command, opts *deployOptions) error {
	if err := initLogging(cmd, opts); err != nil {
		return err
	}

	d, err := config.Resolve(opts.Options)
	if err != nil {
		logging.Error("Deploy", err, "Invalid deploy configuration")
		return err
	}

	outputs := cli.NewOutputWriter(cmd.OutOrStdout())
	if err := outputs.SetTarget(d.Setup, d.Desired.App.ImagePath); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gw, err := gateway.New(ctx, d.Console, d.Credentials, gateway.WithRequestTimeout(d.Settings.RequestTimeout))
	if err != nil {
		logging.Error("Deploy", err, "Failed to log in to the console: %s", d.Console)
		return err
	}
	logging.Info("Deploy", "Deploying %s to %s (run %s)", d.Desired.App.ImagePath, d.Setup, gw.RunID())

	metrics := reconciler.NewMetrics()
	r := reconciler.New(gw,
		reconciler.WithCreateClusterTimeout(d.Settings.CreateTimeout),
		reconciler.WithPollInterval(d.Settings.PollInterval),
		reconciler.WithReadyTimeout(d.Settings.ReadyTimeout),
		reconciler.WithMetrics(metrics),
		reconciler.WithProgress(progressFor(cmd.ErrOrStderr(), opts.Quiet)),
	)

	res, err := r.Run(ctx, d.Desired)
	if !opts.Quiet {
		cli.RenderSummary(cmd.ErrOrStderr(), d.Setup, res, metrics.Summary(), err)
	}
	if err != nil {
		logging.Error("Deploy", err, "Deploy failed")
		return err
	}
	return outputs.SetResult(res)
}

func initLogging(cmd *cobra.Command, opts *deployOptions) error {
	format, err := logging.ParseFormat(opts.LogFormat)
	if err != nil {
		return err
	}
	level := logging.LevelFromEnv(logging.LevelInfo)
	if opts.Debug {
		level = logging.LevelDebug
	}

	// Workflow commands are only picked up from stdout.
	var out io.Writer = cmd.ErrOrStderr()
	if format == logging.FormatActions {
		out = cmd.OutOrStdout()
	}
	logging.Init(format, level, out)
	return nil
}

func progressFor(w io.Writer, quiet bool) reconciler.Progress {
	if quiet {
		return nil
	}
	return cli.NewSpinnerProgress(w)
}
