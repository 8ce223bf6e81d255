package config

import (
	"fmt"
	"os"

	"edgedeploy/internal/api"
	"edgedeploy/pkg/logging"
)

// Options are the caller supplied inputs of Resolve. Empty fields fall back
// to the settings file, the environment or the defaults.
type Options struct {
	SettingsPath       string
	AppConfigPath      string
	AppInstsConfigPath string
	Setup              string
	Console            string
	Username           string
	Password           string
	ImageTag           string
}

// Resolve loads the settings and desired-state documents and resolves them
// into a Deployment. Every failure is a *api.ConfigurationError.
func Resolve(opts Options) (*Deployment, error) {
	settingsPath := valueOr(opts.SettingsPath, DefaultSettingsPath)
	settings, err := LoadSettings(settingsPath)
	if err != nil {
		return nil, err
	}

	creds, err := LoadCredentials(opts.Username, opts.Password)
	if err != nil {
		return nil, err
	}

	appCfg, err := LoadAppConfig(valueOr(opts.AppConfigPath, DefaultAppConfigPath))
	if err != nil {
		return nil, err
	}
	image, err := ResolveImage(appCfg.App.ImagePath, opts.ImageTag, os.Getenv(EnvGitHubRef))
	if err != nil {
		return nil, fmt.Errorf("failed to load app definition: %w", err)
	}
	appCfg.App.ImagePath = image

	entries, err := LoadAppInstsConfig(valueOr(opts.AppInstsConfigPath, DefaultAppInstsConfigPath))
	if err != nil {
		return nil, err
	}

	setup := valueOr(opts.Setup, settings.Setup)
	d := &Deployment{
		Setup:       setup,
		Console:     ConsoleAddress(setup, settings.Domain, opts.Console),
		Credentials: creds,
		Settings:    settings,
		Desired: api.DesiredState{
			Region:   appCfg.Region,
			App:      appCfg.App,
			AppInsts: resolveAppInsts(appCfg, entries),
			Cluster:  clusterTemplate(appCfg.App, settings),
		},
	}

	logging.Debug("ConfigLoader", "Deploying %s to %s (%s), %d app instance(s)", d.Desired.App.Key, d.Setup, d.Console, len(d.Desired.AppInsts))
	return d, nil
}

// resolveAppInsts binds each entry to the app: the app key is injected and
// the cluster organization defaults to the app organization.
func resolveAppInsts(app AppConfig, entries []AppInstConfig) []api.AppInst {
	out := make([]api.AppInst, 0, len(entries))
	for _, entry := range entries {
		ai := entry.AppInst
		ai.Key.AppKey = app.App.Key
		if ai.Key.ClusterInstKey.Organization == "" {
			ai.Key.ClusterInstKey.Organization = app.App.Key.Organization
		}
		out = append(out, ai)
	}
	return out
}

// clusterTemplate takes the cluster flavor and deployment from the app,
// falling back to the settings.
func clusterTemplate(app api.App, settings Settings) api.ClusterTemplate {
	t := api.ClusterTemplate{
		Flavor:     settings.DefaultFlavor,
		Deployment: settings.DefaultDeployment,
	}
	if app.DefaultFlavor != nil && app.DefaultFlavor.Name != "" {
		t.Flavor = app.DefaultFlavor.Name
	}
	if app.Deployment != "" {
		t.Deployment = app.Deployment
	}
	return t
}

func valueOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
