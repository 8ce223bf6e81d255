package config

import (
	"time"

	"edgedeploy/internal/gateway"
	"edgedeploy/internal/reconciler"
)

const (
	// DefaultDomain is the domain console addresses are built on.
	DefaultDomain = "mobiledgex.net"

	// ProductionSetup is the reserved setup name selecting the bare
	// production console.
	ProductionSetup = "main"

	// DefaultFlavor sizes clusters created for an app without default_flavor.
	DefaultFlavor = "m4.small"

	// DefaultDeployment is the cluster deployment type for an app without one.
	DefaultDeployment = "kubernetes"

	// DefaultAppConfigPath and DefaultAppInstsConfigPath are the desired-state
	// documents read when no path is given.
	DefaultAppConfigPath      = ".mobiledgex/app.yml"
	DefaultAppInstsConfigPath = ".mobiledgex/appinsts.yml"

	// DefaultSettingsPath is the optional settings file.
	DefaultSettingsPath = ".mobiledgex/deploy.yaml"
)

// GetDefaultSettings returns the settings used when no settings file exists.
func GetDefaultSettings() Settings {
	return Settings{
		Domain:            DefaultDomain,
		Setup:             ProductionSetup,
		RequestTimeout:    gateway.DefaultRequestTimeout,
		CreateTimeout:     reconciler.DefaultCreateClusterTimeout,
		PollInterval:      reconciler.DefaultPollInterval,
		ReadyTimeout:      reconciler.DefaultReadyTimeout,
		DefaultFlavor:     DefaultFlavor,
		DefaultDeployment: DefaultDeployment,
	}
}

// withDefaults fills zero fields from the defaults.
func (s Settings) withDefaults() Settings {
	d := GetDefaultSettings()
	if s.Domain == "" {
		s.Domain = d.Domain
	}
	if s.Setup == "" {
		s.Setup = d.Setup
	}
	for _, f := range []struct {
		v   *time.Duration
		def time.Duration
	}{
		{&s.RequestTimeout, d.RequestTimeout},
		{&s.CreateTimeout, d.CreateTimeout},
		{&s.PollInterval, d.PollInterval},
		{&s.ReadyTimeout, d.ReadyTimeout},
	} {
		if *f.v == 0 {
			*f.v = f.def
		}
	}
	if s.DefaultFlavor == "" {
		s.DefaultFlavor = d.DefaultFlavor
	}
	if s.DefaultDeployment == "" {
		s.DefaultDeployment = d.DefaultDeployment
	}
	return s
}
