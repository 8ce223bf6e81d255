package config

import (
	"time"

	"edgedeploy/internal/api"
	"edgedeploy/internal/gateway"
)

// Settings is the structure of the optional settings file.
type Settings struct {
	Domain string `yaml:"domain,omitempty"` // Console domain (default: mobiledgex.net)
	Setup  string `yaml:"setup,omitempty"`  // Setup deployed to when --setup is not given (default: main)

	RequestTimeout time.Duration `yaml:"requestTimeout,omitempty"` // Budget of every control plane call (default: 5m)
	CreateTimeout  time.Duration `yaml:"createTimeout,omitempty"`  // Budget of CreateClusterInst (default: 30s)
	PollInterval   time.Duration `yaml:"pollInterval,omitempty"`   // Delay between cluster readiness polls (default: 10s)
	ReadyTimeout   time.Duration `yaml:"readyTimeout,omitempty"`   // Wait for cluster readiness (default: 30m)

	DefaultFlavor     string `yaml:"defaultFlavor,omitempty"`     // Cluster flavor when the app has no default_flavor
	DefaultDeployment string `yaml:"defaultDeployment,omitempty"` // Cluster deployment when the app has none
}

// AppConfig is the app definition document.
type AppConfig struct {
	Region string  `json:"region"`
	App    api.App `json:"app"`
}

// AppInstConfig is one entry of the app instances document. Only the
// cluster_inst_key of the instance key is read from the document; the
// app_key and region come from the app definition.
type AppInstConfig struct {
	AppInst api.AppInst `json:"appinst"`
}

// Deployment is everything a deploy run needs, fully resolved.
type Deployment struct {
	Setup       string
	Console     string
	Credentials gateway.Credentials
	Desired     api.DesiredState
	Settings    Settings
}
