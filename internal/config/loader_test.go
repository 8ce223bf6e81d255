package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"edgedeploy/internal/api"
)

// writeFile creates a file below dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSettings_DefaultOnly(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "non-existent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, GetDefaultSettings(), settings)
	assert.Equal(t, 30*time.Second, settings.CreateTimeout)
	assert.Equal(t, 10*time.Second, settings.PollInterval)
	assert.Equal(t, 30*time.Minute, settings.ReadyTimeout)
	assert.Equal(t, 300*time.Second, settings.RequestTimeout)
}

func TestLoadSettings_PartialFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "deploy.yaml", `
domain: edge.example.com
pollInterval: 5s
readyTimeout: 1h
`)
	settings, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "edge.example.com", settings.Domain)
	assert.Equal(t, 5*time.Second, settings.PollInterval)
	assert.Equal(t, time.Hour, settings.ReadyTimeout)
	assert.Equal(t, 30*time.Second, settings.CreateTimeout, "unset fields keep the default")
	assert.Equal(t, ProductionSetup, settings.Setup)
	assert.Equal(t, DefaultFlavor, settings.DefaultFlavor)
}

func TestLoadSettings_RoundTrip(t *testing.T) {
	want := GetDefaultSettings()
	want.Setup = "staging"
	want.DefaultFlavor = "m4.large"
	data, err := yaml.Marshal(&want)
	require.NoError(t, err)

	path := writeFile(t, t.TempDir(), "deploy.yaml", string(data))
	got, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed", content: "domain: [unterminated"},
		{name: "bad duration", content: "pollInterval: soon"},
		{name: "negative duration", content: "readyTimeout: -1m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "deploy.yaml", tt.content)
			_, err := LoadSettings(path)
			assert.ErrorIs(t, err, &api.ConfigurationError{})
		})
	}
}

const appYAML = `
region: EU
app:
  key:
    name: web
    organization: acme
    version: "1.0"
  image_path: docker.example.com/acme/web
  access_ports: tcp:80
  default_flavor:
    name: m4.medium
  deployment: docker
  scale_with_cluster: true
`

func TestLoadAppConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.yml", appYAML)

	cfg, err := LoadAppConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "EU", cfg.Region)
	assert.Equal(t, api.AppKey{Name: "web", Organization: "acme", Version: "1.0"}, cfg.App.Key)
	assert.Equal(t, "tcp:80", cfg.App.AccessPorts)
	assert.Equal(t, "m4.medium", cfg.App.DefaultFlavor.Name)
	assert.JSONEq(t, "true", string(cfg.App.Extra["scale_with_cluster"]), "unmodelled fields are kept")
}

func TestLoadAppConfig_DeclaredKeys(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.yml", `region: EU
app:
  key: {name: web, organization: acme, version: "1"}
  image_path: docker.example.com/acme/web:1
  access_ports: ""
`)

	cfg, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.App.Declares("access_ports"), "an empty value is still declared")
	assert.False(t, cfg.App.Declares("default_flavor"))
}

func TestLoadAppConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadAppConfig(filepath.Join(t.TempDir(), "app.yml"))
		var cfgErr *api.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Message, "not found")
	})

	t.Run("missing image", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "app.yml", "region: EU\napp:\n  key: {name: web, organization: acme, version: '1'}\n")
		_, err := LoadAppConfig(path)
		var cfgErr *api.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "app.image_path", cfgErr.Field)
	})

	t.Run("missing region and key", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "app.yml", "app:\n  image_path: img:1\n")
		_, err := LoadAppConfig(path)
		var cfgErr *api.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "region", cfgErr.Field)
		assert.Contains(t, cfgErr.Message, "app.key.name")
	})

	t.Run("not yaml", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "app.yml", "region: [")
		_, err := LoadAppConfig(path)
		assert.ErrorIs(t, err, &api.ConfigurationError{})
	})
}

const appInstsYAML = `
- appinst:
    key:
      cluster_inst_key:
        cluster_key:
          name: web-cluster
        cloudlet_key:
          name: berlin
          organization: tdg
- appinst:
    key:
      cluster_inst_key:
        cluster_key:
          name: shared
        cloudlet_key:
          name: munich
          organization: tdg
        organization: platform
`

func TestLoadAppInstsConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "appinsts.yml", appInstsYAML)

	entries, err := LoadAppInstsConfig(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "berlin", entries[0].AppInst.Key.ClusterInstKey.CloudletKey.Name)
	assert.Empty(t, entries[0].AppInst.Key.ClusterInstKey.Organization)
	assert.Equal(t, "platform", entries[1].AppInst.Key.ClusterInstKey.Organization)
}

func TestLoadAppInstsConfig_Missing(t *testing.T) {
	entries, err := LoadAppInstsConfig(filepath.Join(t.TempDir(), "appinsts.yml"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoadAppInstsConfig_InvalidEntry(t *testing.T) {
	path := writeFile(t, t.TempDir(), "appinsts.yml", "- appinst:\n    key:\n      cluster_inst_key:\n        cluster_key: {name: c}\n")
	_, err := LoadAppInstsConfig(path)

	var cfgErr *api.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "appinst.key.cluster_inst_key.cloudlet_key.name", cfgErr.Field)
	assert.Contains(t, err.Error(), "entry 0")
}
