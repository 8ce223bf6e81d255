// Package config resolves the inputs of a deploy run.
//
// Three files are read, all relative to the working directory by default:
//   - .mobiledgex/deploy.yaml: optional settings (console domain, timeouts,
//     cluster defaults)
//   - .mobiledgex/app.yml: the region and the App definition
//   - .mobiledgex/appinsts.yml: optional list of app instances, each naming
//     the cluster it runs on
//
// The app definition's image_path gets a tag when it has none, either the
// explicit image tag or one derived from GITHUB_REF. Credentials come from
// INPUT_USERNAME and INPUT_PASSWORD unless given explicitly.
//
// Every problem with these inputs is reported as a *api.ConfigurationError.
package config
