package api

// Control plane operations, addressed below {console}/api/v1/auth/.
const (
	OpShowApp           = "ctrl/ShowApp"
	OpCreateApp         = "ctrl/CreateApp"
	OpUpdateApp         = "ctrl/UpdateApp"
	OpShowClusterInst   = "ctrl/ShowClusterInst"
	OpCreateClusterInst = "ctrl/CreateClusterInst"
	OpShowAppInst       = "ctrl/ShowAppInst"
	OpCreateAppInst     = "ctrl/CreateAppInst"
	OpRefreshAppInst    = "ctrl/RefreshAppInst"
)

// ClusterTemplate holds the settings used when a Cluster Instance an
// AppInst refers to has to be created.
type ClusterTemplate struct {
	Flavor     string
	Deployment string
}

// DesiredState is the fully resolved input of a deploy run: one App and the
// AppInsts binding it to clusters, all within one region.
type DesiredState struct {
	Region   string
	App      App
	AppInsts []AppInst
	Cluster  ClusterTemplate
}

// ClusterInstFor returns the Cluster Instance an AppInst runs on, built from
// the template.
func (d DesiredState) ClusterInstFor(ai AppInst) ClusterInst {
	ci := ClusterInst{
		Key:        ai.Key.ClusterInstKey,
		Deployment: d.Cluster.Deployment,
	}
	if d.Cluster.Flavor != "" {
		ci.Flavor = &FlavorKey{Name: d.Cluster.Flavor}
	}
	return ci
}
