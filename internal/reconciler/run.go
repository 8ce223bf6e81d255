package reconciler

import (
	"context"

	"edgedeploy/internal/api"
	"edgedeploy/pkg/logging"
)

// Run reconciles the App, then each AppInst in order, creating the cluster
// each AppInst refers to first when cluster management is enabled.
//
// The first fatal error stops the run. The returned result is never nil and
// holds what was done up to that point, so callers can still report it.
// AppInst batch failures are not fatal; see RunResult.PartialFailures.
func (r *Reconciler) Run(ctx context.Context, desired api.DesiredState) (*RunResult, error) {
	result := &RunResult{
		Image:       desired.App.ImagePath,
		Actions:     []Action{},
		Deployments: []string{},
	}

	appRes, err := r.ReconcileApp(ctx, desired.Region, desired.App)
	if err != nil {
		return result, err
	}
	result.Actions = append(result.Actions, appRes.Action)
	result.FieldMask = appRes.Fields

	for _, ai := range desired.AppInsts {
		if r.manageClusters {
			clusterRes, err := r.ReconcileClusterInst(ctx, desired.Region, desired.ClusterInstFor(ai))
			if err != nil {
				return result, err
			}
			result.Clusters = append(result.Clusters, clusterRes)
		}

		aiRes, err := r.ReconcileAppInst(ctx, desired.Region, ai)
		if err != nil {
			return result, err
		}
		result.AppInsts = append(result.AppInsts, aiRes)
		result.Deployments = append(result.Deployments, ai.Key.ClusterInstKey.Coordinates())
	}

	if failures := result.PartialFailures(); len(failures) > 0 {
		logging.Warn("Reconciler", "%d of %d app instance(s) reported failures", len(failures), len(result.AppInsts))
	}
	return result, nil
}
