package reconciler

import (
	"context"
	"fmt"

	"edgedeploy/internal/api"
	"edgedeploy/internal/diff"
	"edgedeploy/pkg/logging"
)

// ReconcileApp creates the App when it does not exist, otherwise updates it
// with the mask of registered fields that differ.
func (r *Reconciler) ReconcileApp(ctx context.Context, region string, app api.App) (AppResult, error) {
	r.metrics.RecordAttempt(ResourceTypeApp)

	resp, err := r.invoker.Invoke(ctx, api.OpShowApp, api.AppRequest{
		Region: region,
		App:    api.App{Key: app.Key},
	})
	if err != nil {
		r.metrics.RecordFailure(ResourceTypeApp)
		return AppResult{}, fmt.Errorf("failed to look up app %s: %w", app.Key, err)
	}

	existing, found := resp.First()
	if !found {
		logging.Info("Reconciler", "Creating new app: %s", app.Key)
		if _, err := r.invoker.Invoke(ctx, api.OpCreateApp, api.AppRequest{Region: region, App: app}); err != nil {
			r.metrics.RecordFailure(ResourceTypeApp)
			return AppResult{}, fmt.Errorf("failed to create app %s: %w", app.Key, err)
		}
		r.metrics.RecordCreate(ResourceTypeApp)
		return AppResult{Action: ActionCreateApp, Fields: []string{}}, nil
	}

	fields, err := diff.DiffApp(existing, app)
	if err != nil {
		r.metrics.RecordFailure(ResourceTypeApp)
		return AppResult{}, fmt.Errorf("failed to compare app %s: %w", app.Key, err)
	}

	logging.Info("Reconciler", "Updating existing app: %s (fields %v)", app.Key, fields)
	update := api.AppUpdateRequest{
		Region: region,
		App:    api.AppUpdate{App: app, Fields: fields},
	}
	if _, err := r.invoker.Invoke(ctx, api.OpUpdateApp, update); err != nil {
		r.metrics.RecordFailure(ResourceTypeApp)
		return AppResult{}, fmt.Errorf("failed to update app %s: %w", app.Key, err)
	}
	r.metrics.RecordUpdate(ResourceTypeApp)
	return AppResult{Action: ActionUpdateApp, Fields: fields}, nil
}
