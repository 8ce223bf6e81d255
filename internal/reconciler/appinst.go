package reconciler

import (
	"context"
	"fmt"

	"edgedeploy/internal/api"
	"edgedeploy/internal/status"
	"edgedeploy/pkg/logging"
)

// ReconcileAppInst creates the Application Instance when absent and refreshes
// it otherwise. Refresh is always a full refresh; there is no field mask.
//
// Failed items in the streamed batch status are logged and reported in the
// result's Failure, not returned as an error. Transport, status and response
// shape errors are returned.
func (r *Reconciler) ReconcileAppInst(ctx context.Context, region string, ai api.AppInst) (AppInstResult, error) {
	r.metrics.RecordAttempt(ResourceTypeAppInst)
	result := AppInstResult{Key: ai.Key}
	target := ai.Key.ClusterInstKey

	req := api.AppInstRequest{Region: region, AppInst: ai}
	resp, err := r.invoker.Invoke(ctx, api.OpShowAppInst, req)
	if err != nil {
		r.metrics.RecordFailure(ResourceTypeAppInst)
		return result, fmt.Errorf("failed to look up app instance on %s: %w", target, err)
	}

	created := resp.Empty()
	if created {
		logging.Info("Reconciler", "Creating new app instance %s", target)
		result.Operation = api.OpCreateAppInst
	} else {
		logging.Info("Reconciler", "Updating app instance %s", target)
		result.Operation = api.OpRefreshAppInst
	}

	resp, err = r.invoker.Invoke(ctx, result.Operation, req)
	if err != nil {
		r.metrics.RecordFailure(ResourceTypeAppInst)
		return result, fmt.Errorf("%s on %s: %w", result.Operation, target, err)
	}

	st, err := status.Evaluate(resp.Records())
	if err != nil {
		r.metrics.RecordFailure(ResourceTypeAppInst)
		return result, fmt.Errorf("%s on %s: %w", result.Operation, target, err)
	}
	result.Status = st

	for _, msg := range st.Messages {
		if msg.Level == status.LevelError {
			logging.Error("Reconciler", nil, "%s", msg.Text)
		} else {
			logging.Debug("Reconciler", "%s", msg.Text)
		}
	}

	if !st.Success {
		result.Failure = &api.PartialBatchFailure{
			Operation: result.Operation,
			Key:       ai.Key,
			Messages:  st.Errors(),
		}
		r.metrics.RecordPartialFailure(ResourceTypeAppInst)
		logging.Warn("Reconciler", "%s", result.Failure.Error())
		return result, nil
	}

	if created {
		r.metrics.RecordCreate(ResourceTypeAppInst)
		logging.Debug("Reconciler", "Created app inst %s", target)
	} else {
		r.metrics.RecordUpdate(ResourceTypeAppInst)
		logging.Debug("Reconciler", "Updated app inst %s", target)
	}
	return result, nil
}
