package reconciler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"edgedeploy/internal/api"
	"edgedeploy/internal/gateway"
	"edgedeploy/pkg/logging"
)

// ReconcileClusterInst makes sure the Cluster Instance exists. Clusters are
// created once and never updated.
//
// CreateClusterInst is issued with a short request budget. When it fails at
// the transport level (timeout, dropped connection) the create may still be
// provisioning server-side, so the cluster is polled until it reports
// StateReady or the ready timeout, counted from the create attempt, elapses.
// Any other failure, such as a rejected status, is returned at once: nothing
// was started.
//
// A create call that returns successfully is not followed by a readiness
// poll. The cluster may not be ready yet when this returns.
func (r *Reconciler) ReconcileClusterInst(ctx context.Context, region string, ci api.ClusterInst) (ClusterResult, error) {
	r.metrics.RecordAttempt(ResourceTypeClusterInst)
	result := ClusterResult{Key: ci.Key}

	show := api.ClusterInstRequest{Region: region, ClusterInst: api.ClusterInst{Key: ci.Key}}
	resp, err := r.invoker.Invoke(ctx, api.OpShowClusterInst, show)
	if err != nil {
		r.metrics.RecordFailure(ResourceTypeClusterInst)
		return result, fmt.Errorf("failed to look up cluster %s: %w", ci.Key, err)
	}
	if rec, found := resp.First(); found {
		if state, err := clusterState(rec); err == nil {
			logging.Debug("Reconciler", "Cluster %s exists (state %s)", ci.Key, state)
		}
		result.Outcome = ClusterExisting
		return result, nil
	}

	flavor := ""
	if ci.Flavor != nil {
		flavor = ci.Flavor.Name
	}
	logging.Info("Reconciler", "Creating %s %s cluster: %s", flavor, ci.Deployment, ci.Key)

	start := time.Now()
	create := api.ClusterInstRequest{Region: region, ClusterInst: ci}
	_, err = r.invoker.Invoke(ctx, api.OpCreateClusterInst, create, gateway.WithTimeout(r.createClusterTimeout))
	if err == nil {
		r.metrics.RecordCreate(ResourceTypeClusterInst)
		result.Outcome = ClusterCreated
		return result, nil
	}
	if !api.IsAmbiguousTransportError(err) {
		r.metrics.RecordFailure(ResourceTypeClusterInst)
		return result, fmt.Errorf("failed to create cluster %s: %w", ci.Key, err)
	}

	logging.Warn("Reconciler", "Create of cluster %s did not complete (%v), waiting for it to become ready", ci.Key, err)
	polls, err := r.waitForReady(ctx, show, start)
	result.Polls = polls
	result.Waited = time.Since(start)
	r.metrics.RecordWait(polls, result.Waited)
	if err != nil {
		r.metrics.RecordFailure(ResourceTypeClusterInst)
		return result, err
	}

	logging.Info("Reconciler", "Cluster %s is ready after %s", ci.Key, result.Waited.Round(time.Second))
	r.metrics.RecordCreate(ResourceTypeClusterInst)
	result.Outcome = ClusterReady
	return result, nil
}

// waitForReady polls ShowClusterInst until the cluster reports StateReady.
// The budget runs from start, the time of the create attempt.
func (r *Reconciler) waitForReady(ctx context.Context, show api.ClusterInstRequest, start time.Time) (int, error) {
	key := show.ClusterInst.Key
	remaining := r.readyTimeout - time.Since(start)

	polls := 0
	observed := false
	last := api.StateUnknown
	timeoutErr := func() error {
		return &api.ProvisioningTimeoutError{Key: key, Waited: time.Since(start), LastState: last, Observed: observed}
	}
	if remaining <= 0 {
		return polls, timeoutErr()
	}

	r.progress.Start(fmt.Sprintf("Waiting for cluster %s", key))
	defer r.progress.Stop()

	err := wait.PollUntilContextTimeout(ctx, r.pollInterval, remaining, true, func(pollCtx context.Context) (bool, error) {
		polls++
		resp, err := r.invoker.Invoke(pollCtx, api.OpShowClusterInst, show)
		if err != nil {
			if pollCtx.Err() != nil {
				// The wait budget ran out mid-call.
				return false, nil
			}
			return false, fmt.Errorf("failed to poll cluster %s: %w", key, err)
		}

		rec, found := resp.First()
		if !found {
			r.progress.Update(fmt.Sprintf("Waiting for cluster %s to appear (%s)", key, time.Since(start).Round(time.Second)))
			return false, nil
		}
		state, err := clusterState(rec)
		if err != nil {
			return false, err
		}
		observed = true
		last = state
		r.progress.Update(fmt.Sprintf("Waiting for cluster %s: %s (%s)", key, state, time.Since(start).Round(time.Second)))
		logging.Debug("Reconciler", "Cluster %s state %s after %d poll(s)", key, state, polls)
		return state == api.StateReady, nil
	})
	if err == nil {
		return polls, nil
	}
	if ctx.Err() != nil {
		return polls, ctx.Err()
	}
	if wait.Interrupted(err) {
		return polls, timeoutErr()
	}
	return polls, err
}

// clusterState reads the state of a ShowClusterInst record. An absent state
// is StateUnknown.
func clusterState(rec api.Record) (api.TrackedState, error) {
	raw, ok := rec["state"]
	if !ok || raw == nil {
		return api.StateUnknown, nil
	}
	var n int64
	var err error
	switch v := raw.(type) {
	case json.Number:
		n, err = v.Int64()
	case float64:
		n = int64(v)
		if float64(n) != v {
			err = errors.New("not an integer")
		}
	case int:
		n = int64(v)
	case string:
		n, err = strconv.ParseInt(v, 10, 64)
	default:
		err = fmt.Errorf("unexpected type %T", raw)
	}
	if err != nil {
		return api.StateUnknown, &api.MalformedResponseError{Operation: api.OpShowClusterInst, Reason: fmt.Errorf("cluster state %v: %w", raw, err)}
	}
	return api.TrackedState(n), nil
}
