package reconciler

import (
	"context"
	"time"

	"edgedeploy/internal/api"
	"edgedeploy/internal/gateway"
	"edgedeploy/internal/response"
	"edgedeploy/internal/status"
)

// ResourceType represents the type of resource being reconciled.
type ResourceType string

const (
	ResourceTypeApp         ResourceType = "App"
	ResourceTypeClusterInst ResourceType = "ClusterInst"
	ResourceTypeAppInst     ResourceType = "AppInst"
)

// Action names the mutation applied to the App.
type Action string

const (
	ActionCreateApp Action = "CreateApp"
	ActionUpdateApp Action = "UpdateApp"
)

// Invoker calls a control plane operation. *gateway.Gateway implements it.
type Invoker interface {
	Invoke(ctx context.Context, operation string, payload interface{}, opts ...gateway.CallOption) (response.Response, error)
}

// Progress observes the cluster wait loop. Implementations must be cheap;
// they are called once per poll.
type Progress interface {
	Start(message string)
	Update(message string)
	Stop()
}

type noopProgress struct{}

func (noopProgress) Start(string)  {}
func (noopProgress) Update(string) {}
func (noopProgress) Stop()         {}

// AppResult is the outcome of reconciling the App.
type AppResult struct {
	Action Action
	// Fields is the update mask sent with UpdateApp; empty on create.
	Fields []string
}

// ClusterOutcome tells how a Cluster Instance was reconciled.
type ClusterOutcome string

const (
	// ClusterExisting means the cluster was already present.
	ClusterExisting ClusterOutcome = "Existing"
	// ClusterCreated means the create call returned successfully.
	ClusterCreated ClusterOutcome = "Created"
	// ClusterReady means the create call did not complete but the cluster
	// was observed ready while polling.
	ClusterReady ClusterOutcome = "ReadyAfterWait"
)

// ClusterResult is the outcome of reconciling a Cluster Instance.
type ClusterResult struct {
	Key     api.ClusterInstKey
	Outcome ClusterOutcome
	// Polls counts the ShowClusterInst calls made by the wait loop.
	Polls  int
	Waited time.Duration
}

// AppInstResult is the outcome of reconciling an Application Instance.
type AppInstResult struct {
	Key       api.AppInstKey
	Operation string
	Status    status.Result
	// Failure is set when the batch status reported failed items.
	Failure *api.PartialBatchFailure
}

// Healthy reports whether every batch item succeeded.
func (r AppInstResult) Healthy() bool {
	return r.Failure == nil
}

// RunResult collects the outputs of a deploy run.
type RunResult struct {
	Image       string
	Actions     []Action
	FieldMask   []string
	Clusters    []ClusterResult
	AppInsts    []AppInstResult
	Deployments []string
}

// PartialFailures returns the non-fatal AppInst failures of the run.
func (r *RunResult) PartialFailures() []*api.PartialBatchFailure {
	var out []*api.PartialBatchFailure
	for _, ai := range r.AppInsts {
		if ai.Failure != nil {
			out = append(out, ai.Failure)
		}
	}
	return out
}

// ActionNames returns the actions as strings.
func (r *RunResult) ActionNames() []string {
	out := make([]string, 0, len(r.Actions))
	for _, a := range r.Actions {
		out = append(out, string(a))
	}
	return out
}
