// Package reconciler drives an edge control plane toward a desired state for
// an App, the Cluster Instances it runs on and the Application Instances
// binding the two.
//
// For every resource the reconciler looks the resource up by key and then
// creates or updates it:
//
//   - App: ShowApp, then CreateApp, or UpdateApp with the field mask
//     computed by package diff.
//   - ClusterInst: ShowClusterInst, then CreateClusterInst with a short
//     request budget. A create that fails at the transport level may still
//     be provisioning, so the cluster is polled until it is ready or the
//     ready timeout elapses. Clusters are never updated.
//   - AppInst: ShowAppInst, then CreateAppInst or RefreshAppInst. The
//     streamed batch status is evaluated by package status; failed items do
//     not abort the run.
//
// Run processes AppInsts strictly in order, making sure each one's cluster
// exists first. There is no state shared between resources other than the
// gateway's immutable credential.
package reconciler
