// Package api holds the records exchanged with the edge control plane and the
// error taxonomy shared by every layer of the deploy engine.
//
// Records are value types. Keys (AppKey, ClusterInstKey, AppInstKey) identify
// resources; App, ClusterInst and AppInst carry the desired or observed state;
// the *Request types wrap them in the region-scoped envelopes the control
// plane's ctrl/* operations expect. Record is the untyped form used wherever
// a response shape is not known in advance.
//
// Errors:
//
//   - AuthenticationError: login failed, fatal
//   - OperationFailedError: rejected status, fatal
//   - MalformedResponseError: contract violation by the control plane, fatal
//   - ConfigurationError: bad caller data, fatal
//   - ProvisioningTimeoutError: cluster never became ready, fatal
//   - TransportError: the call did not complete; Ambiguous() when the
//     operation may still be running server-side
//   - PartialBatchFailure: per-item failures in a batch ack, recorded only
package api
