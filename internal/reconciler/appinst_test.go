package reconciler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edgedeploy/internal/api"
	"edgedeploy/internal/response"
)

func TestReconcileAppInst_CreatesWhenAbsent(t *testing.T) {
	inv := newFakeInvoker().
		on(api.OpShowAppInst, response.Stream(), nil).
		on(api.OpCreateAppInst, okStatus(), nil)

	res, err := New(inv).ReconcileAppInst(context.Background(), "EU", testAppInst("berlin"))
	require.NoError(t, err)

	assert.Equal(t, api.OpCreateAppInst, res.Operation)
	assert.True(t, res.Healthy())
	assert.True(t, res.Status.Success)
	assert.Empty(t, res.Status.Errors())
	assert.Equal(t, []string{api.OpShowAppInst, api.OpCreateAppInst}, inv.operations())
}

func TestReconcileAppInst_RefreshesWhenPresent(t *testing.T) {
	existing := api.Record{"key": map[string]interface{}{"app_key": map[string]interface{}{"name": "web"}}}
	inv := newFakeInvoker().
		on(api.OpShowAppInst, response.Stream(existing), nil).
		on(api.OpRefreshAppInst, okStatus(), nil)

	res, err := New(inv).ReconcileAppInst(context.Background(), "EU", testAppInst("berlin"))
	require.NoError(t, err)
	assert.Equal(t, api.OpRefreshAppInst, res.Operation)

	refresh := inv.callsTo(api.OpRefreshAppInst)[0].Payload.(api.AppInstRequest)
	assert.Equal(t, "EU", refresh.Region)
	assert.Equal(t, testAppInst("berlin").Key, refresh.AppInst.Key)
}

func TestReconcileAppInst_PartialFailureIsNotFatal(t *testing.T) {
	batch := response.Stream(
		api.Record{"message": "a"},
		api.Record{"result": map[string]interface{}{"code": float64(400), "message": "x"}},
	)
	inv := newFakeInvoker().
		on(api.OpShowAppInst, response.Stream(), nil).
		on(api.OpCreateAppInst, batch, nil)
	r := New(inv)

	res, err := r.ReconcileAppInst(context.Background(), "EU", testAppInst("berlin"))
	require.NoError(t, err)

	assert.False(t, res.Healthy())
	require.NotNil(t, res.Failure)
	assert.Equal(t, []string{"x"}, res.Failure.Messages)
	assert.Equal(t, api.OpCreateAppInst, res.Failure.Operation)
	assert.Contains(t, res.Failure.Error(), "berlin")

	summary := r.Metrics().Summary()
	require.Len(t, summary.PerResourceType, 1)
	assert.Equal(t, int64(1), summary.PerResourceType[0].PartialFailures)
	assert.Zero(t, summary.PerResourceType[0].Creates)
}

func TestReconcileAppInst_ErrorCodeWithoutMessage(t *testing.T) {
	batch := response.Single(api.Record{"result": map[string]interface{}{"code": "500"}})
	inv := newFakeInvoker().
		on(api.OpShowAppInst, response.Stream(), nil).
		on(api.OpCreateAppInst, batch, nil)

	res, err := New(inv).ReconcileAppInst(context.Background(), "EU", testAppInst("berlin"))
	require.NoError(t, err)
	require.NotNil(t, res.Failure)
	assert.Equal(t, []string{"Error: 500"}, res.Failure.Messages)
}

func TestReconcileAppInst_MalformedStatusIsFatal(t *testing.T) {
	batch := response.Stream(api.Record{"result": map[string]interface{}{"code": "abc"}})
	inv := newFakeInvoker().
		on(api.OpShowAppInst, response.Stream(), nil).
		on(api.OpCreateAppInst, batch, nil)

	_, err := New(inv).ReconcileAppInst(context.Background(), "EU", testAppInst("berlin"))
	assert.ErrorIs(t, err, &api.MalformedResponseError{})
}

func TestReconcileAppInst_OperationRejected(t *testing.T) {
	inv := newFakeInvoker().
		on(api.OpShowAppInst, response.Stream(), nil).
		on(api.OpCreateAppInst, response.Response{}, &api.OperationFailedError{Operation: api.OpCreateAppInst, StatusCode: 400})

	_, err := New(inv).ReconcileAppInst(context.Background(), "EU", testAppInst("berlin"))
	assert.ErrorIs(t, err, &api.OperationFailedError{})
}
