package reconciler

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edgedeploy/internal/api"
	"edgedeploy/internal/response"
)

func TestReconcileApp_CreatesWhenAbsent(t *testing.T) {
	inv := newFakeInvoker().
		on(api.OpShowApp, response.Stream(), nil).
		on(api.OpCreateApp, response.Single(api.Record{}), nil)
	r := New(inv)

	res, err := r.ReconcileApp(context.Background(), "EU", testApp())
	require.NoError(t, err)

	assert.Equal(t, ActionCreateApp, res.Action)
	assert.Empty(t, res.Fields)
	assert.Equal(t, []string{api.OpShowApp, api.OpCreateApp}, inv.operations())

	show := inv.callsTo(api.OpShowApp)[0].Payload.(api.AppRequest)
	assert.Equal(t, "EU", show.Region)
	assert.Equal(t, testApp().Key, show.App.Key)
	assert.Empty(t, show.App.ImagePath, "lookup carries only the key")

	create := inv.callsTo(api.OpCreateApp)[0].Payload.(api.AppRequest)
	assert.Equal(t, testApp().ImagePath, create.App.ImagePath)
}

func TestReconcileApp_ShowWithEmptyObjectCreates(t *testing.T) {
	inv := newFakeInvoker().
		on(api.OpShowApp, response.Single(api.Record{}), nil).
		on(api.OpCreateApp, response.Single(api.Record{}), nil)

	res, err := New(inv).ReconcileApp(context.Background(), "EU", testApp())
	require.NoError(t, err)
	assert.Equal(t, ActionCreateApp, res.Action)
}

func TestReconcileApp_UpdatesChangedFields(t *testing.T) {
	existing := testApp()
	existing.AccessPorts = "tcp:8080"

	inv := newFakeInvoker().
		on(api.OpShowApp, response.Stream(appRecord(t, existing)), nil).
		on(api.OpUpdateApp, response.Single(api.Record{}), nil)

	res, err := New(inv).ReconcileApp(context.Background(), "EU", testApp())
	require.NoError(t, err)

	assert.Equal(t, ActionUpdateApp, res.Action)
	assert.Equal(t, []string{"7"}, res.Fields)

	update := inv.callsTo(api.OpUpdateApp)[0].Payload.(api.AppUpdateRequest)
	assert.Equal(t, []string{"7"}, update.App.Fields)
	assert.Equal(t, "tcp:80", update.App.AccessPorts)
}

func TestReconcileApp_UpdateIsIdempotent(t *testing.T) {
	inv := newFakeInvoker().
		on(api.OpShowApp, response.Single(appRecord(t, testApp())), nil).
		on(api.OpUpdateApp, response.Single(api.Record{}), nil)
	r := New(inv)

	for i := 0; i < 2; i++ {
		res, err := r.ReconcileApp(context.Background(), "EU", testApp())
		require.NoError(t, err)
		assert.Equal(t, ActionUpdateApp, res.Action)
		assert.Empty(t, res.Fields)
	}

	updates := inv.callsTo(api.OpUpdateApp)
	require.Len(t, updates, 2)
	for _, c := range updates {
		data, err := json.Marshal(c.Payload)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"fields":[]`)
	}
}

func TestReconcileApp_DetectsEveryRegisteredField(t *testing.T) {
	existing := testApp()
	existing.ImagePath = "docker.example.com/acme/web:0.9"
	existing.AccessPorts = "udp:53"
	existing.DefaultFlavor = &api.FlavorKey{Name: "m4.large"}

	inv := newFakeInvoker().
		on(api.OpShowApp, response.Single(appRecord(t, existing)), nil).
		on(api.OpUpdateApp, response.Single(api.Record{}), nil)

	res, err := New(inv).ReconcileApp(context.Background(), "EU", testApp())
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "7", "9"}, res.Fields)
}

func TestReconcileApp_Errors(t *testing.T) {
	t.Run("lookup failure", func(t *testing.T) {
		inv := newFakeInvoker().on(api.OpShowApp, response.Response{}, &api.OperationFailedError{Operation: api.OpShowApp, StatusCode: 403})
		r := New(inv)

		_, err := r.ReconcileApp(context.Background(), "EU", testApp())
		require.Error(t, err)

		var opErr *api.OperationFailedError
		assert.ErrorAs(t, err, &opErr)
		assert.Equal(t, []string{api.OpShowApp}, inv.operations())
		assert.Equal(t, int64(1), r.Metrics().Summary().PerResourceType[0].Failures)
	})

	t.Run("existing app missing a registered field", func(t *testing.T) {
		rec := appRecord(t, testApp())
		delete(rec, "access_ports")
		inv := newFakeInvoker().on(api.OpShowApp, response.Single(rec), nil)

		_, err := New(inv).ReconcileApp(context.Background(), "EU", testApp())
		var cfgErr *api.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "access_ports", cfgErr.Field)
		assert.Equal(t, []string{api.OpShowApp}, inv.operations())
	})

	t.Run("create rejected", func(t *testing.T) {
		inv := newFakeInvoker().
			on(api.OpShowApp, response.Stream(), nil).
			on(api.OpCreateApp, response.Response{}, &api.OperationFailedError{Operation: api.OpCreateApp, StatusCode: 400})

		_, err := New(inv).ReconcileApp(context.Background(), "EU", testApp())
		assert.ErrorIs(t, err, &api.OperationFailedError{})
	})
}
