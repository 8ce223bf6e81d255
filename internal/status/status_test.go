package status

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edgedeploy/internal/api"
	"edgedeploy/internal/response"
)

func TestEvaluate_StreamedBatch(t *testing.T) {
	resp, err := response.ParseStream([]byte("{\"result\":{\"code\":200}}\n{\"result\":{\"code\":404,\"message\":\"x\"}}"))
	require.NoError(t, err)

	res, err := Evaluate(resp.Records())
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, []string{"x"}, res.Errors())
	assert.Equal(t, []Message{{Level: LevelError, Text: "x"}}, res.Messages)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		items    []api.Record
		success  bool
		messages []Message
	}{
		{
			name:    "empty batch succeeds",
			items:   nil,
			success: true,
		},
		{
			name: "progress messages are debug and keep order",
			items: []api.Record{
				{"message": "Creating"},
				{"message": "Ready"},
				{"result": map[string]interface{}{"code": json.Number("200"), "message": "Created AppInst successfully"}},
			},
			success: true,
			messages: []Message{
				{LevelDebug, "Creating"},
				{LevelDebug, "Ready"},
				{LevelDebug, "Created AppInst successfully"},
			},
		},
		{
			name: "failure without message gets a generated one",
			items: []api.Record{
				{"result": map[string]interface{}{"code": json.Number("400")}},
			},
			success:  false,
			messages: []Message{{LevelError, "Error: 400"}},
		},
		{
			name: "items without message or result are ignored",
			items: []api.Record{
				{"other": true},
				{},
			},
			success: true,
		},
		{
			name: "message and failing result on the same item",
			items: []api.Record{
				{"message": "Deleting", "result": map[string]interface{}{"code": "500", "message": "crm down"}},
			},
			success: false,
			messages: []Message{
				{LevelDebug, "Deleting"},
				{LevelError, "crm down"},
			},
		},
		{
			name: "one failure among successes fails the batch",
			items: []api.Record{
				{"result": map[string]interface{}{"code": 200.0}},
				{"result": map[string]interface{}{"code": 503.0, "message": "busy"}},
				{"result": map[string]interface{}{"code": 200.0}},
			},
			success:  false,
			messages: []Message{{LevelError, "busy"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Evaluate(tt.items)
			require.NoError(t, err)
			assert.Equal(t, tt.success, res.Success)
			assert.Equal(t, tt.messages, res.Messages)
		})
	}
}

func TestEvaluate_MalformedCode(t *testing.T) {
	for _, code := range []interface{}{"OK", json.Number("2.5"), nil, true} {
		_, err := Evaluate([]api.Record{{"result": map[string]interface{}{"code": code}}})

		var malformed *api.MalformedResponseError
		assert.True(t, errors.As(err, &malformed), "code %v: expected MalformedResponseError, got %v", code, err)
	}
}

func TestEvaluate_ResultNotObject(t *testing.T) {
	_, err := Evaluate([]api.Record{{"result": "fine"}})

	var malformed *api.MalformedResponseError
	assert.True(t, errors.As(err, &malformed))
}
