package reconciler

import (
	"context"
	"fmt"
	"sync"

	"edgedeploy/internal/api"
	"edgedeploy/internal/gateway"
	"edgedeploy/internal/response"
)

// =============================================================================
// fakeInvoker - scripted control plane for all tests
// =============================================================================

type invokeCall struct {
	Operation string
	Payload   interface{}
	Config    gateway.CallConfig
}

type invokeResult struct {
	Response response.Response
	Err      error
}

// fakeInvoker answers each operation from a queue of scripted results. When
// an operation's queue holds one result it is repeated for every call.
type fakeInvoker struct {
	mu      sync.Mutex
	scripts map[string][]invokeResult
	calls   []invokeCall
}

func newFakeInvoker() *fakeInvoker {
	return &fakeInvoker{scripts: make(map[string][]invokeResult)}
}

func (f *fakeInvoker) on(operation string, resp response.Response, err error) *fakeInvoker {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts[operation] = append(f.scripts[operation], invokeResult{Response: resp, Err: err})
	return f
}

func (f *fakeInvoker) Invoke(ctx context.Context, operation string, payload interface{}, opts ...gateway.CallOption) (response.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, invokeCall{Operation: operation, Payload: payload, Config: gateway.ResolveCallOptions(opts...)})

	queue := f.scripts[operation]
	if len(queue) == 0 {
		return response.Response{}, fmt.Errorf("unexpected call to %s", operation)
	}
	next := queue[0]
	if len(queue) > 1 {
		f.scripts[operation] = queue[1:]
	}
	return next.Response, next.Err
}

func (f *fakeInvoker) operations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Operation)
	}
	return out
}

func (f *fakeInvoker) callsTo(operation string) []invokeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []invokeCall
	for _, c := range f.calls {
		if c.Operation == operation {
			out = append(out, c)
		}
	}
	return out
}

// recordingProgress counts wait loop callbacks.
type recordingProgress struct {
	mu      sync.Mutex
	started int
	updates int
	stopped int
}

func (p *recordingProgress) Start(string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started++
}

func (p *recordingProgress) Update(string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates++
}

func (p *recordingProgress) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped++
}

// =============================================================================
// Fixtures
// =============================================================================

func testApp() api.App {
	return api.App{
		Key:           api.AppKey{Name: "web", Organization: "acme", Version: "1.0"},
		ImagePath:     "docker.example.com/acme/web:1.0",
		AccessPorts:   "tcp:80",
		DefaultFlavor: &api.FlavorKey{Name: "m4.small"},
		Deployment:    "kubernetes",
	}
}

func testAppInst(cloudlet string) api.AppInst {
	return api.AppInst{Key: api.AppInstKey{
		AppKey: testApp().Key,
		ClusterInstKey: api.ClusterInstKey{
			CloudletKey:  api.CloudletKey{Name: cloudlet, Organization: "tdg"},
			ClusterKey:   api.ClusterKey{Name: "web-cluster"},
			Organization: "acme",
		},
	}}
}

func testClusterInst() api.ClusterInst {
	return api.ClusterInst{
		Key:        testAppInst("berlin").Key.ClusterInstKey,
		Flavor:     &api.FlavorKey{Name: "m4.small"},
		Deployment: "kubernetes",
	}
}

func appRecord(t interface{ Fatalf(string, ...interface{}) }, app api.App) api.Record {
	rec, err := api.ToRecord(app)
	if err != nil {
		t.Fatalf("ToRecord: %v", err)
	}
	return rec
}

func clusterRecord(state api.TrackedState) api.Record {
	return api.Record{"key": map[string]interface{}{"cluster_key": map[string]interface{}{"name": "web-cluster"}}, "state": float64(state)}
}

func timeoutError(op string) error {
	return &api.TransportError{Operation: op, Endpoint: "https://console.example.com", Kind: api.TransportTimeout, Reason: context.DeadlineExceeded}
}

func okStatus() response.Response {
	return response.Stream(
		api.Record{"message": "Creating"},
		api.Record{"result": map[string]interface{}{"code": float64(200), "message": "Created AppInst successfully"}},
	)
}
