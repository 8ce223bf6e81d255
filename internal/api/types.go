package api

import (
	"encoding/json"
	"fmt"
)

// Record is a generic JSON object as returned by the control plane.
type Record map[string]interface{}

// ToRecord converts a typed record into its generic JSON object form, using
// the same encoding that is sent on the wire.
func ToRecord(v interface{}) (Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// AppKey uniquely identifies an Application.
type AppKey struct {
	Name         string `json:"name"`
	Organization string `json:"organization"`
	Version      string `json:"version"`
}

func (k AppKey) String() string {
	return fmt.Sprintf("%s/%s@%s", k.Organization, k.Name, k.Version)
}

// FlavorKey names a compute flavor.
type FlavorKey struct {
	Name string `json:"name"`
}

// CloudletKey identifies an edge site.
type CloudletKey struct {
	Name         string `json:"name"`
	Organization string `json:"organization"`
}

// ClusterKey names a cluster within a cloudlet.
type ClusterKey struct {
	Name string `json:"name"`
}

// ClusterInstKey uniquely identifies a Cluster Instance.
type ClusterInstKey struct {
	CloudletKey  CloudletKey `json:"cloudlet_key"`
	ClusterKey   ClusterKey  `json:"cluster_key"`
	Organization string      `json:"organization"`
}

func (k ClusterInstKey) String() string {
	return fmt.Sprintf("%s,%s @ %s,%s", k.ClusterKey.Name, k.Organization, k.CloudletKey.Name, k.CloudletKey.Organization)
}

// Coordinates returns the cloudlet:cloudlet_org:cluster:cluster_org tuple
// reported for a deployment.
func (k ClusterInstKey) Coordinates() string {
	return fmt.Sprintf("%s:%s:%s:%s", k.CloudletKey.Name, k.CloudletKey.Organization, k.ClusterKey.Name, k.Organization)
}

// AppInstKey uniquely identifies an Application Instance.
type AppInstKey struct {
	AppKey         AppKey         `json:"app_key"`
	ClusterInstKey ClusterInstKey `json:"cluster_inst_key"`
}

// App is an Application definition.
//
// Fields not modelled here are kept in Extra and sent back verbatim, so a
// desired-state document may carry any attribute the control plane accepts.
type App struct {
	Key           AppKey     `json:"key"`
	ImagePath     string     `json:"image_path,omitempty"`
	AccessPorts   string     `json:"access_ports,omitempty"`
	DefaultFlavor *FlavorKey `json:"default_flavor,omitempty"`
	Deployment    string     `json:"deployment,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`

	// declared holds the top-level keys of the document the App was decoded
	// from. It is nil for an App built in code.
	declared map[string]bool
}

// Declares reports whether key was present in the document the App was
// decoded from. An App built in code declares every key.
func (a App) Declares(key string) bool {
	if a.declared == nil {
		return true
	}
	return a.declared[key]
}

var appFields = []string{"key", "image_path", "access_ports", "default_flavor", "deployment", "fields"}

func (a *App) UnmarshalJSON(data []byte) error {
	type plain App
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := extraFields(data, appFields)
	if err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	p.declared = make(map[string]bool, len(keys))
	for k := range keys {
		p.declared[k] = true
	}
	p.Extra = extra
	*a = App(p)
	return nil
}

func (a App) MarshalJSON() ([]byte, error) {
	type plain App
	return marshalWithExtra(plain(a), a.Extra)
}

// ClusterInst is a Cluster Instance. State is owned by the control plane and
// only ever observed.
type ClusterInst struct {
	Key        ClusterInstKey `json:"key"`
	Flavor     *FlavorKey     `json:"flavor,omitempty"`
	Deployment string         `json:"deployment,omitempty"`
	State      TrackedState   `json:"state,omitempty"`
}

// AppInst binds an App to a ClusterInst.
type AppInst struct {
	Key AppInstKey `json:"key"`

	Extra map[string]json.RawMessage `json:"-"`
}

var appInstFields = []string{"key"}

func (a *AppInst) UnmarshalJSON(data []byte) error {
	type plain AppInst
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := extraFields(data, appInstFields)
	if err != nil {
		return err
	}
	p.Extra = extra
	*a = AppInst(p)
	return nil
}

func (a AppInst) MarshalJSON() ([]byte, error) {
	type plain AppInst
	return marshalWithExtra(plain(a), a.Extra)
}

// TrackedState is the control plane's provisioning state enum.
type TrackedState int

const (
	StateUnknown TrackedState = iota
	StateNotPresent
	StateCreateRequested
	StateCreating
	StateCreateError
	StateReady
	StateUpdateRequested
	StateUpdating
	StateUpdateError
	StateDeleteRequested
	StateDeleting
	StateDeleteError
)

var trackedStateNames = map[TrackedState]string{
	StateUnknown:         "Unknown",
	StateNotPresent:      "NotPresent",
	StateCreateRequested: "CreateRequested",
	StateCreating:        "Creating",
	StateCreateError:     "CreateError",
	StateReady:           "Ready",
	StateUpdateRequested: "UpdateRequested",
	StateUpdating:        "Updating",
	StateUpdateError:     "UpdateError",
	StateDeleteRequested: "DeleteRequested",
	StateDeleting:        "Deleting",
	StateDeleteError:     "DeleteError",
}

func (s TrackedState) String() string {
	if name, ok := trackedStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("TrackedState(%d)", int(s))
}

// AppRequest is the payload of the App operations.
type AppRequest struct {
	Region string `json:"region"`
	App    App    `json:"app"`
}

// AppUpdate is an App carrying the partial update field mask.
type AppUpdate struct {
	App
	Fields []string `json:"fields"`
}

func (u AppUpdate) MarshalJSON() ([]byte, error) {
	data, err := u.App.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	fields := u.Fields
	if fields == nil {
		fields = []string{}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	obj["fields"] = raw
	return json.Marshal(obj)
}

// AppUpdateRequest is the payload of UpdateApp.
type AppUpdateRequest struct {
	Region string    `json:"region"`
	App    AppUpdate `json:"app"`
}

// ClusterInstRequest is the payload of the ClusterInst operations.
type ClusterInstRequest struct {
	Region      string      `json:"region"`
	ClusterInst ClusterInst `json:"clusterinst"`
}

// AppInstRequest is the payload of the AppInst operations.
type AppInstRequest struct {
	Region  string  `json:"region"`
	AppInst AppInst `json:"appinst"`
}

func extraFields(data []byte, known []string) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

func marshalWithExtra(v interface{}, extra map[string]json.RawMessage) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	for k, raw := range extra {
		if _, ok := obj[k]; !ok {
			obj[k] = raw
		}
	}
	return json.Marshal(obj)
}
