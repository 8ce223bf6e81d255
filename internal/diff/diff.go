// Package diff computes the partial update field mask of an App.
//
// The registry is closed: a field not listed in Registry is never diffed and
// so never appears in a mask, even when its value changed. Only these fields
// support partial update.
package diff

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"edgedeploy/internal/api"
)

// Field ties a record path to the stable identifier the control plane uses
// for it in an update mask.
type Field struct {
	// ID is the stable numeric field identifier.
	ID string
	// Path is the sequence of object keys leading to the value.
	Path []string
}

// Name returns the dotted path of the field.
func (f Field) Name() string {
	return strings.Join(f.Path, ".")
}

// Registry lists the App fields that can be partially updated, in
// declaration order.
var Registry = []Field{
	{ID: FieldImagePath, Path: []string{"image_path"}},
	{ID: FieldAccessPorts, Path: []string{"access_ports"}},
	{ID: FieldDefaultFlavorName, Path: []string{"default_flavor", "name"}},
}

const (
	FieldImagePath         = "4"
	FieldAccessPorts       = "7"
	FieldDefaultFlavorName = "9"
)

// Diff returns the identifiers of the registered fields whose values differ
// between existing and desired, in registry order. A field that cannot be
// resolved in either record is a *api.ConfigurationError.
func Diff(existing, desired api.Record) ([]string, error) {
	fields := []string{}
	for _, f := range Registry {
		oldVal, err := resolve(existing, f)
		if err != nil {
			return nil, fmt.Errorf("existing app: %w", err)
		}
		newVal, err := resolve(desired, f)
		if err != nil {
			return nil, fmt.Errorf("desired app: %w", err)
		}
		if !equal(oldVal, newVal) {
			fields = append(fields, f.ID)
		}
	}
	return fields, nil
}

// DiffApp is Diff with the desired App in its typed form. Empty values are
// compared as they are; only a key the desired document never declared is
// missing.
func DiffApp(existing api.Record, desired api.App) ([]string, error) {
	return Diff(existing, registryRecord(desired))
}

// registryRecord holds the registered fields of app, including empty ones
// that the wire encoding would omit.
func registryRecord(app api.App) api.Record {
	rec := api.Record{}
	if app.Declares("image_path") {
		rec["image_path"] = app.ImagePath
	}
	if app.Declares("access_ports") {
		rec["access_ports"] = app.AccessPorts
	}
	if app.Declares("default_flavor") && app.DefaultFlavor != nil {
		rec["default_flavor"] = map[string]interface{}{"name": app.DefaultFlavor.Name}
	}
	return rec
}

func resolve(rec api.Record, f Field) (interface{}, error) {
	var cur interface{} = map[string]interface{}(rec)
	for i, key := range f.Path {
		obj, ok := cur.(map[string]interface{})
		if !ok {
			return nil, api.NewConfigurationError(strings.Join(f.Path[:i], "."), "is not an object")
		}
		val, ok := obj[key]
		if !ok {
			return nil, api.NewConfigurationError(strings.Join(f.Path[:i+1], "."), "is missing")
		}
		cur = val
	}
	return cur, nil
}

// equal compares leaf values. Numbers decoded from a response are
// json.Number while locally built records hold float64.
func equal(a, b interface{}) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	an, aok := number(a)
	bn, bok := number(b)
	return aok && bok && an == bn
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
