package response

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"edgedeploy/internal/api"
)

// Kind tells which shape a response body had.
type Kind int

const (
	// KindSingle is a body holding exactly one JSON object.
	KindSingle Kind = iota
	// KindStream is a body of newline-delimited JSON objects.
	KindStream
)

func (k Kind) String() string {
	if k == KindStream {
		return "stream"
	}
	return "single"
}

// envelopeKey is the single key some control plane calls wrap payloads in.
const envelopeKey = "data"

// Response is the normalized form of an operation's response body: either a
// single record or an ordered sequence of records.
type Response struct {
	kind    Kind
	records []api.Record
}

// Single returns a Response holding one record.
func Single(rec api.Record) Response {
	return Response{kind: KindSingle, records: []api.Record{rec}}
}

// Stream returns a Response holding an ordered sequence of records.
func Stream(recs ...api.Record) Response {
	return Response{kind: KindStream, records: recs}
}

// Kind returns the shape the response was parsed from.
func (r Response) Kind() Kind {
	return r.kind
}

// Records returns the records in order. A Single response yields one record.
func (r Response) Records() []api.Record {
	return r.records
}

// Record returns the record of a Single response.
func (r Response) Record() (api.Record, bool) {
	if r.kind != KindSingle || len(r.records) == 0 {
		return nil, false
	}
	return r.records[0], true
}

// Empty reports whether the response carries no resource: an empty stream or
// an empty single object.
func (r Response) Empty() bool {
	for _, rec := range r.records {
		if len(rec) > 0 {
			return false
		}
	}
	return true
}

// First returns the first non-empty record.
func (r Response) First() (api.Record, bool) {
	for _, rec := range r.records {
		if len(rec) > 0 {
			return rec, true
		}
	}
	return nil, false
}

// Parse normalizes body by first attempting Single mode and, if the body is
// not a single JSON value, falling back to Stream mode on the same bytes.
// The caller cannot know beforehand which shape an operation will produce.
func Parse(body []byte) (Response, error) {
	resp, err := ParseSingle(body)
	if err == nil {
		return resp, nil
	}
	resp, streamErr := ParseStream(body)
	if streamErr != nil {
		return Response{}, streamErr
	}
	return resp, nil
}

// ParseSingle parses the whole body as one JSON object.
func ParseSingle(body []byte) (Response, error) {
	rec, err := decodeRecord(body)
	if err != nil {
		return Response{}, &api.MalformedResponseError{Reason: err}
	}
	return Single(rec), nil
}

// ParseStream parses body as newline-delimited JSON, one object per line.
// Blank lines are skipped, so an empty body is an empty stream.
func ParseStream(body []byte) (Response, error) {
	scanner := bufio.NewScanner(bytes.NewReader(body))
	// Streamed records can be far larger than bufio's default token size.
	scanner.Buffer(make([]byte, 0, 64*1024), len(body)+1)

	recs := []api.Record{}
	line := 0
	for scanner.Scan() {
		line++
		segment := bytes.TrimSpace(scanner.Bytes())
		if len(segment) == 0 {
			continue
		}
		rec, err := decodeRecord(segment)
		if err != nil {
			return Response{}, &api.MalformedResponseError{Reason: fmt.Errorf("line %d: %w", line, err)}
		}
		recs = append(recs, rec)
	}
	if err := scanner.Err(); err != nil {
		return Response{}, &api.MalformedResponseError{Reason: err}
	}
	return Stream(recs...), nil
}

var errNotObject = errors.New("record is not a JSON object")

// decodeRecord parses one JSON value, requires it to be an object and strips
// a {"data": ...} envelope. Numbers are kept as json.Number. A null or an
// empty array, bare or inside the envelope, carries no resource and yields
// an empty record.
func decodeRecord(data []byte) (api.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if rest := bytes.TrimSpace(data[dec.InputOffset():]); len(rest) > 0 {
		return nil, errors.New("unexpected data after top-level value")
	}

	if isNothing(v) {
		return api.Record{}, nil
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, errNotObject
	}
	if inner, ok := unwrapEnvelope(obj); ok {
		if isNothing(inner) {
			return api.Record{}, nil
		}
		innerObj, ok := inner.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%q envelope: %w", envelopeKey, errNotObject)
		}
		obj = innerObj
	}
	return api.Record(obj), nil
}

// isNothing reports whether v is null or an empty array.
func isNothing(v interface{}) bool {
	if v == nil {
		return true
	}
	arr, ok := v.([]interface{})
	return ok && len(arr) == 0
}

func unwrapEnvelope(obj map[string]interface{}) (interface{}, bool) {
	if len(obj) != 1 {
		return nil, false
	}
	inner, ok := obj[envelopeKey]
	return inner, ok
}
