package servicedef

import (
	"encoding/json"
	"fmt"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Envelope field names. Every endpoint answers with at least success and data; the service
// also sends message and businessCode.
const (
	FieldSuccess      = "success"
	FieldData         = "data"
	FieldMessage      = "message"
	FieldBusinessCode = "businessCode"
)

// Object is a parsed JSON object that keeps track of which keys were present, including keys
// whose value is null.
type Object struct {
	fields map[string]ldvalue.Value
}

// AsObject interprets v as a JSON object. It fails for any other JSON type.
func AsObject(v ldvalue.Value) (Object, error) {
	if v.Type() != ldvalue.ObjectType {
		return Object{}, fmt.Errorf("expected a JSON object but got %s: %s", v.Type(), v.JSONString())
	}
	var fields map[string]ldvalue.Value
	if err := json.Unmarshal([]byte(v.JSONString()), &fields); err != nil {
		return Object{}, fmt.Errorf("cannot read JSON object: %w", err)
	}
	return Object{fields: fields}, nil
}

// Has returns true if the key is present, whatever its value.
func (o Object) Has(key string) bool {
	_, ok := o.fields[key]
	return ok
}

// Get returns the value for a key, or a null value if it is absent.
func (o Object) Get(key string) ldvalue.Value {
	return o.fields[key]
}

// Len returns the number of keys.
func (o Object) Len() int {
	return len(o.fields)
}

// Missing returns the keys, in the order given, that are not present.
func (o Object) Missing(keys ...string) []string {
	var ret []string
	for _, k := range keys {
		if !o.Has(k) {
			ret = append(ret, k)
		}
	}
	return ret
}
