/*
Package result contains the data model of Nimiq node RPC results.

Some results don't carry an explicit discriminator and their shape depends on
the node state or on call parameters (account kinds, full transactions vs
hashes, sync progress vs boolean). Such values are decoded by trying an ordered
list of strict candidate decoders, the first one that succeeds wins.
*/
package result

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// decoder is a single candidate shape of an ambiguous JSON value.
type decoder func(data []byte) error

// firstOf tries decoders in order and stops at the first successful one. If
// none succeeds, the error of the last one is returned.
func firstOf(data []byte, decoders ...decoder) error {
	var err error
	for _, d := range decoders {
		if err = d(data); err == nil {
			return nil
		}
	}
	return err
}

// errNull is returned by union decoders for JSON null input, none of the
// variants is nullable.
var errNull = errors.New("unexpected null value")

func isNull(data []byte) bool {
	return string(bytes.TrimSpace(data)) == "null"
}

// unmarshalStrict unmarshals a JSON object into v, unlike plain json.Unmarshal
// it fails if any of the given fields is missing or null.
func unmarshalStrict(data []byte, v interface{}, fields ...string) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj == nil {
		return fmt.Errorf("expected an object, got %s", data)
	}
	for _, f := range fields {
		raw, ok := obj[f]
		if !ok || string(raw) == "null" {
			return fmt.Errorf("missing required field %q", f)
		}
	}
	return json.Unmarshal(data, v)
}
