/*
Package nimiqrpc contains a set of types used for JSON-RPC communication with
Nimiq nodes. It defines basic request/response envelopes as well as the errors
a call can fail with.
*/
package nimiqrpc

import (
	"encoding/json"
)

const (
	// JSONRPCVersion is the only JSON-RPC protocol version supported.
	JSONRPCVersion = "2.0"
)

type (
	// Request represents JSON-RPC request.
	Request struct {
		// JSONRPC is the protocol version, only valid when it contains JSONRPCVersion.
		JSONRPC string `json:"jsonrpc"`
		// Method is the method being called.
		Method string `json:"method"`
		// Params is a set of positional method-specific parameters. Nimiq nodes
		// expect it to always be an array, so an empty one is sent when there
		// are no parameters.
		Params []interface{} `json:"params"`
		// ID is an identifier associated with this request. Client uses
		// numeric identifiers only.
		ID uint64 `json:"id"`
	}

	// Header is a generic JSON-RPC 2.0 response header (ID and JSON-RPC version).
	Header struct {
		ID      json.RawMessage `json:"id"`
		JSONRPC string          `json:"jsonrpc"`
	}

	// HeaderAndError adds an Error (that can be empty) to the Header.
	HeaderAndError struct {
		Header
		Error *RemoteError `json:"error,omitempty"`
	}

	// Response represents a standard raw JSON-RPC 2.0
	// response: http://www.jsonrpc.org/specification#response_object.
	// Result is empty both for a missing "result" key and for an explicit
	// null value.
	Response struct {
		HeaderAndError
		Result json.RawMessage `json:"result,omitempty"`
	}
)

// NewRequest creates a request for the given method with the given params,
// nil params are replaced with an empty array.
func NewRequest(id uint64, method string, params []interface{}) *Request {
	if params == nil {
		params = []interface{}{}
	}
	return &Request{
		JSONRPC: JSONRPCVersion,
		Method:  method,
		Params:  params,
		ID:      id,
	}
}

// IsNull returns true when the response has no meaningful result, that is
// either no "result" key or a JSON null in it.
func (r *Response) IsNull() bool {
	return len(r.Result) == 0 || string(r.Result) == "null"
}
