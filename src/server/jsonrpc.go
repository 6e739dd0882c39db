package server

import (
	"encoding/json"
	"fmt"
)

// JSON-RPC error codes used by the bridge.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Request is one inbound frame. Frames without an id are notifications and get no
// response.
type Request struct {
	ID     *json.RawMessage `json:"id,omitempty"`
	Method string           `json:"method"`
	Params json.RawMessage  `json:"params,omitempty"`
}

// Response answers a Request.
type Response struct {
	ID     *json.RawMessage `json:"id"`
	Result interface{}      `json:"result,omitempty"`
	Error  *RPCError        `json:"error,omitempty"`
}

// Notification is a server initiated event.
type Notification struct {
	Method string      `json:"method"`
	Params interface{} `json:"params,omitempty"`
}

// RPCError is returned by Dispatchers to choose the error code sent to the peer.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

func NewRPCError(code int, format string, args ...interface{}) *RPCError {
	return &RPCError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// nullID is used when a frame cannot be parsed far enough to recover its id.
var nullID = json.RawMessage("null")
