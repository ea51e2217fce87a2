package models

import "time"

// FailureKind classifies why a tool call produced no usable data.
type FailureKind string

const (
	FailureValidation        FailureKind = "validation_error"
	FailureAuthentication    FailureKind = "authentication_error"
	FailureNotFound          FailureKind = "not_found_error"
	FailureServer            FailureKind = "server_error"
	FailureMalformedResponse FailureKind = "malformed_response_error"
	FailureTransport         FailureKind = "transport_error"
	FailureUnknownTool       FailureKind = "unknown_operation_error"
	FailureUnexpected        FailureKind = "unexpected_error"
)

// ToolResult is the uniform outcome of every backend operation. It is
// always a value: operations return it for both success and failure,
// and the dispatch loop serializes it for the model either way.
type ToolResult struct {
	Status    string         `json:"status"`
	Kind      FailureKind    `json:"kind,omitempty"`
	Message   string         `json:"message,omitempty"`
	Data      any            `json:"data,omitempty"`
	Request   map[string]any `json:"request,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
}

func Success(data any, request map[string]any) *ToolResult {
	return &ToolResult{
		Status:    "success",
		Data:      data,
		Request:   request,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func Failure(kind FailureKind, message string) *ToolResult {
	return &ToolResult{
		Status:  "error",
		Kind:    kind,
		Message: message,
	}
}

func (r *ToolResult) IsFailure() bool {
	return r.Status != "success"
}
