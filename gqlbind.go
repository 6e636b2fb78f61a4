// Package gqlbind is the runtime support package for code emitted by the
// gqlbind generator. Generated operation bindings depend only on this
// package: they build Request values for a transport of the caller's choice
// and decode Response envelopes into their typed response structs.
package gqlbind

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Standard sentinel errors returned by the runtime.
var (
	// ErrNoData is returned when a response carries neither data nor errors.
	ErrNoData = errors.New("gqlbind: response contains no data")
)

// Request is the standard GraphQL HTTP request body.
type Request struct {
	OperationName string `json:"operationName,omitempty"`
	Query         string `json:"query"`
	Variables     any    `json:"variables,omitempty"`
}

// Body returns the JSON encoding of the request.
func (r *Request) Body() ([]byte, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("gqlbind: encode request body: %w", err)
	}
	return b, nil
}

// Response is the standard GraphQL response envelope.
type Response struct {
	Data       json.RawMessage `json:"data"`
	Errors     gqlerror.List   `json:"errors,omitempty"`
	Extensions map[string]any  `json:"extensions,omitempty"`
}

// UnmarshalData decodes the data payload into the given value.
// If the response carries errors, they are returned and the payload is left
// untouched. A response with neither data nor errors returns ErrNoData.
func (r *Response) UnmarshalData(into any) error {
	if len(r.Errors) > 0 {
		return r.Errors
	}
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return ErrNoData
	}
	if err := json.Unmarshal(r.Data, into); err != nil {
		return fmt.Errorf("gqlbind: decode response data: %w", err)
	}
	return nil
}

// Ptr returns a pointer to v. Generated code uses it to populate optional
// fields and default-value constructors without a temporary.
func Ptr[T any](v T) *T {
	return &v
}

// Requester is the capability implemented by variables types generated in
// standalone mode. The receiver carries the variable values; the query text
// and operation name are baked in by the generator.
type Requester interface {
	BuildRequest() *Request
}

// Operation is the capability bound to a user-defined host type in embedded
// mode. V is the operation's generated variables type and R its generated
// response type; R is carried in the type parameter list so the binding is
// checked at compile time even though no method mentions it.
type Operation[V, R any] interface {
	BuildRequest(V) *Request
}
