package ports

import "fmt"

// CallErrorKind classifies an outbound provider-call failure. Every failed
// call maps to exactly one kind so callers switch on a small taxonomy
// instead of inspecting transport errors.
type CallErrorKind string

const (
	// KindClientRejected is a 4xx: the provider refused the request.
	KindClientRejected CallErrorKind = "client_rejected"
	// KindProviderFault is a 5xx: the provider failed; retryable by the
	// caller at a higher layer, never retried here.
	KindProviderFault CallErrorKind = "provider_fault"
	// KindConnectivity is a transport failure: timeout, DNS, TLS.
	KindConnectivity CallErrorKind = "connectivity"
	// KindDecode means the response body did not match the expected shape.
	KindDecode CallErrorKind = "decode"
)

// APIError is the structured failure returned by every provider call.
type APIError struct {
	Kind   CallErrorKind
	Status int    // HTTP status to surface to the caller
	Detail string // provider detail text, passed through verbatim
}

func (e *APIError) Error() string {
	return fmt.Sprintf("webex api call failed (%s, status %d): %s", e.Kind, e.Status, e.Detail)
}
