// Package api is the HTTP gateway client for the Epoch REST service.  It
// handles JSON packing and un-packing for the account, registered-type, and
// user/auth endpoints, and validates key strings at the wire boundary.
//
// All requests are JSON; authenticated endpoints carry the bearer token in
// the epoch_api_key header.  Non-2xx responses surface as [*TransportError]
// unchanged, never swallowed.
package api
