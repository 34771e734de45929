// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between external clients
// and the task service, translating HTTP concerns to business operations.
//
// Errors from lower layers are mapped to status codes by
// MapErrorToStatusCode and rendered as {"error", "trace_id"} bodies.
package api
