// Package api handles incoming HTTP requests, request validation and response
// formatting. It adapts HTTP to the todo and summary services: handlers
// decode and validate input, call a service, and map errors to status codes
// with MapErrorToStatusCode and GetSafeErrorMessage.
package api
