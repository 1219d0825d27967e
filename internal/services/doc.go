// Package services holds the error taxonomy shared by the generation
// pipeline, the queue worker, and the HTTP API.
//
// Errors are tagged with sentinel markers via Wrap so callers can classify
// failures with errors.Is without string matching: validation and not-found
// errors surface to HTTP callers as 4xx, pipeline errors become the terminal
// error message on a failed queue item, and persistence errors surface as 5xx.
package services
