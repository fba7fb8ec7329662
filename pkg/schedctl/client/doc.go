// Package client implements the HTTP client for talking to a skylift
// scheduler, with methods for job and quota operations including
// correlation-ID tracing.
package client
