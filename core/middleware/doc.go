// Package middleware contains HTTP middleware for the Fiber application.
//
// It provides cross-cutting concerns that sit between the request and the
// handler:
//
//   - auth: API key validation to protect endpoints (optional).
//   - rayid: generates a unique request id (RayID) for every incoming
//     request, injecting it into the context and response headers for
//     tracing.
//
// These components are registered globally in the main application setup.
package middleware
