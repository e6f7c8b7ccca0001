// Package httputil provides HTTP utilities for standardized
// request/response handling.
//
// Response helpers write JSON bodies with consistent error shapes:
//
//	httputil.WriteSuccess(w, data)
//	httputil.WriteBadRequest(w, "project name is required")
//
// Request helpers parse JSON bodies and gorilla/mux path variables:
//
//	name, ok := httputil.ParsePathStringOrError(w, r, "name")
//	if !ok {
//		return // error response already written
//	}
//
// Middleware covers panic recovery, request IDs, content-type
// enforcement, and body size limits, composable via Chain.
package httputil
