// Package api is the client for the structure API that owns persisted
// organograms.
//
// The API is an opaque collaborator with two calls:
//
//	POST {base}/save-organogram/               body: snapshot.SaveRequest
//	GET  {base}/validate-structure/{id}/
//
// Both answer {"success": bool, "error": string, ...}. A failed request, a
// non-JSON body or success=false all come back as coded errors for which
// [errors.IsTransport] is true. The graph is never touched by a failed save.
//
// Requests are issued exactly once: no retries, no de-duplication. Two saves
// produce two requests, each carrying the graph as it was when called.
//
// [errors.IsTransport]: github.com/matzehuels/organogram/pkg/errors.IsTransport
package api
