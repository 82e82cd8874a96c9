// Package services contains the business-facing service layer sitting
// between the HTTP transport and the attendance pipeline. Services own
// request-scoped wiring: they merge per-request processing options over
// the configured defaults, assemble the pipeline collaborators, and
// translate uploads into pipeline runs.
package services
