// Package http implements the HTTP request handlers for the attendance
// web service. It is a thin layer between transport and business logic:
// handlers parse multipart uploads and query parameters, delegate to the
// service layer, and format responses.
//
// Errors follow RFC 7807 Problem Details:
//
//	{
//	    "type": "missing-column",
//	    "title": "Missing Required Column",
//	    "status": 422,
//	    "detail": "missing required column: datetime",
//	    "instance": "/api/attendance/process"
//	}
//
// Fatal pipeline errors (a required column absent, or zero records
// produced) map to 422; undecodable uploads map to 400; everything else
// is a 500. Per-file decode failures and dropped rows are not errors at
// this layer; they are reported inside the success payload.
package http
