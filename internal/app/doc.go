// Package app provides application initialization and lifecycle
// management for the attendance web service. It wires configuration,
// logging, OpenTelemetry, the service layer, and the HTTP router, and
// owns graceful shutdown.
//
// The typical initialization sequence:
//
//	1. Load configuration from the YAML file and environment
//	2. Initialize logging and observability
//	3. Initialize services with their dependencies
//	4. Set up HTTP handlers and middleware
//	5. Configure and start the HTTP server
//	6. Shut down gracefully on interrupt
//
// The main entry point is typically:
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
package app
