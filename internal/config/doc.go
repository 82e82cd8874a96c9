// Package config provides centralized configuration for the attendance
// conversion system.
//
// Configuration is loaded from an optional YAML file (attendance.yaml by
// default, override with ATTEND_CONFIG_FILE) and then from environment
// variables with the ATTEND prefix, which take precedence:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The Processing section carries the attendance policy parameters: the
// default start-of-day time, per-employee overrides, the break detection
// interval bounds, and the overtime threshold. ProcessingConfig.EmployeeConfig
// converts these into the read-only domain.EmployeeConfig consumed by one
// pipeline run.
//
// Paths are always resolved relative to the executable directory, never the
// current working directory, so the binaries behave identically whether
// launched from a shell or a service manager.
package config
