// Package logging provides subsystem-tagged structured logging for the
// plugin host, built on log/slog.
//
// Every call site names the subsystem it is logging from (e.g.
// "WasmLoader", "Router", "HostCall"), which is attached as a
// "subsystem" attribute so operators can filter a busy plugin host's
// output by component.
package logging
