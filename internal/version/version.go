// Package version carries the build version reported to the processor in
// the client descriptor of every payment-link request.
package version

// Version may be overridden at build time with
// -ldflags "-X ikhokha-gateway/internal/version.Version=...".
var Version = "2.0.2"
