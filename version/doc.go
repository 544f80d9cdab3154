// Package version reports the build version of a toolbox host application.
//
//	go build -ldflags "-X github.com/kbukum/toolbox/version.Version=1.4.0"
//
// config.ServiceConfig falls back to Short when no version is configured, and
// the value ends up on the service.version resource attribute of exported
// telemetry.
package version
