// Package version reports the build version shown in the startup summary and
// exported as the telemetry service version.
//
//	go build -ldflags "-X github.com/kbukum/autowire/version.Version=1.2.0"
package version
