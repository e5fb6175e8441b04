// Package config defines the settings shared by the alarm clock binaries and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the gRPC server address, the RPC timeout, the tick
// cadence of the scheduler, the event buffer size and the log level.
package config
