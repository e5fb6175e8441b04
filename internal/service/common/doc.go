// Package common holds helpers shared by several services.
//
// It provides a gRPC client wrapper for the alarm clock with call timeouts
// and domain conversion, and detects the current system actor
// (hostname/username) so the server can log who issued a command.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
