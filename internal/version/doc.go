// Package version exposes build metadata for the alarm clock binaries.
//
// Version, Commit and BuildTime are injected via ldflags. When they are left
// at their defaults the VCS stamp recorded by the Go toolchain is used instead.
package version
