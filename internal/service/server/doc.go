// Package server runs the alarm clock daemon.
//
// It loads settings, guards against a second server on the host, owns the
// alarm scheduler, drives it with the tick driver, logs every emitted event
// and exposes the commands over gRPC until the context is canceled.
package server
