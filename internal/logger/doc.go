// Package logger wraps zap for the alarm clock binaries:
//   - a global sugared logger with a console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - level parsing and configuration from settings,
//   - leveled helpers taking a context (Infof, ErrorKV, etc.).
//
// Services receive a context and log through it, so names and fields added
// upstream (component, actor, RPC method) follow every message.
package logger
