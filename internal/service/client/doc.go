// Package client implements the alarm-clock CLI commands.
//
// Each command connects to the alarm clock server, issues one request and
// prints the resulting clock face and alarm indicator. Watch follows the
// event stream and reconnects until interrupted.
package client
