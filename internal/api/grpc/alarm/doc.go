// Package alarm implements the gRPC transport for the alarm clock.
//
// The AlarmClockService is described by hand on top of protobuf well-known
// types: requests and responses are structpb.Struct or emptypb.Empty values,
// so the default proto codec carries them without generated code. The
// package adapts domain types to those messages, exposes a server that calls
// into a business-service interface and a thin client stub.
package alarm
