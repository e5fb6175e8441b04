package alarm

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "alarmclock.v1.AlarmClockService"

// Full method names.
const (
	SetAlarmMethod      = "/" + ServiceName + "/SetAlarm"
	StopAlarmMethod     = "/" + ServiceName + "/StopAlarm"
	SnoozeAlarmMethod   = "/" + ServiceName + "/SnoozeAlarm"
	GetAlarmStateMethod = "/" + ServiceName + "/GetAlarmState"
	WatchEventsMethod   = "/" + ServiceName + "/WatchEvents"
)

// AlarmClockServer is the server API of the AlarmClockService.
type AlarmClockServer interface {
	SetAlarm(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	StopAlarm(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	SnoozeAlarm(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	GetAlarmState(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	WatchEvents(req *emptypb.Empty, stream EventStream) error
}

// EventStream is the server side of WatchEvents.
type EventStream interface {
	Send(event *structpb.Struct) error
	Context() context.Context
}

// EventReceiver is the client side of WatchEvents.
type EventReceiver interface {
	Recv() (*structpb.Struct, error)
}

//nolint:gochecknoglobals // Service descriptors are package-level, as in generated code.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AlarmClockServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SetAlarm",
			Handler:    unaryHandler(SetAlarmMethod, AlarmClockServer.SetAlarm),
		},
		{
			MethodName: "StopAlarm",
			Handler:    unaryHandler(StopAlarmMethod, AlarmClockServer.StopAlarm),
		},
		{
			MethodName: "SnoozeAlarm",
			Handler:    unaryHandler(SnoozeAlarmMethod, AlarmClockServer.SnoozeAlarm),
		},
		{
			MethodName: "GetAlarmState",
			Handler:    unaryHandler(GetAlarmStateMethod, AlarmClockServer.GetAlarmState),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchEvents",
			Handler:       watchEventsHandler,
			ServerStreams: true,
		},
	},
	Metadata: "alarmclock/v1/alarm_clock.proto",
}

// RegisterAlarmClockServer registers srv on the gRPC service registrar.
func RegisterAlarmClockServer(registrar grpc.ServiceRegistrar, srv AlarmClockServer) {
	registrar.RegisterService(&serviceDesc, srv)
}

// unaryHandler builds a grpc.MethodHandler that decodes a Req and dispatches to call.
func unaryHandler[Req any, PReq interface {
	*Req
	proto.Message
}](
	fullMethod string,
	call func(AlarmClockServer, context.Context, PReq) (*structpb.Struct, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PReq(new(Req))
		if err := dec(in); err != nil {
			return nil, err
		}

		server, ok := srv.(AlarmClockServer)
		if !ok {
			return nil, fmt.Errorf("unexpected server type %T", srv)
		}

		if interceptor == nil {
			return call(server, ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}

		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(PReq)
			if !ok {
				return nil, fmt.Errorf("unexpected request type %T", req)
			}

			return call(server, ctx, typed)
		}

		return interceptor(ctx, in, info, handler)
	}
}

// watchEventsHandler decodes the WatchEvents request and hands the stream to the server.
func watchEventsHandler(srv any, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}

	server, ok := srv.(AlarmClockServer)
	if !ok {
		return fmt.Errorf("unexpected server type %T", srv)
	}

	return server.WatchEvents(in, &eventStream{ServerStream: stream})
}

// eventStream adapts grpc.ServerStream to EventStream.
type eventStream struct {
	grpc.ServerStream
}

// Send writes one event message.
func (s *eventStream) Send(event *structpb.Struct) error {
	return s.SendMsg(event)
}

// Client is the client stub of the AlarmClockService.
type Client struct {
	// cc is the connection the calls are made on.
	cc grpc.ClientConnInterface
}

// NewClient creates a stub on top of an established connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// SetAlarm calls AlarmClockService.SetAlarm.
func (c *Client) SetAlarm(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SetAlarmMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// StopAlarm calls AlarmClockService.StopAlarm.
func (c *Client) StopAlarm(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, StopAlarmMethod, new(emptypb.Empty), out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// SnoozeAlarm calls AlarmClockService.SnoozeAlarm.
func (c *Client) SnoozeAlarm(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SnoozeAlarmMethod, new(emptypb.Empty), out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// GetAlarmState calls AlarmClockService.GetAlarmState.
func (c *Client) GetAlarmState(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetAlarmStateMethod, new(emptypb.Empty), out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// WatchEvents opens the server stream of alarm events.
//
//nolint:ireturn // The receiver hides the raw client stream.
func (c *Client) WatchEvents(ctx context.Context, opts ...grpc.CallOption) (EventReceiver, error) {
	stream, err := c.cc.NewStream(ctx, &serviceDesc.Streams[0], WatchEventsMethod, opts...)
	if err != nil {
		return nil, err
	}

	if err = stream.SendMsg(new(emptypb.Empty)); err != nil {
		return nil, err
	}

	if err = stream.CloseSend(); err != nil {
		return nil, err
	}

	return &eventReceiver{ClientStream: stream}, nil
}

// eventReceiver adapts grpc.ClientStream to EventReceiver.
type eventReceiver struct {
	grpc.ClientStream
}

// Recv reads the next event message.
func (r *eventReceiver) Recv() (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := r.RecvMsg(out); err != nil {
		return nil, err
	}

	return out, nil
}
