package alarm

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// Metadata keys carrying the calling actor.
const (
	actorHostnameKey = "x-alarm-actor-hostname"
	actorUsernameKey = "x-alarm-actor-username"
)

// WithActor returns an outgoing context that identifies actor to the server.
func WithActor(ctx context.Context, actor *domain.Actor) context.Context {
	if actor == nil {
		return ctx
	}

	return metadata.AppendToOutgoingContext(
		ctx,
		actorHostnameKey, actor.Hostname,
		actorUsernameKey, actor.Username,
	)
}

// ActorFromContext extracts the calling actor from incoming metadata.
func ActorFromContext(ctx context.Context) *domain.Actor {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil
	}

	hostnames := md.Get(actorHostnameKey)
	usernames := md.Get(actorUsernameKey)

	if len(hostnames) == 0 && len(usernames) == 0 {
		return nil
	}

	actor := new(domain.Actor)

	if len(hostnames) > 0 {
		actor.Hostname = hostnames[0]
	}

	if len(usernames) > 0 {
		actor.Username = usernames[0]
	}

	return actor
}

// LoggingUnaryInterceptor attaches the base logger, method and actor to the request context.
func LoggingUnaryInterceptor(base context.Context) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx = withRequestLogger(ctx, base, info.FullMethod)

		resp, err := handler(ctx, req)
		if err != nil {
			logger.WarnKV(ctx, "Request failed", "error", err)
		}

		return resp, err
	}
}

// LoggingStreamInterceptor does the same for streaming calls.
func LoggingStreamInterceptor(base context.Context) grpc.StreamServerInterceptor {
	return func(srv any, stream grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx := withRequestLogger(stream.Context(), base, info.FullMethod)

		return handler(srv, &contextStream{ServerStream: stream, ctx: ctx})
	}
}

// withRequestLogger copies the logger of base into ctx and names the method and actor.
func withRequestLogger(ctx, base context.Context, method string) context.Context {
	ctx = logger.ToContext(ctx, logger.FromContext(base))

	return logger.WithFields(ctx, map[string]any{
		"method": method,
		"actor":  ActorFromContext(ctx).String(),
	})
}

// contextStream overrides the context of a server stream.
type contextStream struct {
	grpc.ServerStream

	ctx context.Context //nolint:containedctx // Replaces the stream context.
}

// Context returns the enriched context.
func (s *contextStream) Context() context.Context {
	return s.ctx
}
