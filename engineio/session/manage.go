package session

import "context"

type sessionCtxKey string

const (
	SessionConnectionKey sessionCtxKey = "connection"
	SessionServerKey     sessionCtxKey = "server"
)

// WithConnectionID attaches the local connection id to ctx.
func WithConnectionID(ctx context.Context, id ID) context.Context {
	return context.WithValue(ctx, SessionConnectionKey, id)
}

// WithServerID attaches the server session id (the handshake sid) to ctx.
func WithServerID(ctx context.Context, id ID) context.Context {
	return context.WithValue(ctx, SessionServerKey, id)
}

func ConnectionID(ctx context.Context) ID { return fromContext(ctx, SessionConnectionKey) }
func ServerID(ctx context.Context) ID     { return fromContext(ctx, SessionServerKey) }

func fromContext(ctx context.Context, key sessionCtxKey) ID {
	if id, ok := ctx.Value(key).(ID); ok {
		return id
	}
	return ""
}
