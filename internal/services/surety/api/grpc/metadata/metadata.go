// Package metadata defines the headers that carry caller identity and
// correlation IDs across gRPC boundaries.
package metadata

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/louisbranch/flightsurety/internal/platform/id"
	"github.com/louisbranch/flightsurety/internal/platform/requestctx"
)

const (
	// PrincipalHeader names the acting principal.
	PrincipalHeader = "x-flight-surety-principal"
	// RelayHeader names the authorized front-end forwarding the call.
	RelayHeader = "x-flight-surety-relay"
	// RequestIDHeader carries the request correlation ID.
	RequestIDHeader = "x-flight-surety-request-id"
	// LocaleHeader selects the message catalog for error details.
	LocaleHeader = "x-flight-surety-locale"
)

// IsPrintableASCII reports whether a string contains only printable ASCII characters.
func IsPrintableASCII(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < 0x20 || value[i] > 0x7e {
			return false
		}
	}
	return true
}

// FirstMetadataValue returns the first printable ASCII metadata value for a key.
func FirstMetadataValue(md metadata.MD, key string) string {
	if len(md) == 0 {
		return ""
	}
	for mdKey, values := range md {
		if !strings.EqualFold(mdKey, key) {
			continue
		}
		for _, value := range values {
			if IsPrintableASCII(value) {
				return strings.TrimSpace(value)
			}
		}
	}
	return ""
}

// AppendCaller adds caller headers to an outgoing context.
func AppendCaller(ctx context.Context, caller requestctx.Caller) context.Context {
	pairs := make([]string, 0, 8)
	for _, kv := range [][2]string{
		{PrincipalHeader, caller.Principal},
		{RelayHeader, caller.Relay},
		{RequestIDHeader, caller.RequestID},
		{LocaleHeader, caller.Locale},
	} {
		if kv[1] != "" {
			pairs = append(pairs, kv[0], kv[1])
		}
	}
	if len(pairs) == 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, pairs...)
}

// UnaryServerInterceptor resolves the caller from metadata for unary calls.
// Every call leaves with a request ID, generated when the client sent none.
func UnaryServerInterceptor(idGenerator func() (string, error)) grpc.UnaryServerInterceptor {
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		updatedCtx, caller, err := ensureCaller(ctx, idGenerator)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "ensure request metadata: %v", err)
		}
		if err := grpc.SetHeader(updatedCtx, metadata.Pairs(RequestIDHeader, caller.RequestID)); err != nil {
			return nil, status.Errorf(codes.Internal, "set response metadata: %v", err)
		}
		return handler(updatedCtx, req)
	}
}

// StreamServerInterceptor resolves the caller from metadata for streams.
func StreamServerInterceptor(idGenerator func() (string, error)) grpc.StreamServerInterceptor {
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	return func(srv any, stream grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		updatedCtx, caller, err := ensureCaller(stream.Context(), idGenerator)
		if err != nil {
			return status.Errorf(codes.Internal, "ensure request metadata: %v", err)
		}
		if err := stream.SetHeader(metadata.Pairs(RequestIDHeader, caller.RequestID)); err != nil {
			return status.Errorf(codes.Internal, "set response metadata: %v", err)
		}
		return handler(srv, &wrappedServerStream{ServerStream: stream, ctx: updatedCtx})
	}
}

type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the updated stream context.
func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}

func ensureCaller(ctx context.Context, idGenerator func() (string, error)) (context.Context, requestctx.Caller, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	caller := requestctx.Caller{
		Principal: FirstMetadataValue(md, PrincipalHeader),
		Relay:     FirstMetadataValue(md, RelayHeader),
		RequestID: FirstMetadataValue(md, RequestIDHeader),
		Locale:    FirstMetadataValue(md, LocaleHeader),
	}
	if caller.Locale == "" {
		caller.Locale = FirstMetadataValue(md, "accept-language")
	}
	if caller.RequestID == "" {
		generated, err := idGenerator()
		if err != nil {
			return nil, requestctx.Caller{}, err
		}
		caller.RequestID = generated
	}
	return requestctx.WithCaller(ctx, caller), caller, nil
}
