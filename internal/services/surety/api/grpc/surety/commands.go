package surety

import (
	"context"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/louisbranch/flightsurety/internal/platform/requestctx"
	"github.com/louisbranch/flightsurety/internal/services/surety/api/grpc/suretyv1"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/command"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

// ExecuteCommand runs one command as the calling principal.
func (s *Server) ExecuteCommand(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req suretyv1.CommandRequest
	if err := suretyv1.Decode(in, &req); err != nil {
		return nil, s.statusError(ctx, invalidArgument("decode command", err))
	}
	actor, err := callerPrincipal(ctx)
	if err != nil {
		return nil, s.statusError(ctx, err)
	}
	caller := requestctx.CallerFromContext(ctx)

	result, err := s.engine.Execute(ctx, command.Command{
		Type:        command.Type(strings.TrimSpace(req.Type)),
		ActorID:     actor,
		RelayID:     principal.Principal(caller.Relay),
		RequestID:   caller.RequestID,
		Value:       req.Value,
		PayloadJSON: req.Payload,
	})
	if err != nil {
		return nil, s.statusError(ctx, err)
	}

	out, err := suretyv1.Encode(suretyv1.CommandResponse{
		Events:  suretyv1.EventsFromDomain(result.Events),
		LastSeq: s.engine.LastSeq(),
	})
	if err != nil {
		return nil, s.statusError(ctx, err)
	}
	return out, nil
}
