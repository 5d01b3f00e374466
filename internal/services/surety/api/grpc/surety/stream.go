package surety

import (
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/louisbranch/flightsurety/internal/platform/logging"
	"github.com/louisbranch/flightsurety/internal/services/surety/api/grpc/suretyv1"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/bus"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/storage"
	"github.com/louisbranch/flightsurety/internal/services/surety/storage/filter"
)

// SubscribeEvents sends journaled events after the requested sequence, then
// follows live events. Each event is sent at most once per stream, in
// sequence order. A stream that falls behind the bus ends with
// ResourceExhausted; the client resumes from the last sequence it saw.
func (s *Server) SubscribeEvents(in *structpb.Struct, stream grpc.ServerStream) error {
	ctx := stream.Context()
	var req suretyv1.SubscribeRequest
	if err := suretyv1.Decode(in, &req); err != nil {
		return s.statusError(ctx, invalidArgument("decode request", err))
	}
	match, err := filter.ParsePredicate(req.Filter)
	if err != nil {
		return s.statusError(ctx, invalidArgument("invalid filter", err))
	}

	// Subscribe before reading the journal so nothing appended in between is lost.
	sub := s.events.Subscribe(bus.Filter(match))
	defer sub.Close()

	last := req.AfterSeq
	send := func(evt event.Event) error {
		if evt.Seq <= last {
			return nil
		}
		msg, err := suretyv1.Encode(suretyv1.EventFromDomain(evt))
		if err != nil {
			return err
		}
		if err := stream.SendMsg(msg); err != nil {
			return err
		}
		last = evt.Seq
		return nil
	}

	for {
		page, err := s.journal.ListEvents(ctx, storage.ListEventsRequest{AfterSeq: last, Limit: storage.MaxPageSize, Filter: req.Filter})
		if err != nil {
			return s.statusError(ctx, err)
		}
		for _, evt := range page {
			if err := send(evt); err != nil {
				return s.statusError(ctx, err)
			}
		}
		if len(page) < storage.MaxPageSize {
			break
		}
	}

	for {
		select {
		case <-ctx.Done():
			return s.statusError(ctx, ctx.Err())
		case evt, ok := <-sub.Events():
			if !ok {
				if sub.Err() != nil {
					s.logger.Warn("event stream fell behind", logging.Uint64("last_seq", last))
					return status.Error(codes.ResourceExhausted, fmt.Sprintf("subscriber fell behind; resume after seq %d", last))
				}
				return status.Error(codes.Unavailable, "event bus closed")
			}
			if err := send(evt); err != nil {
				if ctx.Err() != nil {
					return s.statusError(ctx, ctx.Err())
				}
				return s.statusError(ctx, err)
			}
		}
	}
}
