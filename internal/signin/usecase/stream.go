package usecase

import (
	"context"

	"github.com/shandysiswandi/glintai/internal/pkg/goerror"
	"github.com/shandysiswandi/glintai/internal/signin/entity"
)

const streamBuffer = 16

type subscriber struct {
	ch     chan entity.Event
	closed bool
}

type StreamFlowInput struct {
	FlowID string `validate:"required,uuid"`
}

// StreamFlow returns the current state and a channel of later events. The
// channel is closed when ctx is done or the flow is dropped. Slow readers
// miss events rather than block the flow.
func (s *Usecase) StreamFlow(ctx context.Context, in StreamFlowInput) (*entity.FlowState, <-chan entity.Event, error) {
	ctx, span := s.startSpan(ctx, "StreamFlow")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, nil, goerror.NewInvalidInput(err)
	}

	f, err := s.getFlow(ctx, in.FlowID)
	if err != nil {
		return nil, nil, err
	}

	sub := &subscriber{ch: make(chan entity.Event, streamBuffer)}

	s.streamMu.Lock()
	if s.streams[in.FlowID] == nil {
		s.streams[in.FlowID] = make(map[*subscriber]struct{})
	}
	s.streams[in.FlowID][sub] = struct{}{}
	s.streamMu.Unlock()
	s.subscribers.Inc()

	go func() {
		<-ctx.Done()
		s.dropSubscriber(in.FlowID, sub)
	}()

	st := f.Snapshot()
	return &st, sub.ch, nil
}

// Subscribers reports the number of open streams.
func (s *Usecase) Subscribers() int64 {
	return s.subscribers.Load()
}

func (s *Usecase) publishEvent(evt entity.Event) {
	s.streamMu.RLock()
	defer s.streamMu.RUnlock()

	for sub := range s.streams[evt.FlowID] {
		select {
		case sub.ch <- evt:
		default:
		}
	}
}

func (s *Usecase) dropSubscriber(flowID string, sub *subscriber) {
	s.streamMu.Lock()
	defer s.streamMu.Unlock()

	if sub.closed {
		return
	}
	sub.closed = true
	close(sub.ch)
	s.subscribers.Dec()

	if subs := s.streams[flowID]; subs != nil {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(s.streams, flowID)
		}
	}
}

func (s *Usecase) closeStreams(flowID string) {
	s.streamMu.Lock()
	defer s.streamMu.Unlock()

	for sub := range s.streams[flowID] {
		if sub.closed {
			continue
		}
		sub.closed = true
		close(sub.ch)
		s.subscribers.Dec()
	}
	delete(s.streams, flowID)
}
