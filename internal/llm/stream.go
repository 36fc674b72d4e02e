package llm

import (
	"context"
	"io"
)

type streamItem struct {
	frag Fragment
	err  error
}

type channelStream struct {
	ctx    context.Context
	cancel context.CancelFunc
	items  <-chan streamItem
}

// newFragmentStream runs fn on its own goroutine. Fragments passed to emit are
// delivered by Recv in order; a non-nil return from fn is delivered as the
// final Recv error.
func newFragmentStream(ctx context.Context, fn func(ctx context.Context, emit func(Fragment) error) error) Stream {
	streamCtx, cancel := context.WithCancel(ctx)
	ch := make(chan streamItem, 16)
	send := func(item streamItem) error {
		select {
		case ch <- item:
			return nil
		case <-streamCtx.Done():
			return streamCtx.Err()
		}
	}
	go func() {
		defer close(ch)
		err := fn(streamCtx, func(f Fragment) error {
			return send(streamItem{frag: f})
		})
		if err != nil {
			_ = send(streamItem{err: err})
		}
	}()
	return &channelStream{ctx: streamCtx, cancel: cancel, items: ch}
}

func (s *channelStream) Recv() (Fragment, error) {
	// Drain buffered items before honoring cancellation so a trailing error
	// is not lost when ctx and items are both ready.
	select {
	case item, ok := <-s.items:
		return s.unpack(item, ok)
	default:
	}

	select {
	case <-s.ctx.Done():
		return Fragment{}, s.ctx.Err()
	case item, ok := <-s.items:
		return s.unpack(item, ok)
	}
}

func (s *channelStream) unpack(item streamItem, ok bool) (Fragment, error) {
	if !ok {
		return Fragment{}, io.EOF
	}
	if item.err != nil {
		return Fragment{}, item.err
	}
	return item.frag, nil
}

func (s *channelStream) Close() error {
	s.cancel()
	return nil
}
