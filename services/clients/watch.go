package clients

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Subscribe delivers the instructor's roster to fn now and again after every change to
// their bookings or external clients, until ctx is cancelled. fn is called from the
// subscribing goroutine only. A refetch that fails delivers the previous roster with
// Err set, so callers keep showing stale data rather than nothing.
func (s *DefaultClientService) Subscribe(ctx context.Context, instructorID string, fn func(Snapshot)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bookingChanges, err := s.Bookings.Watch(ctx, instructorID)
	if err != nil {
		return fmt.Errorf("%w: watch bookings: %w", ErrSourceFetch, err)
	}
	clientChanges, err := s.Clients.Watch(ctx, instructorID)
	if err != nil {
		return fmt.Errorf("%w: watch external clients: %w", ErrSourceFetch, err)
	}

	var last []Identity
	emit := func() {
		list, err := s.load(ctx, instructorID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.Logger.Warn("client refetch failed", zap.String("instructorID", instructorID), zap.Error(err))
			fn(Snapshot{Clients: last, Err: err})
			return
		}
		last = list
		s.store(ctx, instructorID, list)
		fn(Snapshot{Clients: list})
	}

	emit()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-bookingChanges:
			if !ok {
				return s.closedFeed(ctx)
			}
		case _, ok := <-clientChanges:
			if !ok {
				return s.closedFeed(ctx)
			}
		}
		emit()
	}
}

// closedFeed distinguishes a feed closed by cancellation from one that failed.
func (s *DefaultClientService) closedFeed(ctx context.Context) error {
	if ctx.Err() != nil {
		return nil
	}
	return ErrWatchClosed
}
