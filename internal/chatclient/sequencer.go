package chatclient

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

// ErrGap is returned by the Sequencer when a missing sequence number did not
// arrive in time. The caller must refetch the channel.
var ErrGap = errors.New("chatclient: realtime sequence gap")

const (
	maxPending = 64

	// GapTimeout is how long an out-of-order event may wait for the seq
	// before it.
	GapTimeout = 1500 * time.Millisecond
)

// Sequencer releases realtime events of each channel strictly in seq order.
// Out-of-order events are buffered, duplicates and stale events dropped.
// Events with seq 0 are out-of-stream notifications and pass through.
type Sequencer struct {
	clock    clockwork.Clock
	mu       sync.Mutex
	channels map[uuid.UUID]*channelSeq
}

type channelSeq struct {
	next    int64
	pending map[int64]domain.Event
	since   time.Time // first buffered event, zero when nothing waits
}

// newest returns the highest buffered seq.
func (cs *channelSeq) newest() int64 {
	top := cs.next - 1
	for seq := range cs.pending {
		if seq > top {
			top = seq
		}
	}
	return top
}

// skip gives up on the gap: everything up to the newest buffered event is
// considered covered by the refetch the caller is about to do.
func (cs *channelSeq) skip() {
	cs.next = cs.newest() + 1
	cs.pending = make(map[int64]domain.Event)
	cs.since = time.Time{}
}

// NewSequencer creates an empty sequencer.
func NewSequencer(clock clockwork.Clock) *Sequencer {
	return &Sequencer{clock: clock, channels: make(map[uuid.UUID]*channelSeq)}
}

// Reset sets the last applied seq of a channel and drops buffered events.
func (s *Sequencer) Reset(channelID uuid.UUID, lastSeq int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels[channelID] = &channelSeq{next: lastSeq + 1, pending: make(map[int64]domain.Event)}
}

// Forget drops all state of a channel. The next accepted event becomes the
// new baseline.
func (s *Sequencer) Forget(channelID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.channels, channelID)
}

// GapDeadline reports when the oldest unresolved gap of a channel expires.
func (s *Sequencer) GapDeadline(channelID uuid.UUID) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs, ok := s.channels[channelID]
	if !ok || cs.since.IsZero() {
		return time.Time{}, false
	}
	return cs.since.Add(GapTimeout), true
}

// Expire gives up on a channel's gap if its deadline has passed. The channel
// continues after the newest buffered seq and ErrGap is returned.
func (s *Sequencer) Expire(channelID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs, ok := s.channels[channelID]
	if !ok || cs.since.IsZero() || s.clock.Since(cs.since) < GapTimeout {
		return nil
	}
	cs.skip()
	return ErrGap
}

// Accept takes one event and returns the events that are now applicable,
// in order.
func (s *Sequencer) Accept(ev domain.Event) ([]domain.Event, error) {
	if ev.Seq == 0 {
		return []domain.Event{ev}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cs, ok := s.channels[ev.ChannelID]
	if !ok {
		cs = &channelSeq{next: ev.Seq, pending: make(map[int64]domain.Event)}
		s.channels[ev.ChannelID] = cs
	}

	switch {
	case ev.Seq < cs.next:
		return nil, nil
	case ev.Seq > cs.next:
		if _, dup := cs.pending[ev.Seq]; dup {
			return nil, nil
		}
		cs.pending[ev.Seq] = ev
		if cs.since.IsZero() {
			cs.since = s.clock.Now()
		}
		if len(cs.pending) > maxPending {
			cs.skip()
			return nil, ErrGap
		}
		return nil, nil
	}

	out := []domain.Event{ev}
	cs.next++
	for {
		queued, ok := cs.pending[cs.next]
		if !ok {
			break
		}
		delete(cs.pending, cs.next)
		out = append(out, queued)
		cs.next++
	}
	if len(cs.pending) == 0 {
		cs.since = time.Time{}
	} else {
		// Still waiting on a later hole.
		cs.since = s.clock.Now()
	}
	return out, nil
}
