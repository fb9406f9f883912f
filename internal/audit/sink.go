// Tiendat | 2026
// sink.go

// Package audit records security-relevant actions without ever blocking or
// failing the request that triggered them.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type Event struct {
	Actor      string
	ActorRole  string
	Action     string
	TargetUser string
	Detail     string
	IPAddress  string
	UserAgent  string
	Metadata   map[string]any
	OccurredAt time.Time
}

// RequestInfo carries the client address and user agent from the HTTP layer
// down to whichever service records the event.
type RequestInfo struct {
	IPAddress string
	UserAgent string
}

type requestInfoKey struct{}

func WithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, info)
}

func RequestInfoFrom(ctx context.Context) (RequestInfo, bool) {
	info, ok := ctx.Value(requestInfoKey{}).(RequestInfo)
	return info, ok
}

// Recorder is what the feature services depend on. The context supplies the
// request info; it is never used for cancellation here.
type Recorder interface {
	Record(ctx context.Context, e Event)
}

// Store persists drained events. Implemented by Repository.
type Store interface {
	Insert(ctx context.Context, e Event) error
}

// Sink buffers events on a channel and writes them from a single background
// worker. Record never blocks: if the buffer is full the event is dropped
// and counted, because an audit stall must not stall the caller.
type Sink struct {
	events  chan Event
	store   Store
	logger  *slog.Logger
	done    chan struct{}
	once    sync.Once
	mu      sync.Mutex
	dropped int64
}

func NewSink(store Store, bufferSize int, logger *slog.Logger) *Sink {
	if bufferSize <= 0 {
		bufferSize = 256
	}

	s := &Sink{
		events: make(chan Event, bufferSize),
		store:  store,
		logger: logger,
		done:   make(chan struct{}),
	}

	go s.run()

	return s
}

func (s *Sink) Record(ctx context.Context, e Event) {
	if info, ok := RequestInfoFrom(ctx); ok {
		if e.IPAddress == "" {
			e.IPAddress = info.IPAddress
		}
		if e.UserAgent == "" {
			e.UserAgent = info.UserAgent
		}
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	select {
	case s.events <- e:
	default:
		s.mu.Lock()
		s.dropped++
		n := s.dropped
		s.mu.Unlock()

		s.logger.Warn("audit buffer full, event dropped",
			"action", e.Action, "total_dropped", n)
	}
}

func (s *Sink) run() {
	defer close(s.done)

	for e := range s.events {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.store.Insert(ctx, e); err != nil {
			s.logger.Error("audit insert failed",
				"action", e.Action, "actor", e.Actor, "error", err)
		}
		cancel()
	}
}

// Close stops accepting events and waits for the buffer to drain.
func (s *Sink) Close(ctx context.Context) error {
	s.once.Do(func() { close(s.events) })

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dropped reports how many events were discarded due to a full buffer.
func (s *Sink) Dropped() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}
