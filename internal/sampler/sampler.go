// Package sampler periodically reads CPU utilization into a fixed-capacity
// history and serves copies of that history to concurrent readers.
package sampler

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"codeberg.org/mutker/cpuhistory/internal/errors"
	"codeberg.org/mutker/cpuhistory/internal/history"
	"codeberg.org/mutker/cpuhistory/internal/journal"
	"codeberg.org/mutker/cpuhistory/internal/logger"
	"codeberg.org/mutker/cpuhistory/internal/source"
)

const (
	// Fallback replaces readings that are missing or failed.
	Fallback = 0.0

	minSample = 0.0
	maxSample = 100.0
)

// Option configures optional collaborators of a Service.
type Option func(*Service)

// WithLogger sets the diagnostic logger. The default discards output.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		s.log = log.With("sampler")
	}
}

// WithRecorder hands every inserted sample to rec as well.
func WithRecorder(rec journal.Recorder) Option {
	return func(s *Service) {
		s.recorder = rec
	}
}

func withTicker(newTicker func(time.Duration) ticker) Option {
	return func(s *Service) {
		s.newTicker = newTicker
	}
}

// Service owns a history buffer and the goroutine that fills it.
type Service struct {
	cfg       Config
	src       source.Source
	buf       *history.Buffer
	log       logger.Logger
	recorder  journal.Recorder
	newTicker func(time.Duration) ticker

	// mu serialises lifecycle transitions. The buffer has its own lock so a
	// slow source never blocks Snapshot.
	mu     sync.Mutex
	state  atomic.Int32
	handle source.Handle
	cancel context.CancelFunc
	done   chan struct{}

	ticks              atomic.Uint64
	failedSamples      atomic.Uint64
	failedAcquisitions atomic.Uint64
	degraded           atomic.Bool
}

// New validates cfg and returns a Service in StateCreated whose history
// holds cfg.HistoryCapacity fallback values. A nil src samples nothing.
func New(cfg Config, src source.Source, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	buf, err := history.New(cfg.HistoryCapacity)
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrInvalidConfig, err)
	}

	if src == nil {
		src = source.Unsupported(runtime.GOOS)
	}

	s := &Service{
		cfg:       cfg,
		src:       src,
		buf:       buf,
		log:       logger.Nop(),
		newTicker: newTimeTicker,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// HistoryCapacity is valid in every state, including after Dispose.
func (s *Service) HistoryCapacity() int {
	return s.cfg.HistoryCapacity
}

// UpdateInterval is valid in every state, including after Dispose.
func (s *Service) UpdateInterval() time.Duration {
	return s.cfg.UpdateInterval
}

func (s *Service) UpdateIntervalMillis() int {
	return int(s.cfg.UpdateInterval / time.Millisecond)
}

func (s *Service) State() State {
	return State(s.state.Load())
}

func (s *Service) Stats() Stats {
	return Stats{
		Ticks:              s.ticks.Load(),
		FailedSamples:      s.failedSamples.Load(),
		FailedAcquisitions: s.failedAcquisitions.Load(),
		Degraded:           s.degraded.Load(),
	}
}

// Start acquires the source, records one priming sample and begins periodic
// sampling. Starting a running Service is a no-op.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.State() {
	case StateDisposed:
		return errUseAfterDispose("start")
	case StateRunning:
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	s.handle = s.acquire(ctx)
	s.tick(ctx, s.handle)

	done := make(chan struct{})
	go s.loop(ctx, s.newTicker(s.cfg.UpdateInterval), s.handle, done)

	s.cancel = cancel
	s.done = done
	s.state.Store(int32(StateRunning))

	s.log.Debug().
		Str("source", s.src.Name()).
		Int("capacity", s.cfg.HistoryCapacity).
		Dur("interval", s.cfg.UpdateInterval).
		Bool("degraded", s.handle == nil).
		Msg("Sampling started")

	return nil
}

// Stop halts sampling and releases the source. When Stop returns no tick is
// in flight. Stopping a stopped Service is a no-op.
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() == StateDisposed {
		return errUseAfterDispose("stop")
	}

	s.stopLocked()

	return nil
}

// Snapshot returns a copy of the history, oldest first, exactly
// HistoryCapacity values long.
func (s *Service) Snapshot() ([]float64, error) {
	if s.State() == StateDisposed {
		return nil, errUseAfterDispose("snapshot")
	}

	return s.buf.Snapshot(), nil
}

// Dispose stops sampling and permanently retires the Service. It may be
// called any number of times from any state.
func (s *Service) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() == StateDisposed {
		return
	}

	s.stopLocked()
	s.state.Store(int32(StateDisposed))

	s.log.Debug().Msg("Sampler disposed")
}

// Close implements io.Closer.
func (s *Service) Close() error {
	s.Dispose()
	return nil
}

func (s *Service) stopLocked() {
	if s.State() != StateRunning {
		return
	}

	s.cancel()
	<-s.done

	if s.handle != nil {
		if err := s.handle.Release(); err != nil {
			s.log.Warn().Err(err).Str("source", s.src.Name()).Msg("Failed to release metric source")
		}
	}

	s.handle = nil
	s.cancel = nil
	s.done = nil
	s.degraded.Store(false)
	s.state.Store(int32(StateStopped))

	s.log.Debug().Msg("Sampling stopped")
}

func (s *Service) acquire(ctx context.Context) source.Handle {
	handle, err := s.src.Acquire(ctx)
	if err != nil {
		s.failedAcquisitions.Add(1)
		s.degraded.Store(true)

		code, _ := errors.GetCode(err)
		s.log.Warn().
			Err(err).
			Str("error_code", string(code)).
			Str("source", s.src.Name()).
			Msg("Metric source unavailable, sampling fallback values")

		return nil
	}

	s.degraded.Store(false)

	return handle
}

func (s *Service) loop(ctx context.Context, t ticker, handle source.Handle, done chan<- struct{}) {
	defer close(done)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.Chan():
			if ctx.Err() != nil {
				return
			}
			s.tick(ctx, handle)
		}
	}
}

// tick reads, sanitizes and inserts one sample. A read interrupted by Stop
// is dropped.
func (s *Service) tick(ctx context.Context, handle source.Handle) {
	raw, degraded := s.read(ctx, handle)
	if ctx.Err() != nil {
		return
	}

	value := Sanitize(raw)
	s.buf.Push(value)
	s.ticks.Add(1)

	s.record(ctx, value, degraded)
}

func (s *Service) read(ctx context.Context, handle source.Handle) (value float64, degraded bool) {
	if handle == nil {
		return Fallback, true
	}

	defer func() {
		if r := recover(); r != nil {
			s.failedSamples.Add(1)
			s.log.Error().Str("panic", fmt.Sprint(r)).Msg("Metric source panicked")
			value, degraded = Fallback, true
		}
	}()

	value, err := handle.Sample(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.failedSamples.Add(1)
			s.log.Debug().Err(err).Str("source", s.src.Name()).Msg("Sample failed, using fallback")
		}
		return Fallback, true
	}

	return value, false
}

func (s *Service) record(ctx context.Context, value float64, degraded bool) {
	if s.recorder == nil {
		return
	}

	err := s.recorder.Record(ctx, journal.Sample{
		Timestamp: time.Now(),
		Source:    s.src.Name(),
		Value:     value,
		Degraded:  degraded,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to journal sample")
	}
}

// Sanitize clamps a raw reading into [0, 100]. NaN and negative status
// codes become Fallback.
func Sanitize(raw float64) float64 {
	if math.IsNaN(raw) || raw < minSample {
		return Fallback
	}
	if raw > maxSample {
		return maxSample
	}

	return raw
}

func errUseAfterDispose(op string) error {
	return errors.New().WithData(errors.ErrUseAfterDispose, op)
}
