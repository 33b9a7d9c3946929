package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"loan-aggregator/domain"
)

// LenderLister is the read side of LenderService.
type LenderLister interface {
	Lenders(ctx context.Context, session string, criteria domain.FilterCriteria) ([]domain.LenderTerms, error)
}

// LiveUpdate is one applied lender response.
type LiveUpdate struct {
	Seq      uint64
	Criteria domain.FilterCriteria
	Lenders  []domain.LenderTerms
	Err      error
}

// LiveFilterSession serves one interactive filtering client. Edits are
// debounced, every fetch is sequence-tagged, and a response is emitted only
// if no newer response was emitted before it.
type LiveFilterSession struct {
	ctx      context.Context
	session  string
	lister   LenderLister
	debounce *Debouncer
	gate     SequenceGate
	emit     func(LiveUpdate)
	log      zerolog.Logger

	mu     sync.Mutex // guards closed and wg.Add
	closed bool
	wg     sync.WaitGroup
	emitMu sync.Mutex
}

func NewLiveFilterSession(
	ctx context.Context,
	session string,
	lister LenderLister,
	window time.Duration,
	emit func(LiveUpdate),
	log zerolog.Logger,
) *LiveFilterSession {
	return &LiveFilterSession{
		ctx:      ctx,
		session:  session,
		lister:   lister,
		debounce: NewDebouncer(window),
		emit:     emit,
		log:      log.With().Str("component", "live_filter").Str("session", session).Logger(),
	}
}

// Update schedules a fetch once the user stops editing.
func (s *LiveFilterSession) Update(criteria domain.FilterCriteria) {
	s.debounce.Trigger(func() { s.fetch(criteria) })
}

// Apply fetches immediately, dropping any pending debounced fetch.
func (s *LiveFilterSession) Apply(criteria domain.FilterCriteria) {
	s.debounce.Flush(func() { s.fetch(criteria) })
}

// Close stops pending work and waits for in-flight fetches to finish.
func (s *LiveFilterSession) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.debounce.Stop()
	s.wg.Wait()
}

func (s *LiveFilterSession) fetch(criteria domain.FilterCriteria) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	seq := s.gate.Next()
	go func() {
		defer s.wg.Done()
		lenders, err := s.lister.Lenders(s.ctx, s.session, criteria)

		s.emitMu.Lock()
		defer s.emitMu.Unlock()
		if !s.gate.Apply(seq) {
			s.log.Debug().Uint64("seq", seq).Uint64("applied", s.gate.Applied()).Msg("Discarding stale lender response")
			return
		}
		s.emit(LiveUpdate{Seq: seq, Criteria: criteria, Lenders: lenders, Err: err})
	}()
}
