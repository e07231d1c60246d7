package calculator

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/batch-fee-api/internal/models"
	appErrors "github.com/noah-isme/batch-fee-api/pkg/errors"
)

// ErrSessionClosed is returned by Wait once the session has been closed.
var ErrSessionClosed = errors.New("calculator: session closed")

// Submitter persists a calculation result as a batch fee.
type Submitter interface {
	Submit(ctx context.Context, result *Result) (*models.BatchFee, error)
}

// SessionOptions tunes a Session.
type SessionOptions struct {
	// Delay pads every recompute, simulating slow work.
	Delay  time.Duration
	Logger *zap.Logger
}

// Session owns the state of one interactive fee calculation: the selected batch
// and fee structure, the discount working set and the latest result.
//
// Every input change bumps a generation and discards the current result. A
// recompute only publishes its result if no newer input arrived meanwhile, so the
// latest inputs always win regardless of completion order.
type Session struct {
	submitter Submitter
	delay     time.Duration
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	batch        *models.Batch
	feeStructure *models.FeeStructure
	discounts    DiscountSet
	generation   uint64
	result       *Result
	ready        chan struct{}
	abort        context.CancelFunc
	submitting   bool
	closed       bool
}

// NewSession creates an empty session.
func NewSession(submitter Submitter, opts SessionOptions) *Session {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		submitter: submitter,
		delay:     opts.Delay,
		logger:    opts.Logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Close cancels any in-flight recompute and releases pending Wait calls.
func (s *Session) Close() {
	s.cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.ready != nil {
		close(s.ready)
		s.ready = nil
	}
}

// SelectBatch sets the batch and recomputes.
func (s *Session) SelectBatch(batch models.Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batch = &batch
	s.recomputeLocked()
}

// SelectFeeStructure sets the fee structure and recomputes.
func (s *Session) SelectFeeStructure(feeStructure models.FeeStructure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feeStructure = &feeStructure
	s.recomputeLocked()
}

// AddDiscount appends a discount to the working set. Incomplete input is ignored
// and does not trigger a recompute.
func (s *Session) AddDiscount(studentName, category, amount string) (EntryID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, id, ok := s.discounts.Add(studentName, category, amount)
	if !ok {
		return 0, false
	}
	s.discounts = next
	s.recomputeLocked()
	return id, true
}

// RemoveDiscount drops a discount from the working set and recomputes.
func (s *Session) RemoveDiscount(id EntryID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discounts = s.discounts.Remove(id)
	s.recomputeLocked()
}

// Discounts returns the current working set.
func (s *Session) Discounts() DiscountSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discounts
}

// Result returns the result for the current inputs, or nil while none is available.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil
	}
	cp := *s.result
	return &cp
}

// Wait blocks until the result for the current inputs is available.
func (s *Session) Wait(ctx context.Context) (*Result, error) {
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return nil, ErrSessionClosed
		}
		if s.result != nil {
			cp := *s.result
			s.mu.Unlock()
			return &cp, nil
		}
		ready := s.ready
		s.mu.Unlock()

		if ready == nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "select a batch and fee structure first")
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ready:
		}
	}
}

// Submit persists the current result. It is rejected when no result is available
// or when another submission is still outstanding; the submitter is not called
// in either case. A successful submission resets the session unless the inputs
// changed while it was in flight, in which case the newer inputs are kept.
func (s *Session) Submit(ctx context.Context) (*models.BatchFee, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrConflict, "a submission is already in progress")
	}
	if s.result == nil {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrValidation, "select batch and fee structure and calculate fees first")
	}
	snapshot := *s.result
	snapshot.Discounts = append([]models.StudentDiscount(nil), s.result.Discounts...)
	gen := s.generation
	s.submitting = true
	s.mu.Unlock()

	fee, err := s.submitter.Submit(ctx, &snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil {
		s.logger.Warn("batch fee submission failed", zap.String("batch", snapshot.Batch.BatchName), zap.Error(err))
		return nil, err
	}
	if gen == s.generation {
		s.resetLocked()
	}
	return fee, nil
}

func (s *Session) resetLocked() {
	s.batch = nil
	s.feeStructure = nil
	s.discounts = DiscountSet{}
	s.recomputeLocked()
}

// recomputeLocked must be called with s.mu held.
func (s *Session) recomputeLocked() {
	s.generation++
	s.result = nil
	if s.abort != nil {
		s.abort()
		s.abort = nil
	}
	if s.ready != nil {
		close(s.ready)
		s.ready = nil
	}
	if s.closed || s.batch == nil || s.feeStructure == nil {
		return
	}

	batch := *s.batch
	feeStructure := *s.feeStructure
	discounts := s.discounts.Discounts()

	if s.delay <= 0 {
		r := Compute(batch, feeStructure, discounts)
		s.result = &r
		return
	}

	gen := s.generation
	ctx, abort := context.WithCancel(s.ctx)
	s.abort = abort
	s.ready = make(chan struct{})
	go s.computeAfterDelay(ctx, gen, batch, feeStructure, discounts)
}

func (s *Session) computeAfterDelay(ctx context.Context, gen uint64, batch models.Batch, feeStructure models.FeeStructure, discounts []models.Discount) {
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	r := Compute(batch, feeStructure, discounts)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.logger.Debug("discarding stale fee calculation", zap.Uint64("generation", gen))
		return
	}
	s.result = &r
	if s.ready != nil {
		close(s.ready)
		s.ready = nil
	}
	if s.abort != nil {
		s.abort()
		s.abort = nil
	}
}
