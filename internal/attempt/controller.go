package attempt

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/quizdeck/quizdeck-client/internal/model"
)

// Common controller errors.
var (
	ErrNoQuestions    = errors.New("attempt has no questions")
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	ErrFinished       = errors.New("attempt already submitted")
)

// Gateway is the slice of the exam gateway the controller needs: the
// autosave target and the terminal submit operation.
type Gateway interface {
	SaveProgress(ctx context.Context, attemptID string, answers []model.AttemptAnswer) error
	SubmitExam(ctx context.Context, attemptID string, answers []model.SubmitAnswer) (*model.ExamResult, error)
}

// Options tune the controller's timers. Zero values pick the defaults;
// tests shrink the intervals.
type Options struct {
	TickInterval     time.Duration // countdown granularity, default 1s
	AutosaveInterval time.Duration // default 30s
	SaveTimeout      time.Duration // per-autosave network budget, default 10s
	Now              func() time.Time
	// OnTick, if set, is called with the remaining seconds after every
	// countdown tick. Must not block.
	OnTick func(remaining int)
}

func (o *Options) applyDefaults() {
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second
	}
	if o.AutosaveInterval <= 0 {
		o.AutosaveInterval = 30 * time.Second
	}
	if o.SaveTimeout <= 0 {
		o.SaveTimeout = 10 * time.Second
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Controller drives one timed exam attempt from start to submission.
// It owns the Store exclusively for the attempt's lifetime; once the
// controller is closed or finished, the store is dead state.
type Controller struct {
	attempt *model.Attempt
	store   *Store
	gw      Gateway
	log     zerolog.Logger
	opts    Options

	submitting atomic.Bool // idempotency guard: at most one submit in flight
	finished   atomic.Bool
	expired    atomic.Bool

	cancel    context.CancelFunc
	closeOnce sync.Once
	done      chan struct{}

	mu      sync.Mutex
	result  *model.ExamResult
	lastErr error
}

// New builds a controller for a started attempt. An attempt without
// questions is a fatal condition: the controller refuses to run.
func New(a *model.Attempt, gw Gateway, log zerolog.Logger, opts Options) (*Controller, error) {
	if a == nil || len(a.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	opts.applyDefaults()

	return &Controller{
		attempt: a,
		store:   NewStore(a.Questions),
		gw:      gw,
		log:     log.With().Str("component", "attempt").Str("attempt_id", a.AttemptID).Logger(),
		opts:    opts,
		done:    make(chan struct{}),
	}, nil
}

// Store exposes the attempt's answer store to the owning view.
func (c *Controller) Store() *Store {
	return c.store
}

// Attempt returns the immutable attempt metadata.
func (c *Controller) Attempt() *model.Attempt {
	return c.attempt
}

// Start launches the countdown and autosave tickers. Both stop when
// Close is called, when ctx is cancelled, or when a submission
// succeeds.
func (c *Controller) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	go c.runCountdown(runCtx)
	go c.runAutosave(runCtx)
}

// Close tears down both tickers and releases any in-flight autosave.
// Safe to call more than once; always call it when the attempt view
// goes away so no timer fires against a disposed attempt.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		if c.cancel != nil {
			c.cancel()
		}
	})
}

// Remaining derives the remaining whole seconds from the authoritative
// expiry timestamp. Deriving from the absolute deadline rather than
// decrementing a local counter bounds drift to one tick interval no
// matter how long the process was suspended.
func (c *Controller) Remaining() int {
	rem := int(c.attempt.ExpiredAt.Sub(c.opts.Now()) / time.Second)
	if rem < 0 {
		return 0
	}
	return rem
}

// Expired reports whether the countdown has reached zero.
func (c *Controller) Expired() bool {
	return c.expired.Load()
}

// Done is closed after a submission succeeds.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Result returns the scored submission once Done is closed.
func (c *Controller) Result() *model.ExamResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// LastError returns the most recent submission failure, if any. Used
// by the view to surface an expiry-triggered submit that failed and
// now needs a manual retry.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Submit converts the live attempt into a terminal submission. The
// idempotency guard ensures at most one network submission is in
// flight; concurrent triggers (double-click, expiry racing a manual
// submit) get ErrSubmitInFlight. On failure the guard is released so a
// manual retry remains possible and the answer state is kept.
func (c *Controller) Submit(ctx context.Context) (*model.ExamResult, error) {
	if c.finished.Load() {
		return nil, ErrFinished
	}
	if !c.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}

	payload := c.store.ToSubmission()
	result, err := c.gw.SubmitExam(ctx, c.attempt.AttemptID, payload)
	if err != nil {
		c.submitting.Store(false)
		err = fmt.Errorf("submit attempt: %w", err)
		c.mu.Lock()
		c.lastErr = err
		c.mu.Unlock()
		return nil, err
	}

	c.mu.Lock()
	c.result = result
	c.lastErr = nil
	c.mu.Unlock()

	c.finished.Store(true)
	c.Close()
	close(c.done)

	c.log.Info().
		Str("submission_id", result.SubmissionID).
		Float64("score", result.TotalScore).
		Msg("Attempt submitted")

	return result, nil
}
