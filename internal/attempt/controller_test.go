package attempt

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/quizdeck/quizdeck-client/internal/model"
)

// fakeGateway counts calls and can be made to fail or block.
type fakeGateway struct {
	saveCalls   atomic.Int64
	submitCalls atomic.Int64

	saveErr   error
	submitErr error

	// gate, when set, blocks SubmitExam until released.
	gate chan struct{}

	mu        sync.Mutex
	lastSaved []model.AttemptAnswer
}

func (g *fakeGateway) SaveProgress(ctx context.Context, attemptID string, answers []model.AttemptAnswer) error {
	g.saveCalls.Add(1)
	g.mu.Lock()
	g.lastSaved = answers
	g.mu.Unlock()
	return g.saveErr
}

func (g *fakeGateway) SubmitExam(ctx context.Context, attemptID string, answers []model.SubmitAnswer) (*model.ExamResult, error) {
	g.submitCalls.Add(1)
	if g.gate != nil {
		<-g.gate
	}
	if g.submitErr != nil {
		return nil, g.submitErr
	}
	return &model.ExamResult{SubmissionID: "sub-1", TotalScore: 5, MaxScore: 15}, nil
}

func testAttempt(expiresIn time.Duration) *model.Attempt {
	now := time.Now()
	return &model.Attempt{
		AttemptID: "att-1",
		ExamID:    "exam-1",
		Title:     "Unit Exam",
		Duration:  1,
		StartedAt: now,
		ExpiredAt: now.Add(expiresIn),
		Questions: twoQuestionSet(),
	}
}

func newTestController(t *testing.T, a *model.Attempt, gw Gateway, opts Options) *Controller {
	t.Helper()
	c, err := New(a, gw, zerolog.Nop(), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewRejectsEmptyQuestionSet(t *testing.T) {
	a := testAttempt(time.Minute)
	a.Questions = nil

	if _, err := New(a, &fakeGateway{}, zerolog.Nop(), Options{}); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("err = %v, want ErrNoQuestions", err)
	}
	if _, err := New(nil, &fakeGateway{}, zerolog.Nop(), Options{}); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("err = %v, want ErrNoQuestions", err)
	}
}

func TestManualSubmitOnce(t *testing.T) {
	gw := &fakeGateway{}
	c := newTestController(t, testAttempt(time.Minute), gw, Options{})
	c.Store().Select("q1", "A")

	res, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.SubmissionID != "sub-1" {
		t.Fatalf("submission id = %q", res.SubmissionID)
	}

	if _, err := c.Submit(context.Background()); !errors.Is(err, ErrFinished) {
		t.Fatalf("second submit err = %v, want ErrFinished", err)
	}
	if n := gw.submitCalls.Load(); n != 1 {
		t.Fatalf("submit calls = %d, want 1", n)
	}

	select {
	case <-c.Done():
	default:
		t.Fatal("Done not closed after successful submit")
	}
	if c.Result() == nil {
		t.Fatal("Result is nil after successful submit")
	}
}

func TestConcurrentSubmitGuard(t *testing.T) {
	gw := &fakeGateway{gate: make(chan struct{})}
	c := newTestController(t, testAttempt(time.Minute), gw, Options{})

	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		firstErr <- err
	}()

	// Wait for the first submit to reach the gateway.
	deadline := time.After(2 * time.Second)
	for gw.submitCalls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("first submit never reached the gateway")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	// The racing trigger must be a no-op while the first is in flight.
	if _, err := c.Submit(context.Background()); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("racing submit err = %v, want ErrSubmitInFlight", err)
	}

	close(gw.gate)
	if err := <-firstErr; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if n := gw.submitCalls.Load(); n != 1 {
		t.Fatalf("submit calls = %d, want 1", n)
	}
}

func TestSubmitFailureReleasesGuard(t *testing.T) {
	gw := &fakeGateway{submitErr: errors.New("gateway down")}
	c := newTestController(t, testAttempt(time.Minute), gw, Options{})
	c.Store().Select("q1", "A")

	if _, err := c.Submit(context.Background()); err == nil {
		t.Fatal("expected submit error")
	}
	if c.LastError() == nil {
		t.Fatal("LastError not recorded")
	}

	// Answer state survives the failure and a retry succeeds.
	if got := c.Store().Selected("q1"); len(got) != 1 {
		t.Fatalf("answers lost on failure: %v", got)
	}

	gw.submitErr = nil
	if _, err := c.Submit(context.Background()); err != nil {
		t.Fatalf("retry submit: %v", err)
	}
	if n := gw.submitCalls.Load(); n != 2 {
		t.Fatalf("submit calls = %d, want 2", n)
	}
}

func TestCountdownExpirySubmitsExactlyOnce(t *testing.T) {
	gw := &fakeGateway{}
	c := newTestController(t, testAttempt(80*time.Millisecond), gw, Options{
		TickInterval:     10 * time.Millisecond,
		AutosaveInterval: time.Hour,
	})
	c.Store().Select("q2", "B")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Start(ctx)
	defer c.Close()

	select {
	case <-c.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("countdown never triggered submission")
	}

	if !c.Expired() {
		t.Fatal("controller not marked expired")
	}
	if n := gw.submitCalls.Load(); n != 1 {
		t.Fatalf("submit calls = %d, want exactly 1", n)
	}

	// A late trigger after expiry is still a no-op.
	if _, err := c.Submit(context.Background()); !errors.Is(err, ErrFinished) {
		t.Fatalf("post-expiry submit err = %v, want ErrFinished", err)
	}
}

func TestRemainingNeverNegativeAndNonIncreasing(t *testing.T) {
	var mu sync.Mutex
	var ticks []int

	gw := &fakeGateway{}
	c := newTestController(t, testAttempt(60*time.Millisecond), gw, Options{
		TickInterval:     5 * time.Millisecond,
		AutosaveInterval: time.Hour,
		OnTick: func(remaining int) {
			mu.Lock()
			ticks = append(ticks, remaining)
			mu.Unlock()
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Start(ctx)
	defer c.Close()

	select {
	case <-c.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("expiry never fired")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(ticks) == 0 {
		t.Fatal("no ticks observed")
	}
	prev := ticks[0]
	for _, r := range ticks {
		if r < 0 {
			t.Fatalf("negative remaining: %d", r)
		}
		if r > prev {
			t.Fatalf("remaining increased: %d after %d", r, prev)
		}
		prev = r
	}
}

func TestAutosavePushesSnapshots(t *testing.T) {
	gw := &fakeGateway{}
	c := newTestController(t, testAttempt(time.Hour), gw, Options{
		TickInterval:     time.Hour, // keep countdown quiet
		AutosaveInterval: 15 * time.Millisecond,
	})
	c.Store().Select("q1", "B")
	c.Store().ToggleReview("q2")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Start(ctx)

	deadline := time.After(3 * time.Second)
	for gw.saveCalls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("autosave fired %d times, want >= 2", gw.saveCalls.Load())
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	c.Close()

	gw.mu.Lock()
	defer gw.mu.Unlock()
	if len(gw.lastSaved) != 2 {
		t.Fatalf("last snapshot = %+v, want 2 entries", gw.lastSaved)
	}
}

func TestAutosaveSurvivesFailures(t *testing.T) {
	gw := &fakeGateway{saveErr: errors.New("flaky network")}
	c := newTestController(t, testAttempt(time.Hour), gw, Options{
		TickInterval:     time.Hour,
		AutosaveInterval: 10 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Start(ctx)
	defer c.Close()

	// No timer starvation after errors: the ticker keeps firing.
	deadline := time.After(3 * time.Second)
	for gw.saveCalls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("autosave fired %d times despite errors, want >= 3", gw.saveCalls.Load())
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
}

func TestCloseStopsTimers(t *testing.T) {
	gw := &fakeGateway{}
	c := newTestController(t, testAttempt(time.Hour), gw, Options{
		TickInterval:     time.Hour,
		AutosaveInterval: 10 * time.Millisecond,
	})

	c.Start(context.Background())

	deadline := time.After(3 * time.Second)
	for gw.saveCalls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("autosave never fired")
		default:
			time.Sleep(2 * time.Millisecond)
		}
	}

	c.Close()
	// Let any save launched just before the cancel land first.
	time.Sleep(30 * time.Millisecond)
	settled := gw.saveCalls.Load()
	time.Sleep(60 * time.Millisecond)
	if got := gw.saveCalls.Load(); got != settled {
		t.Fatalf("autosave fired after Close: %d -> %d", settled, got)
	}
}
