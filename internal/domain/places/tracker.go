package places

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/yanqian/moodmate/internal/domain/weather"
	"github.com/yanqian/moodmate/pkg/metrics"
)

// Tracker keeps nearby places fresh for users who shared a location.
// Each tracked user owns one refresher goroutine driven by a clock ticker.
type Tracker struct {
	svc      Service
	clock    clockwork.Clock
	interval time.Duration
	timeout  time.Duration
	metrics  *metrics.Metrics
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session
	closed   bool
	wg       sync.WaitGroup
}

type session struct {
	location weather.Coordinates
	cancel   context.CancelFunc
	result   Result
}

// NewTracker wires the refresher. interval defaults to five minutes.
func NewTracker(svc Service, cfg Config, m *metrics.Metrics, clock clockwork.Clock, logger *slog.Logger) *Tracker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	cfg = cfg.withDefaults()
	return &Tracker{
		svc:      svc,
		clock:    clock,
		interval: cfg.RefreshInterval,
		timeout:  30 * time.Second,
		metrics:  m,
		logger:   logger.With("component", "places.tracker"),
		sessions: make(map[string]*session),
	}
}

// Track fetches places for loc now and keeps refreshing them until Untrack.
// Tracking again replaces the previous location.
func (t *Tracker) Track(ctx context.Context, userID string, loc weather.Coordinates) (Result, error) {
	res, err := t.svc.Nearby(ctx, loc)
	if err != nil {
		return Result{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return res, nil
	}
	if prev, ok := t.sessions[userID]; ok {
		prev.cancel()
	}
	runCtx, cancel := context.WithCancel(context.Background())
	sess := &session{location: loc, cancel: cancel, result: res}
	t.sessions[userID] = sess
	t.metrics.SetTrackedLocations(len(t.sessions))

	t.wg.Add(1)
	go t.refresh(runCtx, userID, sess)
	return res, nil
}

// Untrack stops refreshing for userID. It is a no-op for unknown users.
func (t *Tracker) Untrack(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if sess, ok := t.sessions[userID]; ok {
		sess.cancel()
		delete(t.sessions, userID)
		t.metrics.SetTrackedLocations(len(t.sessions))
	}
}

// Latest returns the most recent result for userID.
func (t *Tracker) Latest(userID string) (Result, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sess, ok := t.sessions[userID]
	if !ok {
		return Result{}, false
	}
	return sess.result, true
}

// Close stops every refresher and waits for them to exit.
func (t *Tracker) Close() {
	t.mu.Lock()
	t.closed = true
	for id, sess := range t.sessions {
		sess.cancel()
		delete(t.sessions, id)
	}
	t.metrics.SetTrackedLocations(0)
	t.mu.Unlock()
	t.wg.Wait()
}

func (t *Tracker) refresh(ctx context.Context, userID string, sess *session) {
	defer t.wg.Done()
	ticker := t.clock.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if ctx.Err() != nil {
				return
			}
			fetchCtx, cancel := context.WithTimeout(ctx, t.timeout)
			res, err := t.svc.Nearby(fetchCtx, sess.location)
			cancel()
			if err != nil {
				t.logger.Warn("places refresh failed", "user_id", userID, "error", err)
				continue
			}
			t.mu.Lock()
			if current, ok := t.sessions[userID]; ok && current == sess {
				sess.result = res
			}
			t.mu.Unlock()
		}
	}
}
