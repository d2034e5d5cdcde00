package handoff

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"aura/internal/domain"
)

// DefaultPollInterval is how often the doctor's client refreshes a session.
const DefaultPollInterval = 2 * time.Second

// Snapshot is one received view of a session.
type Snapshot struct {
	Session domain.HandoffSession
	// New holds records not present in any earlier snapshot.
	New        []domain.PatientRecord
	ReceivedAt time.Time
	// Seq counts applied snapshots, starting at 1.
	Seq uint64
}

// Poller periodically fetches a session and keeps the latest received view.
//
// Each tick issues an independent request; a slow response may land after a
// newer one. The most recently received response always wins. Failed ticks
// are logged and skipped. After Stop no further ticks are issued and late
// responses are discarded.
type Poller struct {
	reader   domain.SessionReader
	id       domain.SessionID
	interval time.Duration
	timeout  time.Duration
	log      *slog.Logger

	// deliverMu spans commit and delivery so subscribers see Seq order.
	deliverMu sync.Mutex

	mu       sync.Mutex
	latest   Snapshot
	has      bool
	failures int
	seen     map[string]struct{}
	subs     []func(Snapshot)
	stopped  bool
	cancel   context.CancelFunc
	done     chan struct{}
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithInterval sets the tick interval.
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithLogger sets the logger for failed ticks.
func WithLogger(l *slog.Logger) PollerOption {
	return func(p *Poller) {
		if l != nil {
			p.log = l
		}
	}
}

// NewPoller returns a stopped Poller for session id.
func NewPoller(reader domain.SessionReader, id domain.SessionID, opts ...PollerOption) *Poller {
	p := &Poller{
		reader:   reader,
		id:       id,
		interval: DefaultPollInterval,
		log:      slog.Default(),
		seen:     make(map[string]struct{}),
	}
	for _, o := range opts {
		o(p)
	}
	p.timeout = 5 * p.interval
	return p
}

// Subscribe registers fn to receive every applied snapshot in Seq order.
// fn runs on the goroutine that received the response; a slow fn delays
// later snapshots, and fn must not call Poll.
func (p *Poller) Subscribe(fn func(Snapshot)) {
	p.mu.Lock()
	p.subs = append(p.subs, fn)
	p.mu.Unlock()
}

// Start fetches once immediately and then on every tick until Stop or ctx is done.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.cancel != nil || p.stopped {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.mu.Unlock()

	go p.loop(ctx)
}

func (p *Poller) loop(ctx context.Context) {
	defer close(p.done)

	t := time.NewTicker(p.interval)
	defer t.Stop()

	go p.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			p.markStopped()
			return
		case <-t.C:
			// Requests are not serialised; Poll orders results by receipt.
			go p.Poll(ctx)
		}
	}
}

// Stop suppresses future ticks. In-flight requests finish but their
// results are dropped. Stop is idempotent.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.stopped = true
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (p *Poller) markStopped() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()
}

// Poll performs a single fetch and applies its result.
//
// The request is not tied to ctx cancellation, matching a cleared timer that
// leaves in-flight requests alone; ctx only decides whether to start.
func (p *Poller) Poll(ctx context.Context) {
	if ctx.Err() != nil || p.isStopped() {
		return
	}
	reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	sess, err := p.reader.FetchSession(reqCtx, p.id)
	if err != nil {
		p.mu.Lock()
		p.failures++
		n := p.failures
		p.mu.Unlock()
		p.log.Warn("session poll failed", "session_id", p.id, "consecutive", n, "err", err)
		return
	}
	p.apply(sess)
}

func (p *Poller) apply(sess domain.HandoffSession) {
	p.deliverMu.Lock()
	defer p.deliverMu.Unlock()

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	var fresh []domain.PatientRecord
	for _, rec := range sess.Patients {
		k := recordKey(rec)
		if _, ok := p.seen[k]; ok {
			continue
		}
		p.seen[k] = struct{}{}
		fresh = append(fresh, rec)
	}
	p.failures = 0
	p.latest = Snapshot{
		Session:    sess,
		New:        fresh,
		ReceivedAt: time.Now(),
		Seq:        p.latest.Seq + 1,
	}
	p.has = true
	snap := p.latest
	subs := append([]func(Snapshot){}, p.subs...)
	p.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// Latest returns the most recently received snapshot.
func (p *Poller) Latest() (Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest, p.has
}

// ConsecutiveFailures is the number of failed polls since the last success.
func (p *Poller) ConsecutiveFailures() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failures
}

func (p *Poller) isStopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}

// recordKey identifies a record across snapshots. Servers that do not
// assign ids fall back to submission time and name.
func recordKey(rec domain.PatientRecord) string {
	if rec.ID != "" {
		return "id:" + rec.ID.String()
	}
	return "ts:" + rec.Timestamp + "|" + rec.Name
}
