// Package coordinator multiplexes many outstanding operations over a single
// duplex channel. Each outbound request gets a fresh correlation id and a
// deadline; responses resolve their pending entry exactly once, late
// responses are discarded, and results are cached by operation plus
// canonicalized args. Push frames bypass the pending map entirely and go to
// named handlers.
package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/jonboulle/clockwork"

	"github.com/beargallbladder/fairwaylive/internal/domain"
	"github.com/beargallbladder/fairwaylive/internal/metrics"
	"github.com/beargallbladder/fairwaylive/internal/platform/correlation"
)

const (
	// DefaultTimeout is the per-request deadline.
	DefaultTimeout = 5 * time.Second

	// DefaultCacheTTL is the response cache validity window, independent of
	// the request timeout.
	DefaultCacheTTL = 60 * time.Second

	sweepInterval = 250 * time.Millisecond
)

// Transport carries serialized frames to the peer. Implementations must be
// safe to call from the coordinator goroutine only.
type Transport interface {
	Send(data []byte) error
}

// ContextProvider supplies the device half of the request context; the
// coordinator fills in timestamp and timezone itself.
type ContextProvider interface {
	Snapshot() RequestContext
}

// StaticContext is a ContextProvider returning fixed values; SentimentAvg
// may be updated between snapshots by the owner.
type StaticContext struct {
	SentimentAvg float64
	BatteryLevel float64
	NetworkType  string
}

func (s *StaticContext) Snapshot() RequestContext {
	return RequestContext{
		SentimentAvg: s.SentimentAvg,
		BatteryLevel: s.BatteryLevel,
		NetworkType:  s.NetworkType,
	}
}

// PushHandler consumes one push frame payload.
type PushHandler func(payload json.RawMessage)

// Options tune a single Send call.
type Options struct {
	Priority  Priority
	SkipCache bool
	Timeout   time.Duration
}

type outcome struct {
	result json.RawMessage
	err    error
}

type pendingOp struct {
	correlationID string
	opType        string
	cacheKey      string
	issuedAt      time.Time
	deadline      time.Time
	replyCh       chan outcome
}

// --- Command types ---

type coordCmd interface{ coordCmd() }

type cmdSend struct {
	opType   string
	args     json.RawMessage
	cacheKey string
	opts     Options
	replyCh  chan outcome
}

func (cmdSend) coordCmd() {}

type cmdInbound struct {
	data []byte
}

func (cmdInbound) coordCmd() {}

type cmdSweep struct{}

func (cmdSweep) coordCmd() {}

type cmdRegisterPush struct {
	pushType string
	handler  PushHandler
}

func (cmdRegisterPush) coordCmd() {}

type cmdPendingCount struct {
	replyCh chan int
}

func (cmdPendingCount) coordCmd() {}

type cmdStop struct {
	doneCh chan struct{}
}

func (cmdStop) coordCmd() {}

// --- Coordinator ---

type Coordinator struct {
	cmdCh        chan coordCmd
	transport    Transport
	provider     ContextProvider
	clock        clockwork.Clock
	timeout      time.Duration
	breaker      circuitbreaker.CircuitBreaker[any]
	pending      map[string]*pendingOp
	cache        *responseCache
	pushHandlers map[string]PushHandler
	stopCh       chan struct{}
}

func New(transport Transport, provider ContextProvider, clock clockwork.Clock) *Coordinator {
	return &Coordinator{
		cmdCh:     make(chan coordCmd, 256),
		transport: transport,
		provider:  provider,
		clock:     clock,
		timeout:   DefaultTimeout,
		breaker: circuitbreaker.NewBuilder[any]().
			WithFailureRateThreshold(0.6, 5, 10*time.Second).
			WithDelay(15 * time.Second).
			WithSuccessThreshold(1).
			Build(),
		pending:      make(map[string]*pendingOp),
		cache:        newResponseCache(DefaultCacheTTL, clock),
		pushHandlers: make(map[string]PushHandler),
		stopCh:       make(chan struct{}),
	}
}

// Start launches the actor and the deadline sweep loop.
func (c *Coordinator) Start() {
	go c.run()
	go c.sweepLoop()
}

func (c *Coordinator) run() {
	for cmd := range c.cmdCh {
		switch cc := cmd.(type) {
		case cmdSend:
			c.handleSend(cc)
		case cmdInbound:
			c.handleInbound(cc.data)
		case cmdSweep:
			c.handleSweep()
		case cmdRegisterPush:
			c.pushHandlers[cc.pushType] = cc.handler
		case cmdPendingCount:
			cc.replyCh <- len(c.pending)
		case cmdStop:
			close(c.stopCh)
			for _, op := range c.pending {
				op.replyCh <- outcome{err: domain.ErrChannelClosed}
			}
			c.pending = make(map[string]*pendingOp)
			close(cc.doneCh)
			return
		}
	}
}

func (c *Coordinator) handleSend(cc cmdSend) {
	if !cc.opts.SkipCache {
		if result, ok := c.cache.get(cc.cacheKey); ok {
			metrics.CacheHits.Inc()
			cc.replyCh <- outcome{result: result}
			return
		}
	}
	metrics.CacheMisses.Inc()

	now := c.clock.Now()
	timeout := cc.opts.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}

	op := &pendingOp{
		correlationID: correlation.NewID(),
		opType:        cc.opType,
		cacheKey:      cc.cacheKey,
		issuedAt:      now,
		deadline:      now.Add(timeout),
		replyCh:       cc.replyCh,
	}

	priority := cc.opts.Priority
	if priority == "" {
		priority = PriorityNormal
	}

	reqCtx := c.provider.Snapshot()
	reqCtx.Timestamp = now.UnixMilli()
	reqCtx.Timezone = now.Location().String()

	frame, err := json.Marshal(Request{
		CorrelationID: op.correlationID,
		OperationType: cc.opType,
		Args:          cc.args,
		Priority:      priority,
		Context:       reqCtx,
	})
	if err != nil {
		cc.replyCh <- outcome{err: fmt.Errorf("marshal request: %w", err)}
		return
	}

	if !c.breaker.TryAcquirePermit() {
		cc.replyCh <- outcome{err: fmt.Errorf("%w: circuit open", domain.ErrChannelClosed)}
		return
	}
	if err := c.transport.Send(frame); err != nil {
		c.breaker.RecordError(err)
		cc.replyCh <- outcome{err: fmt.Errorf("%w: %v", domain.ErrChannelClosed, err)}
		return
	}
	c.breaker.RecordSuccess()

	c.pending[op.correlationID] = op
	metrics.CoordinatorPending.Set(float64(len(c.pending)))
}

func (c *Coordinator) handleInbound(data []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		slog.Warn("undecodable frame dropped", "error", err)
		return
	}

	if frame.CorrelationID != "" {
		op, ok := c.pending[frame.CorrelationID]
		if !ok {
			// timer already fired, or a duplicate; first observer won
			metrics.CoordinatorLateResponses.Inc()
			slog.Debug("late response discarded", "correlation_id", frame.CorrelationID)
			return
		}
		delete(c.pending, frame.CorrelationID)
		metrics.CoordinatorPending.Set(float64(len(c.pending)))

		if frame.Error != "" {
			op.replyCh <- outcome{err: errors.New(frame.Error)}
			return
		}
		c.cache.set(op.cacheKey, frame.Result)
		op.replyCh <- outcome{result: frame.Result}
		return
	}

	if frame.Type != "" {
		handler, ok := c.pushHandlers[frame.Type]
		if !ok {
			slog.Debug("push with no handler dropped", "type", frame.Type)
			return
		}
		metrics.PushesDispatched.WithLabelValues(frame.Type).Inc()
		handler(frame.Payload)
		return
	}

	slog.Warn("frame with neither correlation id nor type dropped")
}

func (c *Coordinator) handleSweep() {
	now := c.clock.Now()
	for id, op := range c.pending {
		if now.Before(op.deadline) {
			continue
		}
		delete(c.pending, id)
		metrics.CoordinatorTimeouts.Inc()
		op.replyCh <- outcome{err: fmt.Errorf("%w after %s: %s", domain.ErrRequestTimeout, now.Sub(op.issuedAt), op.opType)}
	}
	metrics.CoordinatorPending.Set(float64(len(c.pending)))
	c.cache.evictExpired()
}

func (c *Coordinator) sweepLoop() {
	ticker := c.clock.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			c.cmdCh <- cmdSweep{}
		case <-c.stopCh:
			return
		}
	}
}

// --- Public API ---

// Send issues one operation and blocks until a response, a timeout, or ctx
// cancellation. Identical calls within the cache TTL are answered from the
// cache without touching the channel unless opts.SkipCache is set.
func (c *Coordinator) Send(ctx context.Context, opType string, args any, opts Options) (json.RawMessage, error) {
	cacheKey, encoded, err := encodeArgs(opType, args)
	if err != nil {
		return nil, err
	}

	replyCh := make(chan outcome, 1)
	c.cmdCh <- cmdSend{
		opType:   opType,
		args:     encoded,
		cacheKey: cacheKey,
		opts:     opts,
		replyCh:  replyCh,
	}

	select {
	case out := <-replyCh:
		return out.result, out.err
	case <-ctx.Done():
		// the pending entry stays until its deadline sweeps it; the reply
		// channel is buffered so the resolution is not lost on the floor
		return nil, ctx.Err()
	}
}

// HandleMessage feeds one inbound frame from the transport's read loop.
func (c *Coordinator) HandleMessage(data []byte) {
	c.cmdCh <- cmdInbound{data: data}
}

// RegisterPushHandler routes push frames of the given type to handler.
// Handlers run on the coordinator goroutine and must not block.
func (c *Coordinator) RegisterPushHandler(pushType string, handler PushHandler) {
	c.cmdCh <- cmdRegisterPush{pushType: pushType, handler: handler}
}

// PendingCount reports in-flight requests (primarily for tests and health).
func (c *Coordinator) PendingCount() int {
	replyCh := make(chan int, 1)
	c.cmdCh <- cmdPendingCount{replyCh: replyCh}
	return <-replyCh
}

func (c *Coordinator) Stop() {
	doneCh := make(chan struct{})
	c.cmdCh <- cmdStop{doneCh: doneCh}
	<-doneCh
}
