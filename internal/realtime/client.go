package realtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// connState documents the pipeline's lifecycle for logging; the real
// transitions are enforced structurally by goroutine lifetimes, not by
// code elsewhere reading this field.
type connState int

const (
	stateConnecting connState = iota
	stateRegistered
	stateRunning
	stateDraining
	stateClosed
)

func (s connState) String() string {
	switch s {
	case stateRegistered:
		return "registered"
	case stateRunning:
		return "running"
	case stateDraining:
		return "draining"
	case stateClosed:
		return "closed"
	default:
		return "connecting"
	}
}

// InboundProcessor validates, authorizes, publishes and persists a
// client-authored chat message. Implemented by internal/chat/usecase/messageuc.
type InboundProcessor interface {
	ProcessInbound(ctx context.Context, userID int, data ChatMessageData) error
}

// Config tunes the connection pipeline; values come from internal/config's
// RealtimeConfig.
type Config struct {
	InboundRateInterval time.Duration
	IdleTimeout          time.Duration
	FlushInterval        time.Duration
	FlushBatchSize       int
}

// Connection owns one websocket's reader and writer tasks: it subscribes to
// the caller-supplied set of chat topics, drains its control channel for
// out-of-band chat add/remove/shutdown/notify signals, and batches outbound
// events on a flush ticker.
type Connection struct {
	conn      *websocket.Conn
	userID    int
	registry  *Registry
	fabric    *Fabric
	processor InboundProcessor
	cfg       Config
	logger    *slog.Logger

	control chan ControlSignal

	mu   sync.Mutex
	subs map[int]*Subscriber

	state connState
}

func NewConnection(
	conn *websocket.Conn,
	userID int,
	initialChatIDs []int,
	registry *Registry,
	fabric *Fabric,
	processor InboundProcessor,
	cfg Config,
	logger *slog.Logger,
) *Connection {
	c := &Connection{
		conn:      conn,
		userID:    userID,
		registry:  registry,
		fabric:    fabric,
		processor: processor,
		cfg:       cfg,
		logger:    logger,
		subs:      make(map[int]*Subscriber),
		state:     stateConnecting,
	}

	for _, chatID := range initialChatIDs {
		c.subs[chatID] = fabric.Subscribe(chatID)
	}

	return c
}

// Run registers the connection, starts the reader and writer tasks, and
// blocks until both exit (peer disconnect, shutdown signal, or idle timeout).
func (c *Connection) Run(ctx context.Context) {
	c.control = c.registry.Register(c.userID)
	c.setState(stateRegistered)
	defer c.registry.Unregister(c.userID, c.control)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)

	c.setState(stateRunning)

	go func() {
		defer wg.Done()
		c.readLoop(ctx, cancel)
	}()

	go func() {
		defer wg.Done()
		c.writeLoop(ctx)
	}()

	wg.Wait()

	c.setState(stateDraining)
	c.mu.Lock()
	for chatID, sub := range c.subs {
		c.fabric.Unsubscribe(chatID, sub)
	}
	c.mu.Unlock()
	c.setState(stateClosed)
}

func (c *Connection) setState(s connState) {
	c.state = s
	c.logger.Debug("connection state transition", "user_id", c.userID, "state", s.String())
}

func (c *Connection) readLoop(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(c.cfg.InboundRateInterval), 1)

	for {
		readCtx, cancelRead := context.WithTimeout(ctx, c.cfg.IdleTimeout)
		var msg ClientMessage
		err := wsjson.Read(readCtx, c.conn, &msg)
		cancelRead()

		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure &&
				websocket.CloseStatus(err) != websocket.StatusGoingAway {
				c.logger.Debug("read error", "user_id", c.userID, "error", err)
			}
			return
		}

		if err := limiter.Wait(ctx); err != nil {
			return
		}

		if msg.Type != EventChatMessage {
			c.logger.Warn("ignoring unknown inbound event type", "user_id", c.userID, "type", msg.Type)
			continue
		}

		if err := c.processor.ProcessInbound(ctx, c.userID, msg.Data); err != nil {
			c.sendError(err.Error())
		}
	}
}

func (c *Connection) sendError(message string) {
	c.registry.Notify(c.userID, ControlSignal{
		Kind:  ControlNotify,
		Event: &Event{Type: EventError, Data: ErrorData{Message: message}},
	})
}

func (c *Connection) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.FlushInterval)
	defer ticker.Stop()

	pending := make([]*Event, 0, c.cfg.FlushBatchSize)

	flush := func() {
		if len(pending) == 0 {
			return
		}
		writeCtx, cancel := context.WithTimeout(ctx, c.cfg.IdleTimeout)
		err := wsjson.Write(writeCtx, c.conn, pending)
		cancel()
		if err != nil {
			c.logger.Debug("write error", "user_id", c.userID, "error", err)
		}
		pending = pending[:0]
	}

	for {
		select {
		case <-ctx.Done():
			return

		case sig := <-c.control:
			switch sig.Kind {
			case ControlShutdown:
				flush()
				_ = c.conn.Close(websocket.StatusNormalClosure, "superseded by new connection")
				return
			case ControlAddChat:
				c.mu.Lock()
				if _, ok := c.subs[sig.ChatID]; !ok {
					c.subs[sig.ChatID] = c.fabric.Subscribe(sig.ChatID)
				}
				c.mu.Unlock()
			case ControlRemoveChat:
				c.mu.Lock()
				if sub, ok := c.subs[sig.ChatID]; ok {
					c.fabric.Unsubscribe(sig.ChatID, sub)
					delete(c.subs, sig.ChatID)
				}
				c.mu.Unlock()
			case ControlNotify:
				if sig.Event != nil {
					pending = append(pending, sig.Event)
					if len(pending) >= c.cfg.FlushBatchSize {
						flush()
					}
				}
			}

		case <-ticker.C:
			c.drainTopics(&pending)
			flush()
		}
	}
}

// drainTopics collects pending events from each subscribed topic in turn
// without blocking, stopping once the batch reaches FlushBatchSize; it is
// called once per flush tick.
func (c *Connection) drainTopics(pending *[]*Event) {
	c.mu.Lock()
	subs := make([]*Subscriber, 0, len(c.subs))
	for _, sub := range c.subs {
		subs = append(subs, sub)
	}
	c.mu.Unlock()

	for _, sub := range subs {
		for {
			ev, ok := sub.TryNext()
			if !ok {
				break
			}
			*pending = append(*pending, ev)
			if len(*pending) >= c.cfg.FlushBatchSize {
				return
			}
		}
	}
}
