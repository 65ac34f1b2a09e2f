// Package notify announces a finished publish over socket.io.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/pathwaygen/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultEvent is emitted when no event name is configured.
const DefaultEvent = "pathway:published"

// DefaultTimeout bounds the connection handshake and the delivery of the
// event.
const DefaultTimeout = 10 * time.Second

// ErrInvalidTarget is returned by New for an unusable URL or event.
var ErrInvalidTarget = errors.New("invalid notification target")

// Payload is the body of the publish event.
type Payload struct {
	Steps    int
	Manifest string
}

func (p Payload) fields() map[string]any {
	return map[string]any{
		"steps":    p.Steps,
		"manifest": p.Manifest,
	}
}

// Notifier emits one event per Publish call on a fresh connection.
type Notifier struct {
	baseURL string
	path    string
	event   string
	timeout time.Duration
}

// New validates the target and creates a Notifier. An empty event selects
// DefaultEvent and a non-positive timeout selects DefaultTimeout.
func New(rawURL, event string, timeout time.Duration) (*Notifier, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTarget, err)
	}
	switch parsed.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q in %s", ErrInvalidTarget, parsed.Scheme, rawURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("%w: missing host in %s", ErrInvalidTarget, rawURL)
	}
	if event == "" {
		event = DefaultEvent
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Notifier{
		baseURL: fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host),
		path:    parsed.Path,
		event:   event,
		timeout: timeout,
	}, nil
}

// Event returns the event name the Notifier emits.
func (n *Notifier) Event() string {
	return n.event
}

// Publish connects, emits the event with the payload and disconnects.
func (n *Notifier) Publish(ctx context.Context, payload Payload) error {
	logger := ctxlog.FromContext(ctx).With("url", n.baseURL+n.path, "event", n.event)

	opts := socket.DefaultOptions()
	if n.path != "" && n.path != "/" {
		opts.SetPath(n.path)
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))
	opts.SetReconnection(false)

	manager := socket.NewManager(n.baseURL, opts)
	io := manager.Socket("/", opts)
	defer io.Disconnect()

	connected := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Connected.", "sid", io.Id())
		select {
		case connected <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connected <- err:
		default:
		}
	})

	logger.Debug("Connecting...")
	io.Connect()

	timer := time.NewTimer(n.timeout)
	defer timer.Stop()

	select {
	case err := <-connected:
		if err != nil {
			return fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		return fmt.Errorf("cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-timer.C:
		return fmt.Errorf("timed out after %s waiting for socket.io connection", n.timeout)
	}

	engine := manager.Engine()
	if engine == nil {
		return errors.New("socket.io connection has no engine")
	}

	// The engine reports "drain" once a write finishes with an empty buffer.
	drained := make(chan struct{}, 1)
	onDrain := types.Listener(func(...any) {
		select {
		case drained <- struct{}{}:
		default:
		}
	})
	engine.On("drain", onDrain)
	defer engine.RemoveListener("drain", onDrain)

	if err := io.Emit(n.event, payload.fields()); err != nil {
		return fmt.Errorf("failed to emit %q: %w", n.event, err)
	}

	// Disconnecting before the websocket write completes drops the event.
	for !flushed(engine) {
		select {
		case <-drained:
		case <-ctx.Done():
			return fmt.Errorf("cancelled while sending %q: %w", n.event, ctx.Err())
		case <-timer.C:
			return fmt.Errorf("timed out after %s sending %q", n.timeout, n.event)
		}
	}

	logger.Info("📣 Publish notification sent.", "steps", payload.Steps)
	return nil
}

// flushed reports whether every queued packet has been written out. Emit
// queues synchronously, so after it returns the event is either in the
// write buffer or in the write that keeps the transport unwritable.
func flushed(engine socket.Engine) bool {
	transport := engine.Transport()
	return transport != nil && transport.Writable() && engine.WriteBuffer().Len() == 0
}
