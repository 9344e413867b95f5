package worker

import (
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/lixenwraith/weatherfx/metrics"
	"github.com/lixenwraith/weatherfx/parameter"
)

// ErrClosed is returned when posting to a terminated worker
var ErrClosed = errors.New("worker: closed")

// Options configures a Worker
type Options struct {
	Factory CoreFactory
	Clock   clockwork.Clock
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Seed    uint64
}

// Worker owns one Adapter on a dedicated goroutine
// Inbound messages are handled strictly in post order; responses leave in emit order
type Worker struct {
	logger  *slog.Logger
	adapter *Adapter

	inbox  *mailbox[Message]
	outbox *mailbox[Response]
	out    chan Response

	quit     chan struct{}
	loopDone chan struct{}
	pumpDone chan struct{}
	once     sync.Once
}

// Spawn starts the worker goroutines
func Spawn(opts Options) *Worker {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	w := &Worker{
		logger:   logger,
		inbox:    newMailbox[Message](),
		outbox:   newMailbox[Response](),
		out:      make(chan Response, parameter.WorkerResponseBuffer),
		quit:     make(chan struct{}),
		loopDone: make(chan struct{}),
		pumpDone: make(chan struct{}),
	}
	w.adapter = NewAdapter(w.emit, opts.Factory, opts.Clock, logger, opts.Metrics, opts.Seed)

	w.goSafe("loop", w.loop, w.loopDone)
	w.goSafe("pump", w.pump, w.pumpDone)
	return w
}

// Post enqueues msg; never blocks
func (w *Worker) Post(msg Message) error {
	if !w.inbox.push(msg) {
		return ErrClosed
	}
	return nil
}

// Responses delivers Ready, Error and Strike notices; closed after Terminate
func (w *Worker) Responses() <-chan Response {
	return w.out
}

// Terminate stops the worker immediately: queued messages are dropped, the renderer destroyed
// Safe to call repeatedly and from any goroutine except a Responses reader blocked on the worker
func (w *Worker) Terminate() {
	w.once.Do(func() {
		w.inbox.close()
		close(w.quit)
		<-w.loopDone
		w.adapter.Close()
		w.outbox.close()
		<-w.pumpDone
	})
}

// Pending returns the number of messages not yet handled
func (w *Worker) Pending() int {
	return w.inbox.len()
}

func (w *Worker) emit(r Response) {
	w.outbox.push(r)
}

func (w *Worker) loop() {
	for {
		select {
		case <-w.quit:
			return
		case <-w.inbox.signal:
		}
		for _, msg := range w.inbox.take() {
			select {
			case <-w.quit:
				return
			default:
			}
			w.adapter.Handle(msg)
		}
	}
}

func (w *Worker) pump() {
	defer close(w.out)
	for {
		select {
		case <-w.quit:
			return
		case <-w.outbox.signal:
		}
		for _, r := range w.outbox.take() {
			select {
			case w.out <- r:
			case <-w.quit:
				return
			}
		}
	}
}

// goSafe runs fn on a new goroutine, logging a panic instead of crashing the host
func (w *Worker) goSafe(name string, fn func(), done chan struct{}) {
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				w.logger.Error("worker goroutine crashed", "goroutine", name, "panic", r, "stack", string(debug.Stack()))
				if name == "loop" {
					w.emit(errorf("worker crashed: %v", r))
				}
			}
		}()
		fn()
	}()
}
