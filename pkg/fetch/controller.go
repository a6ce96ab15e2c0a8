// Package fetch runs backend reads on behalf of a view and keeps the
// loading, error and data state that view renders.
//
// A Controller wraps one fetch function. Each call to Refetch is a fetch
// lifecycle: it marks the state loading, calls the function, and either
// stores the transformed payload or records a terminal failure. Failures
// with no response from the backend are retried after a fixed delay while
// the retry budget lasts; the state does not change during a retry wait.
//
//	ctrl := fetch.New(func(ctx context.Context, _ struct{}) ([]*admin.ChatSession, error) {
//		list, err := client.Chats.List(ctx, &admin.ChatListParams{Page: page})
//		if err != nil {
//			return nil, err
//		}
//		return list.Chats, nil
//	}, &fetch.Options[[]*admin.ChatSession]{RetryCount: 2, RetryDelay: time.Second})
//	defer ctrl.Close()
//
//	ctrl.SetDependencies(page, filters) // first call loads, later calls reload on change
//
// Close tears the controller down: results that arrive afterwards and
// pending retry timers no longer touch the state.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/eshaffer321/ragadmin-go/internal/observe"
	"github.com/eshaffer321/ragadmin-go/internal/types"
	"github.com/jonboulle/clockwork"
)

// DefaultRetryDelay is used when Options.RetryDelay is zero
const DefaultRetryDelay = time.Second

// ErrClosed is returned by a lifecycle that was waiting to retry when the
// controller was closed.
var ErrClosed = errors.New("fetch: controller closed")

// Func performs the backend read for params
type Func[P, T any] func(ctx context.Context, params P) (T, error)

// Options configures a Controller
type Options[T any] struct {
	// SkipInitialLoad suppresses the fetch on the first SetDependencies call
	SkipInitialLoad bool

	// InitialData is the state's data before the first success
	InitialData T

	// OnSuccess receives the transformed payload after it is stored
	OnSuccess func(data T)

	// OnError receives the error of every terminal failure
	OnError func(err error)

	// Transform reshapes the payload before it is stored
	Transform func(data T) (T, error)

	// RetryCount bounds retries of network failures
	RetryCount int

	// RetryDelay is the wait before each retry
	RetryDelay time.Duration

	// IsRetryable reports whether a failure may be retried.
	// Defaults to failures where no response was received.
	IsRetryable func(err error) bool

	// OnRetry runs each time a retry is scheduled
	OnRetry func(attempt int, err error)

	// Context is the base context of dependency-triggered fetches
	Context context.Context

	Clock  clockwork.Clock
	Logger types.Logger
}

// State is a snapshot of a controller's observable state
type State[T any] struct {
	Data        T
	Loading     bool
	Error       string
	Err         error
	LastUpdated time.Time
}

// Controller orchestrates fetch lifecycles for one fetch function
type Controller[P, T any] struct {
	fn   Func[P, T]
	opts Options[T]

	// pub orders state changes and their delivery to subscribers
	pub  sync.Mutex
	mu   sync.Mutex
	subs observe.Subscribers[State[T]]

	state     State[T]
	retries   int
	gen       uint64
	activated bool
	deps      []any
	closed    bool
	done      chan struct{}
	wg        sync.WaitGroup
}

// New creates a controller for fn
func New[P, T any](fn Func[P, T], opts *Options[T]) *Controller[P, T] {
	var o Options[T]
	if opts != nil {
		o = *opts
	}

	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	if o.RetryCount < 0 {
		o.RetryCount = 0
	}
	if o.IsRetryable == nil {
		o.IsRetryable = types.IsNetworkError
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.Context == nil {
		o.Context = context.Background()
	}

	return &Controller[P, T]{
		fn:   fn,
		opts: o,
		state: State[T]{
			Data:    o.InitialData,
			Loading: !o.SkipInitialLoad,
		},
		done: make(chan struct{}),
	}
}

// State returns the current snapshot
func (c *Controller[P, T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn for every state change. Callbacks must not call
// Refetch, SetDependencies or Close synchronously.
func (c *Controller[P, T]) Subscribe(fn func(State[T])) func() {
	return c.subs.Subscribe(fn)
}

// SetDependencies records the values the data depends on. The first call
// activates the controller and loads unless SkipInitialLoad is set; each
// later call that changes any value starts exactly one background fetch
// with zero-value params. It reports whether a fetch was started.
func (c *Controller[P, T]) SetDependencies(deps ...any) bool {
	first, changed, ok := c.recordDeps(deps)
	if !ok {
		return false
	}

	if first && c.opts.SkipInitialLoad {
		c.update(func(s *State[T]) { s.Loading = false })
		return false
	}
	if !changed {
		return false
	}

	go func() {
		defer c.wg.Done()
		var zero P
		if _, err := c.Refetch(c.opts.Context, zero); err != nil && c.opts.Logger != nil && !errors.Is(err, ErrClosed) {
			c.opts.Logger.Debug("Dependency fetch failed", "error", err)
		}
	}()

	return true
}

// recordDeps stores deps and reports whether this is the activating call
// and whether any value changed. ok is false once the controller is closed.
// A fetch about to start is counted for Wait before the lock is released.
func (c *Controller[P, T]) recordDeps(deps []any) (first, changed, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false, false, false
	}

	first = !c.activated
	changed = first || !sameDeps(c.deps, deps)
	c.activated = true
	c.deps = append([]any(nil), deps...)
	if changed && !(first && c.opts.SkipInitialLoad) {
		c.wg.Add(1)
	}
	return first, changed, true
}

// Refetch runs one fetch lifecycle with params and returns the transformed
// payload or the terminal error.
func (c *Controller[P, T]) Refetch(ctx context.Context, params P) (T, error) {
	var zero T

	gen, ok := c.begin()
	if !ok {
		return zero, ErrClosed
	}

	for {
		data, err := c.fn(ctx, params)
		if err == nil && c.opts.Transform != nil {
			data, err = c.opts.Transform(data)
			if err != nil {
				c.fail(gen, err)
				return zero, err
			}
		}

		if err == nil {
			c.succeed(gen, data)
			return data, nil
		}

		attempt, retry := c.takeRetry(gen, err)
		if !retry {
			c.fail(gen, err)
			return zero, err
		}

		if c.opts.Logger != nil {
			c.opts.Logger.Info(fmt.Sprintf("API call failed. Retrying (%d/%d)...", attempt, c.opts.RetryCount), "error", err)
		}
		if c.opts.OnRetry != nil {
			c.opts.OnRetry(attempt, err)
		}

		timer := c.opts.Clock.NewTimer(c.opts.RetryDelay)
		select {
		case <-timer.Chan():
		case <-c.done:
			timer.Stop()
			return zero, ErrClosed
		case <-ctx.Done():
			timer.Stop()
			c.fail(gen, ctx.Err())
			return zero, ctx.Err()
		}

		if c.isClosed() {
			return zero, ErrClosed
		}
	}
}

// Close tears the controller down. State is frozen from here on and
// lifecycles waiting to retry return ErrClosed.
func (c *Controller[P, T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
}

// Wait blocks until dependency-triggered fetches have returned
func (c *Controller[P, T]) Wait() {
	c.wg.Wait()
}

// begin starts a new lifecycle generation and marks the state loading
func (c *Controller[P, T]) begin() (uint64, bool) {
	c.pub.Lock()
	defer c.pub.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0, false
	}
	c.gen++
	gen := c.gen
	c.state.Loading = true
	c.state.Error = ""
	c.state.Err = nil
	snap := c.state
	c.mu.Unlock()

	c.subs.Publish(snap)
	return gen, true
}

// takeRetry consumes one unit of retry budget when err qualifies and gen
// is still the live lifecycle
func (c *Controller[P, T]) takeRetry(gen uint64, err error) (int, bool) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}
	if !c.opts.IsRetryable(err) {
		return 0, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.gen || c.retries >= c.opts.RetryCount {
		return 0, false
	}
	c.retries++
	return c.retries, true
}

func (c *Controller[P, T]) succeed(gen uint64, data T) {
	applied := c.apply(gen, func(s *State[T]) {
		s.Data = data
		s.Loading = false
		s.Error = ""
		s.Err = nil
		s.LastUpdated = c.opts.Clock.Now()
		c.retries = 0
	})
	if applied && c.opts.OnSuccess != nil {
		c.opts.OnSuccess(data)
	}
}

func (c *Controller[P, T]) fail(gen uint64, err error) {
	msg := types.UserMessage(err)
	applied := c.apply(gen, func(s *State[T]) {
		s.Loading = false
		s.Error = msg
		s.Err = err
	})
	if applied && c.opts.OnError != nil {
		c.opts.OnError(err)
	}
}

// apply mutates the state only while gen is the live lifecycle and the
// controller is open.
func (c *Controller[P, T]) apply(gen uint64, fn func(*State[T])) bool {
	c.pub.Lock()
	defer c.pub.Unlock()

	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		return false
	}
	fn(&c.state)
	snap := c.state
	c.mu.Unlock()

	c.subs.Publish(snap)
	return true
}

// update mutates the state outside any lifecycle
func (c *Controller[P, T]) update(fn func(*State[T])) {
	c.pub.Lock()
	defer c.pub.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	fn(&c.state)
	snap := c.state
	c.mu.Unlock()

	c.subs.Publish(snap)
}

func (c *Controller[P, T]) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// sameDeps compares dependency lists element-wise: values that are
// comparable at run time by ==, everything else by deep equality.
func sameDeps(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameDep(a[i], b[i]) {
			return false
		}
	}
	return true
}

func sameDep(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	// Value.Comparable inspects interface fields at run time
	if va.Comparable() && vb.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
