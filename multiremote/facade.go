package multiremote

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/elemops/element"
	"github.com/jonwraymond/elemops/observe"
)

// CallFunc invokes one command on one instance with bound arguments.
type CallFunc func(ctx context.Context, args ...any) (any, error)

// Wrapper decorates the call made to a single instance.
type Wrapper func(instance string, cmd element.Command, call CallFunc) CallFunc

// FanOutFunc invokes a command on every instance and returns the results in
// registration order.
type FanOutFunc func(ctx context.Context, args ...any) ([]any, error)

// Facade coordinates several named browser instances.
type Facade struct {
	mu        sync.RWMutex
	instances map[string]Instance
	order     []string // Maintains registration order

	wrap     Wrapper
	limit    int
	failFast bool
	logger   observe.Logger
}

// Option configures a Facade.
type Option func(*Facade)

// WithWrapper wraps every per-instance call.
func WithWrapper(w Wrapper) Option {
	return func(f *Facade) {
		f.wrap = w
	}
}

// WithLimit caps how many instances run at the same time. Zero or negative
// means unlimited.
func WithLimit(n int) Option {
	return func(f *Facade) {
		f.limit = n
	}
}

// WithFailFast cancels the context passed to the remaining instances as soon
// as one of them fails.
func WithFailFast() Option {
	return func(f *Facade) {
		f.failFast = true
	}
}

// WithLogger sets the logger used to report per-instance failures.
func WithLogger(l observe.Logger) Option {
	return func(f *Facade) {
		if l != nil {
			f.logger = l
		}
	}
}

// New creates an empty Facade.
func New(opts ...Option) *Facade {
	f := &Facade{
		instances: make(map[string]Instance),
		order:     make([]string, 0),
		logger:    observe.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Register adds an instance. Registering an existing name replaces the
// instance but keeps its original position.
func (f *Facade) Register(name string, inst Instance) error {
	if inst == nil {
		return ErrNilInstance
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.instances[name]; !exists {
		f.order = append(f.order, name)
	}
	f.instances[name] = inst
	return nil
}

// Unregister removes an instance.
func (f *Facade) Unregister(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.instances, name)
	for i, n := range f.order {
		if n == name {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}

// Names returns instance names in registration order.
func (f *Facade) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, len(f.order))
	copy(names, f.order)
	return names
}

// Instance returns the named instance.
func (f *Facade) Instance(name string) (Instance, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	inst, ok := f.instances[name]
	if !ok {
		return nil, ErrUnknownInstance
	}
	return inst, nil
}

func (f *Facade) snapshot() ([]string, []Instance) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, len(f.order))
	insts := make([]Instance, len(f.order))
	for i, name := range f.order {
		names[i] = name
		insts[i] = f.instances[name]
	}
	return names, insts
}

func (f *Facade) bind(name string, inst Instance, cmd element.Command) CallFunc {
	call := CallFunc(func(ctx context.Context, args ...any) (any, error) {
		return inst.Call(ctx, cmd, args...)
	})
	if f.wrap != nil {
		call = f.wrap(name, cmd, call)
	}
	return call
}

// FanOut returns a function that runs cmd on every registered instance.
//
// All instances start concurrently and receive their own copy of the
// arguments. The aggregate waits for every instance to settle. It returns the
// results ordered by registration, or the first error observed wrapped in an
// InstanceError, in which case no results are returned.
//
// The instance set is captured when the returned function is invoked. An
// empty facade resolves to an empty result.
func (f *Facade) FanOut(cmd element.Command) FanOutFunc {
	return func(ctx context.Context, args ...any) ([]any, error) {
		names, insts := f.snapshot()
		if len(insts) == 0 {
			return []any{}, nil
		}

		g := &errgroup.Group{}
		gctx := ctx
		if f.failFast {
			g, gctx = errgroup.WithContext(ctx)
		}
		if f.limit > 0 {
			g.SetLimit(f.limit)
		}

		results := make([]any, len(insts))
		for i := range insts {
			name := names[i]
			call := f.bind(name, insts[i], cmd)
			own := append([]any(nil), args...)

			g.Go(func() error {
				v, err := call(gctx, own...)
				if err != nil {
					f.logger.WithCommand(observe.CommandMeta{Name: cmd.Name, Instance: name}).
						Warn(gctx, "multiremote instance failed", observe.Err(err)...)
					return &InstanceError{Instance: name, Command: cmd.Name, Err: err}
				}
				results[i] = v
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}
		return results, nil
	}
}
