package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jonwraymond/elemops/config"
	"github.com/jonwraymond/elemops/driver/rodsession"
	"github.com/jonwraymond/elemops/element"
	"github.com/jonwraymond/elemops/health"
	"github.com/jonwraymond/elemops/multiremote"
	"github.com/jonwraymond/elemops/observe"
	"github.com/jonwraymond/elemops/resilience"
)

// target is one browser instance ready to receive commands.
type target struct {
	name     string
	scope    element.Scope
	commands map[string]element.CommandFunc
	wrap     element.Wrapper
}

type runner struct {
	targets  []target
	browsers []*rodsession.Browser
	sessions []*rodsession.Session
	agg      *health.Aggregator
	logger   observe.Logger
	fanOut   []multiremote.Option
	stepWait time.Duration
}

func newRunner(ctx context.Context, sc *config.Scenario, obs observe.Observer) (*runner, error) {
	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return nil, err
	}
	metrics, err := observe.NewMetrics(obs.Meter())
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	r := &runner{
		agg:      health.NewAggregator(),
		logger:   obs.Logger(),
		stepWait: sc.Timeouts.Step,
		fanOut:   []multiremote.Option{multiremote.WithLogger(obs.Logger())},
	}
	if sc.FanOut.Limit > 0 {
		r.fanOut = append(r.fanOut, multiremote.WithLimit(sc.FanOut.Limit))
	}
	if sc.FanOut.FailFast {
		r.fanOut = append(r.fanOut, multiremote.WithFailFast())
	}

	for _, inst := range sc.Instances {
		b, err := rodsession.Connect(ctx, rodsession.BrowserConfig{
			RemoteURL: inst.Remote,
			Headless:  inst.IsHeadless(),
			Bin:       inst.Bin,
			Flags:     inst.Flags,
		})
		if err != nil {
			r.close()
			return nil, fmt.Errorf("instance %s: %w", inst.Name, err)
		}
		r.browsers = append(r.browsers, b)

		sess, err := rodsession.Open(ctx, b.Browser, inst.URL, inst.Stealth,
			rodsession.WithImplicitWait(sc.Timeouts.Implicit),
			rodsession.WithClickableWait(sc.Timeouts.Clickable),
			rodsession.WithLogger(r.logger),
		)
		if err != nil {
			r.close()
			return nil, fmt.Errorf("instance %s: %w", inst.Name, err)
		}
		r.sessions = append(r.sessions, sess)

		ic := resilience.NewInterceptor(
			resilience.WithDriver(sess),
			resilience.WithLogger(r.logger),
			resilience.WithMetrics(metrics),
		)
		r.targets = append(r.targets, target{
			name:     inst.Name,
			scope:    sess,
			commands: sess.Commands(),
			wrap:     element.Chain(mw.ForInstance(inst.Name).Wrap, ic.Wrap),
		})
		r.agg.Register(inst.Name, health.NewPingChecker(inst.Name, sess, time.Second))

		r.logger.Info(ctx, "instance ready",
			observe.Field{Key: "multiremote.instance", Value: inst.Name},
			observe.Field{Key: "session.id", Value: sess.SessionID()},
		)
	}

	return r, nil
}

// stepResult is one JSON output line.
type stepResult struct {
	Step    int            `json:"step"`
	Command string         `json:"command"`
	Locator string         `json:"locator"`
	Results map[string]any `json:"results,omitempty"`
	Order   []string       `json:"order,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// runStep fans one step out to every target. Each target gets a fresh,
// unlocated handle so the implicit wait resolves it.
func (r *runner) runStep(ctx context.Context, i int, st config.Step) stepResult {
	loc := element.Locator{Using: st.Using, Value: st.Value, Index: st.ElementIndex()}
	cmd := element.Lookup(st.Command)
	out := stepResult{Step: i, Command: cmd.Name, Locator: loc.String()}

	facade := multiremote.New(r.fanOut...)
	for _, t := range r.targets {
		h := element.New("", t.scope, loc)
		if err := facade.Register(t.name, multiremote.NewElement(h, t.commands, t.wrap)); err != nil {
			out.Error = err.Error()
			return out
		}
	}

	ctx, cancel := context.WithTimeout(ctx, r.stepWait)
	defer cancel()

	values, err := facade.FanOut(cmd)(ctx, st.Args...)
	if err != nil {
		out.Error = err.Error()
		return out
	}

	out.Order = facade.Names()
	out.Results = make(map[string]any, len(values))
	for j, name := range out.Order {
		out.Results[name] = present(values[j])
	}
	return out
}

// present makes command results printable.
func present(v any) any {
	switch x := v.(type) {
	case *element.Handle:
		return x.ID
	case []*element.Handle:
		ids := make([]string, len(x))
		for i, h := range x {
			ids[i] = h.ID
		}
		return ids
	default:
		return v
	}
}

func (r *runner) serveHealth(addr string) func() {
	mux := http.NewServeMux()
	health.RegisterHandlers(mux, r.agg)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.logger.Error(context.Background(), "health server failed", observe.Err(err)...)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func (r *runner) close() {
	for _, s := range r.sessions {
		_ = s.Close()
	}
	for _, b := range r.browsers {
		_ = b.Close()
	}
}
