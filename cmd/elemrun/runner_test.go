package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/elemops/config"
	"github.com/jonwraymond/elemops/element"
	"github.com/jonwraymond/elemops/observe"
	"github.com/jonwraymond/elemops/resilience"
)

type fakeSession struct{ id string }

func (s *fakeSession) SessionID() string { return s.id }
func (s *fakeSession) Session() element.Session { return s }
func (s *fakeSession) Capabilities() element.Capabilities {
	return element.Capabilities{BrowserName: "chrome"}
}

// fakeTarget resolves every locator to "<id>:<value>" and answers getText
// with the handle ID. Clicking "#gone" fails.
func fakeTarget(name string, delay time.Duration) target {
	sess := &fakeSession{id: name}
	waiter := resilience.WaiterFunc(func(ctx context.Context, h *element.Handle, cmd element.Command) (*element.Handle, error) {
		if h.Found() {
			return h, nil
		}
		return element.New(name+":"+h.Locator.Value, h.Parent, h.Locator), nil
	})
	ic := resilience.NewInterceptor(resilience.WithWaiter(waiter))

	return target{
		name:  name,
		scope: sess,
		commands: map[string]element.CommandFunc{
			"getText": func(ctx context.Context, h *element.Handle, args ...any) (any, error) {
				time.Sleep(delay)
				return h.ID, nil
			},
			"click": func(ctx context.Context, h *element.Handle, args ...any) (any, error) {
				if h.Locator.Value == "#gone" {
					return nil, element.NewProtocolError(element.NameNoSuchElement, "gone", nil)
				}
				return nil, nil
			},
		},
		wrap: ic.Wrap,
	}
}

func testRunner(targets ...target) *runner {
	return &runner{
		targets:  targets,
		logger:   observe.NewNoopLogger(),
		stepWait: time.Second,
	}
}

func TestRunStep_OrderedResults(t *testing.T) {
	r := testRunner(fakeTarget("chrome", 20*time.Millisecond), fakeTarget("edge", 0))

	res := r.runStep(context.Background(), 0, config.Step{Command: "getText", Using: "css selector", Value: "#title"})
	require.Empty(t, res.Error)
	assert.Equal(t, "getText", res.Command)
	assert.Equal(t, "css selector=#title", res.Locator)
	assert.Equal(t, []string{"chrome", "edge"}, res.Order)
	assert.Equal(t, map[string]any{"chrome": "chrome:#title", "edge": "edge:#title"}, res.Results)
}

func TestRunStep_Index(t *testing.T) {
	r := testRunner(fakeTarget("chrome", 0))
	idx := 2

	res := r.runStep(context.Background(), 0, config.Step{Command: "getText", Using: "xpath", Value: "//li", Index: &idx})
	assert.Equal(t, "xpath=//li[2]", res.Locator)
}

func TestRunStep_UnknownCommand(t *testing.T) {
	r := testRunner(fakeTarget("chrome", 0))

	res := r.runStep(context.Background(), 0, config.Step{Command: "dragAndDrop", Using: "css selector", Value: "#a"})
	assert.Contains(t, res.Error, "unknown command")
	assert.Nil(t, res.Results)
}

func TestRunSteps_StopsAtFirstFailure(t *testing.T) {
	r := testRunner(fakeTarget("chrome", 0), fakeTarget("edge", 0))

	var buf bytes.Buffer
	err := r.runSteps(context.Background(), []config.Step{
		{Command: "click", Using: "css selector", Value: "#ok"},
		{Command: "click", Using: "css selector", Value: "#gone"},
		{Command: "getText", Using: "css selector", Value: "#never"},
	}, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first, second stepResult
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Empty(t, first.Error)
	assert.Contains(t, second.Error, element.NameNoSuchElement)
}

func TestPresent(t *testing.T) {
	h := element.New("e-1", nil, element.Locator{})
	assert.Equal(t, "e-1", present(h))
	assert.Equal(t, []string{"e-1", "e-2"}, present([]*element.Handle{h, element.New("e-2", nil, element.Locator{})}))
	assert.Equal(t, true, present(true))

	err := errors.New("x")
	assert.Equal(t, err, present(err))
}
