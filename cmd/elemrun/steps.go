package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jonwraymond/elemops/config"
	"github.com/jonwraymond/elemops/observe"
)

// runSteps executes steps in order and writes one JSON line per step. The
// first failing step stops the run.
func (r *runner) runSteps(ctx context.Context, steps []config.Step, w io.Writer) error {
	enc := json.NewEncoder(w)
	for i, st := range steps {
		res := r.runStep(ctx, i, st)
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("write step %d: %w", i, err)
		}
		if res.Error != "" {
			r.logger.Error(ctx, "step failed",
				observe.Field{Key: "step", Value: i},
				observe.Field{Key: "command.name", Value: res.Command},
				observe.Field{Key: "error", Value: res.Error},
			)
			return fmt.Errorf("step %d (%s %s): %s", i, res.Command, res.Locator, res.Error)
		}
	}
	return nil
}
