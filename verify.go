// Package airlockmc verifies the airlock controller by exploring every reachable
// configuration of the airlock and its environment.
package airlockmc

import (
	"context"
	"errors"
	"fmt"

	"airlockmc/checking"
	"airlockmc/config"
	"airlockmc/explorer"
	"airlockmc/model"
	"airlockmc/properties"
	"airlockmc/scheduler"
	"airlockmc/stateManager"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Verify explores the reachable state space of the model and checks the properties.
//
// The built-in properties rejecting illegal door commands and resets are always checked,
// and are added to props if they are missing.
// See the VerifyOptions for the limits of the exploration. Default values will be used if no value is provided.
//
// Returns a *model.MalformedModelError if a rule table of the model is not total.
// Property violations are not errors, they are reported in the returned Report.
func Verify(ctx context.Context, m *model.Model, props checking.Properties, opts ...VerifyOption) (*Report, error) {
	var (
		defaults = config.BuiltinDefaults()

		maxStates     = defaults.MaxStates
		maxDepth      = defaults.MaxDepth
		numConcurrent = defaults.Workers

		log = zap.NewNop()
	)
	for _, opt := range opts {
		switch t := opt.(type) {
		case config.MaxStatesOption:
			maxStates = t.MaxStates
		case config.MaxDepthOption:
			maxDepth = t.MaxDepth
		case config.NumConcurrentOption:
			numConcurrent = t.N
		case config.LoggerOption:
			log = t.Log
		}
	}

	if err := m.CheckTotal(); err != nil {
		return nil, err
	}
	props = withWellFormed(props)

	runID := uuid.New()
	log = log.With(zap.String("run", runID.String()), zap.String("model", m.Name))
	log.Info("Starting verification",
		zap.Strings("properties", props.Names()),
		zap.Int("maxStates", maxStates),
		zap.Int("maxDepth", maxDepth),
		zap.Int("workers", numConcurrent),
	)

	sm := stateManager.NewGraphStateManager()
	exp := explorer.NewExplorer(scheduler.NewQueueScheduler(), sm, maxStates, maxDepth, numConcurrent, log)
	pc := checking.NewPredicateChecker(props.Invariants, props.StepInvariants)
	summary, err := exp.Explore(ctx, m, pc)
	if err != nil {
		var uncovered *model.UncoveredCaseError
		if errors.As(err, &uncovered) {
			return nil, &model.MalformedModelError{Model: m.Name, Err: err}
		}
		return nil, fmt.Errorf("exploring %v: %w", m.Name, err)
	}

	space := sm.State()
	results := pc.Results(space)
	fc := checking.NewFairnessChecker()
	for _, l := range props.Liveness {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, fc.Check(space, l))
	}

	report := &Report{
		RunID:   runID,
		Model:   m.Name,
		Summary: summary,
		Results: results,
		space:   space,
	}
	log.Info("Verification finished", zap.String("verdict", report.Verdict().String()))
	return report, nil
}

// withWellFormed adds the built-in step invariants that are not already part of props.
func withWellFormed(props checking.Properties) checking.Properties {
	present := map[string]bool{}
	for _, name := range props.Names() {
		present[name] = true
	}
	builtin := []checking.StepInvariant{}
	for _, inv := range properties.WellFormed().StepInvariants {
		if !present[inv.Name] {
			builtin = append(builtin, inv)
		}
	}
	props.StepInvariants = append(builtin, props.StepInvariants...)
	return props
}
