package airlockmc

import (
	"context"
	"errors"
	"strings"
	"testing"

	"airlockmc/checking"
	"airlockmc/explorer"
	"airlockmc/model"
	"airlockmc/properties"
	"airlockmc/state"
)

func airlock(t testing.TB) *model.Model {
	t.Helper()
	m, err := model.Airlock()
	if err != nil {
		t.Fatalf("Unable to load the built-in model: %v", err)
	}
	return m
}

func verify(t testing.TB, m *model.Model, props checking.Properties, opts ...VerifyOption) *Report {
	t.Helper()
	report, err := Verify(context.Background(), m, props, opts...)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return report
}

func TestAirlockSatisfiesAllProperties(t *testing.T) {
	report := verify(t, airlock(t), properties.Airlock())
	if !report.Summary.Complete {
		t.Fatalf("Expected the state space to be fully explored. Got: %+v", report.Summary)
	}
	for _, res := range report.Results {
		if res.Verdict != checking.Pass {
			_, desc := res.Response()
			t.Errorf("Expected %v to hold.\n%v", res.Property, desc)
		}
	}
	if ok, _ := report.Response(); !ok {
		t.Errorf("Expected the report to pass")
	}
}

// Without the rule making the chamber dirty when the inner door opens, pressing an
// inner button opens the inner door while the chamber is still clean.
func TestMissingDirtyRuleIsRejected(t *testing.T) {
	m, err := airlock(t).Without("cleanliness", "dirty-when-inner-opens")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	report := verify(t, m, properties.Airlock())
	if report.Verdict() != checking.Fail {
		t.Fatalf("Expected verdict %v. Got: %v", checking.Fail, report.Verdict())
	}
	res, ok := report.Result(properties.DirtyWhileInnerOpen)
	if !ok || res.Verdict != checking.Fail {
		t.Fatalf("Expected %v to fail. Got: %+v", properties.DirtyWhileInnerOpen, res)
	}
	tr := res.Trace.States
	if len(tr) != 3 {
		t.Fatalf("Expected a counterexample with 2 steps. Got:\n%v", res.Trace)
	}
	if tr[0] != m.Initial() {
		t.Errorf("Expected the counterexample to start in the initial configuration. Got: %v", tr[0])
	}
	if !tr[1].InnerRequested() || tr[1].InnerDoor != state.Closed {
		t.Errorf("Expected an inner button to be pressed with the door closed. Got: %v", tr[1])
	}
	if tr[2].InnerDoor != state.Open || tr[2].Cleanliness != state.Clean {
		t.Errorf("Expected the inner door to be open in a clean chamber. Got: %v", tr[2])
	}
}

func TestLivenessCounterexample(t *testing.T) {
	fairness := []checking.Fairness{}
	for _, f := range properties.Fairness() {
		// Only the button fairness conditions
		if strings.HasPrefix(f.Name, "button") {
			fairness = append(fairness, f)
		}
	}
	innerOpen := checking.Is(state.FieldInnerDoor, "Open")
	props := checking.Properties{
		Liveness: []checking.Liveness{{
			Name:     "inner-open-without-door-fairness",
			Target:   innerOpen,
			Fairness: fairness,
		}},
	}
	report := verify(t, airlock(t), props)
	res, ok := report.Result("inner-open-without-door-fairness")
	if !ok || res.Verdict != checking.Fail {
		t.Fatalf("Expected the liveness property to fail. Got: %+v", res)
	}
	tr := res.Trace
	if tr.LoopStart < 0 || tr.LoopStart >= len(tr.States)-1 {
		t.Fatalf("Expected a lasso shaped counterexample. Got loop start %v in:\n%v", tr.LoopStart, tr)
	}
	if tr.States[0] != state.Initial() {
		t.Errorf("Expected the counterexample to start in the initial configuration")
	}
	loop := tr.States[tr.LoopStart:]
	if loop[0] != loop[len(loop)-1] {
		t.Errorf("Expected the loop to return to its first configuration. Got:\n%v", tr)
	}
	for _, f := range fairness {
		found := false
		for _, cfg := range loop {
			if innerOpen(cfg) {
				t.Fatalf("Expected the inner door to stay closed on the loop. Got:\n%v", tr)
			}
			found = found || f.Holds(cfg)
		}
		if !found {
			t.Errorf("Expected %v to hold somewhere on the loop. Got:\n%v", f.Name, tr)
		}
	}
}

func TestInconclusiveWhenLimited(t *testing.T) {
	report := verify(t, airlock(t), properties.Airlock(), MaxStates(10))
	if report.Summary.Limit != explorer.MaxStatesLimit || report.Summary.States != 10 {
		t.Fatalf("Expected the exploration to stop at 10 states. Got: %+v", report.Summary)
	}
	if report.Verdict() != checking.Inconclusive {
		t.Fatalf("Expected verdict %v. Got: %v", checking.Inconclusive, report.Verdict())
	}
	for _, res := range report.Results {
		if res.Verdict != checking.Inconclusive {
			t.Errorf("Expected %v to be inconclusive. Got: %v", res.Property, res.Verdict)
		}
	}

	report = verify(t, airlock(t), properties.Airlock(), MaxDepth(2))
	if report.Summary.Limit != explorer.MaxDepthLimit || report.Verdict() != checking.Inconclusive {
		t.Fatalf("Expected the depth limit to make the run inconclusive. Got: %+v %v", report.Summary, report.Verdict())
	}
}

func TestConcurrentExplorationIsDeterministic(t *testing.T) {
	m, err := airlock(t).Without("cleanliness", "dirty-when-inner-opens")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	seq := verify(t, m, properties.Airlock(), NumConcurrent(1))
	par := verify(t, m, properties.Airlock(), NumConcurrent(8))
	if seq.Summary != par.Summary {
		t.Fatalf("Expected the same state space. Got: %+v and %+v", seq.Summary, par.Summary)
	}
	for i := range seq.Results {
		_, a := seq.Results[i].Response()
		_, b := par.Results[i].Response()
		if a != b {
			t.Errorf("Expected the same result for %v.\nSequential:\n%v\nConcurrent:\n%v", seq.Results[i].Property, a, b)
		}
	}
}

func TestBuiltinPropertiesAreAlwaysChecked(t *testing.T) {
	report := verify(t, airlock(t), checking.Properties{})
	if len(report.Results) != 2 {
		t.Fatalf("Expected the 2 built-in properties. Got: %v", len(report.Results))
	}
	for _, name := range []string{properties.LegalDoorCommands, properties.LegalResets} {
		if res, ok := report.Result(name); !ok || res.Verdict != checking.Pass {
			t.Errorf("Expected %v to hold. Got: %+v", name, res)
		}
	}
	// Not added twice
	report = verify(t, airlock(t), properties.WellFormed())
	if len(report.Results) != 2 {
		t.Errorf("Expected the built-in properties once. Got: %v", len(report.Results))
	}
}

func TestVerifyRejectsMalformedModel(t *testing.T) {
	m, err := airlock(t).Without("inner_door", "default")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	_, err = Verify(context.Background(), m, properties.Airlock())
	var malformed *model.MalformedModelError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected a MalformedModelError. Got: %v", err)
	}
	var uncovered *model.UncoveredCaseError
	if !errors.As(err, &uncovered) || uncovered.Table != "inner_door" {
		t.Errorf("Expected an uncovered case in the inner_door table. Got: %v", err)
	}
}

func TestReportJSON(t *testing.T) {
	m, err := airlock(t).Without("cleanliness", "dirty-when-inner-opens")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	props, err := properties.Select(properties.Airlock(), []string{properties.DirtyWhileInnerOpen})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	report := verify(t, m, props)
	js, err := report.JSON()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, s := range []string{report.RunID.String(), `"FAIL"`, `"trace"`, properties.DirtyWhileInnerOpen} {
		if !strings.Contains(string(js), s) {
			t.Errorf("Expected the JSON report to contain %v. Got:\n%s", s, js)
		}
	}
}

func TestVerifyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Verify(ctx, airlock(t), properties.Airlock()); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled. Got: %v", err)
	}
}

func BenchmarkVerifyAirlock(b *testing.B) {
	m := airlock(b)
	props := properties.Airlock()
	for i := 0; i < b.N; i++ {
		if _, err := Verify(context.Background(), m, props); err != nil {
			b.Fatalf("Unexpected error: %v", err)
		}
	}
}
