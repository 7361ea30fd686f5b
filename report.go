package airlockmc

import (
	"bytes"
	"fmt"

	"airlockmc/checking"
	"airlockmc/explorer"
	"airlockmc/state"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Report contains the results of a verification run.
type Report struct {
	RunID   uuid.UUID
	Model   string
	Summary explorer.Summary
	// One result per property, invariants first
	Results []checking.Result

	space state.StateSpace
}

var _ checking.CheckerResponse = (*Report)(nil)

// Space returns the explored state space.
func (r *Report) Space() state.StateSpace {
	return r.space
}

// Result returns the result of the named property.
func (r *Report) Result(property string) (checking.Result, bool) {
	for _, res := range r.Results {
		if res.Property == property {
			return res, true
		}
	}
	return checking.Result{}, false
}

// Verdict is Fail if any property failed, Inconclusive if any property is
// inconclusive and Pass otherwise.
func (r *Report) Verdict() checking.Verdict {
	verdict := checking.Pass
	for _, res := range r.Results {
		switch res.Verdict {
		case checking.Fail:
			return checking.Fail
		case checking.Inconclusive:
			verdict = checking.Inconclusive
		}
	}
	return verdict
}

// Create a response.
//
// Returns true if every property holds.
// The description lists the verdict of every property followed by its counterexample.
func (r *Report) Response() (bool, string) {
	var buffer bytes.Buffer
	fmt.Fprintf(&buffer, "Model %v, run %v\n", r.Model, r.RunID)
	fmt.Fprintf(&buffer, "Explored %v configurations and %v transitions up to depth %v", r.Summary.States, r.Summary.Transitions, r.Summary.Depth)
	if r.Summary.Limit != explorer.NoLimit {
		fmt.Fprintf(&buffer, ", stopped by the %v limit", r.Summary.Limit)
	}
	buffer.WriteString("\n\n")
	for _, res := range r.Results {
		_, desc := res.Response()
		buffer.WriteString(desc)
	}
	fmt.Fprintf(&buffer, "\n%v\n", r.Verdict())
	return r.Verdict() == checking.Pass, buffer.String()
}

// Value converts the report to a protobuf value.
func (r *Report) Value() (*structpb.Value, error) {
	results := make([]interface{}, 0, len(r.Results))
	for _, res := range r.Results {
		entry := map[string]interface{}{
			"property":    res.Property,
			"description": res.Description,
			"kind":        res.Kind.String(),
			"verdict":     res.Verdict.String(),
			"message":     res.Message,
		}
		if res.Trace != nil {
			tr, err := res.Trace.Value()
			if err != nil {
				return nil, err
			}
			entry["trace"] = tr.AsInterface()
		}
		results = append(results, entry)
	}
	return structpb.NewValue(map[string]interface{}{
		"run_id":  r.RunID.String(),
		"model":   r.Model,
		"verdict": r.Verdict().String(),
		"graph": map[string]interface{}{
			"states":      r.Summary.States,
			"transitions": r.Summary.Transitions,
			"depth":       r.Summary.Depth,
			"complete":    r.Summary.Complete,
			"limit":       string(r.Summary.Limit),
		},
		"results": results,
	})
}

// JSON returns the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	v, err := r.Value()
	if err != nil {
		return nil, err
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(v)
}
