package checking

import (
	"bytes"
	"fmt"

	"airlockmc/trace"
)

// CheckerResponse is a response returned by a checker
//
// Contains the result of checking one property.
type CheckerResponse interface {
	// Create a response.
	//
	// Returns a boolean that is true if the property holds, false otherwise.
	// Returns a string describing the response.
	// This includes the counterexample trace if the property is violated.
	Response() (bool, string)
}

// Verdict is the outcome of checking a property.
type Verdict uint8

const (
	Pass Verdict = iota
	Fail
	// The state space was not fully explored, so the property could neither be proven nor refuted
	Inconclusive
)

func (v Verdict) String() string {
	switch v {
	case Fail:
		return "FAIL"
	case Inconclusive:
		return "INCONCLUSIVE"
	default:
		return "PASS"
	}
}

type Kind uint8

const (
	KindInvariant Kind = iota
	KindLiveness
)

func (k Kind) String() string {
	if k == KindLiveness {
		return "liveness"
	}
	return "invariant"
}

// Result of checking a single property.
type Result struct {
	Property    string
	Description string
	Kind        Kind
	Verdict     Verdict
	Message     string
	// The counterexample. nil unless the verdict is Fail
	Trace *trace.Trace
	// Number of configurations in the explored state space
	StatesChecked int
}

var _ CheckerResponse = Result{}

func (r Result) Response() (bool, string) {
	var buffer bytes.Buffer
	fmt.Fprintf(&buffer, "%v %v (%v)", r.Verdict, r.Property, r.Kind)
	if r.Message != "" {
		fmt.Fprintf(&buffer, ": %v", r.Message)
	}
	buffer.WriteString("\n")
	if r.Trace != nil {
		_ = r.Trace.Render(&buffer)
	}
	return r.Verdict == Pass, buffer.String()
}
