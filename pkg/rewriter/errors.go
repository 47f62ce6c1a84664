package rewriter

import (
	"github.com/pkg/errors"

	"github.com/mehulgecg/SwiftRewriter/pkg/ir"
)

// Step kinds.
const (
	StepIntention = "intention"
	StepSyntax    = "syntax"
)

// StepError reports a translation step aborted by an internal fault. Err
// wraps the *ir.Fault with the pass that raised it and a stack trace.
type StepError struct {
	Step string
	Pass string
	Unit string // empty for intention passes, which span every unit
	Body string // label of the body being rewritten, syntax steps only
	Err  error
}

func newStepError(step, pass, unit, body string, fault *ir.Fault) *StepError {
	return &StepError{
		Step: step,
		Pass: pass,
		Unit: unit,
		Body: body,
		Err:  errors.Wrapf(fault, "%s pass %s", step, pass),
	}
}

func (e *StepError) Error() string {
	switch {
	case e.Unit == "":
		return e.Err.Error()
	case e.Body == "":
		return e.Unit + ": " + e.Err.Error()
	default:
		return e.Unit + " (" + e.Body + "): " + e.Err.Error()
	}
}

func (e *StepError) Unwrap() error { return e.Err }

// Fault returns the structural fault behind e.
func (e *StepError) Fault() *ir.Fault {
	var f *ir.Fault
	if errors.As(e.Err, &f) {
		return f
	}
	return nil
}
