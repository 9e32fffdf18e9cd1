package app

import "errors"

// Step names a phase of the run.
type Step string

const (
	StepOpen   Step = "open"
	StepSchema Step = "schema"
	StepSeed   Step = "seed"
	StepSelect Step = "select"
	StepExport Step = "export"
	StepClose  Step = "close"
	StepRun    Step = "run"
)

// StepResult is the outcome of one operation. Target is the table, section or
// file the step worked on; Detail carries extra facts such as the applied
// migration version.
type StepResult struct {
	Step   Step
	Target string
	Detail string
	Rows   int
	Err    error
}

// RunReport lists every executed step in order.
type RunReport struct {
	Path      string
	Version   string
	Connected bool
	Steps     []StepResult
}

func (r *RunReport) add(s StepResult) {
	r.Steps = append(r.Steps, s)
}

// Err joins the errors of all failed steps.
func (r RunReport) Err() error {
	var errs []error
	for _, s := range r.Steps {
		if s.Err != nil {
			errs = append(errs, s.Err)
		}
	}
	return errors.Join(errs...)
}

// Failed returns the steps that returned an error.
func (r RunReport) Failed() []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if s.Err != nil {
			out = append(out, s)
		}
	}
	return out
}

// OK reports whether the database was opened and no step failed.
func (r RunReport) OK() bool {
	return r.Connected && len(r.Failed()) == 0
}

// Of returns the results of one step kind.
func (r RunReport) Of(step Step) []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if s.Step == step {
			out = append(out, s)
		}
	}
	return out
}
