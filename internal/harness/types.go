package harness

// TraceEvent is one engine write performed by a scenario step.
type TraceEvent struct {
	Seq      int64  `json:"seq"`
	Op       string `json:"op"`
	Day      string `json:"day,omitempty"`
	Hour     *int   `json:"hour,omitempty"`
	ID       string `json:"id,omitempty"`
	Symbol   string `json:"symbol,omitempty"`
	Checksum *int   `json:"checksum,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass is true when every step behaved as expected and every
	// assertion held.
	Pass bool `json:"pass"`

	// Trace lists the writes in execution order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// addTrace appends ev to the trace.
func (r *Result) addTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
