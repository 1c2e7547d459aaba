package harness

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Output is the generated declaration text. Empty when translation failed.
	Output string `json:"output"`

	// Decls is the number of emitted declarations.
	Decls int `json:"decls"`

	// Incomplete lists identifiers rendered as the incomplete marker.
	Incomplete []string `json:"incomplete,omitempty"`

	// ErrorCode is the code of the translation error, if any.
	ErrorCode string `json:"error_code,omitempty"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
