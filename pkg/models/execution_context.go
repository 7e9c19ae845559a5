package models

// ExecutionContext is the per-run scratchpad threaded through node execution.
// It is created fresh for every run, owned exclusively by that run, and
// discarded once the token stream completes.
type ExecutionContext struct {
	ID         string         `json:"id"`
	WorkflowID string         `json:"workflow_id"`
	Collection string         `json:"collection"`
	UserInput  string         `json:"user_input"`

	RetrievedItems   []SearchResult `json:"retrieved_items,omitempty"`
	RetrievedContext string         `json:"retrieved_context,omitempty"`
	GeneratedText    string         `json:"generated_text,omitempty"`
	FinalOutput      string         `json:"final_output,omitempty"`

	// HasFinalOutput distinguishes "output node ran and produced empty text"
	// from "no output node ran".
	HasFinalOutput bool `json:"has_final_output"`
}

// ResponseText resolves the text a run should stream: the formatted final
// output when an output node ran, otherwise the raw generated text, otherwise
// the original user message.
func (ec *ExecutionContext) ResponseText() string {
	if ec.HasFinalOutput {
		return ec.FinalOutput
	}

	if ec.GeneratedText != "" {
		return ec.GeneratedText
	}

	return ec.UserInput
}
