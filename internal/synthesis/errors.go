package synthesis

import "fmt"

// PromptError represents a failure to assemble the synthesis prompt.
type PromptError struct {
	Template string
	Message  string
	Cause    error
}

func (e *PromptError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("prompt %s: %s: %v", e.Template, e.Message, e.Cause)
	}
	return fmt.Sprintf("prompt %s: %s", e.Template, e.Message)
}

func (e *PromptError) Unwrap() error {
	return e.Cause
}

// APICallError represents a failed text generation call.
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}
