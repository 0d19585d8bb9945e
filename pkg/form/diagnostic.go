package form

import "fmt"

// DiagnosticKind classifies a control the binder skipped.
type DiagnosticKind string

const (
	// DiagnosticUnmatchedInput marks a control whose name is not a known
	// identifier.
	DiagnosticUnmatchedInput DiagnosticKind = "unmatched-input"
	// DiagnosticMissingConfirmation marks a confirm-password with no control
	// after it to pair with.
	DiagnosticMissingConfirmation DiagnosticKind = "missing-confirmation"
	// DiagnosticUnsupportedType marks a known identifier on a control type
	// the binder does not validate.
	DiagnosticUnsupportedType DiagnosticKind = "unsupported-type"
)

// Diagnostic is a non-fatal binding event. Production behaviour ignores
// them; they exist so callers and tests can see what was skipped.
type Diagnostic struct {
	Kind       DiagnosticKind
	Control    string
	Identifier string
	Detail     string
}

func (d Diagnostic) String() string {
	if d.Detail != "" {
		return fmt.Sprintf("%s: %q (%s, %s)", d.Kind, d.Control, d.Identifier, d.Detail)
	}
	return fmt.Sprintf("%s: %q (%s)", d.Kind, d.Control, d.Identifier)
}
