package form

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/goliatone/go-craftadmin/pkg/dom"
	"github.com/goliatone/go-craftadmin/pkg/input"
	"github.com/goliatone/go-craftadmin/pkg/render"
)

// ConfirmsAttribute names the attribute a confirmation control may carry to
// declare which identifier it confirms. Without it the control immediately
// following the primary password in the walk is used.
const ConfirmsAttribute = "data-confirms"

// Form binds one <form> element to the descriptors matched inside it.
type Form struct {
	element     *goquery.Selection
	name        string
	inputs      []*input.Descriptor
	submit      *goquery.Selection
	passed      bool
	diagnostics []Diagnostic
	opts        Options
}

// FieldResult reports one validation pass over a bound input.
type FieldResult struct {
	Identifier string
	Passed     bool
	Messages   []string
	// ConfirmationMessages are rendered next to the confirmation control.
	ConfirmationMessages []string
}

// Submission is the outcome of a submit attempt. Allowed is false when the
// submission is cancelled.
type Submission struct {
	Allowed bool
	Fields  []FieldResult
}

// Bind scans element's group containers for controls whose normalised name
// is in identifiers and binds a copy of the matching catalog descriptor to
// each. Unmatched or malformed controls are skipped and reported through
// Diagnostics.
func Bind(element *goquery.Selection, identifiers []string, catalog *input.Catalog, options ...Option) *Form {
	opts := NewOptions(options...)
	f := &Form{
		element: element,
		name:    strings.TrimSpace(element.AttrOr("name", "")),
		opts:    opts,
	}

	known := make(map[string]struct{}, len(identifiers))
	for _, id := range identifiers {
		known[id] = struct{}{}
	}

	controls := f.walk()
	explicit := f.explicitConfirmations(controls)
	consumed := make(map[*html.Node]struct{})

	var pending *input.Descriptor
	for _, control := range controls {
		if _, skip := consumed[control.Nodes[0]]; skip {
			continue
		}
		if pending != nil {
			pending.Confirmation.Element = control
			pending = nil
			continue
		}

		rawName := control.AttrOr("name", "")
		id := dom.NormalizeName(f.name, rawName)
		if _, ok := known[id]; !ok {
			f.report(Diagnostic{Kind: DiagnosticUnmatchedInput, Control: rawName, Identifier: id})
			continue
		}
		entry, ok := catalog.Lookup(id)
		if !ok {
			f.report(Diagnostic{Kind: DiagnosticUnmatchedInput, Control: rawName, Identifier: id})
			continue
		}

		var bound *input.Descriptor
		switch kind := dom.InputType(control); kind {
		case "text":
			bound = entry.Bind(input.KindText, control)
		case "email":
			bound = entry.Bind(input.KindEmail, control)
		case "password":
			if entry.Kind != input.KindConfirmPassword {
				bound = entry.Bind(input.KindText, control)
				break
			}
			bound = entry.Bind(input.KindConfirmPassword, control)
			if second, ok := explicit[id]; ok && opts.ExplicitPairing {
				bound.Confirmation.Element = second
				consumed[second.Nodes[0]] = struct{}{}
			} else {
				pending = bound
			}
		default:
			f.report(Diagnostic{Kind: DiagnosticUnsupportedType, Control: rawName, Identifier: id, Detail: kind})
			continue
		}
		f.inputs = append(f.inputs, bound)
	}

	if pending != nil {
		f.report(Diagnostic{
			Kind:       DiagnosticMissingConfirmation,
			Control:    pending.Element.AttrOr("name", ""),
			Identifier: pending.Identifier,
		})
	}

	f.recompute()
	return f
}

// walk returns the controls found one level below the form's direct child
// containers, in document order, and records the first button as the
// submit button.
func (f *Form) walk() []*goquery.Selection {
	var controls []*goquery.Selection
	for _, group := range dom.ElementChildren(f.element) {
		for _, child := range dom.ElementChildren(group) {
			switch {
			case dom.IsButton(child):
				if f.submit == nil {
					f.submit = child
				}
			case dom.IsControl(child):
				controls = append(controls, child)
			}
		}
	}
	return controls
}

func (f *Form) explicitConfirmations(controls []*goquery.Selection) map[string]*goquery.Selection {
	out := make(map[string]*goquery.Selection)
	for _, control := range controls {
		target := strings.TrimSpace(control.AttrOr(ConfirmsAttribute, ""))
		if target == "" {
			continue
		}
		if _, exists := out[target]; !exists {
			out[target] = control
		}
	}
	return out
}

func (f *Form) report(d Diagnostic) {
	f.diagnostics = append(f.diagnostics, d)
	fields := []zap.Field{
		zap.String("kind", string(d.Kind)),
		zap.String("form", f.name),
		zap.String("control", d.Control),
		zap.String("identifier", d.Identifier),
	}
	if d.Kind == DiagnosticMissingConfirmation {
		f.opts.Logger.Warn("form binding skipped a field", fields...)
		return
	}
	f.opts.Logger.Debug("form binding skipped a field", fields...)
}

// Submit validates every bound input, recomputes the aggregate and reports
// whether submission proceeds.
func (f *Form) Submit() Submission {
	results := make([]FieldResult, 0, len(f.inputs))
	for _, desc := range f.inputs {
		results = append(results, f.validate(desc))
	}
	f.recompute()
	return Submission{Allowed: f.passed, Fields: results}
}

// Blur revalidates the input bound under identifier and recomputes the
// aggregate. A confirmation control revalidates the password it confirms.
// It never blocks anything. ok is false when no input with that identifier
// is bound in this form.
func (f *Form) Blur(identifier string) (result FieldResult, ok bool) {
	for _, desc := range f.inputs {
		if desc.Identifier != identifier && !confirms(desc, identifier) {
			continue
		}
		result = f.validate(desc)
		f.recompute()
		return result, true
	}
	return FieldResult{}, false
}

func confirms(desc *input.Descriptor, identifier string) bool {
	c := desc.Confirmation
	return c != nil && c.Element != nil && c.Identifier == identifier
}

func (f *Form) validate(desc *input.Descriptor) FieldResult {
	value := dom.Value(desc.Element)
	check := desc.CheckValidation(value)
	result := FieldResult{
		Identifier: desc.Identifier,
		Passed:     check.Passed,
		Messages:   check.Messages,
	}

	if desc.Kind == input.KindConfirmPassword && desc.Confirmation != nil && desc.Confirmation.Element != nil {
		second := desc.Confirmation.Element
		if msg := desc.CheckConfirmation(value, dom.Value(second)); msg != "" {
			desc.ValidationPassed = false
			result.Passed = false
			result.ConfirmationMessages = []string{msg}
		}
		f.present(second, result.ConfirmationMessages)
	}

	f.present(desc.Element, result.Messages)
	return result
}

// present replaces the messages injected after control and toggles the
// success/error classes on it.
func (f *Form) present(control *goquery.Selection, messages []string) {
	classes := f.opts.Classes
	dom.RemoveFollowing(control, "p"+classSelector(classes.Error))

	if len(messages) > 0 {
		markup, err := render.ErrorMessages(messages, classes.Error)
		if err != nil {
			f.opts.Logger.Error("render validation messages", zap.Error(err))
		} else if markup != "" {
			control.AfterHtml(markup)
		}
	}

	dom.SetClass(control, classes.Error, len(messages) > 0)
	dom.SetClass(control, classes.Success, len(messages) == 0)
}

func (f *Form) recompute() {
	passed := true
	for _, desc := range f.inputs {
		if !desc.ValidationPassed {
			passed = false
			break
		}
	}
	f.passed = passed
}

// Element returns the bound <form> element.
func (f *Form) Element() *goquery.Selection { return f.element }

// Name returns the form's name attribute.
func (f *Form) Name() string { return f.name }

// Inputs returns the bound descriptors in walk order.
func (f *Form) Inputs() []*input.Descriptor {
	return append([]*input.Descriptor(nil), f.inputs...)
}

// Input returns the bound descriptor for identifier.
func (f *Form) Input(identifier string) (*input.Descriptor, bool) {
	for _, desc := range f.inputs {
		if desc.Identifier == identifier {
			return desc, true
		}
	}
	return nil, false
}

// SubmitButton returns the first button found during the walk, or nil.
func (f *Form) SubmitButton() *goquery.Selection { return f.submit }

// ValidationPassed is the conjunction of every bound input's pass state.
// It is true for a form with no bound inputs.
func (f *Form) ValidationPassed() bool { return f.passed }

// Diagnostics lists the controls that were skipped while binding.
func (f *Form) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), f.diagnostics...)
}

func classSelector(class string) string {
	fields := strings.Fields(class)
	if len(fields) == 0 {
		return ""
	}
	return "." + strings.Join(fields, ".")
}
