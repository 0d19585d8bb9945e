package input

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Kind tags the input variants. Validation dispatches on the tag.
type Kind int

const (
	KindText Kind = iota
	KindEmail
	KindPassword
	KindConfirmPassword
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindEmail:
		return "email"
	case KindPassword:
		return "password"
	case KindConfirmPassword:
		return "confirm-password"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	errIdentifierMissing = errors.New("input: identifier is required")
	errNegativeMinimum   = errors.New("input: minimum size must not be negative")
	errBoundsInverted    = errors.New("input: minimum size exceeds maximum size")
	errSecondMissing     = errors.New("input: confirm-password requires a second identifier")
)

// Rules is the validation record shared by every variant.
type Rules struct {
	MinimumSize int
	MaximumSize int
	// AllowedCharacters admits one character at a time. A nil pattern
	// admits everything.
	AllowedCharacters *regexp.Regexp
	// Pattern must match the whole value when set.
	Pattern *regexp.Regexp
}

// NewRules compiles pattern and checks the bounds.
func NewRules(minimum, maximum int, pattern string) (Rules, error) {
	rules := Rules{MinimumSize: minimum, MaximumSize: maximum}
	if pattern = strings.TrimSpace(pattern); pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return Rules{}, fmt.Errorf("input: compile allowed characters: %w", err)
		}
		rules.AllowedCharacters = re
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

// WithPattern returns a copy of r whose values must match pattern. An empty
// pattern clears the rule.
func (r Rules) WithPattern(pattern string) (Rules, error) {
	if pattern = strings.TrimSpace(pattern); pattern == "" {
		r.Pattern = nil
		return r, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rules{}, fmt.Errorf("input: compile pattern: %w", err)
	}
	r.Pattern = re
	return r, nil
}

// MustRules panics when NewRules fails. Useful for static catalogs.
func MustRules(minimum, maximum int, pattern string) Rules {
	rules, err := NewRules(minimum, maximum, pattern)
	if err != nil {
		panic(err)
	}
	return rules
}

// Validate enforces 0 <= MinimumSize <= MaximumSize.
func (r Rules) Validate() error {
	if r.MinimumSize < 0 {
		return errNegativeMinimum
	}
	if r.MinimumSize > r.MaximumSize {
		return errBoundsInverted
	}
	return nil
}

// Result is the outcome of one validation pass over a single value.
type Result struct {
	Passed            bool
	Messages          []string
	InvalidCharacters []string
}

// Check applies the size, character and pattern rules to value. name prefixes the
// human readable messages.
func (r Rules) Check(name, value string) Result {
	var messages []string

	length := utf8.RuneCountInString(value)
	switch {
	case length < r.MinimumSize:
		messages = append(messages, name+" doesn't contain enough characters")
	case length > r.MaximumSize:
		messages = append(messages, name+" contains too many characters")
	}

	invalid := r.invalidCharacters(value)
	if len(invalid) > 0 {
		messages = append(messages, name+" contains invalid characters: "+strings.Join(invalid, ", "))
	}

	if r.Pattern != nil && !r.Pattern.MatchString(value) {
		messages = append(messages, name+" doesn't match the expected format")
	}

	return Result{
		Passed:            len(messages) == 0,
		Messages:          messages,
		InvalidCharacters: invalid,
	}
}

func (r Rules) invalidCharacters(value string) []string {
	if r.AllowedCharacters == nil {
		return nil
	}
	var out []string
	seen := make(map[rune]struct{})
	for _, char := range value {
		if _, ok := seen[char]; ok {
			continue
		}
		if r.AllowedCharacters.MatchString(string(char)) {
			continue
		}
		seen[char] = struct{}{}
		out = append(out, string(char))
	}
	return out
}

// Confirmation is the second identifier/name/element pair carried by the
// confirm-password variant.
type Confirmation struct {
	Identifier string
	Name       string
	Element    *goquery.Selection
}

// Descriptor identifies one logical form field. Catalog descriptors carry
// no element; bound descriptors reference the control they validate.
type Descriptor struct {
	Kind             Kind
	Identifier       string
	Name             string
	Rules            Rules
	Confirmation     *Confirmation
	Element          *goquery.Selection
	ValidationPassed bool
}

// Text builds a catalog descriptor for a free text field.
func Text(identifier, name string, rules Rules) (Descriptor, error) {
	return newDescriptor(KindText, identifier, name, rules)
}

// Email builds a catalog descriptor for an email field. The rules are the
// same as Text; only the tag differs.
func Email(identifier, name string, rules Rules) (Descriptor, error) {
	return newDescriptor(KindEmail, identifier, name, rules)
}

// Password builds a catalog descriptor for a password field.
func Password(identifier, name string, rules Rules) (Descriptor, error) {
	return newDescriptor(KindPassword, identifier, name, rules)
}

// ConfirmPassword builds a catalog descriptor for a password that must be
// typed twice.
func ConfirmPassword(identifier, name, secondIdentifier, secondName string, rules Rules) (Descriptor, error) {
	desc, err := newDescriptor(KindConfirmPassword, identifier, name, rules)
	if err != nil {
		return Descriptor{}, err
	}
	secondIdentifier = strings.TrimSpace(secondIdentifier)
	if secondIdentifier == "" {
		return Descriptor{}, errSecondMissing
	}
	secondName = strings.TrimSpace(secondName)
	if secondName == "" {
		secondName = secondIdentifier
	}
	desc.Confirmation = &Confirmation{Identifier: secondIdentifier, Name: secondName}
	return desc, nil
}

func newDescriptor(kind Kind, identifier, name string, rules Rules) (Descriptor, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return Descriptor{}, errIdentifierMissing
	}
	if err := rules.Validate(); err != nil {
		return Descriptor{}, fmt.Errorf("%w (%s)", err, identifier)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = identifier
	}
	return Descriptor{Kind: kind, Identifier: identifier, Name: name, Rules: rules}, nil
}

// Bind copies the descriptor's identity and rules into a new descriptor of
// the given kind attached to element. The pass state starts false.
func (d Descriptor) Bind(kind Kind, element *goquery.Selection) *Descriptor {
	bound := &Descriptor{
		Kind:       kind,
		Identifier: d.Identifier,
		Name:       d.Name,
		Rules:      d.Rules,
		Element:    element,
	}
	if kind == KindConfirmPassword && d.Confirmation != nil {
		bound.Confirmation = &Confirmation{
			Identifier: d.Confirmation.Identifier,
			Name:       d.Confirmation.Name,
		}
	}
	return bound
}

// Bound reports whether the descriptor is attached to a control.
func (d *Descriptor) Bound() bool {
	return d != nil && d.Element != nil && d.Element.Length() > 0
}

// CheckValidation recomputes ValidationPassed for value using the
// descriptor's rules. The cross-field confirmation rule is applied by
// CheckConfirmation.
func (d *Descriptor) CheckValidation(value string) Result {
	var result Result
	switch d.Kind {
	case KindText, KindEmail, KindPassword, KindConfirmPassword:
		result = d.Rules.Check(d.Name, value)
	default:
		result = Result{Messages: []string{d.Name + " has an unsupported input kind"}}
	}
	d.ValidationPassed = result.Passed
	return result
}

// CheckConfirmation applies the confirm-password equality rule. It returns
// the mismatch message, or "" when the values agree or the descriptor is
// not a confirm-password.
func (d *Descriptor) CheckConfirmation(primary, second string) string {
	if d.Kind != KindConfirmPassword || d.Confirmation == nil {
		return ""
	}
	if primary == second {
		return ""
	}
	return d.Confirmation.Name + " doesn't match " + d.Name
}
