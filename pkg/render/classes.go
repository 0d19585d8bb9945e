package render

import (
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Class is a typed identifier for the presentation classes components toggle
// on page elements.
type Class string

const (
	ClassError      Class = "error"
	ClassSuccess    Class = "success"
	ClassInvisible  Class = "invisible"
	ClassInProgress Class = "in-progress"
)

// Theme token keys consulted by ClassesFromManifest.
const (
	TokenErrorClass      = "class.error"
	TokenSuccessClass    = "class.success"
	TokenInvisibleClass  = "class.invisible"
	TokenInProgressClass = "class.in-progress"
)

// Classes holds the concrete class names applied to the page. Empty values
// fall back to the defaults when passed through Normalize.
type Classes struct {
	Error      string
	Success    string
	Invisible  string
	InProgress string
}

// DefaultClasses returns the class names the admin stylesheet ships with.
func DefaultClasses() Classes {
	return Classes{
		Error:      string(ClassError),
		Success:    string(ClassSuccess),
		Invisible:  string(ClassInvisible),
		InProgress: string(ClassInProgress),
	}
}

// Normalize fills empty entries with their defaults.
func (c Classes) Normalize() Classes {
	defaults := DefaultClasses()
	if strings.TrimSpace(c.Error) == "" {
		c.Error = defaults.Error
	}
	if strings.TrimSpace(c.Success) == "" {
		c.Success = defaults.Success
	}
	if strings.TrimSpace(c.Invisible) == "" {
		c.Invisible = defaults.Invisible
	}
	if strings.TrimSpace(c.InProgress) == "" {
		c.InProgress = defaults.InProgress
	}
	return c
}

// ClassesFromManifest resolves class names from a go-theme manifest's
// tokens, keeping defaults for tokens the theme does not define.
func ClassesFromManifest(manifest *theme.Manifest) Classes {
	if manifest == nil {
		return DefaultClasses()
	}
	tokens := manifest.Tokens
	return Classes{
		Error:      strings.TrimSpace(tokens[TokenErrorClass]),
		Success:    strings.TrimSpace(tokens[TokenSuccessClass]),
		Invisible:  strings.TrimSpace(tokens[TokenInvisibleClass]),
		InProgress: strings.TrimSpace(tokens[TokenInProgressClass]),
	}.Normalize()
}
