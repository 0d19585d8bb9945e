package input

import (
	"fmt"
	"strings"
)

// Identifiers of the descriptors in the default catalog.
const (
	IdentifierUsername       = "username"
	IdentifierEmail          = "email"
	IdentifierPassword       = "password"
	IdentifierPlainPassword  = "plainPasswordfirst"
	IdentifierPasswordSecond = "plainPasswordsecond"
)

// Default character sets. Each pattern admits a single character.
const (
	UsernameCharacters = `[A-Za-z0-9_.\-]`
	EmailCharacters    = `[A-Za-z0-9@._+\-]`
	PasswordCharacters = `[!-~]`
)

// Catalog is the ordered, immutable set of known descriptors. It carries
// no element references.
type Catalog struct {
	entries []Descriptor
	index   map[string]int
}

// NewCatalog validates descriptors and indexes them by identifier.
// Identifiers must be unique; bound descriptors are rejected.
func NewCatalog(descriptors ...Descriptor) (*Catalog, error) {
	catalog := &Catalog{
		entries: make([]Descriptor, 0, len(descriptors)),
		index:   make(map[string]int, len(descriptors)),
	}
	for _, desc := range descriptors {
		id := strings.TrimSpace(desc.Identifier)
		if id == "" {
			return nil, errIdentifierMissing
		}
		if desc.Element != nil {
			return nil, fmt.Errorf("input: catalog descriptor %q must not be bound", id)
		}
		if err := desc.Rules.Validate(); err != nil {
			return nil, fmt.Errorf("%w (%s)", err, id)
		}
		if _, exists := catalog.index[id]; exists {
			return nil, fmt.Errorf("input: duplicate identifier %q", id)
		}
		desc.ValidationPassed = false
		catalog.index[id] = len(catalog.entries)
		catalog.entries = append(catalog.entries, desc)
	}
	return catalog, nil
}

// DefaultCatalog returns the four descriptors every admin page knows about:
// username, email, password and the password/confirmation pair.
func DefaultCatalog() *Catalog {
	username, _ := Text(IdentifierUsername, "Username", MustRules(1, 255, UsernameCharacters))
	email, _ := Email(IdentifierEmail, "Email", MustRules(1, 255, EmailCharacters))
	password, _ := Password(IdentifierPassword, "Password", MustRules(10, 255, PasswordCharacters))
	confirm, _ := ConfirmPassword(
		IdentifierPlainPassword, "Password",
		IdentifierPasswordSecond, "Password confirmation",
		MustRules(10, 255, PasswordCharacters),
	)

	catalog, err := NewCatalog(username, email, password, confirm)
	if err != nil {
		panic(err)
	}
	return catalog
}

// Identifiers returns the catalog identifiers in declaration order.
func (c *Catalog) Identifiers() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.entries))
	for _, desc := range c.entries {
		out = append(out, desc.Identifier)
	}
	return out
}

// Lookup returns a copy of the descriptor for identifier.
func (c *Catalog) Lookup(identifier string) (Descriptor, bool) {
	if c == nil {
		return Descriptor{}, false
	}
	idx, ok := c.index[identifier]
	if !ok {
		return Descriptor{}, false
	}
	return c.entries[idx], true
}

// Entries returns copies of every descriptor in declaration order.
func (c *Catalog) Entries() []Descriptor {
	if c == nil {
		return nil
	}
	return append([]Descriptor(nil), c.entries...)
}

// Len reports the number of descriptors.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}
