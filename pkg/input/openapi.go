package input

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Extension keys read from string properties when building a catalog from
// an OpenAPI component schema.
const (
	ExtensionConfirm           = "x-confirm"
	ExtensionConfirmIdentifier = "x-confirm-identifier"
	ExtensionConfirmName       = "x-confirm-name"
	ExtensionOrder             = "x-order"
	// ExtensionAllowedCharacters holds a single-character class checked
	// against every character of the value.
	ExtensionAllowedCharacters = "x-allowed-characters"
)

const defaultMaximumSize = 255

// CatalogFromOpenAPI builds a catalog from the string properties of the
// named component schema. format "email" yields Email descriptors, format
// "password" yields Password (or ConfirmPassword when x-confirm is true),
// anything else yields Text. minLength and maxLength populate the size rule
// (a missing maxLength defaults to 255), pattern is matched against the
// whole value and x-allowed-characters against each character. Properties are ordered by
// x-order, then by name.
func CatalogFromOpenAPI(ctx context.Context, raw []byte, schemaName string) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("input openapi: document payload is empty")
	}
	schemaName = strings.TrimSpace(schemaName)
	if schemaName == "" {
		return nil, errors.New("input openapi: schema name is required")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("input openapi: load document: %w", err)
	}
	if doc.Components == nil {
		return nil, fmt.Errorf("input openapi: schema %q not found", schemaName)
	}
	ref, ok := doc.Components.Schemas[schemaName]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("input openapi: schema %q not found", schemaName)
	}

	names := orderedProperties(ref.Value.Properties)
	descriptors := make([]Descriptor, 0, len(names))
	for _, name := range names {
		prop := ref.Value.Properties[name]
		if prop == nil || prop.Value == nil || !isStringSchema(prop.Value) {
			continue
		}
		desc, err := descriptorFromSchema(name, prop.Value)
		if err != nil {
			return nil, fmt.Errorf("input openapi: property %q: %w", name, err)
		}
		descriptors = append(descriptors, desc)
	}
	return NewCatalog(descriptors...)
}

func descriptorFromSchema(identifier string, schema *openapi3.Schema) (Descriptor, error) {
	maximum := defaultMaximumSize
	if schema.MaxLength != nil {
		maximum = int(*schema.MaxLength)
	}
	rules, err := NewRules(int(schema.MinLength), maximum, stringExtension(schema.Extensions, ExtensionAllowedCharacters))
	if err != nil {
		return Descriptor{}, err
	}
	if rules, err = rules.WithPattern(schema.Pattern); err != nil {
		return Descriptor{}, err
	}

	label := strings.TrimSpace(schema.Title)
	if label == "" {
		label = identifier
	}

	switch strings.ToLower(schema.Format) {
	case "email":
		return Email(identifier, label, rules)
	case "password":
		if confirm, _ := schema.Extensions[ExtensionConfirm].(bool); confirm {
			secondID := stringExtension(schema.Extensions, ExtensionConfirmIdentifier)
			if secondID == "" {
				secondID = identifier + "_second"
			}
			secondName := stringExtension(schema.Extensions, ExtensionConfirmName)
			return ConfirmPassword(identifier, label, secondID, secondName, rules)
		}
		return Password(identifier, label, rules)
	default:
		return Text(identifier, label, rules)
	}
}

func isStringSchema(schema *openapi3.Schema) bool {
	if schema.Type == nil {
		return false
	}
	return schema.Type.Is(openapi3.TypeString)
}

func orderedProperties(props openapi3.Schemas) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	order := func(name string) float64 {
		prop := props[name]
		if prop == nil || prop.Value == nil {
			return 0
		}
		switch v := prop.Value.Extensions[ExtensionOrder].(type) {
		case float64:
			return v
		case int:
			return float64(v)
		default:
			return 0
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, oj := order(names[i]), order(names[j])
		if oi != oj {
			return oi < oj
		}
		return names[i] < names[j]
	})
	return names
}

func stringExtension(ext map[string]any, key string) string {
	if value, ok := ext[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}
