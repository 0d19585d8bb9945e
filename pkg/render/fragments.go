package render

import (
	"fmt"
	"strings"

	"github.com/flosch/pongo2/v6"
)

// Fragment templates are compiled once; pongo2 autoescapes every variable so
// messages and labels can carry user input safely.
var (
	messagesTemplate = pongo2.Must(pongo2.FromString(
		`{% for message in messages %}<p class="{{ class }}">{{ message }}</p>{% endfor %}`,
	))
	optionsTemplate = pongo2.Must(pongo2.FromString(
		`{% for option in options %}<option value="{{ option.Value }}"{% if option.Selected %} selected="selected"{% endif %}>{{ option.Label }}</option>{% endfor %}`,
	))
	progressTemplate = pongo2.Must(pongo2.FromString(
		`<li id="{{ item.ID }}"{% if item.Class %} class="{{ item.Class }}"{% endif %}>` +
			`<span class="label">{{ item.Label }}</span>` +
			`{% if item.RestartLabel %} <button type="button" class="restart" data-step="{{ item.ID }}">{{ item.RestartLabel }}</button>{% endif %}` +
			`</li>`,
	))
)

// Option is one <option> of a rebuilt <select>.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// ProgressItem describes one entry in the update progress list.
type ProgressItem struct {
	ID           string
	Label        string
	Class        string
	RestartLabel string
}

// ErrorMessages renders one <p class="..."> element per message, in order.
// Messages are normalised first so blank and repeated entries are dropped.
func ErrorMessages(messages []string, class string) (string, error) {
	messages = NormalizeMessages(messages)
	if len(messages) == 0 {
		return "", nil
	}
	out, err := messagesTemplate.Execute(pongo2.Context{
		"messages": messages,
		"class":    strings.TrimSpace(class),
	})
	if err != nil {
		return "", fmt.Errorf("render: error messages: %w", err)
	}
	return out, nil
}

// SelectOptions renders the option list for a <select>.
func SelectOptions(options []Option) (string, error) {
	if len(options) == 0 {
		return "", nil
	}
	out, err := optionsTemplate.Execute(pongo2.Context{"options": options})
	if err != nil {
		return "", fmt.Errorf("render: select options: %w", err)
	}
	return out, nil
}

// Progress renders a single progress list item.
func Progress(item ProgressItem) (string, error) {
	if strings.TrimSpace(item.ID) == "" {
		return "", fmt.Errorf("render: progress item id is required")
	}
	out, err := progressTemplate.Execute(pongo2.Context{"item": item})
	if err != nil {
		return "", fmt.Errorf("render: progress item %q: %w", item.ID, err)
	}
	return out, nil
}
