package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// IsControl reports whether the selection's first node is a form control
// (input, select or textarea).
func IsControl(sel *goquery.Selection) bool {
	node := firstNode(sel)
	if node == nil || node.Type != html.ElementNode {
		return false
	}
	switch node.DataAtom {
	case atom.Input, atom.Select, atom.Textarea:
		return true
	default:
		return false
	}
}

// IsButton reports whether the selection is a <button> or a submit-like
// <input>.
func IsButton(sel *goquery.Selection) bool {
	node := firstNode(sel)
	if node == nil || node.Type != html.ElementNode {
		return false
	}
	if node.DataAtom == atom.Button {
		return true
	}
	if node.DataAtom == atom.Input {
		switch InputType(sel) {
		case "submit", "button", "reset", "image":
			return true
		}
	}
	return false
}

// InputType returns the lower-cased type of a control. Inputs without a type
// attribute report "text"; select and textarea report their tag name.
func InputType(sel *goquery.Selection) string {
	node := firstNode(sel)
	if node == nil {
		return ""
	}
	switch node.DataAtom {
	case atom.Select:
		return "select"
	case atom.Textarea:
		return "textarea"
	}
	kind := strings.ToLower(strings.TrimSpace(sel.AttrOr("type", "")))
	if kind == "" {
		return "text"
	}
	return kind
}

// Value returns the current value of a control. For <select> the selected
// option's value is used, falling back to the first option.
func Value(sel *goquery.Selection) string {
	node := firstNode(sel)
	if node == nil {
		return ""
	}
	switch node.DataAtom {
	case atom.Textarea:
		return sel.Text()
	case atom.Select:
		selected := sel.Find("option[selected]").First()
		if selected.Length() == 0 {
			selected = sel.Find("option").First()
		}
		if value, ok := selected.Attr("value"); ok {
			return value
		}
		return strings.TrimSpace(selected.Text())
	default:
		return sel.AttrOr("value", "")
	}
}

// SetValue writes value into a control. For <select> the matching option is
// marked selected and all others are cleared.
func SetValue(sel *goquery.Selection, value string) {
	node := firstNode(sel)
	if node == nil {
		return
	}
	switch node.DataAtom {
	case atom.Textarea:
		sel.SetText(value)
	case atom.Select:
		SelectOption(sel, value)
	default:
		sel.SetAttr("value", value)
	}
}

// SelectOption marks the option carrying value as selected. It reports false
// when no option matches, in which case the selection is left untouched.
func SelectOption(sel *goquery.Selection, value string) bool {
	options := sel.Find("option")
	target := options.FilterFunction(func(_ int, opt *goquery.Selection) bool {
		v, ok := opt.Attr("value")
		if !ok {
			v = strings.TrimSpace(opt.Text())
		}
		return v == value
	}).First()
	if target.Length() == 0 {
		return false
	}
	options.RemoveAttr("selected")
	target.SetAttr("selected", "selected")
	return true
}

// SetClass adds class when on is true and removes it otherwise.
func SetClass(sel *goquery.Selection, class string, on bool) {
	class = strings.TrimSpace(class)
	if class == "" || sel == nil {
		return
	}
	if on {
		sel.AddClass(class)
		return
	}
	sel.RemoveClass(class)
}

// SetDisabled toggles the disabled attribute.
func SetDisabled(sel *goquery.Selection, disabled bool) {
	if sel == nil {
		return
	}
	if disabled {
		sel.SetAttr("disabled", "disabled")
		return
	}
	sel.RemoveAttr("disabled")
}

// NormalizeName strips the owning form's name prefix from a control name and
// removes bracket characters, so "user[plainPassword][first]" inside form
// "user" becomes "plainPasswordfirst".
func NormalizeName(formName, controlName string) string {
	name := strings.TrimSpace(controlName)
	formName = strings.TrimSpace(formName)
	if formName != "" && strings.HasPrefix(name, formName+"[") {
		name = strings.TrimPrefix(name, formName)
	}
	return strings.NewReplacer("[", "", "]", "").Replace(name)
}

// ElementChildren returns the element children of sel in document order,
// one selection per child.
func ElementChildren(sel *goquery.Selection) []*goquery.Selection {
	var out []*goquery.Selection
	sel.Children().Each(func(_ int, child *goquery.Selection) {
		out = append(out, child)
	})
	return out
}

// RemoveFollowing removes the run of siblings immediately after sel that
// match selector, stopping at the first sibling that does not.
func RemoveFollowing(sel *goquery.Selection, selector string) int {
	removed := 0
	for {
		next := sel.Next()
		if next.Length() == 0 || !next.Is(selector) {
			return removed
		}
		next.Remove()
		removed++
	}
}

func firstNode(sel *goquery.Selection) *html.Node {
	if sel == nil || len(sel.Nodes) == 0 {
		return nil
	}
	return sel.Nodes[0]
}
