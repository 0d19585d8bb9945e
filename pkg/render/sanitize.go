package render

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	rowPolicyOnce sync.Once
	rowPolicy     *bluemonday.Policy
)

// SanitizeRow cleans one pre-rendered table row with RowPolicy. Row markup
// is trusted by default; callers opt in to sanitising it.
func SanitizeRow(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return RowPolicy().Sanitize(trimmed)
}

// RowPolicy returns the shared policy used for row markup: user generated
// content rules plus the table structure and the action buttons the admin
// tables render in their last column.
func RowPolicy() *bluemonday.Policy {
	rowPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowElements("tr", "td", "th", "button", "form", "input")
		policy.AllowAttrs("class", "id").Globally()
		policy.AllowAttrs("colspan", "rowspan", "scope").OnElements("td", "th")
		policy.AllowAttrs("type", "name", "value").OnElements("button", "input")
		policy.AllowAttrs("method", "action").OnElements("form")
		policy.AllowDataAttributes()
		rowPolicy = policy
	})
	return rowPolicy
}
