package pipeline

import (
	"fmt"
	"strconv"
	"strings"
)

// Step is one remote refresh operation. ID doubles as the progress
// element id and the resume token.
type Step struct {
	ID           string `json:"id" yaml:"id"`
	ProgressName string `json:"progressName" yaml:"progress_name"`
	SuccessName  string `json:"successName" yaml:"success_name"`
	ErrorName    string `json:"errorName" yaml:"error_name"`
	RelativeLink string `json:"relativeLink" yaml:"relative_link"`
}

// DefaultSteps returns the scraper refresh sequence in execution order.
func DefaultSteps() []Step {
	return []Step{
		{ID: "clear-data", ProgressName: "Clearing existing data", SuccessName: "Existing data cleared", ErrorName: "Clearing existing data failed", RelativeLink: "/clear-data"},
		{ID: "professions", ProgressName: "Updating professions", SuccessName: "Professions updated", ErrorName: "Updating professions failed", RelativeLink: "/professions"},
		{ID: "locations", ProgressName: "Updating locations", SuccessName: "Locations updated", ErrorName: "Updating locations failed", RelativeLink: "/locations"},
		{ID: "vendors", ProgressName: "Updating vendors", SuccessName: "Vendors updated", ErrorName: "Updating vendors failed", RelativeLink: "/vendors"},
		{ID: "reagents", ProgressName: "Updating reagents", SuccessName: "Reagents updated", ErrorName: "Updating reagents failed", RelativeLink: "/reagents"},
		{ID: "reagent-details", ProgressName: "Updating reagent details", SuccessName: "Reagent details updated", ErrorName: "Updating reagent details failed", RelativeLink: "/reagent-details"},
		{ID: "craftable-items", ProgressName: "Updating craftable items", SuccessName: "Craftable items updated", ErrorName: "Updating craftable items failed", RelativeLink: "/craftable-items"},
		{ID: "profession-data", ProgressName: "Updating profession data", SuccessName: "Profession data updated", ErrorName: "Updating profession data failed", RelativeLink: "/profession-data"},
		{ID: "recipe-details", ProgressName: "Updating recipe details", SuccessName: "Recipe details updated", ErrorName: "Updating recipe details failed", RelativeLink: "/recipe-details"},
		{ID: "check-data", ProgressName: "Checking data", SuccessName: "Data checked", ErrorName: "Checking data failed", RelativeLink: "/check-data"},
	}
}

func validateSteps(steps []Step) error {
	if len(steps) == 0 {
		return ErrNoSteps
	}
	seen := make(map[string]struct{}, len(steps))
	for i, step := range steps {
		id := strings.TrimSpace(step.ID)
		if id == "" {
			return fmt.Errorf("pipeline: step %d has no id", i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("pipeline: duplicate step id %q", id)
		}
		if !strings.HasPrefix(step.RelativeLink, "/") {
			return fmt.Errorf("pipeline: step %q link %q must start with /", id, step.RelativeLink)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// ElapsedTime is the response_time block the scraper returns per step.
type ElapsedTime struct {
	Years   int `json:"years"`
	Months  int `json:"months"`
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// String renders every non-zero unit followed by ", " and always ends with
// "<n> seconds ", e.g. "1 years, 0 seconds ".
func (e ElapsedTime) String() string {
	var b strings.Builder
	for _, part := range []struct {
		value int
		unit  string
	}{
		{e.Years, "years"},
		{e.Months, "months"},
		{e.Days, "days"},
		{e.Hours, "hours"},
		{e.Minutes, "minutes"},
	} {
		if part.value == 0 {
			continue
		}
		b.WriteString(strconv.Itoa(part.value))
		b.WriteString(" ")
		b.WriteString(part.unit)
		b.WriteString(", ")
	}
	b.WriteString(strconv.Itoa(e.Seconds))
	b.WriteString(" seconds ")
	return b.String()
}
