package navigation

// Visibility says which navigation buttons are shown.
type Visibility struct {
	First    bool
	Previous bool
	Next     bool
	Last     bool
}

// VisibilityAt applies the button policy for index within count pages.
//
// Previous shows from index 1 and Next until the last index. First stays
// hidden at index 1 and Last at the second-to-last index, except when that
// index is also an end of the list, so two pages show exactly one pair.
func VisibilityAt(index, count int) Visibility {
	last := count - 1
	if count <= 1 || index < 0 || index > last {
		return Visibility{}
	}
	return Visibility{
		First:    index >= 1 && !(index == 1 && index != last),
		Previous: index >= 1,
		Next:     index < last,
		Last:     index < last && !(index == last-1 && index != 0),
	}
}
