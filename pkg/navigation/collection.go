package navigation

import (
	"errors"
	"strconv"
)

// ErrInvalidPageSize is returned by Partition for a non-positive size.
var ErrInvalidPageSize = errors.New("navigation: page size must be positive")

// Entity is one row as served by the row API. HTMLString is rendered into
// the table verbatim.
type Entity struct {
	ID         int    `json:"id"`
	HTMLString string `json:"htmlString"`
}

// Collection is one page of entities in server order. It is immutable.
type Collection struct {
	entities []Entity
}

// NewCollection copies entities into a collection.
func NewCollection(entities []Entity) Collection {
	return Collection{entities: append([]Entity(nil), entities...)}
}

// Entities returns a copy of the collection's rows.
func (c Collection) Entities() []Entity {
	return append([]Entity(nil), c.entities...)
}

// Len reports the number of rows.
func (c Collection) Len() int { return len(c.entities) }

// FirstEntity returns the physically first row.
func (c Collection) FirstEntity() (Entity, bool) {
	if len(c.entities) == 0 {
		return Entity{}, false
	}
	return c.entities[0], true
}

// LastEntity returns the physically last row.
func (c Collection) LastEntity() (Entity, bool) {
	if len(c.entities) == 0 {
		return Entity{}, false
	}
	return c.entities[len(c.entities)-1], true
}

// Label is the page-select text "<firstId> - <lastId>". An empty
// collection has an empty label.
func (c Collection) Label() string {
	first, ok := c.FirstEntity()
	if !ok {
		return ""
	}
	last, _ := c.LastEntity()
	return strconv.Itoa(first.ID) + " - " + strconv.Itoa(last.ID)
}

// Partition splits entities into consecutive collections of size rows,
// keeping their order. The last collection may be shorter. An empty input
// yields a single empty collection.
func Partition(entities []Entity, size int) ([]Collection, error) {
	if size <= 0 {
		return nil, ErrInvalidPageSize
	}
	if len(entities) == 0 {
		return []Collection{{}}, nil
	}
	out := make([]Collection, 0, (len(entities)+size-1)/size)
	for start := 0; start < len(entities); start += size {
		end := min(start+size, len(entities))
		out = append(out, NewCollection(entities[start:end]))
	}
	return out, nil
}

// Flatten concatenates the rows of every collection in order.
func Flatten(collections []Collection) []Entity {
	var out []Entity
	for _, c := range collections {
		out = append(out, c.entities...)
	}
	return out
}
