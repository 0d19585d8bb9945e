package rows

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestLoadRows_DecodesResources(t *testing.T) {
	data, err := LoadRows(strings.NewReader(`
recipe:
  - id: 2
    htmlString: "<tr><td>2</td></tr>"
  - id: 1
    htmlString: "<tr><td>1</td></tr>"
vendor: []
`))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(data) != 2 || len(data["recipe"]) != 2 {
		t.Fatalf("unexpected data: %#v", data)
	}
	if data["recipe"][0].ID != 2 {
		t.Fatalf("LoadRows must keep document order, got %#v", data["recipe"])
	}
}

func TestLoadRows_RejectsDuplicateIDs(t *testing.T) {
	_, err := LoadRows(strings.NewReader("recipe:\n  - id: 1\n  - id: 1\n"))
	if err == nil || !strings.Contains(err.Error(), "duplicate id 1") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestLoadRows_EmptyDocument(t *testing.T) {
	data, err := LoadRows(strings.NewReader(""))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("expected no resources, got %#v", data)
	}
}

func TestMemorySource_SortsAndNormalizes(t *testing.T) {
	src := NewMemorySource(map[string][]Row{"Recipe": {{ID: 9}, {ID: 4}}})

	rows, err := src.Rows(context.Background(), "/recipe/")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rows) != 2 || rows[0].ID != 4 || rows[1].ID != 9 {
		t.Fatalf("unexpected rows: %#v", rows)
	}

	rows[0].ID = 100
	again, _ := src.Rows(context.Background(), "recipe")
	if again[0].ID != 4 {
		t.Fatalf("callers must not be able to mutate stored rows")
	}

	if _, err := src.Rows(context.Background(), "vendor"); !errors.Is(err, ErrUnknownResource) {
		t.Fatalf("expected ErrUnknownResource, got %v", err)
	}
	if got := src.Resources(); len(got) != 1 || got[0] != "recipe" {
		t.Fatalf("unexpected resources %v", got)
	}
}

func TestDefaultRows_ContainsFixtures(t *testing.T) {
	data, err := DefaultRows()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for _, resource := range []string{"recipe", "profession"} {
		if len(data[resource]) == 0 {
			t.Fatalf("expected fixture rows for %q", resource)
		}
	}
}
