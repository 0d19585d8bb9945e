package rows

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/rows.yaml
var dataFS embed.FS

const defaultFixturePath = "data/rows.yaml"

// ErrUnknownResource is returned by a Source that has no rows registered
// under the requested resource name.
var ErrUnknownResource = errors.New("rows: unknown resource")

// Row is one pre-rendered table row.
type Row struct {
	ID         int    `json:"id" yaml:"id"`
	HTMLString string `json:"htmlString" yaml:"htmlString"`
}

// Source resolves the rows of a resource.
type Source interface {
	Rows(ctx context.Context, resource string) ([]Row, error)
}

// MemorySource serves rows held in memory. It is safe for concurrent use.
type MemorySource struct {
	mu   sync.RWMutex
	data map[string][]Row
}

// NewMemorySource copies data into a new source. Rows are kept in
// ascending id order.
func NewMemorySource(data map[string][]Row) *MemorySource {
	src := &MemorySource{data: make(map[string][]Row, len(data))}
	for resource, rows := range data {
		src.Set(resource, rows)
	}
	return src
}

// Set replaces the rows of resource.
func (s *MemorySource) Set(resource string, rows []Row) {
	sorted := append([]Row{}, rows...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[normalizeResource(resource)] = sorted
}

// Rows implements Source.
func (s *MemorySource) Rows(ctx context.Context, resource string) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, ok := s.data[normalizeResource(resource)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, resource)
	}
	return append([]Row{}, rows...), nil
}

// Resources lists the registered resource names, sorted.
func (s *MemorySource) Resources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.data))
	for name := range s.data {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// LoadRows decodes a YAML document mapping resource names to row lists.
func LoadRows(r io.Reader) (map[string][]Row, error) {
	if r == nil {
		return nil, fmt.Errorf("rows: missing reader")
	}
	var data map[string][]Row
	if err := yaml.NewDecoder(r).Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string][]Row{}, nil
		}
		return nil, fmt.Errorf("rows: decode fixtures: %w", err)
	}
	for resource, rows := range data {
		seen := make(map[int]struct{}, len(rows))
		for _, row := range rows {
			if _, dup := seen[row.ID]; dup {
				return nil, fmt.Errorf("rows: resource %q: duplicate id %d", resource, row.ID)
			}
			seen[row.ID] = struct{}{}
		}
	}
	return data, nil
}

var (
	defaultOnce sync.Once
	defaultData map[string][]Row
	defaultErr  error
)

// DefaultRows returns the embedded fixture rows.
func DefaultRows() (map[string][]Row, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(defaultFixturePath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = f.Close() }()

		defaultData, defaultErr = LoadRows(f)
	})
	if defaultErr != nil {
		return nil, defaultErr
	}
	out := make(map[string][]Row, len(defaultData))
	for resource, rows := range defaultData {
		out[resource] = append([]Row{}, rows...)
	}
	return out, nil
}

func normalizeResource(resource string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(resource), "/"))
}
