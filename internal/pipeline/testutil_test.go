package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/titlelex/titlelex/internal/patterns"
)

// memStore is a patterns.Store backed by an in-memory slice, letting
// white-box stage tests build a Library without a database.
type memStore struct {
	byType map[patterns.Type][]patterns.Pattern
}

func newMemStore(extra ...patterns.Pattern) *memStore {
	s := &memStore{byType: make(map[patterns.Type][]patterns.Pattern)}
	all := append(append([]patterns.Pattern{}, patterns.Defaults()...), extra...)
	for _, p := range all {
		s.byType[p.Type] = append(s.byType[p.Type], p)
	}
	return s
}

func (s *memStore) ListActive(ctx context.Context, t patterns.Type) ([]patterns.Pattern, error) {
	var out []patterns.Pattern
	for _, p := range s.byType[t] {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

// buildLibrary loads the built-in default pattern set plus any extra
// records a test wants layered on top (e.g. a synthetic geographic entity
// to probe a specific matching rule in isolation).
func buildLibrary(t *testing.T, extra ...patterns.Pattern) *patterns.Library {
	t.Helper()
	lib, err := patterns.Load(context.Background(), newMemStore(extra...), nil)
	require.NoError(t, err)
	return lib
}
