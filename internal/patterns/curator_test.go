package patterns_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/titlelex/titlelex/internal/patterns"
)

// fakeRepo is a minimal in-memory patterns.RepositoryStore for curator
// tests, keyed the same way the real repository dedupes rows: (type, term).
type fakeRepo struct {
	rows map[string]patterns.Pattern
}

func newFakeRepo(rows ...patterns.Pattern) *fakeRepo {
	r := &fakeRepo{rows: make(map[string]patterns.Pattern)}
	for _, p := range rows {
		r.rows[p.Key()] = p
	}
	return r
}

func (r *fakeRepo) ListActive(ctx context.Context, t patterns.Type) ([]patterns.Pattern, error) {
	var out []patterns.Pattern
	for _, p := range r.rows {
		if p.Type == t && p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListAll(ctx context.Context, t patterns.Type) ([]patterns.Pattern, error) {
	var out []patterns.Pattern
	for _, p := range r.rows {
		if p.Type == t {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRepo) Get(ctx context.Context, t patterns.Type, term string) (patterns.Pattern, error) {
	key := string(t) + "\x00" + term
	p, ok := r.rows[key]
	if !ok {
		return patterns.Pattern{}, errors.New("not found")
	}
	return p, nil
}

func (r *fakeRepo) Update(ctx context.Context, p patterns.Pattern) error {
	if _, ok := r.rows[p.Key()]; !ok {
		return errors.New("not found")
	}
	r.rows[p.Key()] = p
	return nil
}

var errFakeConflict = errors.New("fake repo: record conflict")

func (r *fakeRepo) Create(ctx context.Context, p patterns.Pattern) error {
	if _, ok := r.rows[p.Key()]; ok {
		return errFakeConflict
	}
	r.rows[p.Key()] = p
	return nil
}

func TestCuratorQuarantineMovesAliasNotDeletesIt(t *testing.T) {
	repo := newFakeRepo(patterns.Pattern{
		Type: patterns.TypeGeographicEntity, Term: "United States",
		Aliases: []string{"U.S.", "USA"}, Active: true,
	})
	curator := patterns.NewCurator(repo)

	err := curator.Quarantine(context.Background(), patterns.TypeGeographicEntity, "United States", "USA")
	require.NoError(t, err)

	got, err := repo.Get(context.Background(), patterns.TypeGeographicEntity, "United States")
	require.NoError(t, err)
	require.Equal(t, []string{"U.S."}, got.Aliases)
	require.Equal(t, []string{"USA"}, got.ArchivedAliases)
}

func TestCuratorRestorePromotesArchivedAlias(t *testing.T) {
	repo := newFakeRepo(patterns.Pattern{
		Type: patterns.TypeGeographicEntity, Term: "United States",
		Aliases: []string{"U.S."}, ArchivedAliases: []string{"USA"}, Active: true,
	})
	curator := patterns.NewCurator(repo)

	err := curator.Restore(context.Background(), patterns.TypeGeographicEntity, "United States", "USA")
	require.NoError(t, err)

	got, err := repo.Get(context.Background(), patterns.TypeGeographicEntity, "United States")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"U.S.", "USA"}, got.Aliases)
	require.Empty(t, got.ArchivedAliases)
}

func TestCuratorQuarantineUnknownAliasErrors(t *testing.T) {
	repo := newFakeRepo(patterns.Pattern{
		Type: patterns.TypeGeographicEntity, Term: "United States", Active: true,
	})
	curator := patterns.NewCurator(repo)

	err := curator.Quarantine(context.Background(), patterns.TypeGeographicEntity, "United States", "Nowhere")
	require.ErrorIs(t, err, patterns.ErrAliasNotFound)
}

func TestCuratorExportImportRoundTrip(t *testing.T) {
	repo := newFakeRepo(patterns.Defaults()...)
	curator := patterns.NewCurator(repo)

	var buf bytes.Buffer
	require.NoError(t, curator.Export(context.Background(), &buf))

	fresh := newFakeRepo()
	freshCurator := patterns.NewCurator(fresh)
	count, err := freshCurator.Import(context.Background(), &buf)
	require.NoError(t, err)
	require.Equal(t, len(patterns.Defaults()), count)
}
