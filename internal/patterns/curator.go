package patterns

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// RepositoryStore is the read/write store interface the Curator needs for
// offline maintenance of the pattern library. storage.PatternRepository
// implements both Store and RepositoryStore.
type RepositoryStore interface {
	Store
	Get(ctx context.Context, t Type, term string) (Pattern, error)
	Update(ctx context.Context, p Pattern) error
	ListAll(ctx context.Context, t Type) ([]Pattern, error)
	Create(ctx context.Context, p Pattern) error
}

// Curator performs offline maintenance on the pattern library: moving
// misbehaving aliases out of circulation and snapshotting the library to
// and from JSON. These are not part of the read-only runtime contract
// stages use; they're the administrative operations a pattern store needs
// once it has real usage history.
type Curator struct {
	store RepositoryStore
}

// NewCurator builds a Curator over a repository store.
func NewCurator(store RepositoryStore) *Curator {
	return &Curator{store: store}
}

// Quarantine moves alias from a pattern's active Aliases into its
// ArchivedAliases. A quarantined alias is never matched again but stays on
// record, so curation is a demotion rather than a deletion: the alias can
// be promoted back if it turns out to have been a good match after all.
func (c *Curator) Quarantine(ctx context.Context, t Type, term, alias string) error {
	p, err := c.store.Get(ctx, t, term)
	if err != nil {
		return fmt.Errorf("%w: %s/%s", ErrUnknownPattern, t, term)
	}

	idx := -1
	for i, a := range p.Aliases {
		if a == alias {
			idx = i
			break
		}
	}
	if idx == -1 {
		if p.hasAlias(alias) {
			// Already quarantined; nothing to do.
			return nil
		}
		return fmt.Errorf("%w: %s on %s/%s", ErrAliasNotFound, alias, t, term)
	}

	p.Aliases = append(p.Aliases[:idx], p.Aliases[idx+1:]...)
	p.ArchivedAliases = append(p.ArchivedAliases, alias)

	return c.store.Update(ctx, p)
}

// Restore is the inverse of Quarantine: promotes a previously archived
// alias back into active use.
func (c *Curator) Restore(ctx context.Context, t Type, term, alias string) error {
	p, err := c.store.Get(ctx, t, term)
	if err != nil {
		return fmt.Errorf("%w: %s/%s", ErrUnknownPattern, t, term)
	}

	idx := -1
	for i, a := range p.ArchivedAliases {
		if a == alias {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: %s on %s/%s", ErrAliasNotFound, alias, t, term)
	}

	p.ArchivedAliases = append(p.ArchivedAliases[:idx], p.ArchivedAliases[idx+1:]...)
	p.Aliases = append(p.Aliases, alias)

	return c.store.Update(ctx, p)
}

// snapshot is the JSON export/import envelope for the whole pattern
// library, one type at a time concatenated together.
type snapshot struct {
	Patterns []Pattern `json:"patterns"`
}

// Export writes every pattern of every type in the store to w as a single
// JSON document, including archived rows that ListActive would omit.
func (c *Curator) Export(ctx context.Context, w io.Writer) error {
	types := []Type{
		TypeGeographicEntity,
		TypeMarketTerm,
		TypeDatePattern,
		TypeReportType,
		TypeReportTypeDictionary,
	}

	var snap snapshot
	for _, t := range types {
		records, err := c.store.ListAll(ctx, t)
		if err != nil {
			return fmt.Errorf("export type %q: %w", t, err)
		}
		snap.Patterns = append(snap.Patterns, records...)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// Import reads a JSON document produced by Export and creates every
// pattern it names. Import never overwrites an existing (type, term); use
// Update directly for that.
func (c *Curator) Import(ctx context.Context, r io.Reader) (int, error) {
	var snap snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return 0, fmt.Errorf("decode pattern snapshot: %w", err)
	}

	created := 0
	for _, p := range snap.Patterns {
		if err := c.store.Create(ctx, p); err != nil {
			return created, fmt.Errorf("create %s/%s: %w", p.Type, p.Term, err)
		}
		created++
	}

	return created, nil
}
