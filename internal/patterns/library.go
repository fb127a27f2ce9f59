package patterns

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dlclark/regexp2"

	"github.com/titlelex/titlelex/internal/observability"
)

// Store is the read side of the pattern-library store: whatever backs it,
// Load only ever needs the active patterns of a given type. Implemented by
// storage.PatternRepository.
type Store interface {
	ListActive(ctx context.Context, t Type) ([]Pattern, error)
}

// Compiled pairs a Pattern with its synthesized or explicit regex, compiled
// once at load time and reused for every title.
type Compiled struct {
	Pattern Pattern
	Regex   *regexp2.Regexp
}

// Library is the immutable, read-only handle stages receive. It is safe
// for concurrent use by multiple pipeline instances.
type Library struct {
	byType     map[Type][]*Compiled
	dictionary map[Subtype]map[string]bool
	mu         sync.RWMutex // guards nothing after Load; kept for future hot-reload
}

// Load reads the active patterns of the four required types (market_term,
// date_pattern, report_type_dictionary, geographic_entity) from store; other
// types are not read. It groups them by Type, sorts each group by priority ascending then term length descending, and
// compiles each one. A pattern whose regex fails to compile is logged and
// skipped rather than aborting the load.
//
// Load returns an error (aborting startup) only when the store itself is
// unreachable or a required type has zero active patterns.
func Load(ctx context.Context, store Store, logger *observability.Logger) (*Library, error) {
	lib := &Library{
		byType:     make(map[Type][]*Compiled),
		dictionary: make(map[Subtype]map[string]bool),
	}

	requiredTypes := []Type{
		TypeMarketTerm,
		TypeDatePattern,
		TypeReportTypeDictionary,
		TypeGeographicEntity,
	}

	for _, t := range requiredTypes {
		records, err := store.ListActive(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("%w: type %q: %v", ErrStoreUnreachable, t, err)
		}
		if len(records) == 0 {
			return nil, fmt.Errorf("%w: type %q", ErrEmptyTypeSet, t)
		}

		sort.SliceStable(records, func(i, j int) bool {
			if records[i].Priority != records[j].Priority {
				return records[i].Priority < records[j].Priority
			}
			return len(records[i].Term) > len(records[j].Term)
		})

		compiled := make([]*Compiled, 0, len(records))
		for _, rec := range records {
			if t == TypeReportTypeDictionary {
				set := lib.dictionary[rec.Subtype]
				if set == nil {
					set = make(map[string]bool)
					lib.dictionary[rec.Subtype] = set
				}
				set[rec.Term] = true
				for _, a := range rec.Aliases {
					set[a] = true
				}
				// Dictionary entries aren't matched via regex; they're
				// consulted by term membership in pipeline/reporttype.go.
				continue
			}

			src := rec.PatternSource
			if src == "" {
				src = synthesize(rec)
			}

			re, err := regexp2.Compile(src, regexp2.IgnoreCase)
			if err != nil {
				if logger != nil {
					logger.Warn().
						Str("type", string(rec.Type)).
						Str("term", rec.Term).
						Err(err).
						Msg("pattern compile failed, skipping")
				}
				continue
			}
			re.MatchTimeout = matchTimeout

			compiled = append(compiled, &Compiled{Pattern: rec, Regex: re})
		}

		lib.byType[t] = compiled
	}

	return lib, nil
}

// Patterns returns the ordered, compiled pattern set for a type.
func (l *Library) Patterns(t Type) []*Compiled {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.byType[t]
}

// Dictionary returns the set of terms (canonical + aliases) registered
// under a report_type_dictionary subtype.
func (l *Library) Dictionary(s Subtype) map[string]bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.dictionary[s]
}

// IsDictionaryTerm reports whether token (case-insensitive) is registered
// under any of the given subtypes.
func (l *Library) IsDictionaryTerm(token string, subtypes ...Subtype) bool {
	for _, s := range subtypes {
		if set := l.Dictionary(s); set != nil {
			for term := range set {
				if equalFold(term, token) {
					return true
				}
			}
		}
	}
	return false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
