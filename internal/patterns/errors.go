package patterns

import "errors"

// ErrEmptyTypeSet is returned by Load when a required pattern type has no
// active rows in the store. Treated as a config error by callers: it
// aborts startup rather than running a pipeline with a silently empty
// stage.
var ErrEmptyTypeSet = errors.New("patterns: no active patterns for required type")

// ErrStoreUnreachable wraps a Store failure that prevented Load from
// reading any patterns at all (connection refused, auth failure, and the
// like). Distinguished from ErrEmptyTypeSet so operators can tell
// "store is down" from "store is up but uncurated".
var ErrStoreUnreachable = errors.New("patterns: store unreachable")

// ErrUnknownPattern is returned by Curator operations addressing a
// (type, term) pair that does not exist in the store.
var ErrUnknownPattern = errors.New("patterns: unknown pattern")

// ErrAliasNotFound is returned by Quarantine when the alias named isn't
// currently active on the pattern.
var ErrAliasNotFound = errors.New("patterns: alias not active on pattern")
