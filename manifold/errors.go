package manifold

import "errors"

// Error taxonomy (§7). Each is a sentinel so callers can discriminate with
// errors.Is; underlying causes, where any exist, are wrapped with %w per the
// teacher's config.go convention (see DESIGN.md).
var (
	// ErrInvalidConfig: settings missing or out of range at build start.
	ErrInvalidConfig = errors.New("manifold: invalid config")

	// ErrInvalidOrder: a partial-update step was invoked out of sequence.
	ErrInvalidOrder = errors.New("manifold: invalid build order")

	// ErrNotReady: a query was attempted before the manifold reached Complete.
	ErrNotReady = errors.New("manifold: not ready")

	// ErrNoSurface: the character controller exhausted both the current
	// attempt and every historical fallback; the caller must reposition.
	ErrNoSurface = errors.New("manifold: no reachable surface")

	// ErrCancelled: an async build observed cancellation; the manifold was
	// cleared.
	ErrCancelled = errors.New("manifold: build cancelled")

	// ErrBadInput: a build range had cellMax <= cellMin or yMax <= yMin.
	// Treated as an empty-build no-op rather than a fatal error.
	ErrBadInput = errors.New("manifold: empty build range")
)
