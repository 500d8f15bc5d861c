package graph

import "errors"

// Sentinel errors returned by Storage operations. None of them are
// recoverable at this layer: callers should discard the Storage (or, for
// the bounds/lookup errors, simply not repeat the offending call).
var (
	// ErrNotConfigured is returned by Flush when it runs before Create
	// or LoadExisting has been called. Create never returns it: the
	// flags codec is fixed, so there is no unconfigured-codec state.
	ErrNotConfigured = errors.New("graph: not configured")

	// ErrDoubleConfigured is returned when Create or LoadExisting is
	// called on an already-configured Storage.
	ErrDoubleConfigured = errors.New("graph: already configured")

	// ErrCorrupt is returned by LoadExisting when a region other than
	// nodes is missing, its class fingerprint doesn't match, or its
	// recorded flags-codec fingerprint doesn't match the configured codec
	// (a missing nodes region means no persisted graph: false, nil).
	ErrCorrupt = errors.New("graph: storage is corrupt or incompatible")

	// ErrNodeOutOfBounds identifies a node id outside [0, NodeCount).
	// No Storage method returns it: node lookups are not bounds-checked.
	ErrNodeOutOfBounds = errors.New("graph: node id out of bounds")

	// ErrEdgeOutOfBounds is returned when an edge id is outside
	// [0, EdgeCount).
	ErrEdgeOutOfBounds = errors.New("graph: edge id out of bounds")

	// ErrEdgeAlreadyRemoved is returned when an edge lookup lands on a
	// tombstoned record.
	ErrEdgeAlreadyRemoved = errors.New("graph: edge already removed")

	// ErrTooManyEdges is returned when the edge id counter would
	// overflow on the next allocation.
	ErrTooManyEdges = errors.New("graph: too many edges")

	// ErrCorruptChain is returned when an adjacency walk exceeds
	// MaxEdges iterations or observes a self-pointing link — both
	// indicate a broken invariant upstream, not a transient condition.
	ErrCorruptChain = errors.New("graph: corrupt adjacency chain")

	// ErrDetachBeforeAdvance is returned when a cursor is asked for its
	// current edge before Next has been called at least once.
	ErrDetachBeforeAdvance = errors.New("graph: cursor has not advanced yet")
)
