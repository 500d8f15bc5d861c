// Package flagcodec implements the encoding-manager contract the graph
// package treats as external: interpretation of the 32-bit flags word
// stored on every edge (direction bits and access bits), independent of
// distance, geometry, or name storage.
package flagcodec

// Bit layout, low to high:
//
//	bit 0: forward access allowed
//	bit 1: backward access allowed
//
// Higher bits are reserved for a caller-supplied access class (e.g.
// vehicle type) and are left untouched by SwapDirection.
const (
	Forward  int32 = 1 << 0
	Backward int32 = 1 << 1
)

// EncoderName is embedded in the fingerprint and persisted alongside the
// graph so a mismatched codec is caught on load rather than silently
// misreading direction bits.
const EncoderName = "car"

// DefaultFlags returns the flags word for a newly inserted edge.
// bothDirections controls whether the edge is traversable from either
// endpoint (the common case for two-way roads) or only in the direction
// it was inserted.
func DefaultFlags(bothDirections bool) int32 {
	if bothDirections {
		return Forward | Backward
	}
	return Forward
}

// SwapDirection flips the forward/backward bits, leaving every other bit
// untouched. The graph package calls it at the write_edge choke point
// whenever an edge's endpoints are reordered to satisfy the
// node_a <= node_b invariant, and when a cursor reads an edge's flags
// from its node_b side.
func SwapDirection(flags int32) int32 {
	fwd := flags & Forward
	bwd := flags & Backward
	rest := flags &^ (Forward | Backward)
	swapped := rest
	if fwd != 0 {
		swapped |= Backward
	}
	if bwd != 0 {
		swapped |= Forward
	}
	return swapped
}

// EncoderList reports the configured encoder names. It is not persisted;
// a reload detects an incompatible codec through Fingerprint, and
// reports this list in the error it returns on a mismatch.
func EncoderList() string {
	return EncoderName
}

// Fingerprint returns a stable identifier for this codec's bit layout.
// It is stored in the edges region header (§4.5) and checked on load.
func Fingerprint() int32 {
	var h int32 = 17
	for _, b := range []byte(EncoderName) {
		h = h*31 + int32(b)
	}
	return h
}
