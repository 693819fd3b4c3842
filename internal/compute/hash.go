package compute

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Hash identifies one instantiation of a node tree during evaluation.
// It is derived from the full chain of contexts leading to the
// instantiation, so two call sites of the same node group get different
// hashes while repeated evaluation of the same call site gets the same one.
type Hash [16]byte

// String returns the hex form of the hash, for debug output and map keys in
// text formats.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether the hash is the zero value. The zero hash is never
// produced by a context chain.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// mix builds a child hash: H( parent || kind || fields ).
func mix(parent Hash, kind byte, fields ...uint64) Hash {
	h := sha256.New()
	_, _ = h.Write(parent[:])
	_, _ = h.Write([]byte{kind})
	var buf [8]byte
	for _, f := range fields {
		binary.LittleEndian.PutUint64(buf[:], f)
		_, _ = h.Write(buf[:])
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// mixString folds a string into a single field for mix.
func mixString(s string) uint64 {
	sum := sha256.Sum256([]byte(s))
	return binary.LittleEndian.Uint64(sum[:8])
}
