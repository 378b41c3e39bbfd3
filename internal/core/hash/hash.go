// Package hash computes the 64-bit fingerprints that key every signal table.
//
// A fingerprint folds the identity fields of a package into one value with an
// FNV-1a mix per field and a boost-style combiner between fields. Cycle id and
// service id share one slot, as do virtual address and method id: no wire
// format uses both members of a pair.
package hash

import "firestige.xyz/udex/internal/core"

const (
	fnvOffsetBasis uint64 = 0xcbf29ce484222325
	fnvPrime       uint64 = 0x100000001b3
	goldenRatio    uint64 = 0x9e3779b9
)

func fnv1a(v uint64) uint64 {
	return (fnvOffsetBasis ^ v) * fnvPrime
}

func combine(seed, v uint64) uint64 {
	return seed ^ (fnv1a(v) + goldenRatio + (seed << 6) + (seed >> 2))
}

// Hash returns the fingerprint of a package identity.
func Hash(id core.PackageIdentity) uint64 {
	var seed uint64
	seed = combine(seed, uint64(id.SourceID))
	seed = combine(seed, uint64(id.InstanceNumber))
	seed = combine(seed, uint64(id.CycleID)+uint64(id.ServiceID))
	seed = combine(seed, id.VirtualAddress+uint64(id.MethodID))
	return seed
}

// HashWithName returns the fingerprint of an identity extended by a URL path.
// Used for processor ports that alias the same identity.
func HashWithName(id core.PackageIdentity, name string) uint64 {
	return combine(Hash(id), StringHash(name))
}

// HashManualPort folds a manually declared port name and its size into the
// value used as the virtual address of that port.
func HashManualPort(name string, size uint64) uint64 {
	return combine(StringHash(name), size)
}

// StringHash folds every byte of s with the fingerprint combiner.
func StringHash(s string) uint64 {
	var seed uint64
	for i := 0; i < len(s); i++ {
		seed = combine(seed, uint64(s[i]))
	}
	return seed
}
