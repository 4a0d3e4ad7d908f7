package utils

import "hash/fnv"

// HashStringToUint64 gives a stable fnv-1a hash, used to keep mock
// generation output deterministic per prompt.
func HashStringToUint64(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
