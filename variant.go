package grove

// VariantHash mixes a tile coordinate into a well-distributed 32-bit value.
//
// The coordinates are combined with two odd multiplicative constants and run
// through the 32-bit finalizer of MurmurHash3 (xor-shift / multiply rounds).
// Only uint32 wrap-around arithmetic is used, so the result is identical on
// every platform and in every language that implements the same steps:
//
//	h = uint32(x)*0x9E3779B1 ^ uint32(y)*0x85EBCA77
//	h ^= h >> 16; h *= 0x85EBCA6B
//	h ^= h >> 13; h *= 0xC2B2AE35
//	h ^= h >> 16
func VariantHash(x, y int) uint32 {
	h := uint32(x)*0x9E3779B1 ^ uint32(y)*0x85EBCA77
	h ^= h >> 16
	h *= 0x85EBCA6B
	h ^= h >> 13
	h *= 0xC2B2AE35
	h ^= h >> 16
	return h
}

// VariantIndex picks an index in [0, n) for the tile at (x, y). The choice is
// a pure function of the coordinates, so a tile shows the same variant every
// frame. Returns -1 when n <= 0.
func VariantIndex(x, y, n int) int {
	if n <= 0 {
		return -1
	}
	return int(VariantHash(x, y) % uint32(n))
}

// pickVariant returns the variant chosen for (x, y), or "" for an empty set.
func pickVariant(x, y int, variants []string) string {
	i := VariantIndex(x, y, len(variants))
	if i < 0 {
		return ""
	}
	return variants[i]
}
