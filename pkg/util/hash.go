package util

// HashU64 is a xorshift mix used to spread snowflakes, whose low bits are
// mostly sequence counters, across shards.
func HashU64(val uint64) uint64 {
	val ^= val << 13
	val ^= val >> 7
	val ^= val << 17
	return val
}

// HashIndex64 maps val onto [0, n). n must be positive.
func HashIndex64(val, n uint64) uint64 {
	return HashU64(val) % n
}
