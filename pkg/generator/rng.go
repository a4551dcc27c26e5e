package generator

import "math/rand/v2"

// Stream identifiers for the color passes. Tree jobs use their job index
// as stream, which stays far below this offset.
const passStreamBase uint64 = 1 << 40

// newRand returns an independent random stream for the given run seed and
// stream identifier. A *rand.Rand is not safe for concurrent use; every job
// and every color pass owns its own.
func newRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, deriveSeed(seed, stream)))
}

// deriveSeed mixes a parent seed and a stream identifier with a SplitMix64
// finalizer so neighbouring streams are decorrelated.
func deriveSeed(parent, stream uint64) uint64 {
	x := parent ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
