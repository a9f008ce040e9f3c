// Package prng provides the deterministic shuffle used to scramble sentences.
//
// The hash and generator are bit-compatible with the browser implementation,
// so a link shuffled on the server shows the same order a student sees.
package prng

import (
	"math/bits"
	"strconv"
	"time"
	"unicode/utf16"
)

const (
	hashInit = 1779033703
	hashMul  = 3432918353
	mulberry = 0x6D2B79F5
)

// HashSeed folds seed into a 32-bit integer. The string is read as UTF-16 code
// units so non-BMP characters hash the same way they do in a browser.
func HashSeed(seed string) uint32 {
	units := utf16.Encode([]rune(seed))
	h := uint32(hashInit) ^ uint32(len(units))
	for _, c := range units {
		h = (h ^ uint32(c)) * hashMul
		h = bits.RotateLeft32(h, 13)
	}
	return h
}

// Rand is a Mulberry32 generator. It is not safe for concurrent use.
type Rand struct {
	state uint32
}

// New returns a generator seeded from the hash of seed
func New(seed string) *Rand {
	return &Rand{state: HashSeed(seed)}
}

// Float64 returns the next value in [0, 1)
func (r *Rand) Float64() float64 {
	r.state += mulberry
	t := r.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return float64(t^t>>14) / 4294967296
}

// Shuffle returns a permuted copy of items. The same items and seed always
// give the same order, and items is never modified.
func Shuffle[T any](items []T, seed string) []T {
	out := make([]T, len(items))
	copy(out, items)

	r := New(seed)
	for i := len(out); i > 0; {
		j := int(r.Float64() * float64(i))
		i--
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// SentenceSeed derives the seed for one sentence of an assignment
func SentenceSeed(seed string, index int) string {
	return seed + "-" + strconv.Itoa(index)
}

// TimeSeed returns a seed from the wall clock for unseeded scrambling
func TimeSeed() string {
	return strconv.FormatInt(time.Now().UnixNano(), 36)
}
