package sketch

import (
	"log"
	"math/rand/v2"
)

// DefaultPrime is the modulus of the affine hash family. A small fixed
// prime keeps evaluation cheap at the cost of pairwise independence only
// up to a periodicity governed by the modulus; that tradeoff is inherited
// from the reference estimator and documented here rather than patched.
const DefaultPrime = 8191

// HashFamily holds D pairs of affine parameters for the bucket hash
// (range [0,W)) and D pairs for the sign hash (range {-1,+1}). Parameters
// are drawn once at construction and never regenerated: update and query
// must evaluate the exact same functions for the sketch to be meaningful.
type HashFamily struct {
	d     int
	w     int
	prime int64
	// bucket hash params, one pair per row
	ah, bh []int64
	// sign hash params, one pair per row
	ag, bg []int64
}

// NewHashFamily draws parameters for d rows mapping into w buckets over
// the given prime modulus. Each a is uniform in [1, prime-1], each b
// uniform in [0, prime-1). A non-zero seed makes the draw reproducible;
// seed 0 draws from the process-wide source.
func NewHashFamily(d, w int, prime int64, seed uint64) *HashFamily {
	if d <= 0 || w <= 0 {
		log.Panicf("sketch: invalid hash family dimensions d=%d w=%d", d, w)
	}
	if prime < 2 {
		log.Panicf("sketch: invalid prime modulus %d", prime)
	}

	src := rand.New(rand.NewPCG(seed, seed))
	if seed == 0 {
		src = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	f := &HashFamily{
		d:     d,
		w:     w,
		prime: prime,
		ah:    make([]int64, d),
		bh:    make([]int64, d),
		ag:    make([]int64, d),
		bg:    make([]int64, d),
	}
	for j := 0; j < d; j++ {
		f.ah[j] = 1 + src.Int64N(prime-1)
		f.bh[j] = src.Int64N(prime - 1)
		f.ag[j] = 1 + src.Int64N(prime-1)
		f.bg[j] = src.Int64N(prime - 1)
	}
	return f
}

// Rows returns D, the number of hash pairs in the family.
func (f *HashFamily) Rows() int { return f.d }

// Width returns W, the bucket range of the bucket hash.
func (f *HashFamily) Width() int { return f.w }

// Bucket evaluates the bucket hash of row on item:
// ((a*item + b) mod prime) mod W, always in [0, W).
func (f *HashFamily) Bucket(item int64, row int) int {
	return int(f.affine(item, f.ah[row], f.bh[row]) % int64(f.w))
}

// Sign evaluates the sign hash of row on item:
// 2*(((a*item + b) mod prime) mod 2) - 1, always -1 or +1.
func (f *HashFamily) Sign(item int64, row int) int64 {
	return 2*(f.affine(item, f.ag[row], f.bg[row])%2) - 1
}

// affine computes (a*item + b) mod prime as a non-negative value. The item
// is reduced mod prime first so a*item stays far below the int64 range for
// any input item, negative items included.
func (f *HashFamily) affine(item, a, b int64) int64 {
	x := item % f.prime
	if x < 0 {
		x += f.prime
	}
	return (a*x + b) % f.prime
}
