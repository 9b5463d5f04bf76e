package sketch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashFamilyDeterminism(t *testing.T) {
	items := []int64{0, 1, 2, 42, -17, 8191, 123456789, -987654321}

	f1 := NewHashFamily(5, 64, DefaultPrime, 7)
	f2 := NewHashFamily(5, 64, DefaultPrime, 7)

	for _, item := range items {
		for j := 0; j < 5; j++ {
			assert.Equal(t, f1.Bucket(item, j), f2.Bucket(item, j), "bucket mismatch for item %d row %d", item, j)
			assert.Equal(t, f1.Sign(item, j), f2.Sign(item, j), "sign mismatch for item %d row %d", item, j)
		}
	}
}

func TestHashFamilyParamRanges(t *testing.T) {
	f := NewHashFamily(50, 8, DefaultPrime, 3)

	for j := 0; j < 50; j++ {
		require.GreaterOrEqual(t, f.ah[j], int64(1))
		require.LessOrEqual(t, f.ah[j], int64(DefaultPrime-1))
		require.GreaterOrEqual(t, f.bh[j], int64(0))
		require.Less(t, f.bh[j], int64(DefaultPrime-1))
		require.GreaterOrEqual(t, f.ag[j], int64(1))
		require.LessOrEqual(t, f.ag[j], int64(DefaultPrime-1))
		require.GreaterOrEqual(t, f.bg[j], int64(0))
		require.Less(t, f.bg[j], int64(DefaultPrime-1))
	}
}

func TestBucketRange(t *testing.T) {
	const w = 37
	f := NewHashFamily(4, w, DefaultPrime, 11)

	// Items of both signs and magnitudes beyond the modulus are valid.
	items := []int64{0, 1, -1, 8190, 8191, 8192, -8192, 1 << 40, -(1 << 40), 1<<62 + 12345}
	for _, item := range items {
		for j := 0; j < 4; j++ {
			b := f.Bucket(item, j)
			assert.GreaterOrEqual(t, b, 0, "item %d row %d", item, j)
			assert.Less(t, b, w, "item %d row %d", item, j)
		}
	}
}

func TestSignIsPlusMinusOne(t *testing.T) {
	f := NewHashFamily(6, 16, DefaultPrime, 13)

	seenMinus, seenPlus := false, false
	for item := int64(-500); item < 500; item++ {
		for j := 0; j < 6; j++ {
			s := f.Sign(item, j)
			require.True(t, s == 1 || s == -1, "sign %d for item %d row %d", s, item, j)
			if s == 1 {
				seenPlus = true
			} else {
				seenMinus = true
			}
		}
	}
	// A sign hash that never flips would make the sketch a counting sketch.
	assert.True(t, seenPlus, "sign hash never produced +1")
	assert.True(t, seenMinus, "sign hash never produced -1")
}

func TestEvaluationIsPure(t *testing.T) {
	f := NewHashFamily(3, 128, DefaultPrime, 17)

	for _, item := range []int64{5, -5, 99999} {
		for j := 0; j < 3; j++ {
			b, s := f.Bucket(item, j), f.Sign(item, j)
			for i := 0; i < 10; i++ {
				assert.Equal(t, b, f.Bucket(item, j))
				assert.Equal(t, s, f.Sign(item, j))
			}
		}
	}
}
