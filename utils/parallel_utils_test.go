package utils

import (
	"math"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	{ // Test PartitionMap
		getHisto := func(K, Np int) (histo map[int]int) {
			pm := NewPartitionMap(Np, K)
			histo = make(map[int]int)
			for np := 0; np < pm.ParallelDegree; np++ {
				kMin, kMax := pm.GetBucketRange(np)
				histo[kMax-kMin]++
			}
			return
		}
		getTotal := func(histo map[int]int) (total int) {
			for key, count := range histo {
				total += key * count
			}
			return
		}
		assert.Equal(t, map[int]int{0: 30, 1: 2}, getHisto(2, 32))
		assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
		assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
		assert.Equal(t, 287, getTotal(getHisto(287, 32)))
		for n := 64; n < 2000; n++ {
			var (
				keys   [2]float64
				keyNum int
			)
			histo := getHisto(n, 32)
			for key := range histo {
				keys[keyNum] = float64(key)
				keyNum++
			}
			if keyNum == 2 {
				assert.Equal(t, 1., math.Abs(keys[0]-keys[1])) // Maximum imbalance of 1
			}
			assert.Equal(t, n, getTotal(histo))
		}
	}
	{ // Buckets tile [0, maxIndex) in order
		for maxIndex := 10; maxIndex < 300; maxIndex++ {
			pm := NewPartitionMap(5, maxIndex)
			var next int
			for bn := 0; bn < pm.ParallelDegree; bn++ {
				kMin, kMax := pm.GetBucketRange(bn)
				assert.Equal(t, next, kMin)
				next = kMax
			}
			assert.Equal(t, maxIndex, next)
		}
	}
	{ // Parallel degree limits
		assert.Equal(t, 3, ParallelDegree(8, 3))
		assert.Equal(t, 2, ParallelDegree(2, 100))
		assert.Equal(t, 1, ParallelDegree(4, 0))
		assert.Equal(t, min(runtime.NumCPU(), 1000), ParallelDegree(0, 1000))
	}
}

func TestIndex(t *testing.T) {
	I := Index{1, 4, 5}
	assert.Equal(t, Index{0, 2, 3, 6}, I.Complement(7))
	assert.Equal(t, 1, I.Position(4))
	assert.Equal(t, -1, I.Position(3))
	assert.True(t, I.IsSortedUnique())
	assert.False(t, Index{1, 1, 2}.IsSortedUnique())
	assert.Equal(t, Index{-1, 0, -1, -1, 1, 2}, I.InverseMap(6))
	assert.Equal(t, Index{2, 3, 4}, NewRange(2, 4))
	assert.Equal(t, Index{}, NewRange(2, 1))
}
