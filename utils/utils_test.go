package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	getHisto := func(K, Np int) (histo map[int]int) {
		pm := NewPartitionMap(Np, K)
		histo = make(map[int]int)
		for np := 0; np < pm.ParallelDegree; np++ {
			maxK := pm.GetBucketDimension(np)
			histo[maxK]++
		}
		return
	}
	getTotal := func(histo map[int]int) (total int) {
		for key, count := range histo {
			total += key * count
		}
		return
	}
	assert.Equal(t, map[int]int{1: 8}, getHisto(8, 8))
	assert.Equal(t, map[int]int{4: 8}, getHisto(32, 8))
	assert.Equal(t, map[int]int{4: 5, 5: 3}, getHisto(35, 8))
	for n := 8; n < 2000; n++ {
		var (
			keys   [2]float64
			keyNum int
		)
		histo := getHisto(n, 8)
		for key := range histo {
			keys[keyNum] = float64(key)
			keyNum++
		}
		if keyNum == 2 {
			assert.Equal(t, 1., math.Abs(keys[0]-keys[1])) // Maximum imbalance of 1
		}
		assert.Equal(t, n, getTotal(histo))
	}
	// Buckets must tile the index range in order
	pm := NewPartitionMap(5, 23)
	last := 0
	for b := 0; b < 5; b++ {
		lo, hi := pm.GetBucketRange(b)
		assert.Equal(t, last, lo)
		assert.True(t, hi > lo)
		last = hi
	}
	assert.Equal(t, 23, last)
}

func TestMath(t *testing.T) {
	assert.Equal(t, 8., POW(2, 3))
	assert.Equal(t, 0.25, POW(2, -2))
	assert.Equal(t, 1., POW(42, 0))
	assert.InDelta(t, math.Pow(1.5, 9), POW(1.5, 9), 1e-12)

	assert.Equal(t, 1., Sign(0.3))
	assert.Equal(t, -1., Sign(-12))
	assert.Equal(t, 0., Sign(0))

	v := ConstArray(4, 2.5)
	assert.Equal(t, []float64{2.5, 2.5, 2.5, 2.5}, v)
}
