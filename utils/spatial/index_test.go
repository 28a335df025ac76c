package spatial_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/lanelet-query/utils/spatial"
)

func TestIndexSearch(t *testing.T) {
	bounds := []orb.Bound{
		{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}},
		{Min: orb.Point{20, 20}, Max: orb.Point{30, 30}},
		{Min: orb.Point{5, 5}, Max: orb.Point{5, 5}},        // 点
		{Min: orb.Point{10, 0}, Max: orb.Point{15, 0}},      // 水平线段
		{Min: orb.Point{1, 1}, Max: orb.Point{-1, -1}},      // 空
	}
	idx := spatial.NewIndex([]int{0, 1, 2, 3, 4}, func(i int) orb.Bound { return bounds[i] })
	assert.Equal(t, 4, idx.Len())

	assert.Equal(t, []int{0, 2}, idx.Search(orb.Bound{Min: orb.Point{4, 4}, Max: orb.Point{6, 6}}))
	assert.Equal(t, []int{1}, idx.Search(orb.Bound{Min: orb.Point{25, 25}, Max: orb.Point{25, 25}}))
	// 仅边界接触
	assert.Equal(t, []int{0, 3}, idx.Search(orb.Bound{Min: orb.Point{10, -5}, Max: orb.Point{12, 0}}))
	assert.Empty(t, idx.Search(orb.Bound{Min: orb.Point{40, 40}, Max: orb.Point{50, 50}}))

	var empty *spatial.Index[int]
	assert.Nil(t, empty.Search(bounds[0]))
}

func TestIndexManyElements(t *testing.T) {
	values := make([]int, 1000)
	for i := range values {
		values[i] = i
	}
	idx := spatial.NewIndex(values, func(i int) orb.Bound {
		x := float64(i % 100)
		y := float64(i / 100)
		return orb.Bound{Min: orb.Point{x, y}, Max: orb.Point{x + 0.5, y + 0.5}}
	})
	got := idx.Search(orb.Bound{Min: orb.Point{10.6, 2.4}, Max: orb.Point{12.4, 3.4}})
	assert.Equal(t, []int{211, 212, 311, 312}, got)
}
