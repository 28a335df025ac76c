package geom_test

import (
	"math"
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/lanelet-query/utils/geom"
)

func square() orb.Polygon {
	return geom.ToPolygon2d([]geometry.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}})
}

func TestToPolygon2dClosesRing(t *testing.T) {
	poly := square()
	assert.Len(t, poly[0], 5)
	assert.Equal(t, poly[0][0], poly[0][4])
	// 已闭合的点列不重复闭合
	closed := geom.ToPolygon2d([]geometry.Point{{X: 0}, {X: 1}, {Y: 1}, {X: 0}})
	assert.Len(t, closed[0], 4)
}

func TestPointToPolygonDistance(t *testing.T) {
	poly := square()
	assert.Zero(t, geom.PointToPolygonDistance(poly, orb.Point{2, 2}))
	assert.Zero(t, geom.PointToPolygonDistance(poly, orb.Point{4, 2}))
	assert.InDelta(t, 3, geom.PointToPolygonDistance(poly, orb.Point{7, 2}), 1e-12)
	assert.InDelta(t, 5, geom.PointToPolygonDistance(poly, orb.Point{7, 8}), 1e-12)
	assert.InDelta(t, 25, geom.PointToPolygonComparableDistance(poly, orb.Point{7, 8}), 1e-12)
	assert.True(t, math.IsInf(geom.PointToPolygonDistance(orb.Polygon{}, orb.Point{}), 1))
}

func TestLineStringToPolygonDistance(t *testing.T) {
	poly := square()
	// 穿过多边形
	assert.Zero(t, geom.LineStringToPolygonDistance(orb.LineString{{-1, 2}, {5, 2}}, poly))
	// 位于多边形内
	assert.Zero(t, geom.LineStringToPolygonDistance(orb.LineString{{1, 1}, {2, 2}}, poly))
	// 接触边界
	assert.Zero(t, geom.LineStringToPolygonDistance(orb.LineString{{4, 5}, {4, 4}}, poly))
	assert.InDelta(t, 2, geom.LineStringToPolygonDistance(orb.LineString{{6, -3}, {6, 10}}, poly), 1e-12)
	assert.InDelta(t, 1, geom.LineStringToPolygonDistance(orb.LineString{{2, 5}}, poly), 1e-12)
	assert.True(t, math.IsInf(geom.LineStringToPolygonDistance(orb.LineString{}, poly), 1))
}

func TestPolygonToPolygonDistance(t *testing.T) {
	poly := square()
	inner := geom.ToPolygon2d([]geometry.Point{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 2}})
	cross := geom.ToPolygon2d([]geometry.Point{{X: 2, Y: -1}, {X: 3, Y: -1}, {X: 3, Y: 5}, {X: 2, Y: 5}})
	touch := geom.ToPolygon2d([]geometry.Point{{X: 4, Y: 0}, {X: 6, Y: 0}, {X: 6, Y: 4}, {X: 4, Y: 4}})
	far := geom.ToPolygon2d([]geometry.Point{{X: 7, Y: 0}, {X: 8, Y: 0}, {X: 8, Y: 4}})
	assert.Zero(t, geom.PolygonToPolygonDistance(poly, inner))
	assert.Zero(t, geom.PolygonToPolygonDistance(inner, poly))
	assert.Zero(t, geom.PolygonToPolygonDistance(poly, cross))
	assert.Zero(t, geom.PolygonToPolygonDistance(poly, touch))
	assert.InDelta(t, 3, geom.PolygonToPolygonDistance(poly, far), 1e-12)
}

func TestSegmentsIntersect(t *testing.T) {
	assert.True(t, geom.SegmentsIntersect(orb.Point{0, 0}, orb.Point{2, 2}, orb.Point{0, 2}, orb.Point{2, 0}))
	assert.True(t, geom.SegmentsIntersect(orb.Point{0, 0}, orb.Point{2, 0}, orb.Point{1, 0}, orb.Point{3, 0}))
	assert.True(t, geom.SegmentsIntersect(orb.Point{0, 0}, orb.Point{2, 0}, orb.Point{2, 0}, orb.Point{2, 5}))
	assert.False(t, geom.SegmentsIntersect(orb.Point{0, 0}, orb.Point{2, 0}, orb.Point{3, 0}, orb.Point{4, 0}))
	assert.False(t, geom.SegmentsIntersect(orb.Point{0, 0}, orb.Point{2, 0}, orb.Point{0, 1}, orb.Point{2, 1}))
	assert.InDelta(t, 1, geom.SegmentDistance(orb.Point{0, 0}, orb.Point{2, 0}, orb.Point{0, 1}, orb.Point{2, 1}), 1e-12)
}

func TestNormalizeRadian(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{math.Pi, -math.Pi},
		{-math.Pi, -math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, geom.NormalizeRadian(c.in), 1e-9, "in %v", c.in)
	}
}

func TestClosestSegment(t *testing.T) {
	line := []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}
	from, to, ok := geom.ClosestSegment(orb.Point{3, 1}, line)
	assert.True(t, ok)
	assert.Equal(t, line[0], from)
	assert.Equal(t, line[1], to)
	assert.InDelta(t, 0, geom.Bearing(from, to), 1e-12)

	from, to, ok = geom.ClosestSegment(orb.Point{11, 6}, line)
	assert.True(t, ok)
	assert.InDelta(t, math.Pi/2, geom.Bearing(from, to), 1e-12)

	_, _, ok = geom.ClosestSegment(orb.Point{}, line[:1])
	assert.False(t, ok)
}

func TestLength3d(t *testing.T) {
	assert.InDelta(t, 5, geom.Length3d([]geometry.Point{{}, {X: 3, Z: 4}}), 1e-12)
	assert.Zero(t, geom.Length3d(nil))
	assert.Greater(t, geom.Epsilon, 0.)
	assert.Equal(t, 1., 1+geom.Epsilon/2)
}
