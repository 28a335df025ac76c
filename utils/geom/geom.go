// 二维几何工具，基于github.com/paulmach/orb，所有距离与包含判断均在xy平面上进行（忽略z）
package geom

import (
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Epsilon 双精度浮点数的机器精度（1与大于1的最小浮点数之差）
var Epsilon = math.Nextafter(1, 2) - 1

// ToPoint2d 3D点投影到xy平面
func ToPoint2d(p geometry.Point) orb.Point {
	return orb.Point{p.X, p.Y}
}

// ToLineString2d 3D折线投影到xy平面
func ToLineString2d(pts []geometry.Point) orb.LineString {
	ls := make(orb.LineString, len(pts))
	for i, p := range pts {
		ls[i] = ToPoint2d(p)
	}
	return ls
}

// ToPolygon2d 3D点列投影为闭合的二维多边形（自动闭合首尾）
func ToPolygon2d(pts []geometry.Point) orb.Polygon {
	ring := make(orb.Ring, 0, len(pts)+1)
	for _, p := range pts {
		ring = append(ring, ToPoint2d(p))
	}
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return orb.Polygon{ring}
}

// PolygonContains 点是否在多边形内（边界上的点视为在内）
func PolygonContains(poly orb.Polygon, p orb.Point) bool {
	if len(poly) == 0 || len(poly[0]) < 3 {
		return false
	}
	return planar.PolygonContains(poly, p)
}

// PointToPolygonDistance 点到多边形区域的距离，点在多边形内时为0
// 说明：空多边形返回+Inf
func PointToPolygonDistance(poly orb.Polygon, p orb.Point) float64 {
	return math.Sqrt(PointToPolygonComparableDistance(poly, p))
}

// PointToPolygonComparableDistance 点到多边形区域距离的平方
// 功能：与真实距离单调一致，但省去开方，用于只需比较大小的场景
func PointToPolygonComparableDistance(poly orb.Polygon, p orb.Point) float64 {
	if PolygonContains(poly, p) {
		return 0
	}
	min := math.Inf(1)
	for _, ring := range poly {
		if len(ring) == 1 {
			min = math.Min(min, planar.DistanceSquared(ring[0], p))
			continue
		}
		for i := 1; i < len(ring); i++ {
			min = math.Min(min, planar.DistanceFromSegmentSquared(ring[i-1], ring[i], p))
		}
	}
	return min
}

// PointToLineStringDistance 点到折线的距离，空折线返回+Inf
func PointToLineStringDistance(ls orb.LineString, p orb.Point) float64 {
	switch len(ls) {
	case 0:
		return math.Inf(1)
	case 1:
		return planar.Distance(ls[0], p)
	}
	min := math.Inf(1)
	for i := 1; i < len(ls); i++ {
		min = math.Min(min, planar.DistanceFromSegment(ls[i-1], ls[i], p))
	}
	return min
}

// LineStringToPolygonDistance 折线到多边形区域的距离
// 算法说明：
// 1. 折线任一点在多边形内，距离为0
// 2. 否则取折线各段与多边形各边的最小线段距离（相交为0）
// 说明：空折线或空多边形返回+Inf
func LineStringToPolygonDistance(ls orb.LineString, poly orb.Polygon) float64 {
	if len(ls) == 0 || len(poly) == 0 || len(poly[0]) == 0 {
		return math.Inf(1)
	}
	for _, p := range ls {
		if PolygonContains(poly, p) {
			return 0
		}
	}
	if len(ls) == 1 {
		return PointToPolygonDistance(poly, ls[0])
	}
	min := math.Inf(1)
	for i := 1; i < len(ls); i++ {
		for _, ring := range poly {
			min = math.Min(min, segmentToRingDistance(ls[i-1], ls[i], ring))
			if min == 0 {
				return 0
			}
		}
	}
	return min
}

// PolygonToPolygonDistance 两个多边形区域之间的距离，相交或包含时为0
func PolygonToPolygonDistance(a, b orb.Polygon) float64 {
	if len(a) == 0 || len(b) == 0 || len(a[0]) == 0 || len(b[0]) == 0 {
		return math.Inf(1)
	}
	for _, p := range a[0] {
		if PolygonContains(b, p) {
			return 0
		}
	}
	for _, p := range b[0] {
		if PolygonContains(a, p) {
			return 0
		}
	}
	min := math.Inf(1)
	for _, ringA := range a {
		for i := 1; i < len(ringA); i++ {
			for _, ringB := range b {
				min = math.Min(min, segmentToRingDistance(ringA[i-1], ringA[i], ringB))
				if min == 0 {
					return 0
				}
			}
		}
	}
	return min
}

func segmentToRingDistance(a, b orb.Point, ring orb.Ring) float64 {
	if len(ring) == 1 {
		return planar.DistanceFromSegment(a, b, ring[0])
	}
	min := math.Inf(1)
	for j := 1; j < len(ring); j++ {
		min = math.Min(min, SegmentDistance(a, b, ring[j-1], ring[j]))
	}
	return min
}

// SegmentDistance 线段ab与线段cd之间的最短距离，相交时为0
func SegmentDistance(a, b, c, d orb.Point) float64 {
	if SegmentsIntersect(a, b, c, d) {
		return 0
	}
	return math.Min(
		math.Min(planar.DistanceFromSegment(c, d, a), planar.DistanceFromSegment(c, d, b)),
		math.Min(planar.DistanceFromSegment(a, b, c), planar.DistanceFromSegment(a, b, d)),
	)
}

// SegmentsIntersect 线段ab与线段cd是否相交（含端点接触与共线重叠）
func SegmentsIntersect(a, b, c, d orb.Point) bool {
	d1 := orientation(c, d, a)
	d2 := orientation(c, d, b)
	d3 := orientation(a, b, c)
	d4 := orientation(a, b, d)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	switch {
	case d1 == 0 && onSegment(c, d, a):
		return true
	case d2 == 0 && onSegment(c, d, b):
		return true
	case d3 == 0 && onSegment(a, b, c):
		return true
	case d4 == 0 && onSegment(a, b, d):
		return true
	}
	return false
}

// 叉积 (q-p)x(r-p)
func orientation(p, q, r orb.Point) float64 {
	return (q[0]-p[0])*(r[1]-p[1]) - (q[1]-p[1])*(r[0]-p[0])
}

// r在p、q张成的包围盒内（已知三点共线）
func onSegment(p, q, r orb.Point) bool {
	return math.Min(p[0], q[0]) <= r[0] && r[0] <= math.Max(p[0], q[0]) &&
		math.Min(p[1], q[1]) <= r[1] && r[1] <= math.Max(p[1], q[1])
}

// NormalizeRadian 将角度归一化到[-π, π)
func NormalizeRadian(rad float64) float64 {
	value := math.Mod(rad, 2*math.Pi)
	if -math.Pi <= value && value < math.Pi {
		return value
	}
	return value - math.Copysign(2*math.Pi, value)
}

// Bearing 从a指向b的方位角（xy平面）
func Bearing(a, b geometry.Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// ClosestSegment 折线上与点p（xy平面）最近的线段
// 返回：线段起点、终点，折线少于2个点时ok=false
// 说明：距离相同时取靠前的线段
func ClosestSegment(p orb.Point, line []geometry.Point) (from, to geometry.Point, ok bool) {
	if len(line) < 2 {
		return
	}
	min := math.Inf(1)
	for i := 1; i < len(line); i++ {
		d := planar.DistanceFromSegmentSquared(ToPoint2d(line[i-1]), ToPoint2d(line[i]), p)
		if d < min {
			min = d
			from, to, ok = line[i-1], line[i], true
		}
	}
	return
}

// Length3d 折线的3D长度
func Length3d(line []geometry.Point) float64 {
	length := 0.
	for i := 1; i < len(line); i++ {
		dx := line[i].X - line[i-1].X
		dy := line[i].Y - line[i-1].Y
		dz := line[i].Z - line[i-1].Z
		length += math.Sqrt(dx*dx + dy*dy + dz*dz)
	}
	return length
}

// PointBound 以点为中心、半边长为pad的包围盒
func PointBound(p orb.Point, pad float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{p[0] - pad, p[1] - pad},
		Max: orb.Point{p[0] + pad, p[1] + pad},
	}
}
