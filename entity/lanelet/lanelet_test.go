package lanelet_test

import (
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	geov2 "git.fiblab.net/sim/protos/v2/go/city/geo/v2"
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/lanelet-query/entity"
	"github.com/tsinghua-fib-lab/lanelet-query/entity/lanelet"
	"github.com/tsinghua-fib-lab/lanelet-query/utils/geom"
)

func TestNewLaneletGeometry(t *testing.T) {
	l := lanelet.New(1,
		[]geometry.Point{{X: 0, Y: 2}, {X: 10, Y: 2}},
		[]geometry.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}},
		nil,
	)
	assert.Equal(t, int64(1), l.ID())
	assert.Empty(t, l.Subtype())
	assert.False(t, l.HasAttribute(entity.AttrSubtype))

	line := l.CenterLine()
	require.Len(t, line, 3)
	for i, x := range []float64{0, 5, 10} {
		assert.InDelta(t, x, line[i].X, 1e-12)
		assert.InDelta(t, 1, line[i].Y, 1e-12)
	}
	assert.InDelta(t, 10, l.Length2d(), 1e-12)
	assert.InDelta(t, 10, l.Length3d(), 1e-12)
	assert.Equal(t, []float64{0, 5, 10}, l.CenterLineLengths())

	// 左边界+反向右边界，首尾闭合
	poly := l.Polygon2d()
	assert.Equal(t, orb.Ring{{0, 2}, {10, 2}, {10, 0}, {5, 0}, {0, 0}, {0, 2}}, poly[0])
	assert.Equal(t, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 2}}, l.Bound())
	assert.True(t, geom.PolygonContains(poly, orb.Point{3, 1}))
}

func TestLaneletSCoordinates(t *testing.T) {
	l := lanelet.New(1,
		[]geometry.Point{{X: 0, Y: 2}, {X: 10, Y: 2}},
		[]geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}},
		entity.Attributes{entity.AttrSubtype: lanelet.SubtypeRoad},
	)
	assert.Equal(t, lanelet.SubtypeRoad, l.Subtype())

	p := l.GetPositionByS(2.5)
	assert.InDelta(t, 2.5, p.X, 1e-12)
	assert.InDelta(t, 1, p.Y, 1e-12)
	// 超出范围时截断
	p = l.GetPositionByS(20)
	assert.InDelta(t, 10, p.X, 1e-12)
	assert.InDelta(t, 0, l.GetDirectionByS(5).Direction, 1e-12)

	assert.InDelta(t, 3, l.ProjectToLanelet(geometry.Point{X: 3, Y: 5}), 1e-9)
	assert.InDelta(t, 10, l.ProjectToLanelet(geometry.Point{X: 30, Y: 1}), 1e-9)
}

func TestLaneletLength3d(t *testing.T) {
	l := lanelet.New(1,
		[]geometry.Point{{X: 0, Y: 2, Z: 0}, {X: 3, Y: 2, Z: 4}},
		[]geometry.Point{{X: 0, Y: 0, Z: 0}, {X: 3, Y: 0, Z: 4}},
		nil,
	)
	assert.InDelta(t, 3, l.Length2d(), 1e-12)
	assert.InDelta(t, 5, l.Length3d(), 1e-12)
}

func TestLaneletWithoutBounds(t *testing.T) {
	l := lanelet.New(1, nil, nil, nil)
	assert.Empty(t, l.CenterLine())
	assert.Zero(t, l.Length2d())
	assert.Zero(t, l.Length3d())
	assert.Equal(t, geometry.Point{}, l.GetPositionByS(1))
	assert.Zero(t, l.ProjectToLanelet(geometry.Point{X: 1}))
}

func straightLane(id int32, typ mapv2.LaneType, y float64) *mapv2.Lane {
	return &mapv2.Lane{
		Id:       id,
		Type:     typ,
		Width:    4,
		MaxSpeed: 10,
		CenterLine: &geov2.Polyline{Nodes: []*geov2.XYPosition{
			{X: 0, Y: y},
			{X: 10, Y: y},
		}},
	}
}

func TestManagerInitFromPb(t *testing.T) {
	m := lanelet.NewManager()
	m.Init([]*mapv2.Lane{
		straightLane(2, mapv2.LaneType_LANE_TYPE_WALKING, 10),
		straightLane(1, mapv2.LaneType_LANE_TYPE_DRIVING, 0),
	})
	require.Len(t, m.All(), 2)
	assert.Equal(t, int64(1), m.All()[0].ID())
	assert.Equal(t, int64(2), m.All()[1].ID())

	l := m.Get(1)
	assert.Equal(t, lanelet.SubtypeRoad, l.Subtype())
	assert.Equal(t, lanelet.TypeLanelet, l.Attributes().GetOr(entity.AttrType, entity.AttrValueNone))
	assert.Equal(t, lanelet.SubtypeWalkway, m.Get(2).Subtype())

	// 中心线向左右各偏移半个车道宽度
	left, right := l.LeftBound(), l.RightBound()
	require.Len(t, left, 2)
	require.Len(t, right, 2)
	assert.InDelta(t, 2, left[0].Y, 1e-9)
	assert.InDelta(t, -2, right[1].Y, 1e-9)
	assert.InDelta(t, 10, right[1].X, 1e-9)
	assert.InDelta(t, 10, l.Length2d(), 1e-9)
	assert.True(t, geom.PolygonContains(l.Polygon2d(), orb.Point{5, 1.5}))
	assert.False(t, geom.PolygonContains(l.Polygon2d(), orb.Point{5, 2.5}))
}

func TestManagerLookup(t *testing.T) {
	m := lanelet.NewManager()
	m.InitWith([]entity.ILanelet{
		lanelet.New(3, []geometry.Point{{X: 20, Y: 2}, {X: 30, Y: 2}}, []geometry.Point{{X: 20}, {X: 30}}, nil),
		lanelet.New(1, []geometry.Point{{X: 0, Y: 2}, {X: 10, Y: 2}}, []geometry.Point{{X: 0}, {X: 10}}, nil),
	})

	l, err := m.GetOrError(3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), l.ID())
	_, err = m.GetOrError(2)
	assert.Error(t, err)
	assert.Panics(t, func() { m.Get(2) })

	found, failed := m.Find([]int64{3, 2, 1})
	assert.Len(t, found, 2)
	assert.Equal(t, []int64{2}, failed)
	all, failed := m.Find(nil)
	assert.Len(t, all, 2)
	assert.Empty(t, failed)

	hits := m.Search(geom.PointBound(orb.Point{25, 1}, 0.5))
	require.Len(t, hits, 1)
	assert.Equal(t, int64(3), hits[0].ID())
	// 两者包围盒均与查询框相交，按ID升序
	hits = m.Search(orb.Bound{Min: orb.Point{5, 0}, Max: orb.Point{25, 1}})
	require.Len(t, hits, 2)
	assert.Equal(t, int64(1), hits[0].ID())
	assert.Empty(t, m.Search(geom.PointBound(orb.Point{15, 1}, 0.5)))
}
