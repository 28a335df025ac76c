package query_test

import (
	"git.fiblab.net/general/common/v2/geometry"
	"github.com/paulmach/orb"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/lanelet-query/entity"
	"github.com/tsinghua-fib-lab/lanelet-query/entity/lanelet"
	"github.com/tsinghua-fib-lab/lanelet-query/entity/primitive"
)

// 沿+x方向行驶的矩形Lanelet，x∈[x0,x1]，y∈[y0,y1]
func eastLanelet(id int64, x0, x1, y0, y1 float64) *lanelet.Lanelet {
	return lanelet.New(id,
		[]geometry.Point{{X: x0, Y: y1}, {X: x1, Y: y1}},
		[]geometry.Point{{X: x0, Y: y0}, {X: x1, Y: y0}},
		entity.Attributes{entity.AttrType: lanelet.TypeLanelet, entity.AttrSubtype: lanelet.SubtypeRoad},
	)
}

// 沿+y方向行驶的矩形Lanelet
func northLanelet(id int64, x0, x1, y0, y1 float64) *lanelet.Lanelet {
	return lanelet.New(id,
		[]geometry.Point{{X: x0, Y: y0}, {X: x0, Y: y1}},
		[]geometry.Point{{X: x1, Y: y0}, {X: x1, Y: y1}},
		entity.Attributes{entity.AttrType: lanelet.TypeLanelet, entity.AttrSubtype: lanelet.SubtypeRoad},
	)
}

func rect(id int64, typ string, x0, x1, y0, y1 float64) *entity.Polygon3d {
	return &entity.Polygon3d{
		ID:     id,
		Points: []geometry.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}},
		Attrs:  entity.Attributes{entity.AttrType: typ},
	}
}

func line(id int64, typ string, pts ...geometry.Point) *entity.LineString3d {
	return &entity.LineString3d{ID: id, Points: pts, Attrs: entity.Attributes{entity.AttrType: typ}}
}

func ids(lls []entity.ILanelet) []int64 {
	return lo.Map(lls, func(l entity.ILanelet, _ int) int64 { return l.ID() })
}

func seqIDs(seqs [][]entity.ILanelet) [][]int64 {
	return lo.Map(seqs, func(s []entity.ILanelet, _ int) []int64 { return ids(s) })
}

func asLanelets(lls ...*lanelet.Lanelet) []entity.ILanelet {
	return lo.Map(lls, func(l *lanelet.Lanelet, _ int) entity.ILanelet { return l })
}

// testMap 由Lanelet管理器与图层管理器组成的地图
type testMap struct {
	lanelets   *lanelet.LaneletManager
	primitives *primitive.PrimitiveManager
}

func newTestMap(lls []entity.ILanelet, polygons []*entity.Polygon3d, lineStrings []*entity.LineString3d) *testMap {
	m := &testMap{lanelets: lanelet.NewManager(), primitives: primitive.NewManager()}
	m.lanelets.InitWith(lls)
	m.primitives.Add(polygons, lineStrings)
	return m
}

func (m *testMap) Lanelets() []entity.ILanelet { return m.lanelets.All() }
func (m *testMap) Polygons() []*entity.Polygon3d { return m.primitives.Polygons() }
func (m *testMap) LineStrings() []*entity.LineString3d { return m.primitives.LineStrings() }
func (m *testMap) LineString(id int64) (*entity.LineString3d, bool) {
	return m.primitives.LineString(id)
}
func (m *testMap) SearchPolygons(b orb.Bound) []*entity.Polygon3d {
	return m.primitives.SearchPolygons(b)
}
func (m *testMap) SearchLineStrings(b orb.Bound) []*entity.LineString3d {
	return m.primitives.SearchLineStrings(b)
}
