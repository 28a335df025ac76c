package query

import (
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/paulmach/orb"
	"github.com/tsinghua-fib-lab/lanelet-query/entity"
	"github.com/tsinghua-fib-lab/lanelet-query/utils/geom"
)

// 停车相关关联
// 停车场为多边形（type=parking_lot），停车位为折线（type=parking_space，由前端指向后端）
// 两个要素的距离小于LinkEpsilon（接触或重叠）视为相连

// LinkedParkingLotOfLanelet 与Lanelet相连的停车场，多个时取lots中第一个
func (q *Querier) LinkedParkingLotOfLanelet(l entity.ILanelet, lots []*entity.Polygon3d) (*entity.Polygon3d, bool) {
	for _, lot := range lots {
		if geom.PolygonToPolygonDistance(l.Polygon2d(), lot.Polygon2d()) < q.opts.LinkEpsilon {
			return lot, true
		}
	}
	return nil, false
}

// LinkedParkingLotOfPoint 包含（或边界经过）该点的停车场，多个时取lots中第一个
func (q *Querier) LinkedParkingLotOfPoint(point geometry.Point, lots []*entity.Polygon3d) (*entity.Polygon3d, bool) {
	p := geom.ToPoint2d(point)
	for _, lot := range lots {
		if geom.PointToPolygonDistance(lot.Polygon2d(), p) < q.opts.LinkEpsilon {
			return lot, true
		}
	}
	return nil, false
}

// LinkedParkingLotOfPointInMap 包含该点的停车场
// 算法说明：先用空间索引按点的包围盒筛选候选多边形，仅保留type=parking_lot者，再精确计算距离
func (q *Querier) LinkedParkingLotOfPointInMap(point geometry.Point, m entity.ILaneletMap) (*entity.Polygon3d, bool) {
	if m == nil {
		log.Error("no map received")
		return nil, false
	}
	candidates := m.SearchPolygons(geom.PointBound(geom.ToPoint2d(point), q.opts.LinkEpsilon))
	lots := make([]*entity.Polygon3d, 0, len(candidates))
	for _, c := range candidates {
		if typeOf(c.Attrs) == TypeParkingLot {
			lots = append(lots, c)
		}
	}
	return q.LinkedParkingLotOfPoint(point, lots)
}

// LinkedParkingLotOfParkingSpace 与停车位相连的停车场，多个时取lots中第一个
func (q *Querier) LinkedParkingLotOfParkingSpace(
	space *entity.LineString3d, lots []*entity.Polygon3d,
) (*entity.Polygon3d, bool) {
	ls := space.LineString2d()
	for _, lot := range lots {
		if geom.LineStringToPolygonDistance(ls, lot.Polygon2d()) < q.opts.LinkEpsilon {
			return lot, true
		}
	}
	return nil, false
}

// LinkedParkingSpacesOfParkingLot 与停车场相连的全部停车位，保持输入顺序
func (q *Querier) LinkedParkingSpacesOfParkingLot(
	lot *entity.Polygon3d, spaces []*entity.LineString3d,
) []*entity.LineString3d {
	poly := lot.Polygon2d()
	res := make([]*entity.LineString3d, 0)
	for _, space := range spaces {
		if geom.LineStringToPolygonDistance(space.LineString2d(), poly) < q.opts.LinkEpsilon {
			res = append(res, space)
		}
	}
	return res
}

// LinkedLaneletsOfParkingLot 与停车场重叠或接触的全部Lanelet，保持输入顺序
func (q *Querier) LinkedLaneletsOfParkingLot(lot *entity.Polygon3d, roadLanelets []entity.ILanelet) []entity.ILanelet {
	poly := lot.Polygon2d()
	res := make([]entity.ILanelet, 0)
	for _, l := range roadLanelets {
		if geom.PolygonToPolygonDistance(l.Polygon2d(), poly) < q.opts.LinkEpsilon {
			res = append(res, l)
		}
	}
	return res
}

// LinkedLaneletsOfParkingSpace 停车位可驶入的全部Lanelet
// 算法说明：
// 1. 找到停车位所在的停车场，只考虑与该停车场相连的Lanelet
// 2. 停车位与Lanelet距离不超过ParkingDistanceThreshold，且停车位朝向该Lanelet（见facing）
func (q *Querier) LinkedLaneletsOfParkingSpace(
	space *entity.LineString3d, roadLanelets []entity.ILanelet, lots []*entity.Polygon3d,
) []entity.ILanelet {
	res := make([]entity.ILanelet, 0)
	if space.Size() == 0 {
		log.Warnf("%v: empty parking space, skipped", space)
		return res
	}
	lot, ok := q.LinkedParkingLotOfParkingSpace(space, lots)
	if !ok {
		return res
	}
	for _, l := range q.LinkedLaneletsOfParkingLot(lot, roadLanelets) {
		if q.facing(space, l) {
			res = append(res, l)
		}
	}
	return res
}

// LinkedLaneletOfParkingSpace 停车位可驶入的Lanelet中距离最近的一个
func (q *Querier) LinkedLaneletOfParkingSpace(
	space *entity.LineString3d, roadLanelets []entity.ILanelet, lots []*entity.Polygon3d,
) (entity.ILanelet, bool) {
	var linked entity.ILanelet
	minDistance := math.MaxFloat64
	ls := space.LineString2d()
	for _, l := range q.LinkedLaneletsOfParkingSpace(space, roadLanelets, lots) {
		if distance := geom.LineStringToPolygonDistance(ls, l.Polygon2d()); distance < minDistance {
			linked = l
			minDistance = distance
		}
	}
	return linked, linked != nil
}

// LinkedParkingSpacesOfLanelet 可从Lanelet驶入的全部停车位
// 说明：只考虑与Lanelet同一停车场的停车位，判定条件与LinkedLaneletsOfParkingSpace相同
func (q *Querier) LinkedParkingSpacesOfLanelet(
	l entity.ILanelet, spaces []*entity.LineString3d, lots []*entity.Polygon3d,
) []*entity.LineString3d {
	res := make([]*entity.LineString3d, 0)
	lot, ok := q.LinkedParkingLotOfLanelet(l, lots)
	if !ok {
		return res
	}
	for _, space := range q.LinkedParkingSpacesOfParkingLot(lot, spaces) {
		if space.Size() == 0 {
			log.Warnf("%v: empty parking space, skipped", space)
			continue
		}
		if q.facing(space, l) {
			res = append(res, space)
		}
	}
	return res
}

// facing 停车位是否靠近并朝向Lanelet
// 算法说明：
// 1. 停车位到Lanelet多边形的距离超过ParkingDistanceThreshold时不相连
// 2. 记停车位方向d=后端-前端（不归一化），从前端-d*阈值到后端构造探测线段，
// 探测线段与Lanelet多边形相交（距离小于LinkEpsilon）即朝向该Lanelet
func (q *Querier) facing(space *entity.LineString3d, l entity.ILanelet) bool {
	poly := l.Polygon2d()
	if geom.LineStringToPolygonDistance(space.LineString2d(), poly) > q.opts.ParkingDistanceThreshold {
		return false
	}
	front, back := geom.ToPoint2d(space.Front()), geom.ToPoint2d(space.Back())
	k := q.opts.ParkingDistanceThreshold
	start := orb.Point{front[0] - (back[0]-front[0])*k, front[1] - (back[1]-front[1])*k}
	probe := orb.LineString{start, back}
	return geom.LineStringToPolygonDistance(probe, poly) < q.opts.LinkEpsilon
}

// LinkedLaneletsOfParkingSpaceInMap 使用地图中的道路Lanelet与停车场
func (q *Querier) LinkedLaneletsOfParkingSpaceInMap(space *entity.LineString3d, m entity.ILaneletMap) []entity.ILanelet {
	return q.LinkedLaneletsOfParkingSpace(space, RoadLanelets(LaneletLayer(m)), ParkingLots(m))
}

// LinkedLaneletOfParkingSpaceInMap 使用地图中的道路Lanelet与停车场
func (q *Querier) LinkedLaneletOfParkingSpaceInMap(space *entity.LineString3d, m entity.ILaneletMap) (entity.ILanelet, bool) {
	return q.LinkedLaneletOfParkingSpace(space, RoadLanelets(LaneletLayer(m)), ParkingLots(m))
}

// LinkedParkingSpacesOfLaneletInMap 使用地图中的停车位与停车场
func (q *Querier) LinkedParkingSpacesOfLaneletInMap(l entity.ILanelet, m entity.ILaneletMap) []*entity.LineString3d {
	return q.LinkedParkingSpacesOfLanelet(l, ParkingSpaces(m), ParkingLots(m))
}
