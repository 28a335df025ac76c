package query

import (
	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/lanelet-query/entity"
	"github.com/tsinghua-fib-lab/lanelet-query/entity/lanelet"
	"github.com/tsinghua-fib-lab/lanelet-query/utils/geom"
)

// 线/面要素的type取值
const (
	TypeCurbstone         = "curbstone"
	TypeObstacle          = "obstacle"
	TypeParkingLot        = "parking_lot"
	TypeParkingSpace      = "parking_space"
	TypeFence             = "fence"
	TypeGuardRail         = "guard_rail"
	TypeWall              = "wall"
	TypePedestrianMarking = "pedestrian_marking"

	// Lanelet上引用路径点折线的属性名
	AttrWaypoints = "waypoints"
)

// AttributeLanelets 筛选属性name的值等于value的Lanelet，保持输入顺序，缺少该属性的Lanelet被排除
func AttributeLanelets(lls []entity.ILanelet, name, value string) []entity.ILanelet {
	return lo.Filter(lls, func(l entity.ILanelet, _ int) bool {
		v, ok := l.Attributes().Get(name)
		return ok && v == value
	})
}

// SubtypeLanelets 筛选subtype等于给定值的Lanelet
func SubtypeLanelets(lls []entity.ILanelet, subtype string) []entity.ILanelet {
	return AttributeLanelets(lls, entity.AttrSubtype, subtype)
}

func RoadLanelets(lls []entity.ILanelet) []entity.ILanelet {
	return SubtypeLanelets(lls, lanelet.SubtypeRoad)
}

func CrosswalkLanelets(lls []entity.ILanelet) []entity.ILanelet {
	return SubtypeLanelets(lls, lanelet.SubtypeCrosswalk)
}

func WalkwayLanelets(lls []entity.ILanelet) []entity.ILanelet {
	return SubtypeLanelets(lls, lanelet.SubtypeWalkway)
}

func ShoulderLanelets(lls []entity.ILanelet) []entity.ILanelet {
	return SubtypeLanelets(lls, lanelet.SubtypeRoadShoulder)
}

func BicycleLaneLanelets(lls []entity.ILanelet) []entity.ILanelet {
	return SubtypeLanelets(lls, lanelet.SubtypeBicycleLane)
}

// LaneletLayer 地图中的全部Lanelet，地图为nil时返回空
func LaneletLayer(m entity.ILaneletMap) []entity.ILanelet {
	if m == nil {
		log.Error("no map received")
		return []entity.ILanelet{}
	}
	return m.Lanelets()
}

// typeOf type属性，缺失时为"none"
func typeOf(attrs entity.Attributes) string {
	return attrs.GetOr(entity.AttrType, entity.AttrValueNone)
}

// PolygonsByType 地图中type等于给定值的多边形
func PolygonsByType(m entity.ILaneletMap, typ string) []*entity.Polygon3d {
	if m == nil {
		log.Error("no map received")
		return []*entity.Polygon3d{}
	}
	return lo.Filter(m.Polygons(), func(p *entity.Polygon3d, _ int) bool {
		return typeOf(p.Attrs) == typ
	})
}

// LineStringsWithType 地图中type等于给定值的折线
func LineStringsWithType(m entity.ILaneletMap, typ string) []*entity.LineString3d {
	return lineStringsWhere(m, func(ls *entity.LineString3d) bool {
		return typeOf(ls.Attrs) == typ
	})
}

func lineStringsWhere(m entity.ILaneletMap, pred func(*entity.LineString3d) bool) []*entity.LineString3d {
	if m == nil {
		log.Error("no map received")
		return []*entity.LineString3d{}
	}
	return lo.Filter(m.LineStrings(), func(ls *entity.LineString3d, _ int) bool {
		return pred(ls)
	})
}

func Curbstones(m entity.ILaneletMap) []*entity.LineString3d {
	return LineStringsWithType(m, TypeCurbstone)
}

func ObstaclePolygons(m entity.ILaneletMap) []*entity.Polygon3d {
	return PolygonsByType(m, TypeObstacle)
}

func ParkingLots(m entity.ILaneletMap) []*entity.Polygon3d {
	return PolygonsByType(m, TypeParkingLot)
}

func ParkingSpaces(m entity.ILaneletMap) []*entity.LineString3d {
	return LineStringsWithType(m, TypeParkingSpace)
}

func Fences(m entity.ILaneletMap) []*entity.LineString3d {
	return LineStringsWithType(m, TypeFence)
}

// Partitions 分隔物：护栏、围栏与墙
func Partitions(m entity.ILaneletMap) []*entity.LineString3d {
	return lineStringsWhere(m, func(ls *entity.LineString3d) bool {
		switch typeOf(ls.Attrs) {
		case TypeGuardRail, TypeFence, TypeWall:
			return true
		}
		return false
	})
}

// PedestrianPolygonMarkings 面状人行标线（至少3个点）
func PedestrianPolygonMarkings(m entity.ILaneletMap) []*entity.LineString3d {
	return lineStringsWhere(m, func(ls *entity.LineString3d) bool {
		return typeOf(ls.Attrs) == TypePedestrianMarking && ls.Size() >= 3
	})
}

// PedestrianLineMarkings 线状人行标线（少于3个点）
func PedestrianLineMarkings(m entity.ILaneletMap) []*entity.LineString3d {
	return lineStringsWhere(m, func(ls *entity.LineString3d) bool {
		return typeOf(ls.Attrs) == TypePedestrianMarking && ls.Size() < 3
	})
}

// Waypoints Lanelet通过waypoints属性引用的路径点折线
// 说明：引用无法解析（非整数或折线不存在）时记录警告并跳过
func Waypoints(m entity.ILaneletMap) []*entity.LineString3d {
	res := make([]*entity.LineString3d, 0)
	for _, l := range LaneletLayer(m) {
		if !l.HasAttribute(AttrWaypoints) {
			continue
		}
		id, err := l.Attributes().GetInt64(AttrWaypoints)
		if err != nil {
			log.Warnf("%v: bad waypoints attribute: %v", l, err)
			continue
		}
		ls, ok := m.LineString(id)
		if !ok {
			log.Warnf("%v: no waypoints linestring %d", l, id)
			continue
		}
		res = append(res, ls)
	}
	return res
}

// LaneletsWithinRange 多边形到点的距离不超过r的Lanelet，保持输入顺序
func LaneletsWithinRange(lls []entity.ILanelet, point geometry.Point, r float64) []entity.ILanelet {
	p := geom.ToPoint2d(point)
	return lo.Filter(lls, func(l entity.ILanelet, _ int) bool {
		return geom.PointToPolygonDistance(l.Polygon2d(), p) <= r
	})
}

// UniqueByID 按ID去重，保留首次出现的元素并保持顺序
func UniqueByID(lls []entity.ILanelet) []entity.ILanelet {
	return lo.UniqBy(lls, func(l entity.ILanelet) int64 {
		return l.ID()
	})
}
