package task

import (
	"fmt"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/lanelet-query/entity"
	"github.com/tsinghua-fib-lab/lanelet-query/query"
	"github.com/tsinghua-fib-lab/lanelet-query/utils/geom"
)

// 支持的查询操作
const (
	OpClosest            = "closest"             // 最近的道路Lanelet
	OpClosestConstrained = "closest_constrained" // 满足距离与朝向约束的最近道路Lanelet
	OpCurrent            = "current"             // 包含点的Lanelet
	OpNeighbors          = "neighbors"           // 点所在道路的可变道邻居
	OpAllNeighbors       = "all_neighbors"       // 点所在道路的全部相邻车道
	OpSucceeding         = "succeeding"          // Lanelet之后的车道序列
	OpPreceding          = "preceding"           // Lanelet之前的车道序列
	OpParkingLot         = "parking_lot"         // 包含点的停车场
	OpParkingSpaces      = "parking_spaces"      // 与Lanelet关联的停车位
	OpParkingLanelets    = "parking_lanelets"    // 与停车位关联的道路Lanelet
	OpWaypoints          = "waypoints"           // Lanelet引用的路径点折线
)

// Request 一次查询请求
type Request struct {
	Op          string      // 查询操作
	Pose        entity.Pose // 查询位置与朝向
	ID          int64       // 查询对象ID（Lanelet或停车位）
	Length      float64     // 车道序列的最小长度
	MaxDistance float64     // 约束查询的最大距离
	MaxYawDiff  float64     // 约束查询的最大朝向差（弧度）
	Exclude     []int64     // 前驱序列中不展开的Lanelet ID
}

// Run 执行查询，结果以GeoJSON要素集合返回
// 说明：Lanelet输出为多边形，停车场为多边形，停车位与路径点为折线，车道序列为中心线组成的多折线；
// 每个要素的properties中记录id与type等属性
func (ctx *Context) Run(req Request) (*geojson.FeatureCollection, error) {
	q := ctx.querier
	roads := query.RoadLanelets(ctx.Lanelets())
	fc := geojson.NewFeatureCollection()
	switch req.Op {
	case OpClosest:
		if l, ok := q.ClosestLanelet(roads, req.Pose); ok {
			fc.Append(laneletFeature(l))
		}
	case OpClosestConstrained:
		if l, ok := q.ClosestLaneletWithConstraints(roads, req.Pose, req.MaxDistance, req.MaxYawDiff); ok {
			fc.Append(laneletFeature(l))
		}
	case OpCurrent:
		// 先用空间索引缩小候选范围
		candidates := ctx.laneletManager.Search(geom.PointBound(geom.ToPoint2d(req.Pose.Position), q.Options().LinkEpsilon))
		lls, _ := q.CurrentLanelets(candidates, req.Pose.Position)
		appendLanelets(fc, lls)
	case OpNeighbors:
		appendLanelets(fc, q.LaneChangeableNeighborsAt(ctx.graph, roads, req.Pose.Position))
	case OpAllNeighbors:
		appendLanelets(fc, q.AllNeighborsAt(ctx.graph, roads, req.Pose.Position))
	case OpSucceeding, OpPreceding:
		l, err := ctx.laneletManager.GetOrError(req.ID)
		if err != nil {
			return nil, err
		}
		var seqs [][]entity.ILanelet
		if req.Op == OpSucceeding {
			seqs = q.SucceedingLaneletSequences(ctx.graph, l, req.Length)
		} else {
			excluded, failed := ctx.laneletManager.Find(req.Exclude)
			if len(req.Exclude) == 0 {
				excluded = nil
			}
			if len(failed) > 0 {
				log.Warnf("ignore missing excluded lanelets %v", failed)
			}
			seqs = q.PrecedingLaneletSequences(ctx.graph, l, req.Length, excluded)
		}
		for i, seq := range seqs {
			fc.Append(sequenceFeature(i, seq))
		}
	case OpParkingLot:
		if lot, ok := q.LinkedParkingLotOfPointInMap(req.Pose.Position, ctx); ok {
			fc.Append(polygonFeature(lot))
		}
	case OpParkingSpaces:
		l, err := ctx.laneletManager.GetOrError(req.ID)
		if err != nil {
			return nil, err
		}
		for _, space := range q.LinkedParkingSpacesOfLaneletInMap(l, ctx) {
			fc.Append(lineStringFeature(space))
		}
	case OpParkingLanelets:
		space, ok := ctx.LineString(req.ID)
		if !ok {
			return nil, fmt.Errorf("no id %d in linestring data", req.ID)
		}
		appendLanelets(fc, q.LinkedLaneletsOfParkingSpaceInMap(space, ctx))
	case OpWaypoints:
		for _, ls := range query.Waypoints(ctx) {
			fc.Append(lineStringFeature(ls))
		}
	default:
		return nil, errors.Errorf("unknown op %q", req.Op)
	}
	log.Debugf("%s: %d features", req.Op, len(fc.Features))
	return fc, nil
}

// Result 批量查询中单个请求的结果
type Result struct {
	FeatureCollection *geojson.FeatureCollection
	Err               error
}

// RunAll 并发执行多个查询，结果顺序与请求顺序一致
func (ctx *Context) RunAll(reqs []Request) []Result {
	return parallel.GoMap(reqs, func(req Request) Result {
		fc, err := ctx.Run(req)
		return Result{FeatureCollection: fc, Err: err}
	})
}

func appendLanelets(fc *geojson.FeatureCollection, lls []entity.ILanelet) {
	for _, l := range lls {
		fc.Append(laneletFeature(l))
	}
}

func withAttributes(f *geojson.Feature, id int64, attrs entity.Attributes) *geojson.Feature {
	f.ID = id
	for k, v := range attrs {
		f.Properties[k] = v
	}
	f.Properties["id"] = id
	return f
}

func laneletFeature(l entity.ILanelet) *geojson.Feature {
	return withAttributes(geojson.NewFeature(l.Polygon2d()), l.ID(), l.Attributes())
}

func polygonFeature(p *entity.Polygon3d) *geojson.Feature {
	return withAttributes(geojson.NewFeature(p.Polygon2d()), p.ID, p.Attrs)
}

func lineStringFeature(l *entity.LineString3d) *geojson.Feature {
	return withAttributes(geojson.NewFeature(l.LineString2d()), l.ID, l.Attrs)
}

// sequenceFeature 车道序列输出为各Lanelet中心线组成的多折线，properties.ids为序列中的Lanelet ID
func sequenceFeature(index int, seq []entity.ILanelet) *geojson.Feature {
	lines := lo.Map(seq, func(l entity.ILanelet, _ int) orb.LineString {
		return geom.ToLineString2d(l.CenterLine())
	})
	f := geojson.NewFeature(orb.MultiLineString(lines))
	f.ID = index
	f.Properties["ids"] = lo.Map(seq, func(l entity.ILanelet, _ int) int64 { return l.ID() })
	f.Properties["length"] = lo.SumBy(seq, func(l entity.ILanelet) float64 { return l.Length3d() })
	return f
}
